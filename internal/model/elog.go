package model

import "time"

// LogEntry - 전자 운전일지(E-Log) 항목
// 운영자가 직접 쓰거나 플랫폼이 자동으로 남기며 수정/삭제 불가
type LogEntry struct {
	ID           string         `json:"id"`
	PlantID      string         `json:"plant_id"`
	OperatorID   string         `json:"operator_id"`
	OperatorName string         `json:"operator_name,omitempty"`
	EntryType    string         `json:"entry_type"`
	Body         string         `json:"body"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type LogWriteRequest struct {
	EntryType string         `json:"entry_type" binding:"required"`
	Body      string         `json:"body" binding:"required"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type LogWriteResponse struct {
	Success bool   `json:"success"`
	EntryID string `json:"entry_id"`
}

type LogListResponse struct {
	Entries []LogEntry `json:"entries"`
	Total   int        `json:"total"`
}
