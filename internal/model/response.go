package model

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// SystemStatus - 외부 시스템 연결 상태 (대시보드용)
type SystemStatus struct {
	Name        string    `json:"name"`
	Connected   bool      `json:"connected"`
	Error       string    `json:"error,omitempty"`
	LastChecked time.Time `json:"last_checked"`
}

// PipelineRunResponse - 파이프라인 1회 실행 결과
type PipelineRunResponse struct {
	ReadingsStored  int      `json:"readings_stored"`
	ReadingsSkipped int      `json:"readings_skipped"`
	NewAlerts       int      `json:"new_alerts"`
	AlertIDs        []string `json:"alert_ids"`
}

// ReadingOut - 태그별 최신 측정값 (대시보드용)
// PlantID는 admin의 cross-plant 조회에서 행을 구분하기 위해 포함됨
type ReadingOut struct {
	PlantID     string    `json:"plant_id,omitempty"`
	Tag         string    `json:"tag"`
	Value       float64   `json:"value"`
	Unit        string    `json:"unit,omitempty"`
	Source      string    `json:"source"`
	LastUpdated time.Time `json:"last_updated"`
}

type MorningReviewRequest struct {
	Overrides map[string]float64 `json:"overrides,omitempty"`
}

type MorningReviewResponse struct {
	Success    bool   `json:"success"`
	WimsSynced bool   `json:"wims_synced"`
	Message    string `json:"message"`
}

type ShiftSummaryResponse struct {
	OperatorID        string `json:"operator_id"`
	OperatorName      string `json:"operator_name,omitempty"`
	SyncsCount        int    `json:"syncs_count"`
	AlertsHandled     int    `json:"alerts_handled"`
	WorkOrdersCreated int    `json:"work_orders_created"`
	TimeSavedMinutes  int    `json:"time_saved_minutes"`
}

type ShiftSignOffRequest struct {
	FinalNotes string `json:"final_notes,omitempty"`
}
