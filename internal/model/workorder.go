package model

import "time"

// WorkOrderRecord - CMMS에 작업 지시를 생성했을 때 남기는 기록
// alert_id는 조회용 약한 참조일 뿐이며 대상 Alert가 없어도 레코드는 유효함
// dispatch 성공 시에만 생성되고 이후 변경되지 않음
type WorkOrderRecord struct {
	ID          string         `json:"id"`
	AlertID     string         `json:"alert_id,omitempty"`
	PlantID     string         `json:"plant_id"`
	ExternalID  string         `json:"external_id,omitempty"`
	PayloadSent map[string]any `json:"payload_sent,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

type WorkOrderCreateRequest struct {
	AlertID    string `json:"alert_id" binding:"required"`
	AssigneeID string `json:"assignee_id,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

type WorkOrderCreatedResponse struct {
	Success     bool   `json:"success"`
	WorkOrderID string `json:"work_order_id,omitempty"`
	ExternalID  string `json:"external_id,omitempty"`
	Message     string `json:"message,omitempty"`
}

type WorkOrderListResponse struct {
	WorkOrders []WorkOrderRecord `json:"work_orders"`
	Total      int               `json:"total"`
}
