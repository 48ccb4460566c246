package model

import "time"

// AuditEntry - 규제 대응용 감사 기록
// append-only이며 한 번 기록되면 수정/삭제되지 않음
// "무슨 일이 있었고 누가 했는가"에 대한 유일한 근거 자료
type AuditEntry struct {
	ID        string         `json:"id"`
	PlantID   string         `json:"plant_id"`
	Action    string         `json:"action"`
	ActorID   string         `json:"actor_id,omitempty"`
	ActorRole string         `json:"actor_role,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// 표준 감사 action 이름
const (
	AuditActionComplianceExport  = "compliance_export"
	AuditActionMorningApproval   = "morning_review_approval"
	AuditActionWorkOrderCreated  = "work_order_created"
	AuditActionAlertTransitioned = "alert_transitioned"
)

type AuditListResponse struct {
	Entries []AuditEntry `json:"entries"`
	Total   int          `json:"total"`
}
