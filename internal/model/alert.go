// AlertRecord 및 상태 전이 정의
//
// 상태 머신:
//   open --[dismiss]--> dismissed
//   open --[log-only]--> logged_only
//   open --[work order 생성]--> wo_created
// 세 상태 모두 종결 상태이며 종결 상태에서의 전이는 거부됨
// resolved_at은 종결 상태로 전이되는 시점에 정확히 한 번 설정됨

package model

import "time"

// Alert 상태
const (
	AlertStatusOpen       = "open"
	AlertStatusWOCreated  = "wo_created"
	AlertStatusLoggedOnly = "logged_only"
	AlertStatusDismissed  = "dismissed"
)

// Alert 심각도
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// AlertRecord - 임계값 평가가 생성하는 알림 레코드
// 생성 이후 status/resolved_at 외의 필드는 변경되지 않으며 감사 목적상 삭제되지 않음
type AlertRecord struct {
	ID         string         `json:"id"`
	PlantID    string         `json:"plant_id"`
	AssetName  string         `json:"asset_name"`
	IssueType  string         `json:"issue_type"`
	Severity   string         `json:"severity"`
	Message    string         `json:"message,omitempty"`
	Snapshot   map[string]any `json:"snapshot,omitempty"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
}

// IsTerminal - 종결 상태 여부
func (a *AlertRecord) IsTerminal() bool {
	return a.Status != AlertStatusOpen
}

type AlertListResponse struct {
	Alerts []AlertRecord `json:"alerts"`
	Total  int           `json:"total"`
}
