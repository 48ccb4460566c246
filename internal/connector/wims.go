// WIMS / 컴플라이언스 connector
// 공개 API가 없다는 전제 - 연동은 CSV/XLSX 내보내기 기반이고 라이브 연결 개념이 없음
// 운영자 승인 후 내보내며 제출된 값마다 감사 기록이 남음 (compliance service 담당)

package connector

import (
	"context"

	"github.com/plantops/backend/internal/model"
)

type WimsConnector struct {
	Base
}

func NewWims() *WimsConnector {
	return &WimsConnector{Base: NewBase("wims", "wims")}
}

// TestConnection - 파일 기반 연동이므로 라이브 연결은 항상 미지원으로 보고
func (c *WimsConnector) TestConnection(ctx context.Context) (bool, string) {
	return false, "WIMS has no live connection; use compliance export"
}

func (c *WimsConnector) FetchData(ctx context.Context, plantID string) ([]model.RawRecord, error) {
	return []model.RawRecord{}, nil
}

// PushData - 직접 push 없음. 실제 흐름은 compliance export가 파일을 생성
// Base의 no-op 성공을 그대로 사용하므로 재정의하지 않음
