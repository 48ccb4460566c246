// LIMS connector stub
// 랩 시스템 API가 확보되면 REST/DB 연동으로 교체

package connector

import (
	"context"

	"github.com/plantops/backend/internal/model"
)

type LimsConnector struct {
	Base
}

func NewLims() *LimsConnector {
	return &LimsConnector{Base: NewBase("lims", model.SourceLims)}
}

// TestConnection - 미설정 상태에서는 사유를 명시하고 실패로 보고 (조용히 성공하지 않음)
func (c *LimsConnector) TestConnection(ctx context.Context) (bool, string) {
	return false, "LIMS not configured (stub)"
}

func (c *LimsConnector) FetchData(ctx context.Context, plantID string) ([]model.RawRecord, error) {
	return []model.RawRecord{}, nil
}
