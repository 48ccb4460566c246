// Connector - 외부 운영 시스템(SCADA, LIMS, WIMS, CMMS) 하나를 감싸는 공통 계약
//
// 규칙:
//   - 백엔드에 연결할 수 없어도 panic하지 않고 반환값으로 실패를 보고한다
//     (재시도 정책이 예외 해제 없이 실패를 판단할 수 있어야 함)
//   - FetchData는 유한하며 재시작 불가 - 새로 호출하면 소스를 다시 조회한다
//   - 기본 동작(Normalize 통과, PushData no-op 성공)은 Base를 임베드해서 명시적으로 공급

package connector

import (
	"context"

	"github.com/plantops/backend/internal/model"
)

type Connector interface {
	// Name - 소문자 식별자 (audit action 접두사로도 사용됨: "<name>_create_failed")
	Name() string

	// TestConnection - (연결 성공 여부, 실패 사유)
	TestConnection(ctx context.Context) (bool, string)

	// FetchData - 원시 레코드 조회. 연결 실패는 error 값으로 보고
	FetchData(ctx context.Context, plantID string) ([]model.RawRecord, error)

	// Normalize - 원시 레코드를 정규화 스키마로 변환. 태그 이름 변환은 normalizer 담당
	Normalize(raw []model.RawRecord) []model.NormalizedReading

	// PushData - 외부 시스템에 쓰기. 생성된 외부 식별자를 반환 (없으면 빈 문자열)
	PushData(ctx context.Context, payload map[string]any) (string, error)
}

// Base - 기본 동작 묶음. 각 connector가 임베드해서 필요한 메서드만 재정의함
type Base struct {
	name   string
	source string
}

func NewBase(name, source string) Base {
	return Base{name: name, source: source}
}

func (b Base) Name() string {
	return b.name
}

// Normalize - 기본: 필드를 그대로 옮기는 pass-through
func (b Base) Normalize(raw []model.RawRecord) []model.NormalizedReading {
	out := make([]model.NormalizedReading, 0, len(raw))
	for _, r := range raw {
		quality := r.Quality
		if quality == "" {
			quality = model.QualityGood
		}
		out = append(out, model.NormalizedReading{
			Source:     b.source,
			Tag:        r.SourceTag,
			RawTag:     r.SourceTag,
			Value:      r.Value,
			Unit:       r.Unit,
			Quality:    quality,
			AlarmState: r.AlarmState,
			Timestamp:  r.Timestamp,
		})
	}
	return out
}

// PushData - 기본: no-op 성공
func (b Base) PushData(ctx context.Context, payload map[string]any) (string, error) {
	return "", nil
}
