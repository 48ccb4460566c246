// 태그 정규화
//
// 벤더 태그를 plant 전역 표준 태그(canonical tag)로 변환
// 매핑 테이블에 없는 태그는 결정적 fallback(소문자 + 공백->언더스코어)을 적용
// 같은 source_tag는 항상 같은 canonical tag로 변환됨 (멱등)

package normalizer

import (
	"strings"

	"github.com/plantops/backend/internal/model"
)

type Normalizer struct {
	tagMap map[string]string
}

func New(tagMap map[string]string) *Normalizer {
	if tagMap == nil {
		tagMap = map[string]string{}
	}
	return &Normalizer{tagMap: tagMap}
}

// Normalize - (source_tag, value, unit) -> (canonical_tag, value, unit)
// 순수 함수이며 매핑 테이블 miss 시 FallbackTag를 적용
func (n *Normalizer) Normalize(sourceTag string, value float64, unit string) (string, float64, string) {
	return n.CanonicalTag(sourceTag), value, unit
}

// CanonicalTag - 태그 이름만 변환
func (n *Normalizer) CanonicalTag(sourceTag string) string {
	if canonical, ok := n.tagMap[sourceTag]; ok {
		return canonical
	}
	return FallbackTag(sourceTag)
}

// Apply - 측정값의 태그를 표준 태그로 교체 (원본 태그는 RawTag에 보존)
func (n *Normalizer) Apply(r model.NormalizedReading) model.NormalizedReading {
	if r.RawTag == "" {
		r.RawTag = r.Tag
	}
	r.Tag, r.Value, r.Unit = n.Normalize(r.Tag, r.Value, r.Unit)
	return r
}

// FallbackTag - 매핑 테이블에 없는 태그의 결정적 변환
// 소문자로 바꾸고 연속 공백을 언더스코어 하나로 치환 ("Pump A" -> "pump_a")
// 이미 변환된 태그에 다시 적용해도 결과가 같음
func FallbackTag(sourceTag string) string {
	fields := strings.Fields(strings.ToLower(sourceTag))
	return strings.Join(fields, "_")
}
