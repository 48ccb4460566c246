package model

import "time"

// 측정값 출처
const (
	SourceScada = "scada"
	SourceLims  = "lims"
)

// 측정값 품질 플래그 (OPC UA quality에서 축약)
const (
	QualityGood      = "good"
	QualityUncertain = "uncertain"
	QualityBad       = "bad"
)

// RawRecord - connector가 외부 시스템에서 가져온 원시 레코드
// 필드 구성은 소스마다 다를 수 있어서 Extra에 원본 부가 필드를 보존함
type RawRecord struct {
	SourceTag  string         `json:"source_tag"`
	Value      float64        `json:"value"`
	Unit       string         `json:"unit,omitempty"`
	Timestamp  time.Time      `json:"timestamp,omitempty"`
	Quality    string         `json:"quality,omitempty"`
	AlarmState string         `json:"alarm_state,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// NormalizedReading - 정규화 스키마의 측정값 1건
// Tag는 canonical tag, RawTag는 원천 태그 원본
// append-only: 한 번 저장된 행은 수정/삭제되지 않음
type NormalizedReading struct {
	ID         int64     `json:"id,omitempty"`
	PlantID    string    `json:"plant_id"`
	Source     string    `json:"source"`
	Tag        string    `json:"tag"`
	RawTag     string    `json:"raw_tag,omitempty"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit,omitempty"`
	Quality    string    `json:"quality,omitempty"`
	AlarmState string    `json:"alarm_state,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}
