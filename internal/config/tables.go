// 태그 매핑 테이블과 임계값 규칙 정의
//
// 프로세스 시작 시 한 번 로드되어 이후 읽기 전용으로 취급됨
// YAML 파일이 지정되지 않으면 수처리 표준 모델의 내장 기본값을 사용

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rule - canonical tag 하나에 대한 임계값 규칙
// Min/Max 중 하나 이상이 설정되어야 하며 max를 min보다 먼저 검사함
type Rule struct {
	Min       *float64 `yaml:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty"`
	Unit      string   `yaml:"unit"`
	IssueType string   `yaml:"issue_type"`
	Severity  string   `yaml:"severity"`
}

// ComplianceColumn - 컴플라이언스 내보내기 열 매핑 (CSV 헤더 -> 내부 필드)
type ComplianceColumn struct {
	Header string `yaml:"header"`
	Field  string `yaml:"field"`
}

// Tables - 프로세스 전역 정적 테이블 묶음
type Tables struct {
	TagMap            map[string]string  `yaml:"tag_map"`
	Rules             map[string]Rule    `yaml:"rules"`
	ComplianceColumns []ComplianceColumn `yaml:"compliance_columns"`
}

// DefaultTables - 내장 기본값
// 원천 태그 -> 표준 태그 매핑과 MVP 임계값 규칙
func DefaultTables() *Tables {
	f := func(v float64) *float64 { return &v }
	return &Tables{
		TagMap: map[string]string{
			"FlowRate_Influent_001": "influent_flow",
			"Chlorine_Effluent_001": "effluent_chlorine",
			"pH_Effluent_001":       "effluent_ph",
			"Pump3_Vibration":       "pump3_vibration",
			"Pump3_Status":          "pump3_status",
		},
		Rules: map[string]Rule{
			"pump3_vibration": {
				Max:       f(0.8),
				Unit:      "in/s",
				IssueType: "vibration",
				Severity:  "warning",
			},
			"effluent_chlorine": {
				Min:       f(0.5),
				Max:       f(4.0),
				Unit:      "ppm",
				IssueType: "chlorine",
				Severity:  "warning",
			},
		},
		ComplianceColumns: []ComplianceColumn{
			{Header: "Plant", Field: "plant_id"},
			{Header: "Timestamp", Field: "timestamp"},
			{Header: "Parameter", Field: "tag"},
			{Header: "Value", Field: "value"},
			{Header: "Unit", Field: "unit"},
		},
	}
}

// LoadTables - YAML 파일에서 테이블 로드
// path가 비어 있으면 기본값 반환, 파일에서 빠진 항목은 기본값으로 채움
func LoadTables(path string) (*Tables, error) {
	tables := DefaultTables()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables file: %w", err)
	}

	var loaded Tables
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse tables file: %w", err)
	}

	if len(loaded.TagMap) > 0 {
		tables.TagMap = loaded.TagMap
	}
	if len(loaded.Rules) > 0 {
		tables.Rules = loaded.Rules
	}
	if len(loaded.ComplianceColumns) > 0 {
		tables.ComplianceColumns = loaded.ComplianceColumns
	}
	return tables, nil
}
