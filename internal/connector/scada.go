// SCADA connector (Ignition, Wonderware, GE Historian - OPC UA 경유)
//
// 실제 OPC UA 클라이언트는 범위 밖이며 엔드포인트/태그 목록이 확정되면 교체 예정
// 설정이 없으면 결정적 mock 데이터를 반환해서 파이프라인 전체를 시험할 수 있게 함

package connector

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/plantops/backend/internal/config"
	"github.com/plantops/backend/internal/model"
	"go.uber.org/zap"
)

const defaultOpcUaPort = "4840"

type mockTag struct {
	tag   string
	value float64
	unit  string
}

// mock 태그: 운영 환경에서는 OPC UA에서 내려옴
var scadaMockTags = []mockTag{
	{tag: "FlowRate_Influent_001", value: 4.2, unit: "MGD"},
	{tag: "Chlorine_Effluent_001", value: 1.2, unit: "ppm"},
	{tag: "pH_Effluent_001", value: 7.1, unit: ""},
	{tag: "Pump3_Vibration", value: 0.85, unit: "in/s"},
	{tag: "Pump3_Status", value: 1, unit: ""},
}

var scadaMockValuesByTag = func() map[string]mockTag {
	m := make(map[string]mockTag, len(scadaMockTags))
	for _, t := range scadaMockTags {
		m[t.tag] = t
	}
	return m
}()

type ScadaConnector struct {
	Base
	endpoint    string
	tags        []string
	dialTimeout time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

func NewScada(cfg config.ScadaConfig, logger *zap.Logger) *ScadaConnector {
	return &ScadaConnector{
		Base:        NewBase("scada", model.SourceScada),
		endpoint:    cfg.Endpoint,
		tags:        cfg.TagList,
		dialTimeout: 2 * time.Second,
		now:         time.Now,
		logger:      logger,
	}
}

// TestConnection - 엔드포인트가 설정돼 있으면 opc.tcp 소켓 도달성만 확인
// 설정이 없으면 mock 모드이므로 연결된 것으로 취급
func (c *ScadaConnector) TestConnection(ctx context.Context) (bool, string) {
	if c.endpoint == "" {
		return true, ""
	}

	parsed, err := url.Parse(c.endpoint)
	if err != nil {
		return false, fmt.Sprintf("invalid endpoint: %v", err)
	}
	if parsed.Scheme != "opc.tcp" {
		return false, fmt.Sprintf("unsupported endpoint scheme %q (expected opc.tcp)", parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return false, "endpoint has no host"
	}

	port := parsed.Port()
	if port == "" {
		port = defaultOpcUaPort
	}

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(parsed.Hostname(), port), c.dialTimeout)
	if err != nil {
		return false, fmt.Sprintf("connection refused: %v", err)
	}
	conn.Close()
	return true, ""
}

// FetchData - 원시 측정값 조회
// OPC_UA_ENDPOINT + OPC_UA_TAG_LIST가 모두 설정되면 설정된 태그마다 mock 값 1건,
// 아니면 내장 mock 태그 전체를 반환
func (c *ScadaConnector) FetchData(ctx context.Context, plantID string) ([]model.RawRecord, error) {
	now := c.now().UTC()

	if c.endpoint != "" && len(c.tags) > 0 {
		out := make([]model.RawRecord, 0, len(c.tags))
		for _, tag := range c.tags {
			mock, ok := scadaMockValuesByTag[tag]
			if !ok {
				mock = mockTag{tag: tag}
			}
			out = append(out, model.RawRecord{
				SourceTag: tag,
				Value:     mock.value,
				Unit:      mock.unit,
				Timestamp: now,
				Quality:   model.QualityGood,
			})
		}
		return out, nil
	}

	out := make([]model.RawRecord, 0, len(scadaMockTags))
	for _, t := range scadaMockTags {
		out = append(out, model.RawRecord{
			SourceTag: t.tag,
			Value:     t.value,
			Unit:      t.unit,
			Timestamp: now,
			Quality:   model.QualityGood,
		})
	}
	return out, nil
}
