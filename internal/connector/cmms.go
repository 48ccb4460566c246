// CMMS connector (Maintenance Connection 우선, SAP은 stub)
// 작업 지시 생성 전용 쓰기 경로 - 조회는 1단계 범위 밖이라 FetchData는 빈 결과
//
// CMMS_BASE_URL이 설정되면 REST로 실제 생성 요청을 보내고,
// 없으면 stub 응답을 반환 (CMMS_FORCE_FAILURE=1로 실패를 강제해서 재시도 검증 가능)

package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/plantops/backend/internal/config"
	"github.com/plantops/backend/internal/model"
	"go.uber.org/zap"
)

const stubWorkOrderID = "WO-MC-STUB-2026-0001"

type CmmsConnector struct {
	Base
	client       *resty.Client
	baseURL      string
	forceFailure bool
	logger       *zap.Logger
}

type cmmsCreateResponse struct {
	ID string `json:"id"`
}

func NewCmms(cfg config.CmmsConfig, logger *zap.Logger) *CmmsConnector {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &CmmsConnector{
		Base:         NewBase("cmms", "cmms"),
		client:       client,
		baseURL:      cfg.BaseURL,
		forceFailure: cfg.ForceFailure,
		logger:       logger,
	}
}

// TestConnection - BASE_URL이 있으면 health 엔드포인트 확인, 없으면 stub 모드로 OK
func (c *CmmsConnector) TestConnection(ctx context.Context) (bool, string) {
	if c.baseURL == "" {
		return true, ""
	}

	resp, err := c.client.R().SetContext(ctx).Get(c.baseURL + "/health")
	if err != nil {
		return false, fmt.Sprintf("cmms unreachable: %v", err)
	}
	if resp.IsError() {
		return false, fmt.Sprintf("cmms health check returned %d", resp.StatusCode())
	}
	return true, ""
}

// FetchData - CMMS는 push 전용이므로 항상 빈 결과
func (c *CmmsConnector) FetchData(ctx context.Context, plantID string) ([]model.RawRecord, error) {
	return []model.RawRecord{}, nil
}

// PushData - 작업 지시 생성 1회 시도. 재시도는 dispatcher 정책에만 존재
func (c *CmmsConnector) PushData(ctx context.Context, payload map[string]any) (string, error) {
	if c.forceFailure {
		return "", errors.New("forced failure (CMMS_FORCE_FAILURE=1)")
	}

	if c.baseURL == "" {
		return stubWorkOrderID, nil
	}

	var created cmmsCreateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&created).
		Post(c.baseURL + "/work-orders")
	if err != nil {
		return "", fmt.Errorf("cmms create request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("cmms create returned %d: %s", resp.StatusCode(), resp.String())
	}
	return created.ID, nil
}
