// 컴플라이언스 내보내기와 아침 측정값 승인
//
// WIMS에는 공개 API가 없다는 전제라서 연동은 파일 내보내기(CSV/XLSX) 기반
// supervisor 이상만 승인/내보내기 가능하고, 내보내기마다 감사 기록 1건이 남음

package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/plantops/backend/internal/config"
	"github.com/plantops/backend/internal/connector"
	"github.com/plantops/backend/internal/model"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// readingsApprovedLogger - 승인 흐름의 운전일지 기록
type readingsApprovedLogger interface {
	LogReadingsApproved(ctx context.Context, ident model.Identity, metadata map[string]any) error
}

// ExportData - 내보내기용 표 형태 데이터
type ExportData struct {
	Columns []config.ComplianceColumn
	Rows    []map[string]string
}

type ComplianceService struct {
	readings readingSource
	wims     connector.Connector
	elog     readingsApprovedLogger
	audit    auditRecorder
	columns  []config.ComplianceColumn
	logger   *zap.Logger
}

func NewComplianceService(
	readings readingSource,
	wims connector.Connector,
	elog readingsApprovedLogger,
	audit auditRecorder,
	columns []config.ComplianceColumn,
	logger *zap.Logger,
) *ComplianceService {
	return &ComplianceService{
		readings: readings,
		wims:     wims,
		elog:     elog,
		audit:    audit,
		columns:  columns,
		logger:   logger,
	}
}

// BuildExport - 태그별 최신 측정값을 내보내기 표로 구성하고 감사 기록을 남김
// supervisor 이상만 호출 가능
func (s *ComplianceService) BuildExport(ctx context.Context, ident model.Identity, format string) (*ExportData, error) {
	if !ident.CanApprove() {
		return nil, ErrForbidden
	}
	if format != ExportFormatCSV && format != ExportFormatXLSX {
		return nil, fmt.Errorf("%w: unsupported export format %q", ErrInvalidInput, format)
	}

	latest, err := s.readings.LatestReadings(ctx, ident.Scope(), model.SourceScada)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(latest))
	for _, r := range latest {
		rows = append(rows, map[string]string{
			"plant_id":  r.PlantID,
			"tag":       r.Tag,
			"value":     strconv.FormatFloat(r.Value, 'f', -1, 64),
			"unit":      r.Unit,
			"timestamp": r.Timestamp.UTC().Format(time.RFC3339),
		})
	}

	if err := s.audit.Record(ctx, ident.PlantID, model.AuditActionComplianceExport, ident.OperatorID, ident.Role, map[string]any{
		"row_count": len(rows),
		"format":    format,
	}); err != nil {
		return nil, err
	}

	return &ExportData{Columns: s.columns, Rows: rows}, nil
}

// WriteCSV - 설정된 열 매핑/순서대로 CSV 출력
func (s *ComplianceService) WriteCSV(w io.Writer, data *ExportData) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(data.Columns))
	for i, col := range data.Columns {
		header[i] = col.Header
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range data.Rows {
		record := make([]string, len(data.Columns))
		for i, col := range data.Columns {
			record[i] = row[col.Field]
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX - 같은 표를 XLSX로 출력 (WIMS 업로드 양식에 따라 선택)
func (s *ComplianceService) WriteXLSX(w io.Writer, data *ExportData) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, col := range data.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return err
		}
	}

	for rowIdx, row := range data.Rows {
		for colIdx, col := range data.Columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, row[col.Field]); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

// ApproveMorningReview - 아침 측정값 승인: WIMS 동기화(stub) + 운전일지 + 감사 기록
func (s *ComplianceService) ApproveMorningReview(ctx context.Context, ident model.Identity, overrides map[string]float64) (*model.MorningReviewResponse, error) {
	if !ident.CanApprove() {
		return nil, ErrForbidden
	}

	_, pushErr := s.wims.PushData(ctx, map[string]any{
		"plant_id":    ident.PlantID,
		"readings":    overrides,
		"operator_id": ident.OperatorID,
	})

	synced := pushErr == nil
	metadata := map[string]any{"wims_sync_ok": synced}
	if pushErr != nil {
		metadata["wims_error"] = pushErr.Error()
	}

	if err := s.elog.LogReadingsApproved(ctx, ident, metadata); err != nil {
		s.logger.Error("failed to write readings approved log entry", zap.Error(err))
	}

	if err := s.audit.Record(ctx, ident.PlantID, model.AuditActionMorningApproval, ident.OperatorID, ident.Role, metadata); err != nil {
		s.logger.Error("failed to audit morning review approval", zap.Error(err))
	}

	return &model.MorningReviewResponse{
		Success:    true,
		WimsSynced: synced,
		Message:    "Data synced.",
	}, nil
}
