package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/kuiz-api/internal/domain/entity"
	apperrors "github.com/yourusername/kuiz-api/internal/pkg/errors"
)

// Форматы выгрузки лидерборда
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// AttemptExport - готовый файл выгрузки
type AttemptExport struct {
	Filename    string
	ContentType string
	Data        []byte
}

var exportHeaders = []string{"Место", "Участник", "Очки", "Дата попытки"}

// ExportQuizAttempts выгружает лидерборд викторины в CSV или XLSX
func (s *AttemptService) ExportQuizAttempts(quizID uint, format string) (*AttemptExport, error) {
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatXLSX {
		return nil, fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, format)
	}

	attempts, err := s.GetQuizAttempts(quizID)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("quiz_%d_attempts_%s", quizID, s.now().Format("2006-01-02"))

	if format == ExportFormatXLSX {
		data, err := exportXLSX(attempts)
		if err != nil {
			return nil, err
		}
		return &AttemptExport{
			Filename:    filename + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	}

	data, err := exportCSV(attempts)
	if err != nil {
		return nil, err
	}
	return &AttemptExport{
		Filename:    filename + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

func participantName(a entity.QuizAttempt) string {
	if a.User == nil {
		return ""
	}
	return sanitizeForExcel(a.User.Name)
}

// exportCSV пишет CSV с BOM для корректного UTF-8 в Excel
func exportCSV(attempts []entity.QuizAttempt) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(&buf)
	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, a := range attempts {
		if err := writer.Write([]string{
			strconv.Itoa(i + 1),
			participantName(a),
			strconv.Itoa(a.Score),
			a.AttemptedAt.Format(time.RFC3339),
		}); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// exportXLSX пишет лист через StreamWriter
func exportXLSX(attempts []entity.QuizAttempt) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("[AttemptService] Ошибка закрытия Excel файла")
		}
	}()

	sheetName := "Лидерборд"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		headers[i] = h
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return nil, fmt.Errorf("failed to write xlsx header: %w", err)
	}

	for i, a := range attempts {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{i + 1, participantName(a), a.Score, a.AttemptedAt.Format(time.RFC3339)}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, fmt.Errorf("failed to write xlsx row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush xlsx: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
