package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"quality-audit/internal/i18n"
	"quality-audit/internal/models"
	"quality-audit/internal/transform"

	"github.com/xuri/excelize/v2"
)

// 列宽，按 models.Columns 的顺序
var colWidths = map[string]float64{
	models.ColSubmissionID: 38,
	models.ColCreatedAt:    20,
	models.ColProjectID:    14,
	models.ColProjectName:  20,
	models.ColCategory:     16,
	models.ColDescription:  40,
	models.ColRemark:       30,
}

// WriteXLSX 导出为单个工作表：第一行为当前语言的表头，每条记录一行
func WriteXLSX(w io.Writer, batch []models.Record, lang string) error {
	if len(batch) == 0 {
		return ErrEmptyBatch
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := i18n.T(lang, "report.sheet")
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	if err := writeSheetRow(f, sheetName, 1, transform.Header(lang)); err != nil {
		return err
	}
	for idx, rec := range batch {
		if err := writeSheetRow(f, sheetName, idx+2, transform.Values(lang, rec)); err != nil {
			return err
		}
	}

	for i, col := range models.Columns {
		width, ok := colWidths[col]
		if !ok {
			width = 14
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return fmt.Errorf("set col width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}

// WriteCSV 导出为 CSV，带 UTF-8 BOM（让 Excel 正确识别中文）
func WriteCSV(w io.Writer, batch []models.Record, lang string) error {
	if len(batch) == 0 {
		return ErrEmptyBatch
	}
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(transform.Header(lang)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range batch {
		if err := writer.Write(transform.Values(lang, rec)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
