// Package export renders a batch of records as a spreadsheet, a CSV file or
// a short PDF report. Rendering never touches the store.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"quality-audit/internal/models"
)

// ErrEmptyBatch 批次为空，界面应隐藏导出按钮
var ErrEmptyBatch = errors.New("export batch is empty")

// 导出格式
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// ContentType 返回下载时的 MIME 类型
func ContentType(format string) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Filename 生成下载文件名：Quality_Report_<项目ID>_<时间>.<ext>。
// 项目ID取批次中最新一条记录，时间精确到秒，避免同一会话内重复导出时重名。
func Filename(batch []models.Record, format string, now time.Time) string {
	name := "Quality_Report"
	if len(batch) > 0 {
		if id := sanitize(batch[len(batch)-1].ProjectID); id != "" {
			name += "_" + id
		}
	}
	return fmt.Sprintf("%s_%s.%s", name, now.Format("20060102_150405"), format)
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
		if b.Len() >= 40 {
			break
		}
	}
	return strings.Trim(b.String(), "_")
}
