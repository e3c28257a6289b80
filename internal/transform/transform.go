// Package transform maps records to store rows with stable column keys and
// back. Localized headers are a presentation concern layered on top.
package transform

import (
	"time"

	"quality-audit/internal/i18n"
	"quality-audit/internal/models"
)

// ToRow 一条记录只产生一行，不做裁剪或类型转换，只把时间格式化为字符串
func ToRow(r models.Record) models.Row {
	return models.Row{
		models.ColSubmissionID: r.SubmissionID,
		models.ColCreatedAt:    r.CreatedAt.Format(models.TimeLayout),
		models.ColProjectID:    r.ProjectID,
		models.ColProjectName:  r.ProjectName,
		models.ColCategory:     string(r.Category),
		models.ColDescription:  r.Description,
		models.ColOwner:        r.Owner,
		models.ColDepartment:   r.Department,
		models.ColResult:       r.Result,
		models.ColRemark:       r.Remark,
		models.ColRecorder:     r.Recorder,
		models.ColOrderID:      r.OrderID,
		models.ColIssueDate:    r.IssueDate,
		models.ColImage:        r.Image,
	}
}

// FromRow 把存储中的一行还原为记录，缺失的列为空串。
// created_at 解析失败时保留零值。
func FromRow(row models.Row) models.Record {
	created, _ := time.ParseInLocation(models.TimeLayout, row[models.ColCreatedAt], time.Local)
	category := models.Category(row[models.ColCategory])
	if c, ok := models.ParseCategory(row[models.ColCategory]); ok {
		category = c
	}
	return models.Record{
		SubmissionID: row[models.ColSubmissionID],
		ProjectID:    row[models.ColProjectID],
		ProjectName:  row[models.ColProjectName],
		Category:     category,
		Description:  row[models.ColDescription],
		Owner:        row[models.ColOwner],
		Department:   row[models.ColDepartment],
		Result:       row[models.ColResult],
		Remark:       row[models.ColRemark],
		Recorder:     row[models.ColRecorder],
		OrderID:      row[models.ColOrderID],
		IssueDate:    row[models.ColIssueDate],
		Image:        row[models.ColImage],
		CreatedAt:    created,
	}
}

// FromTable 远端快照转为导出批次
func FromTable(t *models.Table) []models.Record {
	if t == nil {
		return nil
	}
	out := make([]models.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, FromRow(row))
	}
	return out
}

// Header 当前语言下的表头
func Header(lang string) []string {
	return i18n.Labels(lang, models.Columns)
}

// Values 按 models.Columns 的顺序给出展示值，分类用当前语言的显示名
func Values(lang string, r models.Record) []string {
	row := ToRow(r)
	row[models.ColCategory] = i18n.CategoryName(lang, r.Category)
	if r.CreatedAt.IsZero() {
		row[models.ColCreatedAt] = ""
	}
	out := make([]string, len(models.Columns))
	for i, col := range models.Columns {
		out[i] = row[col]
	}
	return out
}
