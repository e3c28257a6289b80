package export

import (
	"quality-audit/internal/i18n"
	"quality-audit/internal/models"
)

// DefaultPreviewLimit 报告里最多展示的记录数
const DefaultPreviewLimit = 5

// Separator 每条记录之后的分隔行
const Separator = "------------------------------"

// 报告中展示的列；标记 optional 的列为空时跳过
var reportFields = []struct {
	col      string
	optional bool
}{
	{models.ColProjectID, false},
	{models.ColProjectName, true},
	{models.ColCategory, false},
	{models.ColDescription, false},
	{models.ColOwner, true},
	{models.ColResult, true},
	{models.ColIssueDate, true},
	{models.ColCreatedAt, false},
}

// Report 与渲染器无关的报告内容
type Report struct {
	Title    string
	Lines    []string
	Degraded bool // 没有可用字体：英文标题、英文标签
	Records  int  // 实际展示的记录数
	Total    int  // 批次总数
}

// MaxLines 给定预览条数时正文行数的上限
func MaxLines(limit int) int {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	return limit * (len(reportFields) + 1)
}

// BuildReport 只取批次最后 limit 条记录，每条输出若干 "标签: 值" 行和一条分隔行。
// fontOK 为 false 时使用英文占位标题和英文标签。
func BuildReport(batch []models.Record, lang string, limit int, fontOK bool) Report {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}

	rep := Report{Total: len(batch)}
	labelLang := lang
	if fontOK {
		rep.Title = i18n.T(lang, "report.title")
	} else {
		rep.Degraded = true
		rep.Title = i18n.T(i18n.LangEN, "report.degraded")
		labelLang = i18n.LangEN
	}

	preview := batch
	if len(preview) > limit {
		preview = preview[len(preview)-limit:]
	}
	rep.Records = len(preview)
	rep.Lines = make([]string, 0, MaxLines(limit))

	for _, rec := range preview {
		values := fieldValues(labelLang, rec)
		for _, fld := range reportFields {
			v := values[fld.col]
			if fld.optional && v == "" {
				continue
			}
			rep.Lines = append(rep.Lines, i18n.Label(labelLang, fld.col)+": "+v)
		}
		rep.Lines = append(rep.Lines, Separator)
	}
	return rep
}

func fieldValues(lang string, rec models.Record) map[string]string {
	created := ""
	if !rec.CreatedAt.IsZero() {
		created = rec.CreatedAt.Format(models.TimeLayout)
	}
	return map[string]string{
		models.ColProjectID:   rec.ProjectID,
		models.ColProjectName: rec.ProjectName,
		models.ColCategory:    i18n.CategoryName(lang, rec.Category),
		models.ColDescription: rec.Description,
		models.ColOwner:       rec.Owner,
		models.ColResult:      rec.Result,
		models.ColIssueDate:   rec.IssueDate,
		models.ColCreatedAt:   created,
	}
}
