// Package i18n holds the language profiles: field labels keyed by stable
// column keys, category display names, export titles and UI messages.
package i18n

import (
	"strings"

	"quality-audit/internal/models"
)

// 支持的语言
const (
	LangZH = "zh"
	LangEN = "en"
)

// Locales 闭集，顺序即界面上的选择顺序
var Locales = []string{LangZH, LangEN}

var messages = map[string]map[string]string{
	LangEN: {
		"title": "Quality Issue Record",

		"field." + models.ColSubmissionID: "Submission ID",
		"field." + models.ColCreatedAt:    "Recorded At",
		"field." + models.ColProjectID:    "Project ID",
		"field." + models.ColProjectName:  "Project Name",
		"field." + models.ColCategory:     "Category",
		"field." + models.ColDescription:  "Description",
		"field." + models.ColOwner:        "Follow-up Owner",
		"field." + models.ColDepartment:   "Department",
		"field." + models.ColResult:       "Result",
		"field." + models.ColRemark:       "Remark",
		"field." + models.ColRecorder:     "Recorder",
		"field." + models.ColOrderID:      "Order ID",
		"field." + models.ColIssueDate:    "Issue Date",
		"field." + models.ColImage:        "Image",

		"category.Visual":   "Visual",
		"category.Function": "Function",
		"category.Packing":  "Packing",
		"category.Other":    "Other",

		"action.save":     "Submit to cloud",
		"action.refresh":  "Refresh table",
		"action.xlsx":     "Export Excel",
		"action.csv":      "Export CSV",
		"action.pdf":      "Generate PDF report",
		"action.retry":    "Retry",
		"action.language": "Language",
		"action.status":   "Status",

		"locale.zh": "中文",
		"locale.en": "English",

		"section.session": "Submitted this session",
		"section.remote":  "All records",

		"report.title":    "Quality Issue Report",
		"report.degraded": "Quality Issue Report (Font Missing)",
		"report.sheet":    "Records",

		"msg.required":       "Project ID and description are required",
		"msg.invalid":        "Invalid input",
		"msg.saved":          "Record saved to the store",
		"msg.save_failed":    "Save failed",
		"msg.read_failed":    "No data available: the store could not be read",
		"msg.empty":          "No records to export",
		"msg.font_missing":   "Font file not available, the PDF was generated without CJK glyphs",
		"msg.render_failed":  "PDF export ran into a problem",
		"msg.not_found":      "Record not found in this session",
		"msg.already_saved":  "Record is already saved",
		"msg.locale_changed": "Language updated",
		"status.saved":       "saved",
		"status.failed":      "failed",
	},
	LangZH: {
		"title": "品质问题记录表",

		"field." + models.ColSubmissionID: "提交编号",
		"field." + models.ColCreatedAt:    "记录日期",
		"field." + models.ColProjectID:    "项目ID",
		"field." + models.ColProjectName:  "项目名称",
		"field." + models.ColCategory:     "问题分类",
		"field." + models.ColDescription:  "问题描述",
		"field." + models.ColOwner:        "跟进人",
		"field." + models.ColDepartment:   "责任部门",
		"field." + models.ColResult:       "处理结果",
		"field." + models.ColRemark:       "备注",
		"field." + models.ColRecorder:     "记录人",
		"field." + models.ColOrderID:      "订单号",
		"field." + models.ColIssueDate:    "发生日期",
		"field." + models.ColImage:        "图片",

		"category.Visual":   "外观/Visual",
		"category.Function": "功能/Function",
		"category.Packing":  "包装/Packing",
		"category.Other":    "其他/Other",

		"action.save":     "提交到云端",
		"action.refresh":  "刷新并查看表格",
		"action.xlsx":     "导出为 Excel",
		"action.csv":      "导出为 CSV",
		"action.pdf":      "生成 PDF 报告",
		"action.retry":    "重试",
		"action.language": "语言",
		"action.status":   "状态",

		"locale.zh": "中文",
		"locale.en": "English",

		"section.session": "本次会话已录入",
		"section.remote":  "已录入数据汇总",

		"report.title":    "品质问题报告 (Quality Report)",
		"report.degraded": "Quality Issue Report (Font Missing)",
		"report.sheet":    "记录",

		"msg.required":       "ID和描述不能为空",
		"msg.invalid":        "参数错误",
		"msg.saved":          "数据已安全同步至云端",
		"msg.save_failed":    "存入失败",
		"msg.read_failed":    "暂无数据：读取存储失败",
		"msg.empty":          "没有可导出的记录",
		"msg.font_missing":   "未找到字体文件，PDF 以英文降级模式生成",
		"msg.render_failed":  "PDF 导出遇到一点小麻烦",
		"msg.not_found":      "本次会话中没有这条记录",
		"msg.already_saved":  "该记录已保存",
		"msg.locale_changed": "语言已切换",
		"status.saved":       "已保存",
		"status.failed":      "失败",
	},
}

// Supported 判断语言是否在闭集内
func Supported(lang string) bool {
	_, ok := messages[lang]
	return ok
}

// T 翻译消息，找不到时先回退英文，再回退 key 本身
func T(lang, key string) string {
	if m, ok := messages[lang]; ok {
		if msg, ok := m[key]; ok {
			return msg
		}
	}
	if lang != LangEN {
		if msg, ok := messages[LangEN][key]; ok {
			return msg
		}
	}
	return key
}

// Label 返回列的显示名
func Label(lang, column string) string {
	return T(lang, "field."+column)
}

// Labels 按给定列顺序返回显示名
func Labels(lang string, columns []string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = Label(lang, col)
	}
	return out
}

// CategoryName 分类的显示名；未知分类原样返回
func CategoryName(lang string, c models.Category) string {
	if c == "" {
		return ""
	}
	key := "category." + string(c)
	if msg := T(lang, key); msg != key {
		return msg
	}
	return string(c)
}

// Normalize 把各种写法规范化为支持的语言，无法识别时返回空串
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch {
	case lang == "":
		return ""
	case strings.HasPrefix(lang, "zh"):
		return LangZH
	case strings.HasPrefix(lang, "en"):
		return LangEN
	}
	return ""
}

// FromAcceptLanguage 解析 Accept-Language: zh-CN,zh;q=0.9,en;q=0.8
// 返回第一个支持的语言
func FromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(part)
		if idx := strings.Index(tag, ";"); idx != -1 {
			tag = tag[:idx]
		}
		if lang := Normalize(tag); lang != "" {
			return lang
		}
	}
	return ""
}
