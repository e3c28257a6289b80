package models

import (
	"strings"
	"time"
)

// 时间格式：记录时间精确到秒，问题日期只保留日期
const (
	TimeLayout = "2006-01-02 15:04:05"
	DateLayout = "2006-01-02"
)

// Category 问题分类，固定闭集
type Category string

const (
	CategoryVisual   Category = "Visual"
	CategoryFunction Category = "Function"
	CategoryPacking  Category = "Packing"
	CategoryOther    Category = "Other"
)

// Categories 表单下拉框的顺序，第一个是默认值
var Categories = []Category{CategoryVisual, CategoryFunction, CategoryPacking, CategoryOther}

// DefaultCategory 未选择分类时使用
func DefaultCategory() Category {
	return Categories[0]
}

// ParseCategory 不区分大小写匹配分类
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Record 一条品质问题记录。
// 构造之后不再修改，只会被追加到存储中。
type Record struct {
	SubmissionID string    `json:"submission_id"`
	ProjectID    string    `json:"project_id"`
	ProjectName  string    `json:"project_name"`
	Category     Category  `json:"category"`
	Description  string    `json:"description"`
	Owner        string    `json:"owner"`
	Department   string    `json:"department"`
	Result       string    `json:"result"`
	Remark       string    `json:"remark"`
	Recorder     string    `json:"recorder"`
	OrderID      string    `json:"order_id"`
	IssueDate    string    `json:"issue_date"` // YYYY-MM-DD，可为空
	Image        string    `json:"image"`      // 图片引用，不参与校验
	CreatedAt    time.Time `json:"created_at"`
}
