// Package intake turns raw form values into validated records.
package intake

import (
	"fmt"
	"strings"
	"time"

	"quality-audit/internal/models"

	"github.com/google/uuid"
)

// Form 表单原始输入，JSON 和 HTML 表单共用
type Form struct {
	ProjectID   string `json:"project_id" form:"project_id" binding:"max=128"`
	ProjectName string `json:"project_name" form:"project_name" binding:"max=255"`
	Category    string `json:"category" form:"category" binding:"max=32"`
	Description string `json:"description" form:"description" binding:"max=4000"`
	Owner       string `json:"owner" form:"owner" binding:"max=128"`
	Department  string `json:"department" form:"department" binding:"max=128"`
	Result      string `json:"result" form:"result" binding:"max=255"`
	Remark      string `json:"remark" form:"remark" binding:"max=2000"`
	Recorder    string `json:"recorder" form:"recorder" binding:"max=128"`
	OrderID     string `json:"order_id" form:"order_id" binding:"max=128"`
	IssueDate   string `json:"issue_date" form:"issue_date" binding:"max=32"`
	Image       string `json:"image" form:"image" binding:"max=1024"`
}

// ValidationError 必填项缺失或取值非法，提交不会写入存储
type ValidationError struct {
	Missing []string // 缺失的必填列
	Invalid []string // 取值非法的列
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// 日期选择器可能传来的格式
var dateLayouts = []string{
	models.DateLayout,     // 2025-12-03
	time.RFC3339,          // 2025-12-03T00:00:00+08:00
	"2006-01-02T15:04:05", // 2025-12-03T00:00:00
}

// Validate 检查必填项（项目ID、问题描述）以及分类、日期的取值
func Validate(f Form) error {
	var verr ValidationError
	if strings.TrimSpace(f.ProjectID) == "" {
		verr.Missing = append(verr.Missing, models.ColProjectID)
	}
	if strings.TrimSpace(f.Description) == "" {
		verr.Missing = append(verr.Missing, models.ColDescription)
	}
	if strings.TrimSpace(f.Category) != "" {
		if _, ok := models.ParseCategory(f.Category); !ok {
			verr.Invalid = append(verr.Invalid, models.ColCategory)
		}
	}
	if strings.TrimSpace(f.IssueDate) != "" {
		if _, err := parseDate(f.IssueDate); err != nil {
			verr.Invalid = append(verr.Invalid, models.ColIssueDate)
		}
	}
	if len(verr.Missing) > 0 || len(verr.Invalid) > 0 {
		return &verr
	}
	return nil
}

// Build 校验通过后构造记录，created_at 取 now
func Build(f Form, now time.Time) (models.Record, error) {
	if err := Validate(f); err != nil {
		return models.Record{}, err
	}

	category := models.DefaultCategory()
	if c, ok := models.ParseCategory(f.Category); ok {
		category = c
	}

	var issueDate string
	if strings.TrimSpace(f.IssueDate) != "" {
		d, _ := parseDate(f.IssueDate)
		issueDate = d.Format(models.DateLayout)
	}

	return models.Record{
		SubmissionID: uuid.NewString(),
		ProjectID:    f.ProjectID,
		ProjectName:  f.ProjectName,
		Category:     category,
		Description:  f.Description,
		Owner:        f.Owner,
		Department:   f.Department,
		Result:       f.Result,
		Remark:       f.Remark,
		Recorder:     f.Recorder,
		OrderID:      f.OrderID,
		IssueDate:    issueDate,
		Image:        f.Image,
		CreatedAt:    now,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
