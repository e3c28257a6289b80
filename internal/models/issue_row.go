package models

// IssueRow 是 SQLite 存储中的一行，字段与 Columns 一一对应。
// ID 只用于保持追加顺序，submission_id 不做唯一约束（重复提交会产生重复行）。
type IssueRow struct {
	ID           uint   `gorm:"primaryKey"`
	SubmissionID string `gorm:"column:submission_id;size:64;index"`
	RecordedAt   string `gorm:"column:created_at;size:19;index"`
	ProjectID    string `gorm:"column:project_id;size:128;index;not null"`
	ProjectName  string `gorm:"column:project_name;size:255"`
	Category     string `gorm:"column:category;size:32;not null"`
	Description  string `gorm:"column:description;type:text;not null"`
	Owner        string `gorm:"column:owner;size:128"`
	Department   string `gorm:"column:department;size:128"`
	Result       string `gorm:"column:result;size:255"`
	Remark       string `gorm:"column:remark;type:text"`
	Recorder     string `gorm:"column:recorder;size:128"`
	OrderID      string `gorm:"column:order_id;size:128"`
	IssueDate    string `gorm:"column:issue_date;size:10"`
	Image        string `gorm:"column:image;size:1024"`
}

// TableName 指定表名
func (IssueRow) TableName() string {
	return "issue_rows"
}
