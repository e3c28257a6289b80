package models

// 存储列名：与语言无关的稳定 key。
// 界面和导出的表头由 i18n 层根据 key 翻译，存储结构不随语言变化。
const (
	ColSubmissionID = "submission_id"
	ColCreatedAt    = "created_at"
	ColProjectID    = "project_id"
	ColProjectName  = "project_name"
	ColCategory     = "category"
	ColDescription  = "description"
	ColOwner        = "owner"
	ColDepartment   = "department"
	ColResult       = "result"
	ColRemark       = "remark"
	ColRecorder     = "recorder"
	ColOrderID      = "order_id"
	ColIssueDate    = "issue_date"
	ColImage        = "image"
)

// Columns 固定的列顺序
var Columns = []string{
	ColSubmissionID,
	ColCreatedAt,
	ColProjectID,
	ColProjectName,
	ColCategory,
	ColDescription,
	ColOwner,
	ColDepartment,
	ColResult,
	ColRemark,
	ColRecorder,
	ColOrderID,
	ColIssueDate,
	ColImage,
}

// Row 一行待写入的数据，key 为稳定列名
type Row map[string]string

// Table 远端存储的一次完整快照
type Table struct {
	Columns []string
	Rows    []Row
}

// Len 返回数据行数（不含表头）
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
