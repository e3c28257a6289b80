package store

import (
	"context"

	"quality-audit/internal/models"

	"gorm.io/gorm"
)

// SQLStore 基于 gorm + SQLite 的存储
type SQLStore struct {
	DB *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{DB: db}
}

func (s *SQLStore) Append(ctx context.Context, row Row) error {
	r := models.IssueRow{
		SubmissionID: row[models.ColSubmissionID],
		RecordedAt:   row[models.ColCreatedAt],
		ProjectID:    row[models.ColProjectID],
		ProjectName:  row[models.ColProjectName],
		Category:     row[models.ColCategory],
		Description:  row[models.ColDescription],
		Owner:        row[models.ColOwner],
		Department:   row[models.ColDepartment],
		Result:       row[models.ColResult],
		Remark:       row[models.ColRemark],
		Recorder:     row[models.ColRecorder],
		OrderID:      row[models.ColOrderID],
		IssueDate:    row[models.ColIssueDate],
		Image:        row[models.ColImage],
	}
	if err := s.DB.WithContext(ctx).Create(&r).Error; err != nil {
		return &WriteError{Err: err}
	}
	return nil
}

// ReadAll 按追加顺序返回全部行；SQLite 没有缓存层，bypassCache 无意义
func (s *SQLStore) ReadAll(ctx context.Context, _ bool) (*Table, error) {
	var rows []models.IssueRow
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, &ReadError{Err: err}
	}

	t := &Table{
		Columns: append([]string(nil), models.Columns...),
		Rows:    make([]Row, 0, len(rows)),
	}
	for i := range rows {
		r := &rows[i]
		t.Rows = append(t.Rows, Row{
			models.ColSubmissionID: r.SubmissionID,
			models.ColCreatedAt:    r.RecordedAt,
			models.ColProjectID:    r.ProjectID,
			models.ColProjectName:  r.ProjectName,
			models.ColCategory:     r.Category,
			models.ColDescription:  r.Description,
			models.ColOwner:        r.Owner,
			models.ColDepartment:   r.Department,
			models.ColResult:       r.Result,
			models.ColRemark:       r.Remark,
			models.ColRecorder:     r.Recorder,
			models.ColOrderID:      r.OrderID,
			models.ColIssueDate:    r.IssueDate,
			models.ColImage:        r.Image,
		})
	}
	return t, nil
}
