package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"quality-audit/internal/models"

	"github.com/xuri/excelize/v2"
)

// WorkbookSheet 工作簿里存放记录的工作表
const WorkbookSheet = "Records"

// WorkbookStore 把记录追加到一个 xlsx 文件中，第一行是稳定列名。
// 每次写入都会重新打开并保存文件，同一进程内用互斥锁串行化。
type WorkbookStore struct {
	Path string

	mu sync.Mutex
}

func NewWorkbookStore(path string) (*WorkbookStore, error) {
	if path == "" {
		return nil, fmt.Errorf("workbook path is empty")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create workbook dir: %w", err)
		}
	}
	return &WorkbookStore{Path: path}, nil
}

func (s *WorkbookStore) Append(ctx context.Context, row Row) error {
	if err := ctx.Err(); err != nil {
		return &WriteError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return &WriteError{Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(WorkbookSheet)
	if err != nil {
		return &WriteError{Err: fmt.Errorf("read sheet: %w", err)}
	}

	header := models.Columns
	if len(rows) == 0 {
		if err := setRow(f, 1, header); err != nil {
			return &WriteError{Err: err}
		}
		rows = [][]string{header}
	} else {
		header = rows[0]
	}

	values := make([]string, len(header))
	for i, col := range header {
		values[i] = row[col]
	}
	if err := setRow(f, len(rows)+1, values); err != nil {
		return &WriteError{Err: err}
	}

	if err := f.SaveAs(s.Path); err != nil {
		return &WriteError{Err: fmt.Errorf("save workbook: %w", err)}
	}
	return nil
}

func (s *WorkbookStore) ReadAll(ctx context.Context, _ bool) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ReadError{Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &Table{Columns: append([]string(nil), models.Columns...)}

	f, err := excelize.OpenFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return nil, &ReadError{Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	rows, err := f.GetRows(WorkbookSheet)
	if err != nil {
		return nil, &ReadError{Err: fmt.Errorf("read sheet: %w", err)}
	}
	if len(rows) == 0 {
		return t, nil
	}

	header := rows[0]
	t.Columns = append([]string(nil), header...)
	for _, cells := range rows[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// open 打开已有工作簿，不存在则新建
func (s *WorkbookStore) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.Path)
	if err == nil {
		if idx, _ := f.GetSheetIndex(WorkbookSheet); idx == -1 {
			if _, err := f.NewSheet(WorkbookSheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("create sheet: %w", err)
			}
		}
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	f = excelize.NewFile()
	idx, err := f.NewSheet(WorkbookSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")
	return f, nil
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(WorkbookSheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
