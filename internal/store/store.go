// Package store is the record store boundary: an append-only table of rows
// keyed by stable column names.
package store

import (
	"context"
	"fmt"
	"time"

	"quality-audit/internal/config"

	"gorm.io/gorm"
)

// Store 追加写入 + 全表读取。
// 写入没有幂等键，同样的内容提交两次就是两行。
type Store interface {
	Append(ctx context.Context, row Row) error
	ReadAll(ctx context.Context, bypassCache bool) (*Table, error)
}

// WriteError 存储写入失败（认证、配额、结构不匹配等），不会自动重试
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return "store append: " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }

// ReadError 存储读取失败，调用方按“暂无数据”处理
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return "store read: " + e.Err.Error() }
func (e *ReadError) Unwrap() error { return e.Err }

// 驱动名
const (
	DriverSQLite   = "sqlite"
	DriverWorkbook = "workbook"
)

// Open builds the configured store, wrapped in a read cache when a TTL is set.
// db is only used by the sqlite driver.
func Open(cfg config.StoreConfig, db *gorm.DB) (Store, error) {
	var s Store
	switch cfg.Driver {
	case "", DriverSQLite:
		if db == nil {
			return nil, fmt.Errorf("sqlite store requires a database")
		}
		s = NewSQLStore(db)
	case DriverWorkbook:
		wb, err := NewWorkbookStore(cfg.WorkbookPath)
		if err != nil {
			return nil, err
		}
		s = wb
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if cfg.CacheTTLSeconds > 0 {
		s = NewCachedStore(s, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}
	return s, nil
}
