package store

import "quality-audit/internal/models"

// Row and Table are re-exported so callers of the store don't need models.
type (
	Row   = models.Row
	Table = models.Table
)
