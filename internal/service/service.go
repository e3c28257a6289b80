// Package service runs one user action at a time: submit a record, retry a
// failed one, read the store snapshot, or render an export of a batch.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"quality-audit/internal/export"
	"quality-audit/internal/i18n"
	"quality-audit/internal/intake"
	"quality-audit/internal/metrics"
	"quality-audit/internal/models"
	"quality-audit/internal/session"
	"quality-audit/internal/store"
	"quality-audit/internal/transform"

	"github.com/sirupsen/logrus"
)

// 批次来源
const (
	SourceSession = "session"
	SourceRemote  = "remote"
)

var (
	ErrEntryNotFound = errors.New("entry not found in session")
	ErrAlreadySaved  = errors.New("entry already saved")
	ErrUnknownSource = errors.New("unknown batch source")
)

// Artifact 一次导出的结果
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Degraded    bool
	Records     int
}

type Service struct {
	Store        store.Store
	PDF          *export.PDFRenderer
	PreviewLimit int
	Log          *logrus.Logger

	now func() time.Time
}

func New(st store.Store, pdf *export.PDFRenderer, previewLimit int, log *logrus.Logger) *Service {
	if previewLimit <= 0 {
		previewLimit = export.DefaultPreviewLimit
	}
	return &Service{
		Store:        st,
		PDF:          pdf,
		PreviewLimit: previewLimit,
		Log:          log,
		now:          time.Now,
	}
}

// Submit 校验 → 转换 → 写入。
// 校验失败不写存储也不进会话；写入失败的记录以 failed 状态留在会话里，不自动重试。
func (s *Service) Submit(ctx context.Context, sess *session.Session, form intake.Form) (models.Record, error) {
	rec, err := intake.Build(form, s.now())
	if err != nil {
		metrics.RecordSubmission("invalid")
		return models.Record{}, err
	}

	if err := s.append(ctx, rec); err != nil {
		sess.Add(rec, session.StatusFailed, err.Error())
		metrics.RecordSubmission("failed")
		s.Log.WithError(err).WithFields(logrus.Fields{
			"session_id":    sess.ID,
			"submission_id": rec.SubmissionID,
			"project_id":    rec.ProjectID,
		}).Warn("record append failed")
		return rec, err
	}

	sess.Add(rec, session.StatusSaved, "")
	metrics.RecordSubmission("saved")
	s.Log.WithFields(logrus.Fields{
		"session_id":    sess.ID,
		"submission_id": rec.SubmissionID,
		"project_id":    rec.ProjectID,
		"category":      rec.Category,
	}).Info("record saved")
	return rec, nil
}

// Retry 用户手动重试一条写入失败的记录，行内容与第一次完全相同
func (s *Service) Retry(ctx context.Context, sess *session.Session, submissionID string) (models.Record, error) {
	entry, ok := sess.Find(submissionID)
	if !ok {
		return models.Record{}, ErrEntryNotFound
	}
	if entry.Status == session.StatusSaved {
		return entry.Record, ErrAlreadySaved
	}

	if err := s.append(ctx, entry.Record); err != nil {
		sess.SetStatus(submissionID, session.StatusFailed, err.Error())
		metrics.RecordSubmission("failed")
		s.Log.WithError(err).WithField("submission_id", submissionID).Warn("record retry failed")
		return entry.Record, err
	}

	sess.SetStatus(submissionID, session.StatusSaved, "")
	metrics.RecordSubmission("saved")
	s.Log.WithField("submission_id", submissionID).Info("record saved on retry")
	return entry.Record, nil
}

func (s *Service) append(ctx context.Context, rec models.Record) error {
	err := s.Store.Append(ctx, transform.ToRow(rec))
	if err == nil {
		return nil
	}
	var werr *store.WriteError
	if errors.As(err, &werr) {
		return err
	}
	return &store.WriteError{Err: err}
}

// Snapshot 读取远端全表。读取失败时返回空批次和 *store.ReadError。
func (s *Service) Snapshot(ctx context.Context, refresh bool) ([]models.Record, error) {
	t, err := s.Store.ReadAll(ctx, refresh)
	if err != nil {
		metrics.RecordStoreReadError()
		s.Log.WithError(err).Warn("store read failed")
		var rerr *store.ReadError
		if !errors.As(err, &rerr) {
			err = &store.ReadError{Err: err}
		}
		return nil, err
	}
	return transform.FromTable(t), nil
}

// Batch 解析导出批次：来源必须显式给出，submissionID 非空时只取那一条
func (s *Service) Batch(ctx context.Context, sess *session.Session, source, submissionID string) ([]models.Record, error) {
	var (
		batch []models.Record
		err   error
	)
	switch source {
	case SourceSession:
		batch = sess.Saved()
	case SourceRemote:
		batch, err = s.Snapshot(ctx, false)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}

	if submissionID == "" {
		return batch, nil
	}
	for _, rec := range batch {
		if rec.SubmissionID == submissionID {
			return []models.Record{rec}, nil
		}
	}
	return nil, ErrEntryNotFound
}

// ExportTable 导出 xlsx / csv
func (s *Service) ExportTable(batch []models.Record, format, lang string) (Artifact, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case export.FormatXLSX:
		err = export.WriteXLSX(&buf, batch, lang)
	case export.FormatCSV:
		err = export.WriteCSV(&buf, batch, lang)
	default:
		return Artifact{}, fmt.Errorf("unsupported table format %q", format)
	}
	if err != nil {
		s.recordExportErr(format, err)
		return Artifact{}, err
	}

	metrics.RecordExport(format, "ok")
	return Artifact{
		Filename:    export.Filename(batch, format, s.now()),
		ContentType: export.ContentType(format),
		Data:        buf.Bytes(),
		Records:     len(batch),
	}, nil
}

// ExportReport 生成 PDF 预览报告；字体不可用时降级而不是失败
func (s *Service) ExportReport(batch []models.Record, lang string) (Artifact, error) {
	if len(batch) == 0 {
		s.recordExportErr(export.FormatPDF, export.ErrEmptyBatch)
		return Artifact{}, export.ErrEmptyBatch
	}

	rep := export.BuildReport(batch, lang, s.PreviewLimit, s.PDF.FontOK())
	data, err := s.PDF.Render(rep)
	if err != nil {
		s.recordExportErr(export.FormatPDF, err)
		return Artifact{}, err
	}

	result := "ok"
	if rep.Degraded {
		result = "degraded"
		s.Log.WithField("records", rep.Records).Info("pdf rendered without embedded font")
	}
	metrics.RecordExport(export.FormatPDF, result)

	return Artifact{
		Filename:    export.Filename(batch, export.FormatPDF, s.now()),
		ContentType: export.ContentType(export.FormatPDF),
		Data:        data,
		Degraded:    rep.Degraded,
		Records:     rep.Records,
	}, nil
}

func (s *Service) recordExportErr(format string, err error) {
	if errors.Is(err, export.ErrEmptyBatch) {
		metrics.RecordExport(format, "empty")
		return
	}
	metrics.RecordExport(format, "failed")
	s.Log.WithError(err).WithField("format", format).Warn("export failed")
}

// Notice 导出结果对应的提示语
func Notice(a Artifact, lang string) string {
	if a.Degraded {
		return i18n.T(lang, "msg.font_missing")
	}
	return ""
}
