package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quality-audit/internal/export"
	"quality-audit/internal/i18n"
	"quality-audit/internal/intake"
	"quality-audit/internal/logger"
	"quality-audit/internal/models"
	"quality-audit/internal/session"
	"quality-audit/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore 内存存储，fail 为 true 时 Append / ReadAll 都报错
type memStore struct {
	mu      sync.Mutex
	rows    []models.Row
	appends int
	fail    bool
}

func (m *memStore) Append(ctx context.Context, row models.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appends++
	if m.fail {
		return errors.New("backend unavailable")
	}
	m.rows = append(m.rows, row)
	return nil
}

func (m *memStore) ReadAll(ctx context.Context, bypassCache bool) (*models.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, &store.ReadError{Err: errors.New("backend unavailable")}
	}
	rows := make([]models.Row, len(m.rows))
	copy(rows, m.rows)
	return &models.Table{Columns: models.Columns, Rows: rows}, nil
}

func setup(t *testing.T) (*Service, *memStore, *session.Session) {
	t.Helper()
	st := &memStore{}
	svc := New(st, export.NewPDFRenderer(""), 0, logger.Discard())
	mgr := session.NewManager("test-secret", time.Hour, i18n.LangZH)
	return svc, st, mgr.Create(i18n.LangEN)
}

func p1Form() intake.Form {
	return intake.Form{ProjectID: "P1", Category: "Visual", Description: "scratch"}
}

func TestSubmit_Saved(t *testing.T) {
	svc, st, sess := setup(t)
	before := time.Now().Truncate(time.Second)

	rec, err := svc.Submit(context.Background(), sess, p1Form())
	require.NoError(t, err)
	require.Len(t, st.rows, 1)

	row := st.rows[0]
	assert.Equal(t, "P1", row[models.ColProjectID])
	assert.Equal(t, "Visual", row[models.ColCategory])
	assert.Equal(t, "scratch", row[models.ColDescription])
	assert.Equal(t, rec.SubmissionID, row[models.ColSubmissionID])

	created, err := time.ParseInLocation(models.TimeLayout, row[models.ColCreatedAt], time.Local)
	require.NoError(t, err)
	assert.False(t, created.Before(before))

	entry, ok := sess.Find(rec.SubmissionID)
	require.True(t, ok)
	assert.Equal(t, session.StatusSaved, entry.Status)
}

func TestSubmit_InvalidNotAppended(t *testing.T) {
	svc, st, sess := setup(t)

	_, err := svc.Submit(context.Background(), sess, intake.Form{ProjectID: "", Description: "scratch"})
	var verr *intake.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, st.appends)
	assert.Empty(t, sess.Entries())

	_, err = svc.Submit(context.Background(), sess, intake.Form{ProjectID: "P1", Description: "   "})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, st.appends)
}

func TestSubmit_ResubmitAppendsTwice(t *testing.T) {
	svc, st, sess := setup(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, sess, p1Form())
	require.NoError(t, err)
	second, err := svc.Submit(ctx, sess, p1Form())
	require.NoError(t, err)

	assert.Len(t, st.rows, 2)
	assert.NotEqual(t, first.SubmissionID, second.SubmissionID)
	assert.Len(t, sess.Saved(), 2)
}

func TestSubmit_WriteFailureKeptForRetry(t *testing.T) {
	svc, st, sess := setup(t)
	ctx := context.Background()
	st.fail = true

	rec, err := svc.Submit(ctx, sess, p1Form())
	var werr *store.WriteError
	require.ErrorAs(t, err, &werr)

	entry, ok := sess.Find(rec.SubmissionID)
	require.True(t, ok)
	assert.Equal(t, session.StatusFailed, entry.Status)
	assert.NotEmpty(t, entry.Error)
	assert.Empty(t, sess.Saved())

	// 第二次仍失败
	_, err = svc.Retry(ctx, sess, rec.SubmissionID)
	require.ErrorAs(t, err, &werr)

	st.fail = false
	_, err = svc.Retry(ctx, sess, rec.SubmissionID)
	require.NoError(t, err)
	require.Len(t, st.rows, 1)
	assert.Equal(t, rec.SubmissionID, st.rows[0][models.ColSubmissionID])

	entry, _ = sess.Find(rec.SubmissionID)
	assert.Equal(t, session.StatusSaved, entry.Status)
	assert.Empty(t, entry.Error)

	_, err = svc.Retry(ctx, sess, rec.SubmissionID)
	assert.ErrorIs(t, err, ErrAlreadySaved)
	_, err = svc.Retry(ctx, sess, "missing")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestSnapshot(t *testing.T) {
	svc, _, sess := setup(t)
	ctx := context.Background()
	_, err := svc.Submit(ctx, sess, p1Form())
	require.NoError(t, err)

	batch, err := svc.Snapshot(ctx, true)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "P1", batch[0].ProjectID)
	assert.Equal(t, models.CategoryVisual, batch[0].Category)
}

func TestSnapshot_ReadFailure(t *testing.T) {
	svc, st, _ := setup(t)
	st.fail = true

	batch, err := svc.Snapshot(context.Background(), true)
	var rerr *store.ReadError
	require.ErrorAs(t, err, &rerr)
	assert.Empty(t, batch)
}

func TestBatch(t *testing.T) {
	svc, st, sess := setup(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, sess, p1Form())
	require.NoError(t, err)
	st.fail = true
	_, err = svc.Submit(ctx, sess, intake.Form{ProjectID: "P2", Description: "dent"})
	require.Error(t, err)
	st.fail = false

	// 会话批次只含已保存的记录
	batch, err := svc.Batch(ctx, sess, SourceSession, "")
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "P1", batch[0].ProjectID)

	batch, err = svc.Batch(ctx, sess, SourceRemote, first.SubmissionID)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, first.SubmissionID, batch[0].SubmissionID)

	_, err = svc.Batch(ctx, sess, SourceRemote, "missing")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = svc.Batch(ctx, sess, "last", "")
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestExportTable(t *testing.T) {
	svc, _, sess := setup(t)
	_, err := svc.Submit(context.Background(), sess, p1Form())
	require.NoError(t, err)

	a, err := svc.ExportTable(sess.Saved(), export.FormatXLSX, i18n.LangEN)
	require.NoError(t, err)
	assert.NotEmpty(t, a.Data)
	assert.Equal(t, 1, a.Records)
	assert.Contains(t, a.Filename, "Quality_Report_P1_")
	assert.Equal(t, export.ContentType(export.FormatXLSX), a.ContentType)

	a, err = svc.ExportTable(sess.Saved(), export.FormatCSV, i18n.LangZH)
	require.NoError(t, err)
	assert.NotEmpty(t, a.Data)

	_, err = svc.ExportTable(nil, export.FormatXLSX, i18n.LangEN)
	assert.ErrorIs(t, err, export.ErrEmptyBatch)

	_, err = svc.ExportTable(sess.Saved(), "doc", i18n.LangEN)
	assert.Error(t, err)
}

func TestExportReport_FontMissing(t *testing.T) {
	svc, _, sess := setup(t)
	_, err := svc.Submit(context.Background(), sess, p1Form())
	require.NoError(t, err)

	a, err := svc.ExportReport(sess.Saved(), i18n.LangZH)
	require.NoError(t, err)
	assert.NotEmpty(t, a.Data)
	assert.True(t, a.Degraded)
	assert.Equal(t, "%PDF", string(a.Data[:4]))
	assert.NotEmpty(t, Notice(a, i18n.LangZH))

	_, err = svc.ExportReport(nil, i18n.LangZH)
	assert.ErrorIs(t, err, export.ErrEmptyBatch)
}

func TestExportReport_BoundedPreview(t *testing.T) {
	svc, _, sess := setup(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_, err := svc.Submit(ctx, sess, p1Form())
		require.NoError(t, err)
	}

	a, err := svc.ExportReport(sess.Saved(), i18n.LangEN)
	require.NoError(t, err)
	assert.Equal(t, export.DefaultPreviewLimit, a.Records)
}
