package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quality-audit/internal/i18n"
	"quality-audit/internal/models"
	"quality-audit/internal/transform"

	"github.com/xuri/excelize/v2"
)

func makeBatch(n int) []models.Record {
	base := time.Date(2025, 3, 4, 10, 0, 0, 0, time.Local)
	out := make([]models.Record, n)
	for i := range out {
		out[i] = models.Record{
			SubmissionID: fmt.Sprintf("sub-%d", i),
			ProjectID:    fmt.Sprintf("P%d", i),
			Category:     models.CategoryVisual,
			Description:  fmt.Sprintf("issue %d", i),
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func TestWriteXLSX(t *testing.T) {
	for _, lang := range i18n.Locales {
		for _, k := range []int{1, 3, 25} {
			var buf bytes.Buffer
			if err := WriteXLSX(&buf, makeBatch(k), lang); err != nil {
				t.Fatalf("WriteXLSX(%s, %d) error = %v", lang, k, err)
			}

			f, err := excelize.OpenReader(&buf)
			if err != nil {
				t.Fatalf("open xlsx: %v", err)
			}
			sheets := f.GetSheetList()
			if len(sheets) != 1 {
				t.Fatalf("sheets = %v, want exactly one", sheets)
			}
			rows, err := f.GetRows(sheets[0])
			if err != nil {
				t.Fatalf("get rows: %v", err)
			}
			if len(rows) != k+1 {
				t.Errorf("%s: rows = %d, want %d (header + %d)", lang, len(rows), k+1, k)
			}
			header := transform.Header(lang)
			for i := range header {
				if rows[0][i] != header[i] {
					t.Errorf("%s: header[%d] = %q, want %q", lang, i, rows[0][i], header[i])
				}
			}
			f.Close()
		}
	}
}

func TestWriteXLSX_SingleRecordScenario(t *testing.T) {
	batch := []models.Record{{
		SubmissionID: "s1",
		ProjectID:    "P1",
		Category:     models.CategoryVisual,
		Description:  "scratch on panel",
		CreatedAt:    time.Now(),
	}}
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, batch, i18n.LangEN); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(f.GetSheetList()[0])
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[1][2] != "P1" || rows[1][4] != "Visual" || rows[1][5] != "scratch on panel" {
		t.Errorf("data row = %v", rows[1])
	}
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, nil, i18n.LangZH); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("WriteXLSX(empty) error = %v, want ErrEmptyBatch", err)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, makeBatch(4), i18n.LangZH); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	data := buf.Bytes()
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("missing UTF-8 BOM")
	}
	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 5 {
		t.Errorf("csv rows = %d, want 5", len(records))
	}
	if records[0][2] != "项目ID" {
		t.Errorf("header = %v", records[0])
	}
	if err := WriteCSV(&bytes.Buffer{}, nil, i18n.LangZH); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("WriteCSV(empty) error = %v, want ErrEmptyBatch", err)
	}
}

func TestBuildReport_BoundedPreview(t *testing.T) {
	batch := makeBatch(500)
	rep := BuildReport(batch, i18n.LangZH, 5, true)

	if rep.Records != 5 || rep.Total != 500 {
		t.Errorf("Records = %d Total = %d, want 5 / 500", rep.Records, rep.Total)
	}
	if len(rep.Lines) > MaxLines(5) {
		t.Errorf("lines = %d, want <= %d", len(rep.Lines), MaxLines(5))
	}
	// 只展示最新的记录
	if !strings.Contains(strings.Join(rep.Lines, "\n"), "P499") {
		t.Error("newest record missing from preview")
	}
	if strings.Contains(strings.Join(rep.Lines, "\n"), "P494\n") {
		t.Error("older record should not be previewed")
	}

	seps := 0
	for _, l := range rep.Lines {
		if l == Separator {
			seps++
		}
	}
	if seps != 5 {
		t.Errorf("separators = %d, want 5", seps)
	}
}

func TestBuildReport_DefaultLimit(t *testing.T) {
	rep := BuildReport(makeBatch(12), i18n.LangEN, 0, true)
	if rep.Records != DefaultPreviewLimit {
		t.Errorf("Records = %d, want %d", rep.Records, DefaultPreviewLimit)
	}
}

func TestBuildReport_Degraded(t *testing.T) {
	rep := BuildReport(makeBatch(1), i18n.LangZH, 5, false)
	if !rep.Degraded {
		t.Error("Degraded = false, want true")
	}
	if rep.Title != "Quality Issue Report (Font Missing)" {
		t.Errorf("Title = %q", rep.Title)
	}
	if !strings.HasPrefix(rep.Lines[0], "Project ID: ") {
		t.Errorf("first line = %q, want english label", rep.Lines[0])
	}

	full := BuildReport(makeBatch(1), i18n.LangZH, 5, true)
	if full.Degraded || !strings.HasPrefix(full.Lines[0], "项目ID: ") {
		t.Errorf("full report = %+v", full)
	}
}

func TestPDFRenderer_FontMissing(t *testing.T) {
	r := NewPDFRenderer(filepath.Join(t.TempDir(), "NotoSansSC-Regular.ttf"))
	if r.FontOK() {
		t.Fatal("FontOK() = true for missing file")
	}

	batch := makeBatch(3)
	batch[0].Description = "面板划伤"
	rep := BuildReport(batch, i18n.LangZH, 5, r.FontOK())

	out, err := r.Render(rep)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(out) == 0 || !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("Render() produced %d bytes, want a PDF", len(out))
	}
}

func TestProbeFont_RejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ttf")
	if err := os.WriteFile(path, []byte("definitely not a truetype font"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok := ProbeFont(path); ok {
		t.Error("ProbeFont(garbage) ok = true, want false")
	}
	if _, ok := ProbeFont(""); ok {
		t.Error("ProbeFont(\"\") ok = true, want false")
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 3, 4, 10, 11, 12, 0, time.UTC)

	got := Filename(makeBatch(2), FormatPDF, now)
	if got != "Quality_Report_P1_20250304_101112.pdf" {
		t.Errorf("Filename() = %q", got)
	}

	batch := []models.Record{{ProjectID: "A/B 项目"}}
	if got := Filename(batch, FormatXLSX, now); got != "Quality_Report_A_B_20250304_101112.xlsx" {
		t.Errorf("Filename(unsafe) = %q", got)
	}

	if got := Filename(nil, FormatCSV, now); got != "Quality_Report_20250304_101112.csv" {
		t.Errorf("Filename(empty) = %q", got)
	}
}
