package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Report"

// RenderError PDF 渲染失败；只影响本次导出，不影响已保存的数据
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "render pdf: " + e.Err.Error() }
func (e *RenderError) Unwrap() error { return e.Err }

// PDFRenderer 渲染报告。字体在构造时探测一次，之后只按结果分支。
type PDFRenderer struct {
	font   []byte
	fontOK bool
}

// NewPDFRenderer probes fontPath once; an unusable font selects the
// built-in fallback for every render.
func NewPDFRenderer(fontPath string) *PDFRenderer {
	data, ok := ProbeFont(fontPath)
	return &PDFRenderer{font: data, fontOK: ok}
}

// FontOK 是否可以使用嵌入字体
func (r *PDFRenderer) FontOK() bool {
	return r.fontOK
}

// ProbeFont 读取字体并试着注册到一个空文档，成功才算可用
func ProbeFont(path string) (data []byte, ok bool) {
	if path == "" {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil, false
	}

	defer func() {
		if recover() != nil {
			data, ok = nil, false
		}
	}()
	probe := fpdf.New("P", "mm", "A4", "")
	probe.AddUTF8FontFromBytes(fontFamily, "", data)
	if probe.Err() {
		return nil, false
	}
	return data, true
}

// Render 输出 PDF 字节流。渲染器的错误和 panic 都转为 *RenderError。
func (r *PDFRenderer) Render(rep Report) (out []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, &RenderError{Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(rep.Title, true)

	tr := func(s string) string { return s }
	if r.fontOK && !rep.Degraded {
		pdf.AddUTF8FontFromBytes(fontFamily, "", r.font)
		pdf.SetFont(fontFamily, "", 12)
	} else {
		pdf.SetFont("Arial", "", 12)
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.AddPage()
	pdf.CellFormat(0, 10, tr(rep.Title), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	for _, line := range rep.Lines {
		if line == Separator {
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
			continue
		}
		pdf.MultiCell(0, 10, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Err: err}
	}
	return buf.Bytes(), nil
}
