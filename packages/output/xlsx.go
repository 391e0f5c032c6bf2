package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/goalcheck/packages/core/runner"
	"github.com/xuri/excelize/v2"
)

const (
	XLSXSheetName = "Results"

	patternType    = "pattern"
	patternValue   = 1
	headerBgColor  = "D9E1F2"
	errorBgColor   = "FF5900"
	warningBgColor = "FFEB9C"

	// Checks slower than this are highlighted.
	slowCheckThreshold = 300 * time.Millisecond
)

var xlsxHeaders = []string{
	"#", "Section", "Check", "Result", "Status", "Duration (ms)", "Details", "Curl",
}

var xlsxColumnWidths = []float64{6, 16, 30, 10, 10, 14, 60, 80}

// XLSXFormatter writes the suite report as a spreadsheet
type XLSXFormatter struct {
	writer  io.Writer
	results []*runner.RunResult
	baseURL string
}

type XLSXOption func(*XLSXFormatter)

func NewXLSXFormatter(opts ...XLSXOption) *XLSXFormatter {
	f := &XLSXFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func XLSXWithWriter(w io.Writer) XLSXOption {
	return func(f *XLSXFormatter) {
		f.writer = w
	}
}

func (f *XLSXFormatter) FormatHeader(baseURL string) {
	f.baseURL = baseURL
}

func (f *XLSXFormatter) FormatResult(result *runner.RunResult) {
	f.results = append(f.results, result)
}

func (f *XLSXFormatter) FormatError(err error) {
	// Errors are reported as failed checks
}

// Flush builds the workbook and writes it
func (f *XLSXFormatter) Flush(totalDuration time.Duration) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", XLSXSheetName); err != nil {
		return fmt.Errorf("cannot create sheet: %w", err)
	}

	headerStyle, err := book.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: patternType, Pattern: patternValue, Color: []string{headerBgColor}},
	})
	if err != nil {
		return err
	}
	errorStyle, err := book.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: patternType, Pattern: patternValue, Color: []string{errorBgColor}},
	})
	if err != nil {
		return err
	}
	warningStyle, err := book.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: patternType, Pattern: patternValue, Color: []string{warningBgColor}},
	})
	if err != nil {
		return err
	}

	for i, width := range xlsxColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := book.SetColWidth(XLSXSheetName, col, col, width); err != nil {
			return err
		}
	}

	if err := writeRow(book, 1, toCells(xlsxHeaders), headerStyle); err != nil {
		return err
	}

	row := 2
	var passed, failed int
	var last *runner.RunResult
	for _, result := range f.results {
		last = result
		for _, r := range result.Results {
			style := 0
			verdict := "PASS"
			if !r.Success {
				style = errorStyle
				verdict = "FAIL"
				failed++
			} else {
				passed++
				if r.Duration > slowCheckThreshold {
					style = warningStyle
				}
			}

			cells := []any{
				row - 1,
				sectionName(r.Section),
				r.Name,
				verdict,
				r.Status,
				millis(r.Duration),
				r.Details,
				r.Curl,
			}
			if err := writeRow(book, row, cells, style); err != nil {
				return err
			}
			row++
		}
	}

	total := passed + failed
	rate := 0.0
	if total > 0 {
		rate = float64(passed) / float64(total) * 100
	}

	summary := [][]any{
		{"Summary"},
		{"Target", f.baseURL},
		{"Passed", passed},
		{"Failed", failed},
		{"Success Rate", fmt.Sprintf("%.1f%%", rate)},
		{"Total Duration (ms)", millis(totalDuration)},
	}
	if last != nil {
		if lat := last.Latency; lat.Count > 0 {
			summary = append(summary,
				[]any{"Latency p50 (ms)", millis(lat.P50)},
				[]any{"Latency p95 (ms)", millis(lat.P95)},
				[]any{"Latency max (ms)", millis(lat.Max)},
			)
		}
		if last.Aborted {
			summary = append(summary, []any{"Aborted", last.AbortReason})
		}
	}

	row++
	for i, cells := range summary {
		style := 0
		if i == 0 {
			style = headerStyle
		}
		if err := writeRow(book, row, cells, style); err != nil {
			return err
		}
		row++
	}

	if _, err := book.WriteTo(f.writer); err != nil {
		return fmt.Errorf("cannot write workbook: %w", err)
	}
	return nil
}

func writeRow(book *excelize.File, row int, cells []any, style int) error {
	for i, value := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := book.SetCellValue(XLSXSheetName, cell, value); err != nil {
			return err
		}
		if style != 0 {
			if err := book.SetCellStyle(XLSXSheetName, cell, cell, style); err != nil {
				return err
			}
		}
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
