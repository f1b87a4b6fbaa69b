// Package spreadsheet runs the transcript engine over every row of a workbook
// and writes one result row per transcript.
package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/eixo/medical-scribe/internal/core/domain"
	"github.com/eixo/medical-scribe/internal/core/ports"
)

const ResultSheet = "Resultados"

var resultHeader = []any{
	"Linha", "Sucesso", "CID-10", "Descrição", "Gravidade",
	"Medicamentos", "Alergias", "Comorbidades", "Falas",
}

type ReadOptions struct {
	// Sheet defaults to the first sheet of the workbook.
	Sheet string
	// Column is the letter holding the transcript, A by default.
	Column string
	// Header skips the first row.
	Header bool
}

// Row is one transcript cell. Number is the 1-based spreadsheet row.
type Row struct {
	Number     int
	Transcript string
}

type RowResult struct {
	Row    int
	Result domain.ProcessingResult
}

// ReadTranscripts returns the non-empty transcript cells of one column.
func ReadTranscripts(r io.Reader, opts ReadOptions) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.WrapError(domain.ErrUnsupportedFormat, "open workbook", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "select sheet", fmt.Errorf("sheet %q not found", sheet))
	}

	column := strings.ToUpper(strings.TrimSpace(opts.Column))
	if column == "" {
		column = "A"
	}
	colIdx, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "select column", err)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	out := make([]Row, 0, len(rows))
	for i, cells := range rows {
		if i == 0 && opts.Header {
			continue
		}
		if colIdx > len(cells) {
			continue
		}
		text := strings.TrimSpace(cells[colIdx-1])
		if text == "" {
			continue
		}
		out = append(out, Row{Number: i + 1, Transcript: text})
	}
	return out, nil
}

// Runner analyzes rows sequentially. An insufficient transcript is recorded as
// a failed row; any other error stops the run.
type Runner struct {
	analyzer ports.TranscriptAnalyzer
}

func NewRunner(analyzer ports.TranscriptAnalyzer) *Runner {
	return &Runner{analyzer: analyzer}
}

func (r *Runner) Run(ctx context.Context, rows []Row) ([]RowResult, error) {
	out := make([]RowResult, 0, len(rows))
	for _, row := range rows {
		result, err := r.analyzer.Analyze(ctx, row.Transcript)
		if err != nil && !domain.IsKind(err, domain.ErrInsufficientInput) {
			return out, fmt.Errorf("analyze row %d: %w", row.Number, err)
		}
		out = append(out, RowResult{Row: row.Number, Result: result})
	}
	return out, nil
}

// WriteResults writes a new workbook holding only the result sheet.
func WriteResults(w io.Writer, results []RowResult) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName(f.GetSheetName(0), ResultSheet); err != nil {
		return fmt.Errorf("name result sheet: %w", err)
	}
	if err := f.SetSheetRow(ResultSheet, "A1", &resultHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, res := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := resultRow(res)
		if err := f.SetSheetRow(ResultSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", res.Row, err)
		}
	}
	if err := f.SetColWidth(ResultSheet, "D", "H", 32); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func resultRow(res RowResult) []any {
	r := res.Result
	if !r.Success || r.Record == nil {
		return []any{res.Row, "não", "", r.Message, "", "", "", "", 0}
	}
	utterances := 0
	if r.Metadata != nil {
		utterances = r.Metadata.UtteranceCount
	}
	rec := r.Record
	return []any{
		res.Row,
		"sim",
		rec.Diagnosis.Code,
		rec.Diagnosis.Desc,
		string(rec.Severity),
		strings.Join(rec.Medications, ", "),
		strings.Join(rec.Allergies, ", "),
		strings.Join(rec.Comorbidities, ", "),
		utterances,
	}
}
