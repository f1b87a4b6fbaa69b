// Command batch analyzes every transcript in one spreadsheet column and writes
// a Resultados workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/eixo/medical-scribe/internal/adapters/spreadsheet"
	"github.com/eixo/medical-scribe/internal/bootstrap"
	"github.com/eixo/medical-scribe/internal/observability/logging"
)

func main() {
	in := flag.String("in", "", "input .xlsx with one transcript per row")
	sheet := flag.String("sheet", "", "sheet name (default: first sheet)")
	column := flag.String("column", "A", "column letter holding the transcript")
	header := flag.Bool("header", false, "skip the first row")
	out := flag.String("out", "resultados.xlsx", "output .xlsx path")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "batch", *level))

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: batch -in transcripts.xlsx [-sheet S] [-column A] [-header] [-out resultados.xlsx]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *in, *out, spreadsheet.ReadOptions{Sheet: *sheet, Column: *column, Header: *header}); err != nil {
		slog.Error("batch_failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, inPath, outPath string, opts spreadsheet.ReadOptions) error {
	src, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer src.Close()

	rows, err := spreadsheet.ReadTranscripts(src, opts)
	if err != nil {
		return err
	}

	results, err := spreadsheet.NewRunner(bootstrap.NewAnalyzer(nil)).Run(ctx, rows)
	if err != nil {
		return err
	}

	dst, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := spreadsheet.WriteResults(dst, results); err != nil {
		_ = dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	failed := 0
	for _, r := range results {
		if !r.Result.Success {
			failed++
		}
	}
	slog.Info("batch_completed", "rows", len(results), "rejected", failed, "out", outPath)
	return nil
}
