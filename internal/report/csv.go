// Package report renders an assembled fundamentals table into CSV artifacts:
// a raw machine-readable variant and a human-readable variant with per-metric
// formatting, both sharing the same section layout.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/phuslu/log"

	"github.com/quantatlas/fundsheet/internal/fundamentals"
	"github.com/quantatlas/fundsheet/pkg/utils"
)

// utf8BOM marks the files as UTF-8 for spreadsheet applications.
const utf8BOM = "\xEF\xBB\xBF"

// Writer writes fundamentals tables as CSV file pairs into one output
// directory.
type Writer struct {
	outputDir string
}

// NewWriter creates a writer rooted at outputDir. The directory is created
// on first write.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// Write renders the table into both CSV variants and returns their paths.
// I/O failures are logged here and returned; the caller is expected to skip
// the ticker and move on.
func (w *Writer) Write(table *fundamentals.Table) (rawPath, readablePath string, err error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		log.Error().Str("dir", w.outputDir).Err(err).Msg("create output directory")
		return "", "", fmt.Errorf("create output dir: %w", err)
	}

	stamp := utils.Timestamp(table.AsOfDate)
	rawPath = filepath.Join(w.outputDir, fmt.Sprintf("%s_annual_data_%s_raw.csv", table.Ticker, stamp))
	readablePath = filepath.Join(w.outputDir, fmt.Sprintf("%s_annual_data_%s_readable.csv", table.Ticker, stamp))

	if err := w.writeVariant(rawPath, table, rawCell); err != nil {
		log.Error().Str("path", rawPath).Err(err).Msg("write raw CSV")
		return "", "", err
	}
	if err := w.writeVariant(readablePath, table, readableCell); err != nil {
		log.Error().Str("path", readablePath).Err(err).Msg("write readable CSV")
		return "", "", err
	}

	return rawPath, readablePath, nil
}

// cellFormatter renders one table cell for one output row. Expanded metrics
// (dividends/splits) pass the output row's name so the formatter can pick
// the matching part of the cell.
type cellFormatter func(rowName string, c fundamentals.Cell) string

// writeVariant writes one CSV file: header block, then the labeled sections,
// each metric row prefixed with the ticker, the combined as-of string, and
// the row name.
func (w *Writer) writeVariant(path string, table *fundamentals.Table, format cellFormatter) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(f)
	asOf := asOfString(table)
	periods := table.Periods()

	header := []string{"ticker", table.Ticker}
	if table.CompanyName != "" {
		header = append(header, table.CompanyName)
	}
	records := [][]string{
		header,
		{"as of", asOf},
		{},
	}

	columns := append([]string{"ticker", "as_of", "metric"}, periods...)

	for _, section := range fundamentals.Sections() {
		records = append(records, []string{section.Name})
		records = append(records, columns)
		for _, metric := range section.Metrics {
			for _, rowName := range outputRows(metric) {
				row := []string{table.Ticker, asOf, rowName}
				for _, period := range periods {
					row = append(row, format(rowName, table.Get(metric, period)))
				}
				records = append(records, row)
			}
		}
		records = append(records, []string{})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// outputRows expands a metric into its output row names. The dividends/splits
// composite becomes two rows; everything else maps one-to-one.
func outputRows(m fundamentals.Metric) []string {
	if m == fundamentals.MetricDividendsSplits {
		return []string{rowDividends, rowSplits}
	}
	return []string{string(m)}
}

// asOfString combines the run date with the current price.
func asOfString(table *fundamentals.Table) string {
	s := table.AsOfDate.Format("2006-01-02")
	if table.AsOfPrice != nil {
		s += " " + strconv.FormatFloat(*table.AsOfPrice, 'f', 2, 64)
	}
	return s
}
