package wordlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"glossify/internal/models"
)

// ErrUnsupportedFormat is returned for files that are not .txt, .csv or .xlsx
var ErrUnsupportedFormat = errors.New("unsupported word list format")

// ImportResult holds the pairs read from a file and how many rows were dropped
type ImportResult struct {
	Pairs   []models.WordPair
	Skipped int
}

// ImportFile reads a word list, choosing the format from the file extension
func ImportFile(path string) (*ImportResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ImportExcel(path, "")
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		return ImportCSV(f, ',')
	case ".txt", "":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open word list: %w", err)
		}
		defer f.Close()
		pairs, skipped, err := ParseReader(f)
		if err != nil {
			return nil, err
		}
		return &ImportResult{Pairs: pairs, Skipped: skipped}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ImportExcel reads columns A and B of a sheet. An empty sheet name means
// the first sheet of the workbook.
func ImportExcel(path, sheet string) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of sheet %q: %w", sheet, err)
	}
	return fromRows(rows), nil
}

// ImportCSV reads the first two columns of every record
func ImportCSV(r io.Reader, comma rune) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		rows = append(rows, row)
	}
	return fromRows(rows), nil
}

func fromRows(rows [][]string) *ImportResult {
	result := &ImportResult{}
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if len(row) < 2 {
			result.Skipped++
			continue
		}
		pair := models.WordPair{
			Source: strings.TrimSpace(row[0]),
			Target: strings.TrimSpace(row[1]),
		}
		if isHeader(pair.Source + separator) {
			continue
		}
		if pair.Source == "" || pair.Target == "" {
			result.Skipped++
			continue
		}
		result.Pairs = append(result.Pairs, pair)
	}
	return result
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
