package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .csv, .xlsx or .xls")
	ErrEmptySheet        = errors.New("worksheet is empty")
)

// maxXLSRows bounds legacy workbook reads.
const maxXLSRows = 100000

// ReadRows returns the first worksheet of a csv, xlsx or xls upload as trimmed string cells.
func ReadRows(reader io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(data)
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(data)
	case ".xls":
		rows, err = readXLS(data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	rows = trimRows(rows)
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read xlsx rows: %w", err)
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	return workbook.ReadAllCells(maxXLSRows), nil
}

// trimRows trims cells and drops rows that are entirely blank.
func trimRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		blank := true
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
			if cells[i] != "" {
				blank = false
			}
		}
		if !blank {
			out = append(out, cells)
		}
	}
	return out
}
