package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

const resultSheetName = "Результат"

var errEmptyFile = errors.New("файл не содержит данных")

// Load parses an uploaded workbook or CSV into a Table. The first row is
// taken as the header. Parse failures are recoverable: the caller keeps
// the original file and reports the error to the sender.
func Load(filename string, data []byte) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return loadWorkbook(data)
	default:
		return loadCSV(data)
	}
}

func loadWorkbook(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("открытие книги: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("чтение листа %q: %w", sheets[0], err)
	}

	return fromRows(rows)
}

func loadCSV(data []byte) (*Table, error) {
	fallback := false

	if !utf8.Valid(data) {
		// Regional fallback: files exported from Russian Excel builds
		// commonly arrive as Windows-1251.
		decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("декодирование cp1251: %w", err)
		}

		data = decoded
		fallback = true
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string

	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			if fallback {
				// On the fallback path a malformed line is skipped, not
				// fatal for the whole upload.
				continue
			}

			return nil, fmt.Errorf("разбор CSV: %w", err)
		}

		rows = append(rows, record)
	}

	return fromRows(rows)
}

func fromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, errEmptyFile
	}

	t := &Table{Headers: rows[0]}

	width := len(t.Headers)
	for _, row := range rows[1:] {
		if len(row) < width {
			row = append(row, make([]string, width-len(row))...)
		}

		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// sniffDelimiter picks the most frequent of ';', ',' and tab on the first
// line. Semicolon-delimited CSV is the regional default.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	best, bestCount := ',', 0

	for _, d := range []byte{';', ',', '\t'} {
		if n := bytes.Count(line, []byte{d}); n > bestCount {
			best, bestCount = rune(d), n
		}
	}

	return best
}

// ExportXLSX serializes the table to a single-sheet workbook.
func (t *Table) ExportXLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), resultSheetName); err != nil {
		return nil, fmt.Errorf("переименование листа: %w", err)
	}

	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}

	if err := f.SetSheetRow(resultSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("запись заголовка: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("адрес строки %d: %w", i+2, err)
		}

		if err := f.SetSheetRow(resultSheetName, cell, &cells); err != nil {
			return nil, fmt.Errorf("запись строки %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("сериализация книги: %w", err)
	}

	return buf.Bytes(), nil
}

// ResultFilename derives the output artifact name from the uploaded one.
func ResultFilename(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if base == "" || base == "." {
		base = "таблица"
	}

	return base + "_результат.xlsx"
}
