package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestLoadCSVSemicolon(t *testing.T) {
	data := []byte("Наименование;Цена\nПоставка насосов;150000\nРемонт;50000\n")

	tbl, err := Load("leads.csv", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Наименование", "Цена"}, tbl.Headers)
	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, "150000", tbl.Cell(0, 1))
}

func TestLoadCSVComma(t *testing.T) {
	data := []byte("name,price\na,1\nb,2\n")

	tbl, err := Load("leads.csv", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "price"}, tbl.Headers)
	assert.Equal(t, 2, tbl.NumRows())
}

func TestLoadCSVTab(t *testing.T) {
	data := []byte("name\tprice\na\t1\n")

	tbl, err := Load("leads.tsv", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "price"}, tbl.Headers)
}

func TestLoadCSVWindows1251Fallback(t *testing.T) {
	utf := "Наименование;Сумма\nЗакупка оборудования;200000\n"

	encoded, err := charmap.Windows1251.NewEncoder().Bytes([]byte(utf))
	require.NoError(t, err)

	tbl, err := Load("leads.csv", encoded)
	require.NoError(t, err)

	assert.Equal(t, []string{"Наименование", "Сумма"}, tbl.Headers)
	require.Equal(t, 1, tbl.NumRows())
	assert.Equal(t, "Закупка оборудования", tbl.Cell(0, 0))
}

func TestLoadCSVShortRowsPadded(t *testing.T) {
	data := []byte("a;b;c\n1;2\n")

	tbl, err := Load("x.csv", data)
	require.NoError(t, err)

	require.Equal(t, 1, tbl.NumRows())
	assert.Equal(t, "", tbl.Cell(0, 2))
}

func TestLoadEmptyFile(t *testing.T) {
	_, err := Load("x.csv", nil)
	assert.Error(t, err)
}

func TestExportXLSXRoundTrip(t *testing.T) {
	in := &Table{
		Headers: []string{"Наименование", "Цена"},
		Rows: [][]string{
			{"Поставка насосов", "150000"},
			{"Ремонт", "50000"},
		},
	}

	data, err := in.ExportXLSX()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	out, err := Load("результат.xlsx", data)
	require.NoError(t, err)

	assert.Equal(t, in.Headers, out.Headers)
	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, "Поставка насосов", out.Cell(0, 0))
}

func TestResultFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"leads.xlsx", "leads_результат.xlsx"},
		{"выгрузка.csv", "выгрузка_результат.xlsx"},
		{"dir/file.csv", "file_результат.xlsx"},
		{"", "таблица_результат.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ResultFilename(tt.input))
		})
	}
}
