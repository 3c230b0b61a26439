package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"100", 100, true},
		{"100.5", 100.5, true},
		{"100,5", 100.5, true},
		{"1 234,56", 1234.56, true},
		{"1 234 567", 1234567, true},
		{"1,234.56", 1234.56, true},
		{"-50", -50, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12a", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)

			assert.Equal(t, tt.ok, ok)

			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("02.05.2024")
	require.True(t, ok)

	// Day-first: the second of May, not February fifth.
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, 5, int(got.Month()))
	assert.Equal(t, 2, got.Day())

	_, ok = ParseDate("150000")
	assert.False(t, ok, "bare numbers are not dates")

	_, ok = ParseDate("")
	assert.False(t, ok)

	_, ok = ParseDate("hello")
	assert.False(t, ok)
}

func TestCoerceKindInference(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   Kind
	}{
		{"numbers", []string{"100", "200", "300"}, KindNumber},
		{"numbers with noise", []string{"100", "n/a", "200", "", "300"}, KindNumber},
		{"dates", []string{"01.02.2024", "15.03.2024", "стоп"}, KindDate},
		{"text", []string{"один", "два", "три"}, KindText},
		{"single number stays text", []string{"100", "а", "б", "в"}, KindText},
		{"empty column", nil, KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Coerce(tt.values)

			assert.Equal(t, tt.want, c.Kind)
		})
	}
}

func TestCoerceNum(t *testing.T) {
	c := Coerce([]string{"100", "нет данных", "300"})
	require.Equal(t, KindNumber, c.Kind)

	v, ok := c.Num(0)
	require.True(t, ok)
	assert.InDelta(t, 100, v, 1e-9)

	_, ok = c.Num(1)
	assert.False(t, ok, "unparseable cell is incomparable, not zero")
}

func TestCoerceLiteral(t *testing.T) {
	num := Coerce([]string{"100", "200", "300"})

	v, _, ok := num.Literal("150 000")
	require.True(t, ok)
	assert.InDelta(t, 150000, v, 1e-9)

	_, _, ok = num.Literal("дорого")
	assert.False(t, ok, "text literal is incomparable with a numeric column")

	text := Coerce([]string{"Москва", "Казань"})

	_, s, ok := text.Literal("  МОСКВА ")
	require.True(t, ok)
	assert.Equal(t, "москва", s)
}

func TestCoerceTextIsCaseFolded(t *testing.T) {
	c := Coerce([]string{"Straße", "Außenhandel"})

	// Full case folding: "ß" becomes "ss", so folded cells and folded
	// literals compare equal regardless of the original casing.
	assert.Equal(t, "strasse", c.Text(0))

	_, s, ok := c.Literal("AUSSENHANDEL")
	require.True(t, ok)
	assert.Equal(t, c.Text(1), s)
}
