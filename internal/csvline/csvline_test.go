package csvline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "0034XYZ,23 Random Ave. N,Bellevue,WA,US", []string{"0034XYZ", "23 Random Ave. N", "Bellevue", "WA", "US"}},
		{"quoted comma", `a,"b,c",d`, []string{"a", "b,c", "d"}},
		{"escaped quote", `"John ""Middle"" Smith"`, []string{`John "Middle" Smith`}},
		{"no commas", "single", []string{"single"}},
		{"empty line", "", []string{""}},
		{"empty middle", "a,,b", []string{"a", "", "b"}},
		{"leading empty", ",a", []string{"", "a"}},
		{"trailing empty", "a,", []string{"a", ""}},
		{"unterminated quote", `a,"b,c`, []string{"a", "b,c"}},
		{"doubled quote outside quotes", `a""b,c`, []string{`a"b`, "c"}},
		{"doubled quote at start", `"",x`, []string{`"`, "x"}},
		{"quoted then text", `"ab"cd,e`, []string{"abcd", "e"}},
		{"multibyte", `"Zürich, CH",Straße`, []string{"Zürich, CH", "Straße"}},
		{"address", `1,Jane,Doe,"234, Somewhere St.",Bellevue`, []string{"1", "Jane", "Doe", "234, Somewhere St.", "Bellevue"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Tokenize(tt.line))
		})
	}
}

func TestTokenize_RoundTripPlainFields(t *testing.T) {
	t.Parallel()

	lists := [][]string{
		{"a"},
		{"1", "Jane", "Doe", "1 Main St", "Springfield", "IL", "62704", "US", "0", "0"},
		{"", "", ""},
		{"x", "", "y", ""},
	}
	for _, fields := range lists {
		got := Tokenize(strings.Join(fields, ","))
		assert.Equal(t, fields, got)
	}
}

func TestTokenize_RoundTripThroughStrictEscape(t *testing.T) {
	t.Parallel()

	fields := []string{`,lead`, `"quoted"`, "234, Somewhere St.", "plain", ""}
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeStrict(f)
	}
	assert.Equal(t, fields, Tokenize(strings.Join(escaped, ",")))
}

func TestEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"no special chars", "Bellevue", "Bellevue"},
		{"empty", "", ""},
		{"comma", "234, Somewhere St.", `"234, Somewhere St."`},
		{"quote", `John "Middle" Smith`, `"John ""Middle"" Smith"`},
		{"leading comma only", ",abc", ",abc"},
		{"leading quote only", `"abc`, `"abc`},
		{"leading comma then comma", ",a,b", `",a,b"`},
		{"trailing separator rollup", "1, 2, ", `"1, 2, "`},
		{"single item rollup", "1, ", `"1, "`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Escape(tt.value))
		})
	}
}

func TestEscapeStrict(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Bellevue", EscapeStrict("Bellevue"))
	assert.Equal(t, `",abc"`, EscapeStrict(",abc"))
	assert.Equal(t, `"""abc"`, EscapeStrict(`"abc`))
	assert.Equal(t, `"234, Somewhere St."`, EscapeStrict("234, Somewhere St."))
}

func TestParseEscaper(t *testing.T) {
	t.Parallel()

	esc, err := ParseEscaper("")
	require.NoError(t, err)
	assert.Equal(t, ",abc", esc(",abc"))

	esc, err = ParseEscaper("Strict")
	require.NoError(t, err)
	assert.Equal(t, `",abc"`, esc(",abc"))

	_, err = ParseEscaper("rfc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown escape mode")
}
