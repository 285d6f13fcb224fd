package model

import (
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContact_AllColumns(t *testing.T) {
	t.Parallel()

	line := `42,Jane,"O""Neil",1 Main St,Springfield,IL,62704,US,1,1,moved`
	c, err := ParseContact(line, 3, ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, Contact{
		ContactID:           "42",
		FirstName:           "Jane",
		LastName:            `O"Neil`,
		Street:              "1 Main St",
		City:                "Springfield",
		State:               "IL",
		Zip:                 "62704",
		Country:             "US",
		IsMeditator:         true,
		IsNCOAAddressChange: true,
		NCOAComment:         "moved",
		Line:                3,
	}, c)
}

func TestParseContact_MissingTrailingColumns(t *testing.T) {
	t.Parallel()

	c, err := ParseContact("7,John", 1, ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, "7", c.ContactID)
	assert.Equal(t, "John", c.FirstName)
	assert.Empty(t, c.LastName)
	assert.Empty(t, c.Street)
	assert.Empty(t, c.Country)
	assert.False(t, c.IsMeditator)
	assert.False(t, c.IsNCOAAddressChange)
}

func TestParseContact_FlagsRequireLiteralOne(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"0", false},
		{"true", false},
		{" 1", false},
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			c := ContactFromFields([]string{"1", "", "", "", "", "", "", "", tt.value, tt.value}, 1)
			assert.Equal(t, tt.want, c.IsMeditator)
			assert.Equal(t, tt.want, c.IsNCOAAddressChange)
		})
	}
}

func TestParseContact_StrictColumns(t *testing.T) {
	t.Parallel()

	_, err := ParseContact("1,Jane,Doe", 9, ParseOptions{StrictColumns: true})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMalformedRow))
	assert.Contains(t, err.Error(), "line 9")

	_, err = ParseContact("1,Jane,Doe,1 Main St,Springfield,IL,62704,US,0,0", 10, ParseOptions{StrictColumns: true})
	require.NoError(t, err)
}

func TestAddressKeyer_StreetKey(t *testing.T) {
	t.Parallel()

	k := NewAddressKeyer()
	c := Contact{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62704", Country: "US"}
	assert.Equal(t, "1 Main StSpringfieldIL62704", k.Key(c))
	assert.Equal(t, k.Key(c), k.Key(c))
}

func TestAddressKeyer_BlankStreetIsUnique(t *testing.T) {
	t.Parallel()

	k := NewAddressKeyer()
	seen := make(map[string]bool)
	for _, street := range []string{"", "   ", "\t", "", ""} {
		key := k.Key(Contact{Street: street, City: "Springfield"})
		assert.True(t, strings.HasPrefix(key, unkeyedPrefix))
		assert.False(t, seen[key], "key %q reused", key)
		seen[key] = true
	}
}

func TestAddressKeyer_Deterministic(t *testing.T) {
	t.Parallel()

	a, b := NewAddressKeyer(), NewAddressKeyer()
	for i := 0; i < 3; i++ {
		assert.Equal(t, a.Key(Contact{}), b.Key(Contact{}))
	}
	assert.Equal(t, "x", a.Key(Contact{Street: "x"}))
}
