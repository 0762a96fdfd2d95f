package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input string
		want  Version
	}{
		{"5.9.2.10332", Version{5, 9, 2, 10332}},
		{"5.9.4.10300", Version{5, 9, 4, 10300}},
		{"3.12.0.0", Version{3, 12, 0, 0}},
		{"0.0.0.0", Version{0, 0, 0, 0}},
		// The separator is a single skipped character, not necessarily a dot.
		{"1-2-3-4", Version{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseVersion_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"5",
		"5.9",
		"5.9.2",
		"5..2.3",
		"5.9.2.",
		"5.9.2.x",
		"abc",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseVersion(input)
			require.Error(t, err)

			parseErr := &ParseError{}
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, input, parseErr.Input)
		})
	}
}

func TestVersion_RoundTrip(t *testing.T) {
	inputs := []string{"5.9.2.10332", "3.12.0.0", "0.0.0.1", "10.0.3.7"}

	for _, input := range inputs {
		v, err := ParseVersion(input)
		require.NoError(t, err)
		assert.Equal(t, input, v.String())

		again, err := ParseVersion(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, again)
	}
}

func TestVersion_Ordering(t *testing.T) {
	// Ascending in lexicographic-numeric order.
	ascending := []string{
		"0.0.0.0",
		"1.4.0.0",
		"1.8.0.0",
		"1.10.0.0", // numeric, not string, comparison per component
		"3.2.0.0",
		"3.2.0.1",
		"3.12.1.0",
		"5.0.0.0",
		"5.9.4.10300",
		"5.9.4.10332",
		"10.0.0.0",
	}

	versions := make([]Version, len(ascending))
	for i, s := range ascending {
		v, err := ParseVersion(s)
		require.NoError(t, err)
		versions[i] = v
	}

	for i := range versions {
		for j := range versions {
			a, b := versions[i], versions[j]
			switch {
			case i < j:
				assert.True(t, a.Less(b), "%s < %s", a, b)
				assert.Equal(t, -1, a.Compare(b))
			case i > j:
				assert.False(t, a.Less(b), "%s >= %s", a, b)
				assert.Equal(t, 1, a.Compare(b))
			default:
				assert.False(t, a.Less(b))
				assert.Equal(t, 0, a.Compare(b))
			}
		}
	}
}

func TestVersion_IsESeries(t *testing.T) {
	assert.False(t, Version{Major: 1, Minor: 8}.IsESeries())
	assert.False(t, Version{Major: 3, Minor: 14, Patch: 3, Build: 1031}.IsESeries())
	assert.False(t, Version{Major: 4, Minor: 99}.IsESeries())
	assert.True(t, Version{Major: 5}.IsESeries())
	assert.True(t, Version{Major: 5, Minor: 9, Patch: 4, Build: 10300}.IsESeries())
	assert.True(t, Version{Major: 10}.IsESeries())
}

func TestMustParseVersion_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseVersion("not a version") })
	assert.NotPanics(t, func() { MustParseVersion("5.9.4.10300") })
}

func TestExtractVersionString(t *testing.T) {
	assert.Equal(t, "5.9.4.10300", extractVersionString("URSoftware 5.9.4.10300 (Aug 05 2020)"))
	assert.Equal(t, "3.14.3.1031", extractVersionString("URSoftware 3.14.3.1031 (Mar 18 2020)"))
	// Without the parenthesized suffix the remainder is taken whole.
	assert.Equal(t, "5.9.4.10300", extractVersionString("URSoftware 5.9.4.10300"))
}
