package amount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAcceptsIntegers(t *testing.T) {
	for _, s := range []string{"0", "12", "1500000", "-50000", "99999999999999999999", "-0"} {
		_, err := Parse(s)
		assert.NoError(t, err, s)
	}
}

func TestParseRejectsNonIntegers(t *testing.T) {
	for _, s := range []string{"", "-", "abc", "1.5", "1.0", "12drops", "0x10", "+5", " 42 ", "42\n", "1e3", "1E3", "0e-20000000", "1e50000000", "--1"} {
		_, err := Parse(s)
		require.Error(t, err, s)
		assert.ErrorIs(t, err, ErrNotInteger, s)
	}
}

func TestSubtractionIsExactBeyondFloat64(t *testing.T) {
	a := MustParse("1000000000000000001")
	b := MustParse("999999999999999999")
	assert.Equal(t, "2", a.Sub(b).String())

	big := MustParse("99999999999999999999999")
	assert.Equal(t, "100000000000000000000000", big.Add(FromInt64(1)).String())
	assert.Equal(t, "-1", b.Sub(MustParse("1000000000000000000")).String())
}

func TestXRPConversion(t *testing.T) {
	cases := map[string]string{
		"1500000":         "1.5",
		"1000000":         "1",
		"4000000":         "4",
		"0":               "0",
		"1":               "0.000001",
		"-50000":          "-0.05",
		"100000000000000": "100000000",
	}
	for drops, xrp := range cases {
		assert.Equal(t, xrp, MustParse(drops).XRP(), drops)
	}
}

func TestComparison(t *testing.T) {
	one := FromInt64(1_000_000)
	assert.True(t, MustParse("1000001").GreaterThan(one))
	assert.False(t, MustParse("1000000").GreaterThan(one))
	assert.True(t, MustParse("-1").LessThan(Drops{}))
	assert.True(t, MustParse("-1").IsNegative())
	assert.False(t, MustParse("1000000").LessThan(one))
	assert.Equal(t, "0", Drops{}.String())
}
