package intervention

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testData := map[string]struct {
		start  int
		end    int
		factor float64
		err    error
	}{
		"valid":            {11, 30, 0.5, nil},
		"single day":       {5, 5, 1.0, nil},
		"zero factor":      {21, 30, 0.0, nil},
		"accelerating":     {11, 30, 1.05, nil},
		"start after end":  {30, 11, 0.5, ErrInvalidInterval},
		"negative factor":  {11, 30, -0.1, ErrNegativeFactor},
		"day zero start":   {0, 30, 0.5, ErrNonPositiveStart},
		"nan factor":       {11, 30, math.NaN(), ErrNonFiniteFactor},
		"infinite factor":  {11, 30, math.Inf(1), ErrNonFiniteFactor},
		"negative and bad": {30, 11, -1.0, ErrInvalidInterval},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			iv, err := New("npi", td.start, td.end, td.factor)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				assert.Equal(t, Intervention{}, iv)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.start, iv.Start())
			assert.Equal(t, td.end, iv.End())
			assert.Equal(t, td.factor, iv.Factor())
			assert.Equal(t, "npi", iv.Name())
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() { MustNew("bad", 3, 1, 1.0) })
	assert.NotPanics(t, func() { MustNew("good", 1, 3, 1.0) })
}

func TestActive(t *testing.T) {
	iv := MustNew("npi", 11, 13, 0.5)

	testData := map[string]struct {
		day      int
		expected bool
	}{
		"before":   {10, false},
		"at start": {11, true},
		"inside":   {12, true},
		"at end":   {13, true},
		"after":    {14, false},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, iv.Active(td.day))
		})
	}
}

func TestNamedDoesNotMutate(t *testing.T) {
	iv := MustNew("", 1, 2, 0.5)
	named := iv.Named("lockdown")
	assert.Equal(t, "", iv.Name())
	assert.Equal(t, "lockdown", named.Name())
	assert.Equal(t, iv.Start(), named.Start())
}

func TestHorizon(t *testing.T) {
	assert.Equal(t, 0, Horizon(nil))
	assert.Equal(t, 30, Horizon([]Intervention{
		MustNew("a", 11, 30, 0.5),
		MustNew("b", 21, 25, 0.5),
	}))
}

func TestHasZeroFactor(t *testing.T) {
	assert.False(t, HasZeroFactor([]Intervention{MustNew("a", 11, 30, 0.5)}))
	assert.True(t, HasZeroFactor([]Intervention{
		MustNew("a", 11, 30, 1.05),
		MustNew("b", 21, 30, 0),
	}))
}

func TestInterventionJSON(t *testing.T) {
	iv := MustNew("lockdown", 11, 30, 0.5)
	out, err := json.Marshal(iv)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"lockdown","start":11,"end":30,"factor":0.5}`, string(out))

	var next Intervention
	require.NoError(t, json.Unmarshal(out, &next))
	assert.Equal(t, iv, next)

	err = json.Unmarshal([]byte(`{"name":"x","start":5,"end":1,"factor":0.5}`), &next)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}
