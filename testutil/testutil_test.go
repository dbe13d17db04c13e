package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPack(t *testing.T) {
	rng := NewRNG(4711)
	p := rng.Pack(PackSpec{Records: 5, Years: 3, Dimensions: []string{"A", "B"}})

	assert.Equal(t, []string{"2000", "2001", "2002"}, p.TimeLabels)
	require.Len(t, p.Records, 5)
	assert.Equal(t, "R004", string(p.Records[4].Key))
	for _, r := range p.Records {
		for _, d := range p.Dimensions {
			require.Len(t, r.Series[d], 3)
			for _, v := range r.Series[d] {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.Less(t, v, 100.0)
			}
		}
	}
}

func TestPack_Missing(t *testing.T) {
	rng := NewRNG(1)
	p := rng.Pack(PackSpec{Records: 20, Years: 10, Dimensions: []string{"A"}, MissingRate: 1})
	assert.True(t, math.IsNaN(p.Records[0].At("A", 0)))
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	ps := PackSpec{Records: 2, Years: 2, Dimensions: []string{"A"}}
	p1 := rng.Pack(ps)

	rng.Reset()
	p2 := rng.Pack(ps)
	assert.Equal(t, p1, p2)
}

func TestBuilders(t *testing.T) {
	p := PackOf([]string{"t0"}, []string{"A", "B"}, Rec("X", "A", 1).With("B", 2))
	require.Len(t, p.Records, 1)
	assert.Equal(t, 2.0, p.Records[0].At("B", 0))

	r := Row("r1", "A", 1, "B", 9.5)
	assert.Equal(t, 9.5, r.Values["B"])
}
