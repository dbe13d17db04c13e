package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/vizsync/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// PackSpec describes a generated data pack.
type PackSpec struct {
	Records    int
	Years      int
	FirstYear  int
	Dimensions []string
	// MissingRate is the probability that a value is missing (NaN).
	MissingRate float64
	// Max is the exclusive upper bound of generated values (default 100).
	Max float64
}

// Pack generates a data pack. Record keys are "R000", "R001", ...; time
// labels are consecutive years starting at FirstYear (default 2000).
func (r *RNG) Pack(ps PackSpec) *model.Pack {
	if ps.FirstYear == 0 {
		ps.FirstYear = 2000
	}
	if ps.Max <= 0 {
		ps.Max = 100
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	p := &model.Pack{Dimensions: append([]string(nil), ps.Dimensions...)}
	for y := 0; y < ps.Years; y++ {
		p.TimeLabels = append(p.TimeLabels, fmt.Sprint(ps.FirstYear+y))
	}
	for i := 0; i < ps.Records; i++ {
		rec := model.Record{Key: model.Key(fmt.Sprintf("R%03d", i)), Series: make(map[string][]float64, len(ps.Dimensions))}
		for _, d := range ps.Dimensions {
			s := make([]float64, ps.Years)
			for y := range s {
				if ps.MissingRate > 0 && r.rand.Float64() < ps.MissingRate {
					s[y] = math.NaN()
					continue
				}
				s[y] = r.rand.Float64() * ps.Max
			}
			rec.Series[d] = s
		}
		p.Records = append(p.Records, rec)
	}
	return p
}

// RecordBuilder builds a record fluently.
type RecordBuilder struct {
	rec model.Record
}

// Rec starts a record with key and the series of one dimension.
func Rec(key, dim string, values ...float64) *RecordBuilder {
	b := &RecordBuilder{rec: model.Record{Key: model.Key(key), Series: map[string][]float64{}}}
	return b.With(dim, values...)
}

// With adds the series of dim. NaN marks a missing value.
func (b *RecordBuilder) With(dim string, values ...float64) *RecordBuilder {
	b.rec.Series[dim] = append([]float64(nil), values...)
	return b
}

// Record returns the built record.
func (b *RecordBuilder) Record() model.Record {
	return b.rec
}

// PackOf assembles a pack from builders.
func PackOf(labels, dims []string, recs ...*RecordBuilder) *model.Pack {
	p := &model.Pack{TimeLabels: labels, Dimensions: dims}
	for _, b := range recs {
		p.Records = append(p.Records, b.Record())
	}
	return p
}

// Row builds a row with alternating dimension/value pairs.
func Row(key string, kv ...any) model.Row {
	r := model.Row{Key: model.Key(key), Values: make(map[string]float64, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Values[kv[i].(string)] = toFloat(kv[i+1])
	}
	return r
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		panic(fmt.Sprintf("testutil: unsupported value %T", v))
	}
}
