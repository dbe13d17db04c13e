package brush

import (
	"math"

	"github.com/hupe1980/vizsync/model"
)

// Scale selects how an axis domain is computed.
type Scale int

const (
	// ScaleLinear uses the plain data extent.
	ScaleLinear Scale = iota
	// ScaleLog ignores non-positive values.
	ScaleLog
)

// MinLogValue is the lower floor of a log-scale domain.
const MinLogValue = 1e-6

// Domain returns the data extent of dim over rows.
//
// A degenerate extent (low == high) is widened by one unit on each side so a
// range gesture stays usable; in log mode the lower bound stays positive.
// Without any usable value the domain is [0, 1].
func Domain(dim string, rows []model.Row, scale Scale) (low, high float64) {
	low, high = math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		v, ok := r.Value(dim)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if scale == ScaleLog && v <= 0 {
			continue
		}
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	if math.IsInf(low, 1) {
		return 0, 1
	}
	if scale == ScaleLog {
		low = math.Max(MinLogValue, low)
	}
	if low == high {
		low, high = low-1, high+1
		if scale == ScaleLog && low <= 0 {
			low = MinLogValue
		}
	}
	return low, high
}
