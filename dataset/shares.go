package dataset

import (
	"math"

	"github.com/hupe1980/vizsync/model"
)

// Share is one point of a share series.
type Share struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Share float64 `json:"share"`
}

// ShareSeries is the share of one dimension over every time index.
type ShareSeries struct {
	Dimension string  `json:"dimension"`
	Values    []Share `json:"values"`
}

// Shares computes one series per dimension over the records whose key is in
// keys, or over every record when keys is empty.
func Shares(p *model.Pack, keys []model.Key) []ShareSeries {
	if p.Empty() {
		return nil
	}
	want := make(map[model.Key]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}
	records := make([]model.Record, 0, len(p.Records))
	for _, r := range p.Records {
		if _, ok := want[r.Key]; len(want) == 0 || ok {
			records = append(records, r)
		}
	}

	out := make([]ShareSeries, len(p.Dimensions))
	for di, dim := range p.Dimensions {
		s := ShareSeries{Dimension: dim, Values: make([]Share, len(p.TimeLabels))}
		for i, label := range p.TimeLabels {
			var sumDim, sumAll float64
			for _, r := range records {
				total := 0.0
				for _, d := range p.Dimensions {
					total += finite(r.At(d, i))
				}
				if total > 0 {
					sumDim += finite(r.At(dim, i))
					sumAll += total
				}
			}
			share := 0.0
			if sumAll > 0 {
				share = sumDim / sumAll
			}
			s.Values[i] = Share{Index: i, Label: label, Share: share}
		}
		out[di] = s
	}
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
