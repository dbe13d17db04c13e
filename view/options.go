package view

import (
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/hupe1980/vizsync/brush"
)

// Options is the configuration record shared by every rendering instance.
// Field tags follow the host's option names.
type Options struct {
	// AxisLabels maps dimension names to display labels.
	AxisLabels map[string]string `mapstructure:"axis_labels" json:"axis_labels,omitempty"`
	// Unit is appended by FormatValue unless Normalize is set.
	Unit string `mapstructure:"unit" json:"unit,omitempty"`
	// LogAxes selects log-scale axis domains.
	LogAxes bool `mapstructure:"log_axes" json:"log_axes,omitempty"`
	// Normalize rescales every dimension to [0, 1] per time index.
	Normalize bool `mapstructure:"normalize" json:"normalize,omitempty"`
	// AllowReorder enables axis drag reordering.
	AllowReorder bool `mapstructure:"reorder" json:"reorder,omitempty"`
	// StartLabel is the initial time label; empty selects the last label.
	StartLabel string `mapstructure:"year_start" json:"year_start,omitempty"`
	// AddMode is the initial additive click mode.
	AddMode bool `mapstructure:"add_mode" json:"add_mode,omitempty"`
	// Width is the plot width used for axis slot layout.
	Width float64 `mapstructure:"width" json:"width,omitempty"`
}

// DefaultWidth is the layout width used when Options.Width is not positive.
const DefaultWidth = 1200

// DefaultOptions returns the options used when the host sends none.
func DefaultOptions() Options {
	return Options{AllowReorder: true, Width: DefaultWidth}
}

// AxisLabel returns the display label of dim. Keys match case-insensitively
// when there is no exact match, since config files lower-case them.
func (o Options) AxisLabel(dim string) string {
	if l, ok := o.AxisLabels[dim]; ok && l != "" {
		return l
	}
	for k, l := range o.AxisLabels {
		if l != "" && strings.EqualFold(k, dim) {
			return l
		}
	}
	return dim
}

// FormatValue formats v with four significant digits followed by Unit.
// Missing values render as "–".
func (o Options) FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "–"
	}
	s := strconv.FormatFloat(v, 'g', 4, 64)
	if o.Unit != "" && !o.Normalize {
		s += " " + o.Unit
	}
	return s
}

// Scale returns the axis scale selected by LogAxes.
func (o Options) Scale() brush.Scale {
	if o.LogAxes {
		return brush.ScaleLog
	}
	return brush.ScaleLinear
}

// LayoutWidth returns Width, or DefaultWidth when unset.
func (o Options) LayoutWidth() float64 {
	if o.Width > 0 {
		return o.Width
	}
	return DefaultWidth
}

// Clone returns a deep copy.
func (o Options) Clone() Options {
	o.AxisLabels = maps.Clone(o.AxisLabels)
	return o
}
