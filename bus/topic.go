package bus

import (
	"reflect"

	"github.com/hupe1980/vizsync/brush"
	"github.com/hupe1980/vizsync/highlight"
	"github.com/hupe1980/vizsync/model"
	"github.com/hupe1980/vizsync/selection"
)

// Topic names a notification kind.
type Topic string

const (
	// TimeChanged carries a TimeChange after the cursor moved and its rows
	// were applied.
	TimeChanged Topic = "timeChanged"
	// SelectionChanged carries the new selection.State.
	SelectionChanged Topic = "selectionChanged"
	// HighlightChanged carries the new highlight.State.
	HighlightChanged Topic = "highlightChanged"
	// FilterChanged carries the brush.Filter set on one dimension.
	FilterChanged Topic = "filterChanged"
	// FilterCleared carries a FilterClear naming the dimension.
	FilterCleared Topic = "filterCleared"
	// OrderChanged carries the committed OrderChange.
	OrderChanged Topic = "orderChanged"
	// DataChanged carries a DataChange after a data or options push.
	DataChanged Topic = "dataChanged"
)

// TimeChange is the payload of TimeChanged.
type TimeChange struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	// Rows is the derived row set at Index.
	Rows []model.Row `json:"-"`
}

// FilterClear is the payload of FilterCleared.
type FilterClear struct {
	Dimension string `json:"dimension"`
}

// OrderChange is the payload of OrderChanged.
type OrderChange struct {
	Dimensions []string `json:"dimensions"`
}

// DataChange is the payload of DataChanged.
type DataChange struct {
	TimeLabels []string    `json:"timeLabels"`
	Dimensions []string    `json:"dimensions"`
	Index      int         `json:"index"`
	Rows       []model.Row `json:"-"`
	// Options is the view.Options in effect. It is typed any because view
	// builds on this package; bindings ignore values of other types.
	Options any `json:"-"`
}

var payloadTypes = map[Topic]reflect.Type{
	TimeChanged:      reflect.TypeFor[TimeChange](),
	SelectionChanged: reflect.TypeFor[selection.State](),
	HighlightChanged: reflect.TypeFor[highlight.State](),
	FilterChanged:    reflect.TypeFor[brush.Filter](),
	FilterCleared:    reflect.TypeFor[FilterClear](),
	OrderChanged:     reflect.TypeFor[OrderChange](),
	DataChanged:      reflect.TypeFor[DataChange](),
}

// Topics returns every known topic.
func Topics() []Topic {
	return []Topic{TimeChanged, SelectionChanged, HighlightChanged, FilterChanged, FilterCleared, OrderChanged, DataChanged}
}

// Valid reports whether t is a known topic.
func (t Topic) Valid() bool {
	_, ok := payloadTypes[t]
	return ok
}
