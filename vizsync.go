package vizsync

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/vizsync/blobstore"
	"github.com/hupe1980/vizsync/brush"
	"github.com/hupe1980/vizsync/bus"
	"github.com/hupe1980/vizsync/dataset"
	"github.com/hupe1980/vizsync/highlight"
	"github.com/hupe1980/vizsync/host"
	"github.com/hupe1980/vizsync/internal/keyset"
	"github.com/hupe1980/vizsync/loader"
	"github.com/hupe1980/vizsync/model"
	"github.com/hupe1980/vizsync/reorder"
	"github.com/hupe1980/vizsync/selection"
	"github.com/hupe1980/vizsync/timecursor"
	"github.com/hupe1980/vizsync/view"
)

// Coordinator owns the coordination state and routes commands to the
// engines. Every state change is broadcast on the bus.
//
// A Coordinator is not safe for concurrent use.
type Coordinator struct {
	opts    options
	in      *keyset.Interner
	logger  *Logger
	metrics MetricsCollector

	bus     *bus.Bus
	sel     *selection.Store
	hl      *highlight.Channel
	brushes *brush.Engine
	order   *reorder.Controller
	cursor  *timecursor.Cursor
	frames  *dataset.Cache
	host    *host.Channel

	view  view.Options
	state State

	pack *model.Pack
	gen  uint64
	rows []model.Row
	// rowsIndex is the time index rows were derived at.
	rowsIndex int
	// synced is false while the cursor points at an index whose rows have
	// been requested but not yet applied.
	synced bool

	loadSeq uint64
	closed  bool
}

var _ host.Target = (*Coordinator)(nil)

// New creates a coordinator with no data.
func New(optFns ...Option) *Coordinator {
	opts := applyOptions(optFns)
	in := keyset.NewInterner()

	c := &Coordinator{
		opts:    opts,
		in:      in,
		logger:  opts.logger,
		metrics: opts.metricsCollector,
		sel:     selection.New(in),
		hl:      highlight.New(in),
		brushes: brush.New(),
		order:   reorder.New(nil, opts.view.LayoutWidth()),
		cursor:  timecursor.New(nil, 0),
		frames:  dataset.NewCache(opts.cacheBytes, opts.resources),
		view:    opts.view,
		state:   State{AddMode: opts.view.AddMode},
		synced:  true,
	}
	c.bus = bus.New(bus.WithObserver(func(ev bus.Event) {
		c.metrics.RecordPublish(ev.Topic)
	}))
	return c
}

func (c *Coordinator) track(name string) func() {
	start := time.Now()
	return func() {
		c.metrics.RecordCommand(name, time.Since(start))
	}
}

func (c *Coordinator) publish(topic bus.Topic, payload any) {
	if _, err := c.bus.Publish(topic, payload); err != nil {
		c.logger.Debug("publish dropped", "topic", string(topic), "error", err)
	}
}

// State returns the shared coordination state.
func (c *Coordinator) State() State { return c.state }

// SetAddMode sets the additive click mode.
func (c *Coordinator) SetAddMode(on bool) {
	c.state.AddMode = on
}

// ToggleAddMode flips the additive click mode and returns the new value.
func (c *Coordinator) ToggleAddMode() bool {
	c.state.AddMode = !c.state.AddMode
	return c.state.AddMode
}

// ApplyData installs a new data pack. Brush filters are reset and the rows
// of the current index are re-derived. The time index is kept unless the new
// labels no longer reach it, in which case it is clamped. The first pack
// starts at the configured start label, or the last label.
func (c *Coordinator) ApplyData(p *model.Pack) {
	defer c.track("ApplyData")()
	if p == nil {
		p = &model.Pack{}
	}
	first := c.pack.Empty()

	c.pack = p
	c.gen++
	c.frames.Drop(c.gen)
	c.loadSeq++
	c.order.SetOrder(p.Dimensions)
	if first {
		c.cursor = timecursor.New(p.TimeLabels, c.startIndex(p.TimeLabels))
	} else {
		c.cursor.SetLabels(p.TimeLabels)
	}

	c.logger.LogData(context.Background(), len(p.TimeLabels), len(p.Dimensions), len(p.Records))
	c.reset()
	c.in.Compact(c.sel.KeySet(), c.hl.KeySet())
}

func (c *Coordinator) startIndex(labels []string) int {
	if c.view.StartLabel != "" {
		if i := slices.Index(labels, c.view.StartLabel); i >= 0 {
			return i
		}
	}
	return len(labels) - 1
}

// ApplyOptions installs a new view configuration. Like a data push it resets
// every brush filter and re-derives the current rows.
func (c *Coordinator) ApplyOptions(o view.Options) {
	defer c.track("ApplyOptions")()
	c.view = o.Clone()
	c.state.AddMode = o.AddMode
	if !o.AllowReorder {
		c.order.Abort()
	}
	c.order.SetWidth(o.LayoutWidth())
	if c.pack == nil {
		return
	}
	c.loadSeq++
	c.reset()
}

// ViewOptions returns the active view configuration.
func (c *Coordinator) ViewOptions() view.Options { return c.view.Clone() }

func (c *Coordinator) frame(index int) []model.Row {
	return c.frames.Frame(c.pack, c.gen, index, dataset.Options{Normalize: c.view.Normalize})
}

func (c *Coordinator) reset() {
	c.brushes.Reset()
	c.rows = c.frame(c.cursor.Index())
	c.rowsIndex = c.cursor.Index()
	c.synced = true
	c.publish(bus.DataChanged, c.dataChange())
	c.rebase()
}

func (c *Coordinator) dataChange() bus.DataChange {
	return bus.DataChange{
		TimeLabels: c.cursor.Labels(),
		Dimensions: c.order.Order(),
		Index:      c.cursor.Index(),
		Rows:       c.rows,
		Options:    c.view.Clone(),
	}
}

func (c *Coordinator) rebase() {
	st, dropped, changed := c.sel.Rebase(c.rows)
	if len(dropped) > 0 {
		c.metrics.RecordDroppedKeys(len(dropped))
		c.logger.LogDroppedKeys(context.Background(), c.cursor.Index(), len(dropped))
	}
	if changed {
		c.publish(bus.SelectionChanged, st)
	}
}

func (c *Coordinator) checkDimension(dim string) error {
	if !c.pack.HasDimension(dim) {
		return fmt.Errorf("%w: %q", ErrUnknownDimension, dim)
	}
	return nil
}

// SetAxisFilter sets the filter of dim. Bounds are swapped when low > high.
func (c *Coordinator) SetAxisFilter(dim string, low, high float64) error {
	defer c.track("SetAxisFilter")()
	if err := c.checkDimension(dim); err != nil {
		return err
	}
	c.publish(bus.FilterChanged, c.brushes.SetFilter(dim, low, high))
	return nil
}

// ClearAxisFilter removes the filter of dim.
func (c *Coordinator) ClearAxisFilter(dim string) {
	defer c.track("ClearAxisFilter")()
	if c.brushes.ClearFilter(dim) {
		c.publish(bus.FilterCleared, bus.FilterClear{Dimension: dim})
	}
}

// ResetFilters removes every filter.
func (c *Coordinator) ResetFilters() {
	defer c.track("ResetFilters")()
	for _, dim := range c.brushes.Reset() {
		c.publish(bus.FilterCleared, bus.FilterClear{Dimension: dim})
	}
}

// Filters returns the active filters.
func (c *Coordinator) Filters() []brush.Filter { return c.brushes.Filters() }

// BeginBrush starts a range gesture on dim.
func (c *Coordinator) BeginBrush(dim string) error {
	if err := c.checkDimension(dim); err != nil {
		return err
	}
	c.brushes.Begin(dim)
	return nil
}

// MoveBrush updates the transient range of the gesture on dim. It changes
// visibility only; the selection is committed by EndBrush.
func (c *Coordinator) MoveBrush(dim string, low, high float64) error {
	defer c.track("MoveBrush")()
	if err := c.checkDimension(dim); err != nil {
		return err
	}
	c.publish(bus.FilterChanged, c.brushes.Move(dim, low, high))
	return nil
}

// EndBrush finishes the gesture on dim. After movement the keys passing
// every active filter replace the selection with provenance "range". A
// gesture that never moved clears the filter of dim and commits nothing.
func (c *Coordinator) EndBrush(dim string) {
	defer c.track("EndBrush")()
	commit, cleared := c.brushes.End(dim)
	if cleared {
		c.publish(bus.FilterCleared, bus.FilterClear{Dimension: dim})
	}
	if commit {
		keys := c.brushes.PassingKeys(c.rows)
		c.publish(bus.SelectionChanged, c.sel.Replace(model.ProvenanceRange, keys, nil))
	}
}

// CancelBrush aborts the gesture on dim without committing.
func (c *Coordinator) CancelBrush(dim string) {
	defer c.track("CancelBrush")()
	if c.brushes.Cancel(dim) {
		c.publish(bus.FilterCleared, bus.FilterClear{Dimension: dim})
	}
}

// BeginDrag starts dragging the axis of dim. A drag already in progress is
// committed first.
func (c *Coordinator) BeginDrag(dim string) error {
	if !c.view.AllowReorder {
		return ErrReorderDisabled
	}
	if c.order.State().Phase == reorder.Dragging {
		if err := c.EndDrag(true); err != nil {
			return err
		}
	}
	return translateError(c.order.PointerDown(dim))
}

// DragTo moves the dragged axis to x and returns the clamped coordinate.
// Other axes keep their slots and the order is not re-sorted.
func (c *Coordinator) DragTo(x float64) (float64, error) {
	live, err := c.order.Move(x)
	return live, translateError(err)
}

// EndDrag releases the dragged axis. On a valid drop the order is
// stable-sorted by position and committed; otherwise the pre-drag order is
// restored. Brush filters are kept by dimension.
func (c *Coordinator) EndDrag(validDrop bool) error {
	defer c.track("EndDrag")()
	changed, err := c.order.Release(validDrop)
	if err != nil {
		return translateError(err)
	}
	if changed {
		c.publish(bus.OrderChanged, bus.OrderChange{Dimensions: c.order.Order()})
	}
	return nil
}

// AbortDrag reverts a drag in progress.
func (c *Coordinator) AbortDrag() {
	c.order.Abort()
}

// DragState returns a snapshot of the reorder controller.
func (c *Coordinator) DragState() reorder.State { return c.order.State() }

// AxisPosition returns the coordinate of dim, live while it is dragged.
func (c *Coordinator) AxisPosition(dim string) (float64, bool) {
	return c.order.Position(dim)
}

// Dimensions returns the committed dimension order.
func (c *Coordinator) Dimensions() []string { return c.order.Order() }

// Click selects key. It toggles when AddMode is on or modifier is set,
// otherwise it replaces the selection.
func (c *Coordinator) Click(key model.Key, modifier bool) {
	defer c.track("Click")()
	c.commitDiscrete(model.ProvenancePoint, []model.Key{key}, modifier)
}

// SelectCategory selects every current row whose category is one of
// categories, routed like Click.
func (c *Coordinator) SelectCategory(categories []string, modifier bool) {
	defer c.track("SelectCategory")()
	var keys []model.Key
	for _, r := range c.rows {
		if slices.Contains(categories, r.Category) {
			keys = append(keys, r.Key)
		}
	}
	c.commitDiscrete(model.ProvenanceBlock, keys, modifier)
}

func (c *Coordinator) commitDiscrete(p model.Provenance, keys []model.Key, modifier bool) {
	if c.state.AddMode || modifier {
		c.publish(bus.SelectionChanged, c.sel.Toggle(p, keys, nil))
		return
	}
	c.publish(bus.SelectionChanged, c.sel.Replace(p, keys, nil))
}

// ReplaceSelection overwrites the selection. Keys without a current row are
// dropped. rows, if given, are only used while there are no current rows.
func (c *Coordinator) ReplaceSelection(p model.Provenance, keys []model.Key, rows []model.Row) {
	defer c.track("ReplaceSelection")()
	c.publish(bus.SelectionChanged, c.sel.Replace(p, keys, rows))
}

// ToggleSelection merges keys into the selection by symmetric difference.
func (c *Coordinator) ToggleSelection(p model.Provenance, keys []model.Key, rows []model.Row) {
	defer c.track("ToggleSelection")()
	c.publish(bus.SelectionChanged, c.sel.Toggle(p, keys, rows))
}

// ClearSelection empties the selection.
func (c *Coordinator) ClearSelection() {
	defer c.track("ClearSelection")()
	c.publish(bus.SelectionChanged, c.sel.Clear())
}

// Selection returns the current selection.
func (c *Coordinator) Selection() selection.State { return c.sel.Snapshot() }

// HighlightKeys emphasizes keys. An empty call clears the highlight.
func (c *Coordinator) HighlightKeys(keys ...model.Key) {
	if st, changed := c.hl.SetByKeys(keys); changed {
		c.publish(bus.HighlightChanged, st)
	}
}

// HighlightCategories emphasizes every row of the given categories.
func (c *Coordinator) HighlightCategories(categories ...string) {
	if st, changed := c.hl.SetByCategory(categories); changed {
		c.publish(bus.HighlightChanged, st)
	}
}

// ClearHighlight clears the highlight, e.g. on pointer-leave.
func (c *Coordinator) ClearHighlight() {
	if st, changed := c.hl.Clear(); changed {
		c.publish(bus.HighlightChanged, st)
	}
}

// Highlight returns the current highlight.
func (c *Coordinator) Highlight() highlight.State { return c.hl.State() }

// AdvanceTime moves the cursor to index, clamped into range, and returns the
// applied index. Selected keys are kept with refreshed rows; keys without a
// row at the new index are dropped. In-flight loads become stale.
func (c *Coordinator) AdvanceTime(index int) int {
	defer c.track("AdvanceTime")()
	c.loadSeq++
	idx, changed := c.cursor.AdvanceTo(index)
	if changed || !c.synced {
		c.applyFrame(c.frame(idx))
	}
	return idx
}

// StepTime moves the cursor by delta, wrapping around both ends.
func (c *Coordinator) StepTime(delta int) int {
	defer c.track("StepTime")()
	c.loadSeq++
	idx, changed := c.cursor.Step(delta)
	if changed || !c.synced {
		c.applyFrame(c.frame(idx))
	}
	return idx
}

func (c *Coordinator) applyFrame(rows []model.Row) {
	c.rows = rows
	c.rowsIndex = c.cursor.Index()
	c.synced = true
	c.publish(bus.TimeChanged, bus.TimeChange{
		Index: c.cursor.Index(),
		Label: c.cursor.Label(),
		Rows:  rows,
	})
	c.rebase()
}

// Index returns the current time index.
func (c *Coordinator) Index() int { return c.cursor.Index() }

// Label returns the current time label.
func (c *Coordinator) Label() string { return c.cursor.Label() }

// TimeLabels returns the time labels of the active pack.
func (c *Coordinator) TimeLabels() []string { return c.cursor.Labels() }

// RequestFrame moves the cursor to index and issues a ticket for loading its
// rows asynchronously. Resolve the ticket with a loader.Fetcher and hand the
// result to ApplyLoad.
func (c *Coordinator) RequestFrame(index int) (loader.Ticket, error) {
	if c.cursor.Len() == 0 {
		return loader.Ticket{}, ErrNoData
	}
	idx, changed := c.cursor.AdvanceTo(index)
	if changed {
		c.synced = false
	}
	c.loadSeq++
	return loader.Ticket{Seq: c.loadSeq, Index: idx, Epoch: c.sel.Epoch()}, nil
}

// ApplyLoad applies a load result. Results that are not the latest request,
// or whose index no longer matches the cursor, are discarded. A failed
// latest load moves the cursor back to the index of the current rows. It
// reports whether the rows were applied.
func (c *Coordinator) ApplyLoad(res loader.Result) bool {
	defer c.track("ApplyLoad")()
	ctx := context.Background()
	t := res.Ticket
	if t.Seq != c.loadSeq || t.Index != c.cursor.Index() {
		c.metrics.RecordStaleResponse()
		c.logger.LogStaleResponse(ctx, t.Seq, c.loadSeq, t.Index)
		return false
	}
	c.logger.LogLoad(ctx, t.Seq, t.Index, len(res.Rows), res.Err)
	if res.Err != nil {
		c.cursor.AdvanceTo(c.rowsIndex)
		c.synced = true
		return false
	}
	c.applyFrame(res.Rows)
	return true
}

// Source returns a loader source over the active pack, sharing the
// coordinator's frame cache.
func (c *Coordinator) Source() loader.Source {
	return loader.NewPackSource(c.pack, c.gen, dataset.Options{Normalize: c.view.Normalize}, c.frames)
}

// LoadPack reads a pack blob from store and applies it.
func (c *Coordinator) LoadPack(ctx context.Context, store blobstore.Store, name string) error {
	defer c.track("LoadPack")()
	p, err := loader.LoadPack(ctx, store, name, c.opts.codec, c.opts.resources)
	if err != nil {
		c.logger.ErrorContext(ctx, "load pack failed", "name", name, "error", err)
		return translateError(err)
	}
	c.ApplyData(p)
	return nil
}

// Pack returns the active pack, or nil before any data.
func (c *Coordinator) Pack() *model.Pack { return c.pack }

// Rows returns the rows of the current index. The slice is shared and must
// not be mutated.
func (c *Coordinator) Rows() []model.Row { return c.rows }

// VisibleRows returns the current rows passing every active filter.
func (c *Coordinator) VisibleRows() []model.Row { return c.brushes.VisibleRows(c.rows) }

// Domain returns the axis domain of dim over the current rows.
func (c *Coordinator) Domain(dim string) (low, high float64) {
	return brush.Domain(dim, c.rows, c.view.Scale())
}

// Shares returns the share series of the selected records, or of every
// record when nothing is selected.
func (c *Coordinator) Shares() []dataset.ShareSeries {
	return dataset.Shares(c.pack, c.sel.Snapshot().Keys)
}

// Emphasis returns the emphasis level of row.
func (c *Coordinator) Emphasis(row model.Row) highlight.Level {
	return highlight.Emphasis(c.hl.State(), c.sel.Snapshot(), row)
}

// Subscribe registers h for topic on the coordinator's bus.
func (c *Coordinator) Subscribe(topic bus.Topic, h bus.Handler) (func(), error) {
	unsub, err := c.bus.Subscribe(topic, h)
	return unsub, translateError(err)
}

// Bind registers a view on the bus. The view starts from the coordinator's
// view options; call Resync to bring views bound after data arrived up to
// date.
func (c *Coordinator) Bind(name string, optFns ...view.BindOption) (*view.Binding, error) {
	opts := append([]view.BindOption{view.WithOptions(c.view)}, optFns...)
	v, err := view.Bind(c.bus, name, opts...)
	if err != nil {
		return nil, translateError(err)
	}
	c.logger.WithView(name).Debug("view bound", "id", v.ID())
	return v, nil
}

// Resync republishes the current data, filters, selection and highlight so
// that every bound view converges on them. Epochs are not bumped.
func (c *Coordinator) Resync() {
	c.publish(bus.DataChanged, c.dataChange())
	for _, f := range c.brushes.Filters() {
		c.publish(bus.FilterChanged, f)
	}
	c.publish(bus.SelectionChanged, c.sel.Snapshot())
	c.publish(bus.HighlightChanged, c.hl.State())
}

// ConnectHost attaches the host channel. Every selection change is written
// to sink; inbound properties go through HandleProperty. A previous channel
// is closed.
func (c *Coordinator) ConnectHost(sink host.Sink) (*host.Channel, error) {
	if c.host != nil {
		c.host.Close()
	}
	ch, err := host.New(c.bus, sink, c,
		host.WithCodec(c.opts.codec),
		host.WithLogger(c.logger.Logger),
	)
	if err != nil {
		return nil, translateError(err)
	}
	c.host = ch
	return ch, nil
}

// HandleProperty applies an inbound host property ("data" or "options").
func (c *Coordinator) HandleProperty(name string, raw []byte) error {
	if c.closed {
		return ErrClosed
	}
	if c.host == nil {
		if _, err := c.ConnectHost(nil); err != nil {
			return err
		}
	}
	return translateError(c.host.HandleProperty(name, raw))
}

// Bus returns the coordinator's bus.
func (c *Coordinator) Bus() *bus.Bus { return c.bus }

// Close detaches the host channel and every subscriber. Later commands do
// not publish.
func (c *Coordinator) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.host != nil {
		c.host.Close()
	}
	c.bus.Close()
	return nil
}
