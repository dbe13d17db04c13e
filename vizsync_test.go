package vizsync

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/hupe1980/vizsync/blobstore"
	"github.com/hupe1980/vizsync/bus"
	"github.com/hupe1980/vizsync/codec"
	"github.com/hupe1980/vizsync/highlight"
	"github.com/hupe1980/vizsync/host"
	"github.com/hupe1980/vizsync/loader"
	"github.com/hupe1980/vizsync/model"
	"github.com/hupe1980/vizsync/pack"
	"github.com/hupe1980/vizsync/reorder"
	"github.com/hupe1980/vizsync/selection"
	"github.com/hupe1980/vizsync/testutil"
	"github.com/hupe1980/vizsync/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects every event published on a coordinator's bus.
type recorder struct {
	events []bus.Event
}

func record(t *testing.T, c *Coordinator) *recorder {
	t.Helper()
	r := &recorder{}
	_, err := c.Bus().SubscribeAll(func(ev bus.Event) { r.events = append(r.events, ev) })
	require.NoError(t, err)
	return r
}

func (r *recorder) topics() []bus.Topic {
	out := make([]bus.Topic, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Topic
	}
	return out
}

func (r *recorder) count(topic bus.Topic) int {
	n := 0
	for _, ev := range r.events {
		if ev.Topic == topic {
			n++
		}
	}
	return n
}

func (r *recorder) lastSelection(t *testing.T) selection.State {
	t.Helper()
	for i := len(r.events) - 1; i >= 0; i-- {
		if st, ok := r.events[i].Payload.(selection.State); ok {
			return st
		}
	}
	t.Fatal("no selectionChanged event")
	return selection.State{}
}

func (r *recorder) reset() { r.events = nil }

// energyPack has six years (2000..2005) and three records.
func energyPack() *model.Pack {
	return testutil.PackOf(
		[]string{"2000", "2001", "2002", "2003", "2004", "2005"},
		[]string{"Solar", "Wind", "Coal"},
		testutil.Rec("NL", "Solar", 1, 2, 3, 4, 5, 6).With("Wind", 10, 11, 12, 13, 14, 15).With("Coal", 5, 5, 5, 5, 5, 5),
		testutil.Rec("DE", "Solar", 20, 21, 22, 23, 24, 25).With("Wind", 2, 2, 2, 2, 2, 2).With("Coal", 30, 29, 28, 27, 26, 25),
		testutil.Rec("FR", "Solar", 3, 3, 3, 3, 3, 3).With("Wind", 4, 4, 4, 4, 4, 4).With("Coal", 1, 1, 1, 1, 1, 1),
	)
}

func newCoordinator(t *testing.T, optFns ...Option) *Coordinator {
	t.Helper()
	c := New(optFns...)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func keysOf(rows []model.Row) []model.Key {
	out := make([]model.Key, len(rows))
	for i, r := range rows {
		out[i] = r.Key
	}
	return out
}

func TestReplaceIsIdempotent(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(energyPack())

	c.ReplaceSelection(model.ProvenanceSet, model.Keys("NL", "DE"), nil)
	first := c.Selection()
	c.ReplaceSelection(model.ProvenanceSet, model.Keys("NL", "DE"), nil)
	second := c.Selection()

	assert.Equal(t, first.Keys, second.Keys)
	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, uint64(2), second.Epoch)
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(energyPack())
	c.ReplaceSelection(model.ProvenanceSet, model.Keys("NL"), nil)
	before := c.Selection().Keys

	c.ToggleSelection(model.ProvenancePoint, model.Keys("NL", "FR"), nil)
	assert.ElementsMatch(t, model.Keys("FR"), c.Selection().Keys)
	c.ToggleSelection(model.ProvenancePoint, model.Keys("NL", "FR"), nil)

	assert.ElementsMatch(t, before, c.Selection().Keys)
}

func TestVisibleRows(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(energyPack())

	t.Run("VacuousWithoutFilters", func(t *testing.T) {
		assert.Len(t, c.VisibleRows(), 3)
	})

	t.Run("Conjunction", func(t *testing.T) {
		require.NoError(t, c.SetAxisFilter("Solar", 0, 10))
		require.NoError(t, c.SetAxisFilter("Wind", 5, 15))
		assert.Equal(t, model.Keys("NL"), keysOf(c.VisibleRows()))
	})

	t.Run("UnknownDimension", func(t *testing.T) {
		assert.ErrorIs(t, c.SetAxisFilter("Hydro", 0, 1), ErrUnknownDimension)
	})
}

func TestReorderStability(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(testutil.PackOf([]string{"2020"}, []string{"A", "B", "C", "D"},
		testutil.Rec("r1", "A", 1).With("B", 2).With("C", 3).With("D", 4)))
	require.NoError(t, c.SetAxisFilter("B", 0, 5))
	rec := record(t, c)

	require.NoError(t, c.BeginDrag("C"))
	_, err := c.DragTo(-50)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, c.Dimensions(), "order is not re-sorted mid-drag")

	require.NoError(t, c.EndDrag(true))
	assert.Equal(t, []string{"C", "A", "B", "D"}, c.Dimensions())
	assert.Equal(t, []bus.Topic{bus.OrderChanged}, rec.topics())
	assert.Equal(t, bus.OrderChange{Dimensions: []string{"C", "A", "B", "D"}}, rec.events[0].Payload)

	_, ok := c.brushes.Filter("B")
	assert.True(t, ok, "brushes survive reordering")
}

func TestDrag(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(energyPack())

	t.Run("InvalidDropReverts", func(t *testing.T) {
		rec := record(t, c)
		require.NoError(t, c.BeginDrag("Coal"))
		_, err := c.DragTo(0)
		require.NoError(t, err)
		require.NoError(t, c.EndDrag(false))

		assert.Equal(t, []string{"Solar", "Wind", "Coal"}, c.Dimensions())
		assert.Empty(t, rec.events)
		assert.Equal(t, reorder.Idle, c.DragState().Phase)
	})

	t.Run("Errors", func(t *testing.T) {
		assert.ErrorIs(t, c.EndDrag(true), ErrNotDragging)
		_, err := c.DragTo(10)
		assert.ErrorIs(t, err, ErrNotDragging)
		assert.ErrorIs(t, c.BeginDrag("Hydro"), ErrUnknownDimension)
	})

	t.Run("Disabled", func(t *testing.T) {
		opts := view.DefaultOptions()
		opts.AllowReorder = false
		c.ApplyOptions(opts)
		assert.ErrorIs(t, c.BeginDrag("Coal"), ErrReorderDisabled)
	})
}

func TestStaleResponseRejection(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	c := newCoordinator(t, WithMetricsCollector(metrics))
	c.ApplyData(energyPack())

	ticket, err := c.RequestFrame(3)
	require.NoError(t, err)
	c.AdvanceTime(5)
	at5 := c.Rows()

	applied := c.ApplyLoad(loader.Result{Ticket: ticket, Rows: []model.Row{testutil.Row("XX", "Solar", 99)}})

	assert.False(t, applied)
	assert.Equal(t, 5, c.Index())
	assert.Equal(t, at5, c.Rows())
	assert.Equal(t, int64(1), metrics.GetStats().StaleResponses)
}

func TestRequestFrame_LatestWins(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(energyPack())
	fetcher := loader.NewFetcher(c.Source())
	ctx := context.Background()

	first, err := c.RequestFrame(1)
	require.NoError(t, err)
	second, err := c.RequestFrame(2)
	require.NoError(t, err)
	assert.Greater(t, second.Seq, first.Seq)

	assert.False(t, c.ApplyLoad(fetcher.Fetch(ctx, first)))
	assert.True(t, c.ApplyLoad(fetcher.Fetch(ctx, second)))
	assert.Equal(t, 2, c.Index())
	require.NotEmpty(t, c.Rows())
	assert.Equal(t, "2002", c.Rows()[0].Label)

	failed, err := c.RequestFrame(4)
	require.NoError(t, err)
	assert.False(t, c.ApplyLoad(loader.Result{Ticket: failed, Err: errors.New("offline")}))
	assert.Equal(t, 2, c.Index(), "a failed load restores the cursor")
	assert.Equal(t, "2002", c.Rows()[0].Label)
}

func TestApplyLoad_FailureRestoresCursor(t *testing.T) {
	c := newCoordinator(t)
	v, err := c.Bind("main")
	require.NoError(t, err)
	c.ApplyData(testutil.PackOf([]string{"2000", "2001", "2002"}, []string{"A"},
		testutil.Rec("X", "A", 1, 2, 3),
	))
	c.AdvanceTime(0)
	c.ReplaceSelection(model.ProvenanceSet, model.Keys("X"), nil)
	rec := record(t, c)

	_, err = c.RequestFrame(1)
	require.NoError(t, err)
	latest, err := c.RequestFrame(2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Index())

	assert.False(t, c.ApplyLoad(loader.Result{Ticket: latest, Err: errors.New("boom")}))

	assert.Equal(t, 0, c.Index())
	assert.Equal(t, "2000", c.Label())
	assert.Equal(t, "2000", c.Rows()[0].Label)
	require.Len(t, c.Selection().Rows, 1)
	assert.Equal(t, "2000", c.Selection().Rows[0].Label)
	assert.Equal(t, 0, v.Index())
	assert.Empty(t, rec.events, "views never saw the aborted move")

	retry, err := c.RequestFrame(1)
	require.NoError(t, err)
	assert.True(t, c.ApplyLoad(loader.NewFetcher(c.Source()).Fetch(context.Background(), retry)))
	assert.Equal(t, "2001", v.Label())
	assert.Equal(t, "2001", c.Selection().Rows[0].Label)
}

func TestRequestFrame_NoData(t *testing.T) {
	c := newCoordinator(t)
	_, err := c.RequestFrame(0)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSelectionSurvivesTimeChange(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(testutil.PackOf([]string{"2000", "2001"}, []string{"A"},
		testutil.Rec("X", "A", 1, 2),
		testutil.Rec("Y", "A", 3, 4),
	))
	c.AdvanceTime(0)
	c.ReplaceSelection(model.ProvenanceSet, model.Keys("X", "Y"), nil)
	rec := record(t, c)

	c.AdvanceTime(1)

	st := c.Selection()
	assert.ElementsMatch(t, model.Keys("X", "Y"), st.Keys)
	require.Len(t, st.Rows, 2)
	for _, r := range st.Rows {
		assert.Equal(t, "2001", r.Label)
	}
	assert.Equal(t, []bus.Topic{bus.TimeChanged, bus.SelectionChanged}, rec.topics())
	assert.True(t, c.Highlight().Empty())
}

func TestDroppedStaleKey(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	c := newCoordinator(t, WithMetricsCollector(metrics))
	c.ApplyData(testutil.PackOf([]string{"2000", "2001"}, []string{"A"},
		testutil.Rec("X", "A", 1, 2),
		testutil.Rec("Y", "A", 3, math.NaN()),
	))
	c.AdvanceTime(0)
	c.ReplaceSelection(model.ProvenanceSet, model.Keys("X", "Y"), nil)

	c.AdvanceTime(1)

	assert.Equal(t, model.Keys("X"), c.Selection().Keys)
	assert.Equal(t, int64(1), metrics.GetStats().DroppedKeys)
}

func TestEndToEndRangeSelection(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(testutil.PackOf([]string{"2020"}, []string{"A", "B"},
		testutil.Rec("r1", "A", 1).With("B", 9),
		testutil.Rec("r2", "A", 5).With("B", 2),
	))
	rec := record(t, c)

	require.NoError(t, c.SetAxisFilter("A", 0, 3))
	visible := c.VisibleRows()
	require.Equal(t, model.Keys("r1"), keysOf(visible))

	c.ReplaceSelection(model.ProvenanceRange, model.Keys("r1"), visible)
	st := rec.lastSelection(t)
	assert.Equal(t, uint64(1), st.Epoch)

	data, err := codec.JSON{}.Marshal(st)
	require.NoError(t, err)
	assert.JSONEq(t, `{"provenance":"range","keys":["r1"],"rows":[{"key":"r1","A":1,"B":9}],"epoch":1}`, string(data))
}

func TestBrushGesture(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(energyPack())
	c.AdvanceTime(0)
	rec := record(t, c)

	t.Run("CommitOnEnd", func(t *testing.T) {
		require.NoError(t, c.BeginBrush("Solar"))
		require.NoError(t, c.MoveBrush("Solar", 50, 0))
		require.NoError(t, c.MoveBrush("Solar", 0, 5))
		assert.Equal(t, 0, rec.count(bus.SelectionChanged), "ticks only change visibility")
		assert.ElementsMatch(t, model.Keys("NL", "FR"), keysOf(c.VisibleRows()))

		c.EndBrush("Solar")
		st := rec.lastSelection(t)
		assert.Equal(t, model.ProvenanceRange, st.Provenance)
		assert.ElementsMatch(t, model.Keys("NL", "FR"), st.Keys)
		assert.Equal(t, 1, rec.count(bus.SelectionChanged))
	})

	t.Run("EndWithoutMovementClears", func(t *testing.T) {
		rec.reset()
		require.NoError(t, c.BeginBrush("Solar"))
		c.EndBrush("Solar")

		assert.Equal(t, []bus.Topic{bus.FilterCleared}, rec.topics())
		assert.Empty(t, c.Filters())
	})

	t.Run("CancelClears", func(t *testing.T) {
		require.NoError(t, c.BeginBrush("Wind"))
		require.NoError(t, c.MoveBrush("Wind", 0, 3))
		rec.reset()
		c.CancelBrush("Wind")

		assert.Equal(t, []bus.Topic{bus.FilterCleared}, rec.topics())
		assert.Len(t, c.VisibleRows(), 3)
	})

	t.Run("UnknownDimension", func(t *testing.T) {
		assert.ErrorIs(t, c.BeginBrush("Hydro"), ErrUnknownDimension)
		assert.ErrorIs(t, c.MoveBrush("Hydro", 0, 1), ErrUnknownDimension)
	})
}

func TestClickRouting(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(energyPack())

	c.Click("NL", false)
	c.Click("DE", false)
	assert.Equal(t, model.Keys("DE"), c.Selection().Keys)
	assert.Equal(t, model.ProvenancePoint, c.Selection().Provenance)

	c.Click("FR", true)
	assert.ElementsMatch(t, model.Keys("DE", "FR"), c.Selection().Keys)

	assert.True(t, c.ToggleAddMode())
	assert.True(t, c.State().AddMode)
	c.Click("DE", false)
	assert.Equal(t, model.Keys("FR"), c.Selection().Keys)

	c.SetAddMode(false)
	c.ClearSelection()
	assert.True(t, c.Selection().Empty())
}

func TestSelectCategory(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(energyPack())
	c.AdvanceTime(0)

	// Dominant dimensions at 2000: NL Wind, DE Coal, FR Wind.
	c.SelectCategory([]string{"Wind"}, false)
	st := c.Selection()
	assert.Equal(t, model.ProvenanceBlock, st.Provenance)
	assert.ElementsMatch(t, model.Keys("NL", "FR"), st.Keys)

	c.SelectCategory([]string{"Coal"}, true)
	assert.ElementsMatch(t, model.Keys("NL", "FR", "DE"), c.Selection().Keys)
}

func TestHighlight(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(energyPack())
	rec := record(t, c)
	rows := c.Rows()

	c.ReplaceSelection(model.ProvenanceSet, model.Keys("DE"), nil)
	c.HighlightKeys("NL")
	c.HighlightKeys("NL")
	assert.Equal(t, 1, rec.count(bus.HighlightChanged))

	for _, r := range rows {
		want := highlight.LevelDimmed
		if r.Key == "NL" {
			want = highlight.LevelEmphasized
		}
		assert.Equal(t, want, c.Emphasis(r), r.Key)
	}

	c.ClearHighlight()
	for _, r := range rows {
		want := highlight.LevelDimmed
		if r.Key == "DE" {
			want = highlight.LevelEmphasized
		}
		assert.Equal(t, want, c.Emphasis(r), r.Key)
	}

	c.HighlightCategories("Coal")
	assert.Equal(t, highlight.ModeCategories, c.Highlight().Mode)
	assert.Equal(t, 3, rec.count(bus.HighlightChanged))
}

func TestApplyData(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(energyPack())
	assert.Equal(t, 5, c.Index(), "first pack starts at the last label")

	c.AdvanceTime(2)
	require.NoError(t, c.SetAxisFilter("Solar", 0, 1))
	c.ReplaceSelection(model.ProvenanceSet, model.Keys("NL", "DE"), nil)
	rec := record(t, c)

	next := energyPack()
	next.TimeLabels = next.TimeLabels[:4]
	next.Records = next.Records[:1]
	c.ApplyData(next)

	assert.Equal(t, 2, c.Index(), "index kept while the labels reach it")
	assert.Empty(t, c.Filters())
	assert.Equal(t, model.Keys("NL"), c.Selection().Keys)
	assert.Equal(t, []bus.Topic{bus.DataChanged, bus.SelectionChanged}, rec.topics())

	short := energyPack()
	short.TimeLabels = short.TimeLabels[:2]
	c.ApplyData(short)
	assert.Equal(t, 1, c.Index(), "index clamped into the new labels")
}

func TestApplyData_EmptyPackIsNotFirst(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(nil)
	require.NotNil(t, c.Pack())

	c.ApplyData(energyPack())
	assert.Equal(t, 5, c.Index(), "the first real pack starts at the last label")
}

func TestApplyData_CompactsKeys(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(testutil.PackOf([]string{"2000"}, []string{"A"},
		testutil.Rec("X", "A", 1),
		testutil.Rec("Y", "A", 2),
	))
	c.HighlightKeys("hover-1", "hover-2")
	c.ClearHighlight()
	c.Click("X", false)
	c.Click("Y", true)
	require.Equal(t, 4, c.in.Len())

	c.ApplyData(testutil.PackOf([]string{"2000"}, []string{"A"},
		testutil.Rec("X", "A", 5),
		testutil.Rec("Z", "A", 6),
	))

	assert.Equal(t, 1, c.in.Len())
	st := c.Selection()
	assert.Equal(t, model.Keys("X"), st.Keys)
	require.Len(t, st.Rows, 1)
	assert.Equal(t, 5.0, st.Rows[0].Values["A"])

	c.Click("Z", true)
	assert.Equal(t, model.Keys("X", "Z"), c.Selection().Keys)
}

func TestReplaceSelection_DropsUnknownKeys(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(testutil.PackOf([]string{"2000"}, []string{"A"},
		testutil.Rec("X", "A", 1),
	))

	c.ReplaceSelection(model.ProvenanceSet, model.Keys("X", "ghost"), nil)
	st := c.Selection()
	assert.Equal(t, model.Keys("X"), st.Keys)
	assert.Len(t, st.Rows, 1)

	c.ReplaceSelection(model.ProvenanceRange, model.Keys("X"), []model.Row{testutil.Row("X", "A", 42)})
	assert.Equal(t, 1.0, c.Selection().Rows[0].Values["A"], "rows come from the current index")
}

func TestApplyOptions_ReachesBoundViews(t *testing.T) {
	c := newCoordinator(t)
	v, err := c.Bind("main")
	require.NoError(t, err)
	c.ApplyData(energyPack())

	require.NoError(t, c.HandleProperty(host.PropertyOptions, []byte(`{"log_axes":true,"unit":"TWh","axis_labels":{"Solar":"PV"}}`)))

	opts := v.Options()
	assert.True(t, opts.LogAxes)
	assert.Equal(t, "TWh", opts.Unit)
	assert.Equal(t, "PV", opts.AxisLabel("Solar"))
	assert.Equal(t, c.ViewOptions(), opts)
}

func TestApplyData_StartLabel(t *testing.T) {
	opts := view.DefaultOptions()
	opts.StartLabel = "2001"
	c := newCoordinator(t, WithViewOptions(opts))
	c.ApplyData(energyPack())
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, "2001", c.Label())
}

func TestApplyData_EmptyIndexKeepsKeys(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(energyPack())
	c.ReplaceSelection(model.ProvenanceSet, model.Keys("NL"), nil)

	c.ApplyData(&model.Pack{TimeLabels: []string{"2000"}, Dimensions: []string{"Solar"}})
	assert.Empty(t, c.VisibleRows())
	assert.Equal(t, model.Keys("NL"), c.Selection().Keys)
	assert.Empty(t, c.Selection().Rows)
}

func TestHostChannel(t *testing.T) {
	c := newCoordinator(t)
	var msgs []host.Message
	_, err := c.ConnectHost(host.SinkFunc(func(m host.Message) error {
		msgs = append(msgs, m)
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, c.HandleProperty(host.PropertyData, []byte(`{"timeLabels":["2020","2021"],"dimensions":["A","B"],"records":[{"key":"r1","A":[1,2],"B":[9,8]},{"key":"r2","A":[5,6],"B":[2,1]}]}`)))
	assert.Equal(t, 1, c.Index())

	c.Click("r1", false)
	c.HighlightKeys("r2")
	c.AdvanceTime(0)

	require.Len(t, msgs, 2, "highlight never crosses the host boundary")
	assert.Equal(t, uint64(1), msgs[0].Seq)
	assert.Equal(t, uint64(2), msgs[1].Seq)
	assert.Equal(t, model.Keys("r1"), msgs[1].Keys)

	require.NoError(t, c.SetAxisFilter("A", 0, 3))
	require.NoError(t, c.HandleProperty(host.PropertyOptions, []byte(`{"unit":"MW","add_mode":true,"reorder":true}`)))
	assert.True(t, c.State().AddMode)
	assert.Equal(t, "MW", c.ViewOptions().Unit)
	assert.Empty(t, c.Filters())
	assert.Equal(t, 0, c.Index())

	var de *ErrDecode
	require.ErrorAs(t, c.HandleProperty(host.PropertyData, []byte(`{`)), &de)
	assert.Equal(t, "host", de.Source)
	assert.ErrorIs(t, c.HandleProperty("selection", nil), host.ErrUnknownProperty)
}

func TestLoadPack(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, pack.Save(ctx, store, "energy.json.zst", energyPack(), nil))
	require.NoError(t, store.Put(ctx, "broken.json", []byte("{")))

	c := newCoordinator(t)
	require.NoError(t, c.LoadPack(ctx, store, "energy.json.zst"))
	assert.Equal(t, []string{"Solar", "Wind", "Coal"}, c.Dimensions())
	assert.Len(t, c.Rows(), 3)

	assert.ErrorIs(t, c.LoadPack(ctx, store, "missing.json"), blobstore.ErrNotFound)

	var de *ErrDecode
	require.ErrorAs(t, c.LoadPack(ctx, store, "broken.json"), &de)
	assert.Equal(t, "pack", de.Source)
	assert.ErrorIs(t, de, pack.ErrCorrupt)
}

func TestViewsConverge(t *testing.T) {
	c := newCoordinator(t)
	main, err := c.Bind("main")
	require.NoError(t, err)
	mini, err := c.Bind("mini", view.WithSubset())
	require.NoError(t, err)

	c.ApplyData(energyPack())
	c.Click("NL", false)
	require.NoError(t, c.SetAxisFilter("Solar", 0, 10))
	c.AdvanceTime(1)

	for _, v := range []*view.Binding{main, mini} {
		assert.Equal(t, c.Selection().Keys, v.Selection().Keys, v.Name())
		assert.Equal(t, 1, v.Index(), v.Name())
		assert.Equal(t, c.Bus().Seq(), v.LastSeq(), v.Name())
	}
	assert.ElementsMatch(t, keysOf(c.VisibleRows()), keysOf(main.Visible()))
	assert.Equal(t, model.Keys("NL"), keysOf(mini.Visible()))

	late, err := c.Bind("table")
	require.NoError(t, err)
	c.Resync()
	assert.Equal(t, c.Selection().Keys, late.Selection().Keys)
	assert.Equal(t, c.Filters(), late.Filters())
	assert.Len(t, late.Rows(), 3)
}

func TestSubscribe(t *testing.T) {
	c := New()

	_, err := c.Subscribe("hover", func(bus.Event) {})
	assert.ErrorIs(t, err, ErrInvalidTopic)
	var ut *ErrUnknownTopic
	require.ErrorAs(t, err, &ut)
	assert.Equal(t, bus.Topic("hover"), ut.Topic)

	var got int
	unsub, err := c.Subscribe(bus.SelectionChanged, func(bus.Event) { got++ })
	require.NoError(t, err)
	c.ClearSelection()
	unsub()
	c.ClearSelection()
	assert.Equal(t, 1, got)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	_, err = c.Subscribe(bus.SelectionChanged, func(bus.Event) {})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.HandleProperty(host.PropertyData, nil), ErrClosed)
}

func TestShares(t *testing.T) {
	c := newCoordinator(t)
	c.ApplyData(energyPack())
	c.ReplaceSelection(model.ProvenanceSet, model.Keys("FR"), nil)

	series := c.Shares()
	require.Len(t, series, 3)
	assert.Equal(t, "Solar", series[0].Dimension)
	assert.InDelta(t, 3.0/8.0, series[0].Values[0].Share, 1e-9)
}

func TestMetricsAndLogging(t *testing.T) {
	var buf bytes.Buffer
	metrics := &BasicMetricsCollector{}
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	c := newCoordinator(t, WithMetricsCollector(metrics), WithLogger(logger))

	c.ApplyData(testutil.PackOf([]string{"2000", "2001"}, []string{"A"},
		testutil.Rec("X", "A", 1, 2),
		testutil.Rec("Y", "A", math.NaN(), 3),
		testutil.Rec("Z", "A", math.NaN(), 4),
	))
	c.ReplaceSelection(model.ProvenanceSet, model.Keys("Y"), nil)
	c.AdvanceTime(0)
	c.AdvanceTime(1)
	c.ReplaceSelection(model.ProvenanceSet, model.Keys("Z"), nil)
	c.AdvanceTime(0)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.DroppedKeys)
	assert.Positive(t, stats.CommandCount)
	assert.Equal(t, stats.PublishCount, int64(c.Bus().Seq()))
	assert.Equal(t, int64(3), stats.PublishByTopic[bus.TimeChanged])
	assert.Equal(t, 1, strings.Count(buf.String(), "selected keys missing"), "degraded warnings are throttled")
}
