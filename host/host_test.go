package host

import (
	"errors"
	"testing"

	"github.com/hupe1980/vizsync/bus"
	"github.com/hupe1980/vizsync/highlight"
	"github.com/hupe1980/vizsync/model"
	"github.com/hupe1980/vizsync/selection"
	"github.com/hupe1980/vizsync/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTarget struct {
	mock.Mock
}

func (m *mockTarget) ApplyData(p *model.Pack)     { m.Called(p) }
func (m *mockTarget) ApplyOptions(o view.Options) { m.Called(o) }

func TestChannel_OutboundSequence(t *testing.T) {
	b := bus.New()
	var got []Message
	ch, err := New(b, SinkFunc(func(m Message) error {
		got = append(got, m)
		return nil
	}), nil)
	require.NoError(t, err)

	r1 := model.Row{Key: "r1", Values: map[string]float64{"A": 1}}
	_, err = b.Publish(bus.SelectionChanged, selection.State{Provenance: model.ProvenanceRange, Keys: model.Keys("r1"), Rows: []model.Row{r1}, Epoch: 1})
	require.NoError(t, err)
	_, err = b.Publish(bus.HighlightChanged, highlight.State{Mode: highlight.ModeKeys, Keys: model.Keys("r1")})
	require.NoError(t, err)
	_, err = b.Publish(bus.SelectionChanged, selection.State{Keys: []model.Key{}, Rows: []model.Row{}, Epoch: 2})
	require.NoError(t, err)

	require.Len(t, got, 2, "highlight is never sent to the host")
	assert.Equal(t, uint64(1), got[0].Seq)
	assert.Equal(t, uint64(2), got[1].Seq)
	assert.Equal(t, model.ProvenanceRange, got[0].Provenance)
	assert.Equal(t, []model.Row{r1}, got[0].Rows)
	assert.Equal(t, uint64(2), ch.Seq())
}

func TestChannel_SinkErrorIsRecorded(t *testing.T) {
	b := bus.New()
	boom := errors.New("boom")
	ch, err := New(b, SinkFunc(func(Message) error { return boom }), nil)
	require.NoError(t, err)

	_, err = b.Publish(bus.SelectionChanged, selection.State{Epoch: 1})
	require.NoError(t, err)
	assert.ErrorIs(t, ch.Err(), boom)
}

func TestChannel_HandleProperty(t *testing.T) {
	b := bus.New()
	target := &mockTarget{}
	target.On("ApplyData", mock.MatchedBy(func(p *model.Pack) bool {
		return len(p.TimeLabels) == 2 && len(p.Records) == 1 && p.Records[0].Key == "NL"
	})).Once()
	target.On("ApplyOptions", mock.MatchedBy(func(o view.Options) bool {
		return o.Unit == "MW" && o.AllowReorder
	})).Once()

	ch, err := New(b, nil, target)
	require.NoError(t, err)

	require.NoError(t, ch.HandleProperty(PropertyData, []byte(`{"timeLabels":["2020","2021"],"dimensions":["A"],"records":[{"key":"NL","A":[1,2]}]}`)))
	require.NoError(t, ch.HandleProperty(PropertyOptions, []byte(`{"unit":"MW","reorder":true,"font":{"tick":10}}`)))
	target.AssertExpectations(t)

	assert.ErrorIs(t, ch.HandleProperty("selection", nil), ErrUnknownProperty)
	assert.ErrorIs(t, ch.HandleProperty(PropertyData, []byte(`{`)), ErrInvalidPayload)
}

func TestChannel_Close(t *testing.T) {
	b := bus.New()
	calls := 0
	ch, err := New(b, SinkFunc(func(Message) error { calls++; return nil }), nil)
	require.NoError(t, err)
	ch.Close()

	_, err = b.Publish(bus.SelectionChanged, selection.State{Epoch: 1})
	require.NoError(t, err)
	assert.Zero(t, calls)
}
