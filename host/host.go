// Package host implements the typed, bidirectional property channel to the
// host process.
//
// Inbound, the host pushes the "data" and "options" properties as raw JSON;
// the channel decodes them and hands them to a Target. Outbound, every
// selectionChanged notification is written to a Sink as a Message stamped
// with a strictly increasing sequence number. Highlight never crosses this
// boundary.
package host

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hupe1980/vizsync/bus"
	"github.com/hupe1980/vizsync/codec"
	"github.com/hupe1980/vizsync/config"
	"github.com/hupe1980/vizsync/model"
	"github.com/hupe1980/vizsync/selection"
	"github.com/hupe1980/vizsync/view"
)

// Property names understood by HandleProperty.
const (
	PropertyData    = "data"
	PropertyOptions = "options"
)

var (
	// ErrUnknownProperty is returned for inbound properties other than "data"
	// and "options".
	ErrUnknownProperty = errors.New("host: unknown property")
	// ErrInvalidPayload wraps decode failures of inbound properties.
	ErrInvalidPayload = errors.New("host: invalid payload")
)

// Message is the outbound "selection" property.
type Message struct {
	Seq        uint64           `json:"seq"`
	Provenance model.Provenance `json:"provenance"`
	Keys       []model.Key      `json:"keys"`
	Rows       []model.Row      `json:"rows"`
}

// Sink receives outbound messages.
type Sink interface {
	WriteSelection(Message) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Message) error

// WriteSelection calls f.
func (f SinkFunc) WriteSelection(m Message) error { return f(m) }

// Target applies inbound properties.
type Target interface {
	ApplyData(pack *model.Pack)
	ApplyOptions(opts view.Options)
}

// Option configures a Channel.
type Option func(*Channel)

// WithCodec sets the codec used to decode inbound payloads.
func WithCodec(c codec.Codec) Option {
	return func(ch *Channel) {
		ch.codec = c
	}
}

// WithLogger sets the logger used for sink failures.
func WithLogger(l *slog.Logger) Option {
	return func(ch *Channel) {
		ch.logger = l
	}
}

// Channel connects a bus to the host.
type Channel struct {
	sink    Sink
	target  Target
	codec   codec.Codec
	logger  *slog.Logger
	seq     uint64
	lastErr error
	unsub   func()
}

// New subscribes a channel to selectionChanged on b. A nil sink drops
// outbound messages; a nil target ignores inbound properties.
func New(b *bus.Bus, sink Sink, target Target, optFns ...Option) (*Channel, error) {
	ch := &Channel{
		sink:   sink,
		target: target,
		codec:  codec.Default,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(ch)
	}
	unsub, err := bus.On(b, bus.SelectionChanged, ch.onSelection)
	if err != nil {
		return nil, err
	}
	ch.unsub = unsub
	return ch, nil
}

// Seq returns the sequence number of the last outbound message.
func (ch *Channel) Seq() uint64 { return ch.seq }

// Err returns the last sink error, if any.
func (ch *Channel) Err() error { return ch.lastErr }

// Close stops forwarding selections.
func (ch *Channel) Close() {
	if ch.unsub != nil {
		ch.unsub()
		ch.unsub = nil
	}
}

func (ch *Channel) onSelection(_ uint64, st selection.State) {
	ch.seq++
	msg := Message{Seq: ch.seq, Provenance: st.Provenance, Keys: st.Keys, Rows: st.Rows}
	if ch.sink == nil {
		return
	}
	if err := ch.sink.WriteSelection(msg); err != nil {
		ch.lastErr = err
		ch.logger.Warn("host sink write failed", "seq", msg.Seq, "error", err)
	}
}

// HandleProperty decodes an inbound property change and applies it.
func (ch *Channel) HandleProperty(name string, raw []byte) error {
	switch name {
	case PropertyData:
		var p model.Pack
		if err := ch.codec.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, name, err)
		}
		if ch.target != nil {
			ch.target.ApplyData(&p)
		}
		return nil
	case PropertyOptions:
		var m map[string]any
		if err := ch.codec.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, name, err)
		}
		opts, err := config.DecodeViewOptions(m)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, name, err)
		}
		if ch.target != nil {
			ch.target.ApplyOptions(opts)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
}
