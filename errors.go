package vizsync

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vizsync/bus"
	"github.com/hupe1980/vizsync/host"
	"github.com/hupe1980/vizsync/pack"
	"github.com/hupe1980/vizsync/reorder"
)

var (
	// ErrUnknownDimension is returned for a dimension the active pack does
	// not carry.
	ErrUnknownDimension = errors.New("unknown dimension")

	// ErrNoData is returned by operations that need at least one time label.
	ErrNoData = errors.New("no data")

	// ErrNotDragging is returned by drag moves and releases without a drag in
	// progress.
	ErrNotDragging = errors.New("no drag in progress")

	// ErrInvalidTopic is wrapped by ErrUnknownTopic.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrReorderDisabled is returned by BeginDrag when the view options do
	// not allow axis reordering.
	ErrReorderDisabled = errors.New("axis reordering disabled")

	// ErrClosed is returned after the coordinator was closed.
	ErrClosed = errors.New("coordinator closed")
)

// ErrUnknownTopic indicates a subscription to a topic outside the closed set.
//
// errors.Is(err, ErrInvalidTopic) reports true for it.
type ErrUnknownTopic struct {
	Topic bus.Topic
	cause error
}

func (e *ErrUnknownTopic) Error() string {
	return fmt.Sprintf("unknown topic %q", string(e.Topic))
}

func (e *ErrUnknownTopic) Unwrap() []error { return []error{ErrInvalidTopic, e.cause} }

// ErrDecode indicates an inbound payload or stored pack that failed to
// decode.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrDecode struct {
	Source string
	cause  error
}

func (e *ErrDecode) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Source, e.cause)
}

func (e *ErrDecode) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, bus.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	var ut *bus.ErrUnknownTopic
	if errors.As(err, &ut) {
		return &ErrUnknownTopic{Topic: ut.Topic, cause: err}
	}
	if errors.Is(err, pack.ErrCorrupt) || errors.Is(err, pack.ErrEmpty) {
		return &ErrDecode{Source: "pack", cause: err}
	}
	if errors.Is(err, host.ErrInvalidPayload) {
		return &ErrDecode{Source: "host", cause: err}
	}
	if errors.Is(err, reorder.ErrNotDragging) {
		return fmt.Errorf("%w: %w", ErrNotDragging, err)
	}
	if errors.Is(err, reorder.ErrUnknownDimension) {
		return fmt.Errorf("%w: %w", ErrUnknownDimension, err)
	}

	return err
}
