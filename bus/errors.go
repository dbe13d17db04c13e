package bus

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Publish and Subscribe after Close.
var ErrClosed = errors.New("bus: closed")

// ErrUnknownTopic indicates a topic outside the closed set.
type ErrUnknownTopic struct {
	Topic Topic
}

func (e *ErrUnknownTopic) Error() string {
	return fmt.Sprintf("bus: unknown topic %q", string(e.Topic))
}

// ErrPayloadType indicates a payload whose type does not match its topic.
type ErrPayloadType struct {
	Topic Topic
	Got   string
	Want  string
}

func (e *ErrPayloadType) Error() string {
	return fmt.Sprintf("bus: topic %q expects %s, got %s", string(e.Topic), e.Want, e.Got)
}
