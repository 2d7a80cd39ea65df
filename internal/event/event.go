package event

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// ErrInvalidTransition is returned when an event's precondition fails against
// the current projected state. The event is rejected entirely; Apply never runs.
var ErrInvalidTransition = errors.New("invalid_transition")

// Event is a command object carrying its own state-transition and persistence
// logic for an aggregate projection S, with handler collaborators D.
//
// The three phases run strictly in order for one event instance:
//
//	Validate -> Apply -> Handle
//
// Validate rejects the event when the projection does not permit it (return
// nil when there is no precondition). Apply is a pure, deterministic mutation
// of the in-memory projection and must never fail. Handle performs durable
// side effects using the post-apply state; it may fail, and because Apply has
// already happened a retry must not re-apply semantics — every Handle is
// required to be idempotent (overwrite, not increment).
type Event[S any, D any] interface {
	AggregateType() string
	EventType() string
	AggregateID() snowflake.ID
	Validate(state *S) error
	Apply(state *S)
	Handle(ctx context.Context, state *S, deps D) error
}

// Creator is implemented by creation events that synthesize a new aggregate
// id before Apply runs.
type Creator interface {
	SynthesizeID(node *snowflake.Node)
}
