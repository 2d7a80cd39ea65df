package event

import (
	"context"

	"github.com/bwmarrin/snowflake"
	obsmetrics "github.com/smallbiznis/telesim/internal/observability/metrics"
	"go.uber.org/zap"
)

// Loader re-reads the current projection for an aggregate id. Returning a nil
// projection means the aggregate does not exist yet.
type Loader[S any] func(ctx context.Context, id snowflake.ID) (*S, error)

// Pipeline folds single events into one aggregate's projection. Callers must
// scope processing to one event at a time per aggregate id; the pipeline
// re-reads the projection immediately before folding each event but does not
// lock across Validate/Apply/Handle.
type Pipeline[S any, D any] struct {
	aggregate string
	log       *zap.Logger
	genID     *snowflake.Node
	load      Loader[S]
	journal   Journal
	deps      D
	metrics   *obsmetrics.Metrics
}

func NewPipeline[S any, D any](aggregate string, log *zap.Logger, genID *snowflake.Node, load Loader[S], journal Journal, deps D) *Pipeline[S, D] {
	return &Pipeline[S, D]{
		aggregate: aggregate,
		log:       log.Named(aggregate + ".pipeline"),
		genID:     genID,
		load:      load,
		journal:   journal,
		deps:      deps,
		metrics:   obsmetrics.Default(),
	}
}

// Dispatch runs one event through Validate, Apply and Handle. Handle errors
// are surfaced to the caller and never retried here: Apply has already
// happened, so retry policy belongs to the caller under idempotent Handle
// semantics.
func (p *Pipeline[S, D]) Dispatch(ctx context.Context, e Event[S, D]) (*S, error) {
	if creator, ok := e.(Creator); ok && e.AggregateID() == 0 {
		creator.SynthesizeID(p.genID)
	}

	state, err := p.load(ctx, e.AggregateID())
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = new(S)
	}

	if err := e.Validate(state); err != nil {
		p.metrics.EventRejected(p.aggregate, e.EventType())
		p.log.Warn("event rejected",
			zap.String("event", e.EventType()),
			zap.Int64("aggregate_id", int64(e.AggregateID())),
			zap.Error(err),
		)
		return nil, err
	}

	e.Apply(state)
	p.metrics.EventApplied(p.aggregate, e.EventType())

	if p.journal != nil {
		if err := p.journal.Append(ctx, e.AggregateType(), int64(e.AggregateID()), e.EventType(), e); err != nil {
			// The journal is an audit trail, not the source of truth; a failed
			// append must not reject an already-applied event.
			p.log.Warn("event journal append failed",
				zap.String("event", e.EventType()),
				zap.Error(err),
			)
		}
	}

	if err := e.Handle(ctx, state, p.deps); err != nil {
		p.metrics.HandleFailed(p.aggregate, e.EventType())
		return state, err
	}

	return state, nil
}
