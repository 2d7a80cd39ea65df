package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/telesim/internal/clock"
	"github.com/smallbiznis/telesim/internal/event"
	obsmetrics "github.com/smallbiznis/telesim/internal/observability/metrics"
	providerdomain "github.com/smallbiznis/telesim/internal/provider/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const AggregateType = "sync_job"

// Deps are the collaborators sync job events use in their Handle phase.
type Deps struct {
	DB        *gorm.DB
	Jobs      Repository
	Providers providerdomain.Repository
	Clock     clock.Clock
	Metrics   *obsmetrics.Metrics
}

// Created starts a new job in Pending and persists its row.
type Created struct {
	ID                snowflake.ID  `json:"id"`
	ProviderID        snowflake.ID  `json:"provider_id"`
	Type              Type          `json:"type"`
	TriggeredBy       string        `json:"triggered_by"`
	TriggeredByUserID *snowflake.ID `json:"triggered_by_user_id,omitempty"`
	OccurredAt        time.Time     `json:"occurred_at"`
}

func (e *Created) AggregateType() string     { return AggregateType }
func (e *Created) EventType() string         { return "sync_job_created" }
func (e *Created) AggregateID() snowflake.ID { return e.ID }
func (e *Created) SynthesizeID(n *snowflake.Node) {
	e.ID = n.Generate()
}

func (e *Created) Validate(state *SyncJob) error {
	_ = state
	return nil
}

func (e *Created) Apply(state *SyncJob) {
	state.ID = e.ID
	state.ProviderID = e.ProviderID
	state.Type = e.Type
	state.Status = StatusPending
	state.TriggeredBy = e.TriggeredBy
	state.TriggeredByUserID = e.TriggeredByUserID
	state.CreatedAt = e.OccurredAt
	state.UpdatedAt = e.OccurredAt
}

func (e *Created) Handle(ctx context.Context, state *SyncJob, deps Deps) error {
	return deps.Jobs.Create(ctx, deps.DB, state)
}

// Started moves a Pending job to Running and records the start timestamp.
type Started struct {
	ID         snowflake.ID `json:"id"`
	Total      *int         `json:"total,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

func (e *Started) AggregateType() string     { return AggregateType }
func (e *Started) EventType() string         { return "sync_job_started" }
func (e *Started) AggregateID() snowflake.ID { return e.ID }

func (e *Started) Validate(state *SyncJob) error {
	if state.Status != "" && state.Status != StatusPending {
		return event.ErrInvalidTransition
	}
	return nil
}

func (e *Started) Apply(state *SyncJob) {
	state.Status = StatusRunning
	startedAt := e.OccurredAt
	state.StartedAt = &startedAt
	if e.Total != nil {
		state.Total = *e.Total
	}
	state.UpdatedAt = e.OccurredAt
}

func (e *Started) Handle(ctx context.Context, state *SyncJob, deps Deps) error {
	return deps.Jobs.Update(ctx, deps.DB, state)
}

// ProgressUpdated overwrites progress and accumulates item counters. Best
// effort: no precondition.
type ProgressUpdated struct {
	ID             snowflake.ID `json:"id"`
	Progress       int          `json:"progress"`
	Total          *int         `json:"total,omitempty"`
	ProcessedItems int          `json:"processed_items"`
	FailedItems    int          `json:"failed_items"`
	OccurredAt     time.Time    `json:"occurred_at"`
}

func (e *ProgressUpdated) AggregateType() string     { return AggregateType }
func (e *ProgressUpdated) EventType() string         { return "sync_job_progress_updated" }
func (e *ProgressUpdated) AggregateID() snowflake.ID { return e.ID }

func (e *ProgressUpdated) Validate(state *SyncJob) error {
	_ = state
	return nil
}

func (e *ProgressUpdated) Apply(state *SyncJob) {
	state.Progress = e.Progress
	if e.Total != nil {
		state.Total = *e.Total
	}
	state.ProcessedItems += e.ProcessedItems
	state.FailedItems += e.FailedItems
	state.UpdatedAt = e.OccurredAt
}

func (e *ProgressUpdated) Handle(ctx context.Context, state *SyncJob, deps Deps) error {
	return deps.Jobs.Update(ctx, deps.DB, state)
}

// Completed moves the job to its terminal success state and touches the
// owning provider's last_synced_at. The cross-aggregate write is a deliberate
// exception to single-aggregate purity: the update is monotonic and
// commutative, so no ordering dependency is introduced.
type Completed struct {
	ID         snowflake.ID `json:"id"`
	Result     Result       `json:"result"`
	OccurredAt time.Time    `json:"occurred_at"`
}

func (e *Completed) AggregateType() string     { return AggregateType }
func (e *Completed) EventType() string         { return "sync_job_completed" }
func (e *Completed) AggregateID() snowflake.ID { return e.ID }

func (e *Completed) Validate(state *SyncJob) error {
	if state.Status.Terminal() {
		return event.ErrInvalidTransition
	}
	return nil
}

func (e *Completed) Apply(state *SyncJob) {
	state.Status = StatusCompleted
	completedAt := e.OccurredAt
	state.CompletedAt = &completedAt
	if state.StartedAt != nil {
		duration := e.OccurredAt.UnixMilli() - state.StartedAt.UnixMilli()
		state.DurationMs = &duration
	}

	if e.Result.Processed != nil {
		state.Progress = *e.Result.Processed
	}
	if e.Result.Total != nil {
		state.Total = *e.Result.Total
	}
	if e.Result.ProcessedItems != nil {
		state.ProcessedItems = *e.Result.ProcessedItems
	}
	if e.Result.FailedItems != nil {
		state.FailedItems = *e.Result.FailedItems
	}
	if e.Result.Details != nil {
		state.Result = datatypes.JSONMap(e.Result.Details)
	}
	state.UpdatedAt = e.OccurredAt
}

func (e *Completed) Handle(ctx context.Context, state *SyncJob, deps Deps) error {
	if err := deps.Jobs.Update(ctx, deps.DB, state); err != nil {
		return err
	}
	if err := deps.Providers.TouchLastSynced(ctx, deps.DB, state.ProviderID, e.OccurredAt); err != nil {
		return err
	}
	if state.DurationMs != nil {
		deps.Metrics.ObserveSyncDuration(time.Duration(*state.DurationMs) * time.Millisecond)
	}
	return nil
}

// Failed moves the job to its terminal failure state with the error message.
type Failed struct {
	ID           snowflake.ID `json:"id"`
	ErrorMessage string       `json:"error_message"`
	OccurredAt   time.Time    `json:"occurred_at"`
}

func (e *Failed) AggregateType() string     { return AggregateType }
func (e *Failed) EventType() string         { return "sync_job_failed" }
func (e *Failed) AggregateID() snowflake.ID { return e.ID }

func (e *Failed) Validate(state *SyncJob) error {
	if state.Status.Terminal() {
		return event.ErrInvalidTransition
	}
	return nil
}

func (e *Failed) Apply(state *SyncJob) {
	state.Status = StatusFailed
	completedAt := e.OccurredAt
	state.CompletedAt = &completedAt
	if state.StartedAt != nil {
		duration := e.OccurredAt.UnixMilli() - state.StartedAt.UnixMilli()
		state.DurationMs = &duration
	}
	message := e.ErrorMessage
	state.ErrorMessage = &message
	state.UpdatedAt = e.OccurredAt
}

func (e *Failed) Handle(ctx context.Context, state *SyncJob, deps Deps) error {
	return deps.Jobs.Update(ctx, deps.DB, state)
}
