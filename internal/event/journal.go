package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record is one appended domain event. The journal is an append-only audit
// trail; projections are rebuilt from the aggregate's durable row, never by
// replaying records.
type Record struct {
	ID            string         `gorm:"type:text;primaryKey"`
	AggregateType string         `gorm:"type:text;not null;index:idx_domain_events_aggregate,priority:1"`
	AggregateID   int64          `gorm:"not null;index:idx_domain_events_aggregate,priority:2"`
	EventType     string         `gorm:"type:text;not null;index"`
	Payload       datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Record) TableName() string { return "domain_events" }

// Journal appends immutable event records.
type Journal interface {
	Append(ctx context.Context, aggregateType string, aggregateID int64, eventType string, payload any) error
}

type gormJournal struct {
	db *gorm.DB
}

// NewJournal returns a Journal backed by the domain_events table.
func NewJournal(db *gorm.DB) Journal {
	return &gormJournal{db: db}
}

func (j *gormJournal) Append(ctx context.Context, aggregateType string, aggregateID int64, eventType string, payload any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := Record{
		ID:            ulid.Make().String(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       datatypes.JSON(encoded),
		CreatedAt:     time.Now().UTC(),
	}
	return j.db.WithContext(ctx).Create(&record).Error
}
