package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Definition is the static metadata a setting key is registered with.
// Definitions are registered once at process start and never change.
type Definition struct {
	Key         string
	Label       string
	Description string
	Group       string
	Type        Type
	Default     any
	Encrypted   bool
	ReadOnly    bool
}

// Setting is the persisted row backing one key. The value column always
// holds the ToStorage string form regardless of the declared type.
type Setting struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	Key         string       `gorm:"type:text;not null;uniqueIndex:ux_settings_key"`
	Value       string       `gorm:"type:text;not null"`
	Type        Type         `gorm:"type:text;not null"`
	Group       *string      `gorm:"column:setting_group;type:text"`
	Label       *string      `gorm:"type:text"`
	Description *string      `gorm:"type:text"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Setting) TableName() string { return "settings" }

// Data is a resolved setting instance: the current value already cast to its
// declared type. Built on read, never persisted directly.
type Data struct {
	Key         string `json:"key"`
	Value       any    `json:"value"`
	Type        Type   `json:"type"`
	Group       string `json:"group,omitempty"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}
