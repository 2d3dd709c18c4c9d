package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DealStatus represents the lifecycle status of a deal
type DealStatus string

const (
	DealStatusOpen DealStatus = "open"
	DealStatusWon  DealStatus = "won"
	DealStatusLost DealStatus = "lost"
)

// IsValid checks if the DealStatus is a valid enum value
func (ds DealStatus) IsValid() bool {
	switch ds {
	case DealStatusOpen, DealStatusWon, DealStatusLost:
		return true
	}
	return false
}

// PipelineAll is the filter value that matches deals from every pipeline,
// PipelineDefault is the pipeline assigned when a deal does not name one.
const (
	PipelineAll     = "all"
	PipelineDefault = "default"
)

// Stage represents one step in a sales pipeline. DisplayOrder defines the
// funnel sequence and must be unique within a pipeline.
type Stage struct {
	ID           string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(200);not null" json:"name"`
	DisplayOrder int       `gorm:"not null;column:display_order" json:"displayOrder"`
	PipelineID   *string   `gorm:"type:varchar(50);column:pipeline_id;index" json:"pipelineId,omitempty"` // nil = stage belongs to the default pipeline
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// Owner represents a sales rep that deals can be assigned to
type Owner struct {
	ID        string         `gorm:"type:varchar(100);primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`
	Email     string         `gorm:"type:varchar(255)" json:"email,omitempty"`
	Teams     pq.StringArray `gorm:"type:text[]" json:"teams,omitempty"`
	IsActive  bool           `gorm:"not null;default:true;column:is_active" json:"isActive"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// Deal represents a sales opportunity tracked through a pipeline.
//
// Amount, OwnerID, LossReason and EnteredCurrentStageAt are nullable on
// purpose: CRM records arrive partially filled and "absent" must stay
// distinguishable from "zero" all the way into the analytics layer.
// Invariants: a won or lost deal has ClosedAt set; an open deal has
// ClosedAt nil.
type Deal struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name                  string     `gorm:"type:varchar(200);not null"`
	CompanyName           string     `gorm:"type:varchar(200);column:company_name"`
	Amount                *float64   `gorm:"type:decimal(15,2)"`
	StageID               string     `gorm:"type:varchar(50);not null;index;column:stage_id"`
	Stage                 *Stage     `gorm:"foreignKey:StageID"`
	Status                DealStatus `gorm:"type:varchar(20);not null;default:'open';index"`
	OwnerID               *string    `gorm:"type:varchar(100);column:owner_id;index"`
	Owner                 *Owner     `gorm:"foreignKey:OwnerID"`
	PipelineID            string     `gorm:"type:varchar(50);not null;default:'default';column:pipeline_id;index"`
	LossReason            *string    `gorm:"type:varchar(200);column:loss_reason"`
	ClosedAt              *time.Time `gorm:"column:closed_at"`
	EnteredCurrentStageAt *time.Time `gorm:"column:entered_current_stage_at"`
	CreatedAt             time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
	UpdatedAt             time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// IsClosed reports whether the deal has reached a terminal status
func (d *Deal) IsClosed() bool {
	return d.Status == DealStatusWon || d.Status == DealStatusLost
}

// AmountOrZero returns the deal amount treating a missing amount as 0
func (d *Deal) AmountOrZero() float64 {
	if d.Amount == nil {
		return 0
	}
	return *d.Amount
}

// StageTransition records a deal moving between pipeline stages.
// FromStageID is nil for the transition that creates the deal.
// Transitions for a given deal are monotonically increasing in OccurredAt.
type StageTransition struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DealID      uuid.UUID `gorm:"type:uuid;not null;index;column:deal_id"`
	Deal        *Deal     `gorm:"foreignKey:DealID"`
	FromStageID *string   `gorm:"type:varchar(50);column:from_stage_id"`
	ToStageID   string    `gorm:"type:varchar(50);not null;column:to_stage_id"`
	Notes       string    `gorm:"type:text"`
	OccurredAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index;column:occurred_at"`
}

// TableName overrides the default table name to match the migration
func (StageTransition) TableName() string {
	return "stage_transitions"
}
