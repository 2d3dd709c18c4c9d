package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnalyticsReport is the full pipeline analytics payload consumed by the
// sales-operations dashboard. It is built fresh per request and never
// persisted; field names and null-ability are part of the contract with
// the dashboard and must not change casually.
type AnalyticsReport struct {
	Period           string                `json:"period"`
	Summary          PipelineSummary       `json:"summary"`
	StageConversion  []StageConversionRow  `json:"stageConversion"`
	StalledDeals     []StalledDealDTO      `json:"stalledDeals"`
	OwnerPerformance []OwnerPerformanceRow `json:"ownerPerformance"`
	LossReasons      []LossReasonBucket    `json:"lossReasons"`
}

// PipelineSummary holds whole-pipeline totals for the active window.
// wonDeals + lostDeals + openDeals always equals totalDeals.
type PipelineSummary struct {
	TotalDeals     int     `json:"totalDeals"`
	TotalValue     float64 `json:"totalValue"`
	OpenDeals      int     `json:"openDeals"`
	OpenValue      float64 `json:"openValue"`
	WonDeals       int     `json:"wonDeals"`
	WonValue       float64 `json:"wonValue"`
	LostDeals      int     `json:"lostDeals"`
	LostValue      float64 `json:"lostValue"`
	WinRate        int     `json:"winRate"`
	AvgDealSize    float64 `json:"avgDealSize"`
	AvgDaysToClose int     `json:"avgDaysToClose"`
}

// StageConversionRow is one funnel step. ConversionRate is the percentage
// of deals that reach the next stage; it is nil for the last stage.
type StageConversionRow struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	DisplayOrder   int     `json:"displayOrder"`
	DealCount      int     `json:"dealCount"`
	TotalValue     float64 `json:"totalValue"`
	ConversionRate *int    `json:"conversionRate"`
	AvgTimeInStage int     `json:"avgTimeInStage"`
}

// StalledDealDTO is an open deal that has sat in its current stage longer
// than the stall threshold
type StalledDealDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"companyName"`
	Amount      float64   `json:"amount"`
	StageName   string    `json:"stageName"`
	DaysInStage int       `json:"daysInStage"`
	OwnerName   string    `json:"ownerName"`
}

// OwnerPerformanceRow aggregates win/loss/open counts and value per rep.
// Deals without an owner are reported under the "unassigned" bucket.
type OwnerPerformanceRow struct {
	OwnerID        string  `json:"ownerId"`
	OwnerName      string  `json:"ownerName"`
	TotalDeals     int     `json:"totalDeals"`
	WonDeals       int     `json:"wonDeals"`
	LostDeals      int     `json:"lostDeals"`
	OpenDeals      int     `json:"openDeals"`
	WinRate        int     `json:"winRate"`
	TotalValue     float64 `json:"totalValue"`
	AvgDaysToClose int     `json:"avgDaysToClose"`
}

// LossReasonBucket tallies closed-lost deals sharing a loss reason
type LossReasonBucket struct {
	Reason     string `json:"reason"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// DealDTO is the API representation of a deal
type DealDTO struct {
	ID                    uuid.UUID  `json:"id"`
	Name                  string     `json:"name"`
	CompanyName           string     `json:"companyName,omitempty"`
	Amount                *float64   `json:"amount"`
	StageID               string     `json:"stageId"`
	StageName             string     `json:"stageName,omitempty"`
	Status                DealStatus `json:"status"`
	OwnerID               *string    `json:"ownerId"`
	OwnerName             string     `json:"ownerName,omitempty"`
	PipelineID            string     `json:"pipelineId"`
	LossReason            *string    `json:"lossReason"`
	ClosedAt              *string    `json:"closedAt"`
	EnteredCurrentStageAt *string    `json:"enteredCurrentStageAt"`
	CreatedAt             string     `json:"createdAt"`
	UpdatedAt             string     `json:"updatedAt"`
}

// StageTransitionDTO is the API representation of a stage change
type StageTransitionDTO struct {
	ID          uuid.UUID `json:"id"`
	DealID      uuid.UUID `json:"dealId"`
	FromStageID *string   `json:"fromStageId"`
	ToStageID   string    `json:"toStageId"`
	Notes       string    `json:"notes,omitempty"`
	OccurredAt  string    `json:"occurredAt"`
}

// CreateDealRequest is the request body for creating a deal
type CreateDealRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	CompanyName string   `json:"companyName" validate:"max=200"`
	Amount      *float64 `json:"amount" validate:"omitempty,gte=0"`
	StageID     string   `json:"stageId" validate:"required"`
	OwnerID     *string  `json:"ownerId"`
	PipelineID  string   `json:"pipelineId"`
}

// UpdateDealRequest is the request body for updating a deal
type UpdateDealRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	CompanyName string   `json:"companyName" validate:"max=200"`
	Amount      *float64 `json:"amount" validate:"omitempty,gte=0"`
	OwnerID     *string  `json:"ownerId"`
}

// MoveStageRequest is the request body for moving a deal to another stage
type MoveStageRequest struct {
	StageID string `json:"stageId" validate:"required"`
	Notes   string `json:"notes" validate:"max=2000"`
}

// LoseDealRequest is the request body for marking a deal lost.
// Reason may be empty; the analytics layer buckets it as "Unspecified".
type LoseDealRequest struct {
	Reason string `json:"reason" validate:"max=200"`
}

// CreateStageRequest is the request body for creating a pipeline stage
type CreateStageRequest struct {
	ID           string  `json:"id" validate:"required,max=50"`
	Name         string  `json:"name" validate:"required,max=200"`
	DisplayOrder int     `json:"displayOrder" validate:"required,gt=0"`
	PipelineID   *string `json:"pipelineId" validate:"omitempty,max=50"`
}

// UpdateStageRequest is the request body for updating a pipeline stage
type UpdateStageRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	DisplayOrder int    `json:"displayOrder" validate:"required,gt=0"`
}

// CreateOwnerRequest is the request body for registering a sales rep
type CreateOwnerRequest struct {
	ID    string   `json:"id" validate:"required,max=100"`
	Name  string   `json:"name" validate:"required,max=200"`
	Email string   `json:"email" validate:"omitempty,email"`
	Teams []string `json:"teams"`
}

// UpdateOwnerRequest is the request body for updating a sales rep
type UpdateOwnerRequest struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Teams    []string `json:"teams"`
	IsActive *bool    `json:"isActive"`
}

// PaginatedResponse wraps list results with pagination metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// FormatTime renders a timestamp in the wire format used by all DTOs
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// FormatTimePtr renders an optional timestamp, preserving null
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}
