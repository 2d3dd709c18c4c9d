// Package testutil provides shared database helpers for repository and
// service tests. Tests run against an in-memory SQLite database so the
// suite needs no external services.
package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/natemoovs/salesops-api/internal/domain"
)

// SQLite cannot evaluate the Postgres column defaults in the model tags, so
// the schema is created explicitly. Keep this in sync with the migrations.
const testSchema = `
CREATE TABLE stages (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    display_order INTEGER NOT NULL,
    pipeline_id   TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE owners (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT,
    teams      TEXT,
    is_active  BOOLEAN NOT NULL DEFAULT TRUE,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE TABLE deals (
    id                       TEXT PRIMARY KEY,
    name                     TEXT NOT NULL,
    company_name             TEXT,
    amount                   REAL,
    stage_id                 TEXT NOT NULL,
    status                   TEXT NOT NULL DEFAULT 'open',
    owner_id                 TEXT,
    pipeline_id              TEXT NOT NULL DEFAULT 'default',
    loss_reason              TEXT,
    closed_at                DATETIME,
    entered_current_stage_at DATETIME,
    created_at               DATETIME NOT NULL,
    updated_at               DATETIME NOT NULL
);
CREATE TABLE stage_transitions (
    id            TEXT PRIMARY KEY,
    deal_id       TEXT NOT NULL,
    from_stage_id TEXT,
    to_stage_id   TEXT NOT NULL,
    notes         TEXT,
    occurred_at   DATETIME NOT NULL
);
`

// SetupTestDB creates a fresh in-memory database with the full schema.
// Each call returns an isolated database; no cleanup between tests needed.
func SetupTestDB(t require.TestingT) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(testSchema).Error)
	return db
}

// SeedDefaultStages inserts the standard four-stage funnel
func SeedDefaultStages(t require.TestingT, db *gorm.DB) []domain.Stage {
	stages := []domain.Stage{
		{ID: "lead", Name: "Lead", DisplayOrder: 1},
		{ID: "qualified", Name: "Qualified", DisplayOrder: 2},
		{ID: "proposal", Name: "Proposal", DisplayOrder: 3},
		{ID: "negotiation", Name: "Negotiation", DisplayOrder: 4},
	}
	now := time.Now().UTC()
	for i := range stages {
		stages[i].CreatedAt = now
		stages[i].UpdatedAt = now
		require.NoError(t, db.Create(&stages[i]).Error)
	}
	return stages
}

// CreateTestOwner inserts an owner
func CreateTestOwner(t require.TestingT, db *gorm.DB, id, name string) *domain.Owner {
	now := time.Now().UTC()
	owner := &domain.Owner{
		ID:        id,
		Name:      name,
		Email:     id + "@example.com",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(owner).Error)
	return owner
}

// CreateTestDeal inserts an open deal in the given stage
func CreateTestDeal(t require.TestingT, db *gorm.DB, name, stageID string, amount *float64) *domain.Deal {
	now := time.Now().UTC()
	deal := &domain.Deal{
		ID:                    uuid.New(),
		Name:                  name,
		Amount:                amount,
		StageID:               stageID,
		Status:                domain.DealStatusOpen,
		PipelineID:            "default",
		EnteredCurrentStageAt: &now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	require.NoError(t, db.Create(deal).Error)
	return deal
}
