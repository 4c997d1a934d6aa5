// internal/database/draft_repository.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

var ErrSnapshotNotFound = errors.New("draft snapshot not found")

// DraftRepository persists draft snapshots and the audit trail.
type DraftRepository struct {
	db *gorm.DB
}

func NewDraftRepository(db *gorm.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// Save upserts the snapshot of draft id.
func (r *DraftRepository) Save(ctx context.Context, id uuid.UUID, apprenticeID int64, state models.SnapshotState, missing []string) error {
	encoded, err := encodeState(state)
	if err != nil {
		return err
	}
	snapshot := models.DraftSnapshot{
		BaseModel:     models.BaseModel{ID: id},
		ApprenticeID:  apprenticeID,
		State:         encoded,
		MissingFields: missing,
	}
	if state.Attachment != nil {
		snapshot.AttachmentRef = state.Attachment.Ref
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "missing_fields", "attachment_ref", "updated_at"}),
	}).Create(&snapshot).Error
	if err != nil {
		return fmt.Errorf("failed to save draft snapshot: %w", err)
	}
	return nil
}

// Find loads the snapshot of draft id.
func (r *DraftRepository) Find(ctx context.Context, id uuid.UUID) (*models.DraftSnapshot, models.SnapshotState, error) {
	var snapshot models.DraftSnapshot
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.SnapshotState{}, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, models.SnapshotState{}, fmt.Errorf("failed to load draft snapshot: %w", err)
	}
	state, err := decodeState(snapshot.State)
	if err != nil {
		return nil, models.SnapshotState{}, err
	}
	return &snapshot, state, nil
}

func (r *DraftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.DraftSnapshot{}).Error; err != nil {
		return fmt.Errorf("failed to delete draft snapshot: %w", err)
	}
	return nil
}

// RecordAudit stores one audit entry.
func (r *DraftRepository) RecordAudit(ctx context.Context, entry *models.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record audit log: %w", err)
	}
	return nil
}

func encodeState(state models.SnapshotState) (models.JSONB, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft state: %w", err)
	}
	var out models.JSONB
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to encode draft state: %w", err)
	}
	return out, nil
}

func decodeState(j models.JSONB) (models.SnapshotState, error) {
	var state models.SnapshotState
	raw, err := json.Marshal(j)
	if err != nil {
		return state, fmt.Errorf("failed to decode draft state: %w", err)
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, fmt.Errorf("failed to decode draft state: %w", err)
	}
	return state, nil
}
