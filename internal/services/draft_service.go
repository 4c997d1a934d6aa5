// internal/services/draft_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/July173/autogestionFrontWeb-sub002/internal/database"
	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
	"github.com/July173/autogestionFrontWeb-sub002/internal/request"
)

var (
	ErrDraftNotFound  = errors.New("draft not found")
	ErrDraftForbidden = errors.New("draft belongs to another apprentice")
)

// SnapshotStore persists the replayable state of drafts.
type SnapshotStore interface {
	Save(ctx context.Context, id uuid.UUID, apprenticeID int64, state models.SnapshotState, missing []string) error
	Find(ctx context.Context, id uuid.UUID) (*models.DraftSnapshot, models.SnapshotState, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DraftService owns the live drafts of the process. Drafts untouched for the
// configured TTL are evicted from memory; with a snapshot store they are
// rebuilt on next access.
type DraftService struct {
	ref     *request.ReferenceData
	parties request.PartySource
	gateway request.RequestGateway
	storage *StorageService
	store   SnapshotStore
	ttl     time.Duration

	mu     sync.RWMutex
	drafts map[uuid.UUID]*request.Draft
}

// NewDraftService creates the service. store may be nil, in which case drafts
// live in memory only.
func NewDraftService(ref *request.ReferenceData, parties request.PartySource, gateway request.RequestGateway, storage *StorageService, store SnapshotStore, ttl time.Duration) *DraftService {
	return &DraftService{
		ref:     ref,
		parties: parties,
		gateway: gateway,
		storage: storage,
		store:   store,
		ttl:     ttl,
		drafts:  make(map[uuid.UUID]*request.Draft),
	}
}

// Create starts an empty draft for apprentice. Reference data must have
// settled first.
func (s *DraftService) Create(ctx context.Context, apprentice models.Apprentice) (*request.Draft, error) {
	if !s.ref.Ready() {
		return nil, request.ErrReferenceDataNotReady
	}

	d := request.NewDraft(uuid.New(), apprentice, s.ref, s.parties)
	if err := d.LoadEnterprises(ctx); err != nil {
		logrus.WithError(err).WithField("draft_id", d.ID).Warn("Enterprises failed to load for new draft")
	}

	s.mu.Lock()
	s.drafts[d.ID] = d
	s.mu.Unlock()

	s.persist(ctx, d)
	logrus.WithFields(logrus.Fields{
		"draft_id":      d.ID,
		"apprentice_id": apprentice.ID,
	}).Info("Draft created")
	return d, nil
}

// Get returns the draft id of apprentice, restoring it from its snapshot when
// it is no longer in memory.
func (s *DraftService) Get(ctx context.Context, id uuid.UUID, apprentice models.Apprentice) (*request.Draft, error) {
	s.mu.RLock()
	d, ok := s.drafts[id]
	s.mu.RUnlock()
	if ok {
		if d.Apprentice().ID != apprentice.ID {
			return nil, ErrDraftForbidden
		}
		return d, nil
	}

	if s.store == nil {
		return nil, ErrDraftNotFound
	}
	snapshot, state, err := s.store.Find(ctx, id)
	if errors.Is(err, database.ErrSnapshotNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	if snapshot.ApprenticeID != apprentice.ID {
		return nil, ErrDraftForbidden
	}
	return s.restore(ctx, id, apprentice, state)
}

func (s *DraftService) restore(ctx context.Context, id uuid.UUID, apprentice models.Apprentice, state models.SnapshotState) (*request.Draft, error) {
	d := request.NewDraft(id, apprentice, s.ref, s.parties)
	if err := d.Restore(ctx, state); err != nil {
		logrus.WithError(err).WithField("draft_id", id).Warn("Draft restored with dropped selections")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.drafts[id]; ok {
		return existing, nil
	}
	s.drafts[id] = d
	logrus.WithField("draft_id", id).Info("Draft restored from snapshot")
	return d, nil
}

// Apply runs a mutation of d and snapshots the result. A failed catalog load
// does not undo the selection that triggered it, so it is persisted too.
func (s *DraftService) Apply(ctx context.Context, d *request.Draft, mutate func() error) error {
	err := mutate()
	var loadErr *request.ReferenceLoadError
	if err == nil || errors.As(err, &loadErr) {
		s.persist(ctx, d)
	}
	return err
}

// Attach stages a PDF and attaches it to d. It returns the message key of a
// violated file constraint; such a file never reaches the draft.
func (s *DraftService) Attach(ctx context.Context, d *request.Draft, filename, contentType string, data []byte) (*models.Attachment, string, error) {
	att, key, err := s.storage.Stage(ctx, filename, contentType, data)
	if err != nil || key != "" {
		return nil, key, err
	}
	previous, err := d.Attach(*att)
	if err != nil {
		s.storage.Discard(ctx, att)
		return nil, "", err
	}
	s.storage.Discard(ctx, previous)
	s.persist(ctx, d)
	return att, "", nil
}

func (s *DraftService) Detach(ctx context.Context, d *request.Draft) error {
	previous, err := d.Detach()
	if err != nil {
		return err
	}
	s.storage.Discard(ctx, previous)
	s.persist(ctx, d)
	return nil
}

// Confirm runs the confirmed submission of d. The run ignores cancellation of
// ctx; the backend client timeout bounds each call.
func (s *DraftService) Confirm(ctx context.Context, d *request.Draft) (request.Outcome, error) {
	ctx = context.WithoutCancel(ctx)
	out, err := d.Confirm(ctx, s.gateway, s.storage)
	if err != nil {
		return out, err
	}
	if out.State == models.SubmissionSucceeded || out.State == models.SubmissionPartialFailure {
		s.persistConsumed(ctx, d)
		return out, nil
	}
	s.persist(ctx, d)
	return out, nil
}

// Acknowledge dismisses the outcome of d and releases the attachment of a
// consumed draft.
func (s *DraftService) Acknowledge(ctx context.Context, d *request.Draft) (request.Acknowledgement, error) {
	ack, err := d.Acknowledge()
	if err != nil {
		return ack, err
	}
	s.storage.Discard(ctx, ack.Discarded)
	s.persist(ctx, d)
	return ack, nil
}

// Discard drops the draft and everything staged for it.
func (s *DraftService) Discard(ctx context.Context, d *request.Draft) error {
	if state, _ := d.SubmissionState(); state.Busy() {
		return request.ErrSubmissionInProgress
	}

	s.mu.Lock()
	delete(s.drafts, d.ID)
	s.mu.Unlock()

	s.storage.Discard(ctx, d.Snapshot().Attachment)
	if s.store != nil {
		if err := s.store.Delete(ctx, d.ID); err != nil {
			return fmt.Errorf("failed to discard draft: %w", err)
		}
	}
	return nil
}

// Evict drops drafts idle since before now-ttl from memory. Without a snapshot
// store their attachments are deleted as well. Drafts with a submission
// running or an outcome not yet acknowledged stay.
func (s *DraftService) Evict(ctx context.Context, now time.Time) int {
	s.mu.Lock()
	var evicted []*request.Draft
	for id, d := range s.drafts {
		if state, _ := d.SubmissionState(); state.Busy() || state.Terminal() {
			continue
		}
		if now.Sub(d.UpdatedAt()) > s.ttl {
			evicted = append(evicted, d)
			delete(s.drafts, id)
		}
	}
	s.mu.Unlock()

	if s.store == nil {
		for _, d := range evicted {
			s.storage.Discard(ctx, d.Snapshot().Attachment)
		}
	}
	if len(evicted) > 0 {
		logrus.WithField("count", len(evicted)).Info("Evicted idle drafts")
	}
	return len(evicted)
}

// Revalidate re-checks every live draft after the reference catalogs were
// reloaded and snapshots the drafts that lost a selection. It returns how many
// changed.
func (s *DraftService) Revalidate(ctx context.Context) int {
	s.mu.RLock()
	drafts := make([]*request.Draft, 0, len(s.drafts))
	for _, d := range s.drafts {
		drafts = append(drafts, d)
	}
	s.mu.RUnlock()

	changed := 0
	for _, d := range drafts {
		ok, err := d.Revalidate()
		if err != nil {
			logrus.WithError(err).WithField("draft_id", d.ID).Debug("Draft not revalidated during submission")
			continue
		}
		if ok {
			changed++
			s.persist(ctx, d)
		}
	}
	if changed > 0 {
		logrus.WithField("count", changed).Info("Drafts lost selections after catalog reload")
	}
	return changed
}

// RunJanitor evicts idle drafts until ctx is cancelled.
func (s *DraftService) RunJanitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Evict(ctx, now)
		}
	}
}

func (s *DraftService) persist(ctx context.Context, d *request.Draft) {
	if s.store == nil {
		return
	}
	issues := request.Audit(d.Snapshot())
	missing := make([]string, 0, len(issues))
	for _, issue := range issues {
		missing = append(missing, issue.Field)
	}
	err := s.store.Save(context.WithoutCancel(ctx), d.ID, d.Apprentice().ID, d.SnapshotState(), missing)
	if err != nil {
		logrus.WithError(err).WithField("draft_id", d.ID).Error("Failed to snapshot draft")
	}
}

// persistConsumed snapshots d as an empty draft once the backend holds its
// request, so a draft rebuilt after a restart cannot submit it again.
func (s *DraftService) persistConsumed(ctx context.Context, d *request.Draft) {
	if s.store == nil {
		return
	}
	issues := request.Audit(models.RequestDraft{Apprentice: d.Apprentice()})
	missing := make([]string, 0, len(issues))
	for _, issue := range issues {
		missing = append(missing, issue.Field)
	}
	err := s.store.Save(ctx, d.ID, d.Apprentice().ID, models.SnapshotState{}, missing)
	if err != nil {
		logrus.WithError(err).WithField("draft_id", d.ID).Error("Failed to snapshot consumed draft")
	}
}
