// internal/services/draft_service_test.go
package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
	"github.com/July173/autogestionFrontWeb-sub002/internal/request"
)

type DraftServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	backend    *stubBackend
	storage    *StorageService
	store      *memStore
	service    *DraftService
	apprentice models.Apprentice
}

func (suite *DraftServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.backend = &stubBackend{}
	ref := request.NewReferenceData(suite.backend)
	suite.Require().NoError(ref.Load(suite.ctx))

	var err error
	suite.storage, err = NewStorageService(testConfig())
	suite.Require().NoError(err)
	suite.store = newMemStore()
	suite.service = NewDraftService(ref, suite.backend, suite.backend, suite.storage, suite.store, time.Hour)
	suite.apprentice = models.Apprentice{ID: 7, FirstName: "Camila"}
}

func (suite *DraftServiceTestSuite) fill(d *request.Draft) {
	one, ten, hundred := int64(1), int64(10), int64(100)
	suite.Require().NoError(suite.service.Apply(suite.ctx, d, func() error {
		return d.SetLocation(&one, &ten, &hundred)
	}))
	suite.Require().NoError(suite.service.Apply(suite.ctx, d, func() error { return d.SetProgram(suite.ctx, 5) }))
	suite.Require().NoError(suite.service.Apply(suite.ctx, d, func() error { return d.SetCohort(50) }))
	suite.Require().NoError(suite.service.Apply(suite.ctx, d, func() error { return d.SetModality(2) }))
	suite.Require().NoError(d.SelectParty(suite.ctx, models.PartyEnterprise, 9))
	suite.Require().NoError(d.SelectParty(suite.ctx, models.PartyBoss, 90))
	suite.Require().NoError(d.SelectParty(suite.ctx, models.PartyHumanTalent, 91))
	_, key, err := suite.service.Attach(suite.ctx, d, "soporte.pdf", "application/pdf", testPDF)
	suite.Require().NoError(err)
	suite.Require().Empty(key)
}

func (suite *DraftServiceTestSuite) TestCreateLoadsEnterprises() {
	d, err := suite.service.Create(suite.ctx, suite.apprentice)
	suite.Require().NoError(err)
	suite.Len(d.Snapshot().Enterprise.Catalog, 1)
	suite.Contains(suite.store.snapshots, d.ID)
}

func (suite *DraftServiceTestSuite) TestCreateRequiresReferenceData() {
	service := NewDraftService(request.NewReferenceData(suite.backend), suite.backend, suite.backend, suite.storage, nil, time.Hour)
	_, err := service.Create(suite.ctx, suite.apprentice)
	suite.ErrorIs(err, request.ErrReferenceDataNotReady)
}

func (suite *DraftServiceTestSuite) TestGetChecksOwnership() {
	d, err := suite.service.Create(suite.ctx, suite.apprentice)
	suite.Require().NoError(err)

	got, err := suite.service.Get(suite.ctx, d.ID, suite.apprentice)
	suite.NoError(err)
	suite.Same(d, got)

	_, err = suite.service.Get(suite.ctx, d.ID, models.Apprentice{ID: 8})
	suite.ErrorIs(err, ErrDraftForbidden)

	_, err = suite.service.Get(suite.ctx, uuid.New(), suite.apprentice)
	suite.ErrorIs(err, ErrDraftNotFound)
}

func (suite *DraftServiceTestSuite) TestEvictedDraftIsRestored() {
	d, err := suite.service.Create(suite.ctx, suite.apprentice)
	suite.Require().NoError(err)
	suite.fill(d)
	before := d.SnapshotState()

	suite.Equal(0, suite.service.Evict(suite.ctx, time.Now()))
	suite.Equal(1, suite.service.Evict(suite.ctx, time.Now().Add(2*time.Hour)))

	_, err = suite.service.Get(suite.ctx, d.ID, models.Apprentice{ID: 8})
	suite.ErrorIs(err, ErrDraftForbidden)

	restored, err := suite.service.Get(suite.ctx, d.ID, suite.apprentice)
	suite.Require().NoError(err)
	suite.NotSame(d, restored)
	suite.Equal(before, restored.SnapshotState())

	_, err = suite.storage.Open(suite.ctx, before.Attachment.Ref)
	suite.NoError(err, "a persisted draft keeps its attachment")
}

func (suite *DraftServiceTestSuite) TestEvictionWithoutStoreDropsAttachment() {
	service := NewDraftService(suite.service.ref, suite.backend, suite.backend, suite.storage, nil, time.Minute)
	d, err := service.Create(suite.ctx, suite.apprentice)
	suite.Require().NoError(err)
	att, _, err := service.Attach(suite.ctx, d, "soporte.pdf", "application/pdf", testPDF)
	suite.Require().NoError(err)

	suite.Equal(1, service.Evict(suite.ctx, time.Now().Add(time.Hour)))
	_, err = service.Get(suite.ctx, d.ID, suite.apprentice)
	suite.ErrorIs(err, ErrDraftNotFound)
	_, err = suite.storage.Open(suite.ctx, att.Ref)
	suite.ErrorIs(err, ErrBlobNotFound)
}

func (suite *DraftServiceTestSuite) TestReplacingAttachmentDeletesPrevious() {
	d, err := suite.service.Create(suite.ctx, suite.apprentice)
	suite.Require().NoError(err)

	first, _, err := suite.service.Attach(suite.ctx, d, "a.pdf", "application/pdf", testPDF)
	suite.Require().NoError(err)
	second, _, err := suite.service.Attach(suite.ctx, d, "b.pdf", "application/pdf", testPDF)
	suite.Require().NoError(err)

	_, err = suite.storage.Open(suite.ctx, first.Ref)
	suite.ErrorIs(err, ErrBlobNotFound)
	_, err = suite.storage.Open(suite.ctx, second.Ref)
	suite.NoError(err)

	suite.Require().NoError(suite.service.Detach(suite.ctx, d))
	_, err = suite.storage.Open(suite.ctx, second.Ref)
	suite.ErrorIs(err, ErrBlobNotFound)
	suite.Nil(suite.store.states[d.ID].Attachment)
}

func (suite *DraftServiceTestSuite) TestInvalidFileNeverReachesDraft() {
	d, err := suite.service.Create(suite.ctx, suite.apprentice)
	suite.Require().NoError(err)

	att, key, err := suite.service.Attach(suite.ctx, d, "foto.png", "image/png", []byte("\x89PNG\r\n\x1a\n"))
	suite.NoError(err)
	suite.Nil(att)
	suite.NotEmpty(key)
	suite.Nil(d.Snapshot().Attachment)
}

func (suite *DraftServiceTestSuite) TestSubmissionConsumesDraft() {
	d, err := suite.service.Create(suite.ctx, suite.apprentice)
	suite.Require().NoError(err)
	suite.fill(d)
	ref := d.Snapshot().Attachment.Ref
	suite.Equal([]string{}, []string(suite.store.snapshots[d.ID].MissingFields))

	suite.Require().NoError(d.RequestSubmit())
	out, err := suite.service.Confirm(suite.ctx, d)
	suite.Require().NoError(err)
	suite.Equal(models.SubmissionSucceeded, out.State)
	suite.Equal([]int64{42}, suite.backend.uploads)

	ack, err := suite.service.Acknowledge(suite.ctx, d)
	suite.Require().NoError(err)
	suite.True(ack.Redirect)
	_, err = suite.storage.Open(suite.ctx, ref)
	suite.ErrorIs(err, ErrBlobNotFound)
	suite.Equal(models.SelectionState{}, suite.store.states[d.ID].Selection)
}

func (suite *DraftServiceTestSuite) TestSubmissionOutlivesCallerCancellation() {
	d, err := suite.service.Create(suite.ctx, suite.apprentice)
	suite.Require().NoError(err)
	suite.fill(d)
	suite.Require().NoError(d.RequestSubmit())

	ctx, cancel := context.WithCancel(suite.ctx)
	defer cancel()
	suite.backend.onCreate = cancel

	out, err := suite.service.Confirm(ctx, d)
	suite.Require().NoError(err)
	suite.Error(ctx.Err())
	suite.Equal(models.SubmissionSucceeded, out.State)
	suite.Len(suite.backend.requests, 1)
	suite.Equal([]int64{42}, suite.backend.uploads)
}

func (suite *DraftServiceTestSuite) TestPendingOutcomeSurvivesEviction() {
	d, err := suite.service.Create(suite.ctx, suite.apprentice)
	suite.Require().NoError(err)
	suite.fill(d)
	suite.Require().NoError(d.RequestSubmit())
	out, err := suite.service.Confirm(suite.ctx, d)
	suite.Require().NoError(err)
	suite.Require().Equal(models.SubmissionSucceeded, out.State)

	later := time.Now().Add(2 * time.Hour)
	suite.Equal(0, suite.service.Evict(suite.ctx, later))
	got, err := suite.service.Get(suite.ctx, d.ID, suite.apprentice)
	suite.Require().NoError(err)
	suite.Same(d, got)
	suite.Equal(models.SnapshotState{}, suite.store.states[d.ID], "a created request is not resubmittable from its snapshot")

	ack, err := suite.service.Acknowledge(suite.ctx, d)
	suite.Require().NoError(err)
	suite.True(ack.Redirect)
	suite.Equal(1, suite.service.Evict(suite.ctx, later))
}

func (suite *DraftServiceTestSuite) TestCatalogReloadRevalidatesDrafts() {
	d, err := suite.service.Create(suite.ctx, suite.apprentice)
	suite.Require().NoError(err)
	suite.fill(d)
	untouched, err := suite.service.Create(suite.ctx, suite.apprentice)
	suite.Require().NoError(err)

	suite.backend.mu.Lock()
	suite.backend.programsErr = errors.New("programs unavailable")
	suite.backend.mu.Unlock()
	suite.Error(suite.service.ref.Load(suite.ctx))

	suite.Equal(1, suite.service.Revalidate(suite.ctx))
	sel := d.Snapshot().Selection
	suite.Zero(sel.ProgramID)
	suite.Zero(sel.CohortID)
	suite.Equal(int64(100), sel.HeadquartersID)
	suite.Zero(suite.store.states[d.ID].Selection.ProgramID)
	suite.Equal(models.SelectionState{}, untouched.Snapshot().Selection)

	suite.Equal(0, suite.service.Revalidate(suite.ctx))
}

func (suite *DraftServiceTestSuite) TestDiscard() {
	d, err := suite.service.Create(suite.ctx, suite.apprentice)
	suite.Require().NoError(err)
	att, _, err := suite.service.Attach(suite.ctx, d, "a.pdf", "application/pdf", testPDF)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.Discard(suite.ctx, d))
	suite.NotContains(suite.store.snapshots, d.ID)
	_, err = suite.storage.Open(suite.ctx, att.Ref)
	suite.ErrorIs(err, ErrBlobNotFound)
	_, err = suite.service.Get(suite.ctx, d.ID, suite.apprentice)
	suite.ErrorIs(err, ErrDraftNotFound)
}

func (suite *DraftServiceTestSuite) TestMissingFieldsAreSnapshotted() {
	d, err := suite.service.Create(suite.ctx, suite.apprentice)
	suite.Require().NoError(err)
	missing := suite.store.snapshots[d.ID].MissingFields
	suite.Contains([]string(missing), "regional")
	suite.Contains([]string(missing), "attachment")
}

func (suite *DraftServiceTestSuite) TestJanitorStopsWithContext() {
	ctx, cancel := context.WithCancel(suite.ctx)
	done := make(chan struct{})
	go func() {
		suite.service.RunJanitor(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		suite.Fail("janitor did not stop")
	}
}

func TestDraftServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DraftServiceTestSuite))
}
