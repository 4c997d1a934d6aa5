// internal/request/draft.go
package request

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

// Reference is the shared reference data a draft selects from.
type Reference interface {
	CatalogView
	Ready() bool
	Disabled(kind models.CatalogKind) bool
	LoadCohorts(ctx context.Context, programID int64) ([]models.Cohort, error)
}

// Draft is one apprentice's request being assembled. Every mutator applies
// its state transition synchronously under the draft mutex. The mutex is
// released around network calls; results are applied only if their ticket is
// still current.
type Draft struct {
	ID uuid.UUID

	mu         sync.Mutex
	apprentice models.Apprentice
	ref        Reference
	source     PartySource
	cascade    *Cascade
	contract   Contract
	parties    *Parties
	attachment *models.Attachment
	submission submission

	enterpriseErr error
	enterpriseSeq uint64
	updatedAt     time.Time
}

func NewDraft(id uuid.UUID, apprentice models.Apprentice, ref Reference, source PartySource) *Draft {
	return &Draft{
		ID:         id,
		apprentice: apprentice,
		ref:        ref,
		source:     source,
		cascade:    NewCascade(ref),
		parties:    NewParties(),
		submission: submission{state: models.SubmissionIdle},
		updatedAt:  time.Now(),
	}
}

func (d *Draft) Apprentice() models.Apprentice {
	return d.apprentice
}

// UpdatedAt is the time of the last accepted mutation.
func (d *Draft) UpdatedAt() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updatedAt
}

// mutate runs fn under the lock unless a submission is running or waiting to
// be acknowledged.
func (d *Draft) mutate(fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guard(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	d.touch()
	return nil
}

func (d *Draft) guard() error {
	switch {
	case d.submission.state.Busy():
		return ErrSubmissionInProgress
	case d.submission.state.Terminal():
		return ErrOutcomePending
	}
	return nil
}

func (d *Draft) touch() {
	d.updatedAt = time.Now()
	if d.submission.state == models.SubmissionAwaitingConfirmation {
		d.submission.state = models.SubmissionIdle
	}
}

func (d *Draft) SetRegional(id int64) error {
	return d.mutate(func() error { return d.cascade.SetRegional(id) })
}

func (d *Draft) SetCenter(id int64) error {
	return d.mutate(func() error { return d.cascade.SetCenter(id) })
}

func (d *Draft) SetHeadquarters(id int64) error {
	return d.mutate(func() error { return d.cascade.SetHeadquarters(id) })
}

// SetLocation applies the given location selections in parent to child order
// within one transition. Nil leaves a level untouched.
func (d *Draft) SetLocation(regionalID, centerID, headquartersID *int64) error {
	return d.mutate(func() error {
		if regionalID != nil {
			if err := d.cascade.SetRegional(*regionalID); err != nil {
				return err
			}
		}
		if centerID != nil {
			if err := d.cascade.SetCenter(*centerID); err != nil {
				return err
			}
		}
		if headquartersID != nil {
			if err := d.cascade.SetHeadquarters(*headquartersID); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetProgram selects a program and loads its cohorts. A failed load leaves the
// cohort list empty and returns a *ReferenceLoadError; the selection stands.
func (d *Draft) SetProgram(ctx context.Context, id int64) error {
	var ticket CohortTicket
	var fetch bool
	err := d.mutate(func() error {
		if err := d.cascade.SetProgram(id); err != nil {
			return err
		}
		ticket, fetch = d.cascade.BeginCohortFetch()
		return nil
	})
	if err != nil || !fetch {
		return err
	}
	return d.fetchCohorts(ctx, ticket)
}

// RefreshCohorts reloads the cohorts of the selected program.
func (d *Draft) RefreshCohorts(ctx context.Context) error {
	var ticket CohortTicket
	var fetch bool
	err := d.mutate(func() error {
		ticket, fetch = d.cascade.BeginCohortFetch()
		return nil
	})
	if err != nil || !fetch {
		return err
	}
	return d.fetchCohorts(ctx, ticket)
}

func (d *Draft) fetchCohorts(ctx context.Context, ticket CohortTicket) error {
	list, loadErr := d.ref.LoadCohorts(ctx, ticket.ProgramID)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.applicable(models.CatalogCohorts); err != nil {
		return err
	}
	err := d.cascade.ApplyCohorts(ticket, list, loadErr)
	if errors.Is(err, ErrStaleResponse) {
		logrus.WithFields(logrus.Fields{
			"draft_id":   d.ID,
			"program_id": ticket.ProgramID,
		}).Debug("Discarded stale cohort response")
		return nil
	}
	return err
}

func (d *Draft) SetCohort(id int64) error {
	return d.mutate(func() error { return d.cascade.SetCohort(id) })
}

// SetModality selects a modality and applies the contract requirement it
// implies. Dates are cleared in the same transition when the new modality does
// not require them.
func (d *Draft) SetModality(id int64) error {
	return d.mutate(func() error {
		if err := d.cascade.setModality(id); err != nil {
			return err
		}
		d.contract.SetRequired(IsContractModality(id, d.ref.Catalogs().Modalities))
		return nil
	})
}

// Revalidate re-checks the selections of the draft against reloaded reference
// catalogs, dropping those no longer offered and re-deriving the contract
// requirement. A draft with a submission running or an outcome pending is left
// untouched and the guard error returned.
func (d *Draft) Revalidate() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.guard(); err != nil {
		return false, err
	}
	changed := d.cascade.revalidate()
	required := IsContractModality(d.cascade.Selection().ModalityID, d.ref.Catalogs().Modalities)
	if required != d.contract.Window().Required {
		d.contract.SetRequired(required)
		changed = true
	}
	if changed {
		d.touch()
	}
	return changed, nil
}

func (d *Draft) SetContractDates(start, end *time.Time) error {
	return d.mutate(func() error { return d.contract.SetDates(start, end) })
}

// LoadEnterprises fetches the enterprise catalog of the draft. Like any other
// mutation it is rejected while a submission runs or awaits acknowledgement.
func (d *Draft) LoadEnterprises(ctx context.Context) error {
	var seq uint64
	err := d.mutate(func() error {
		d.enterpriseSeq++
		seq = d.enterpriseSeq
		return nil
	})
	if err != nil {
		return err
	}

	list, loadErr := d.source.LoadEnterprises(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.enterpriseSeq {
		return nil
	}
	if err := d.applicable(models.CatalogEnterprises); err != nil {
		return err
	}
	if loadErr != nil {
		d.enterpriseErr = &ReferenceLoadError{Catalog: models.CatalogEnterprises, Err: loadErr}
		d.setEnterprises(nil)
		return d.enterpriseErr
	}
	d.enterpriseErr = nil
	d.setEnterprises(list)
	return nil
}

// applicable reports whether a catalog that finished loading may still be
// applied. Results arriving once a submission has started are dropped so the
// submitted input stays as it was.
func (d *Draft) applicable(kind models.CatalogKind) error {
	err := d.guard()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"draft_id": d.ID,
			"catalog":  kind,
			"state":    d.submission.state,
		}).Debug("Discarded catalog response during submission")
	}
	return err
}

func (d *Draft) setEnterprises(list []models.Enterprise) {
	before := d.parties.Enterprise.state.SelectedID
	d.parties.Enterprise.SetCatalog(list)
	if d.parties.Enterprise.state.SelectedID != before {
		d.parties.invalidateContacts()
	}
}

func (d *Draft) SetPartyMode(kind models.PartyKind, mode models.PartyMode) error {
	return d.mutate(func() error {
		switch kind {
		case models.PartyEnterprise:
			return d.parties.SetEnterpriseMode(mode)
		case models.PartyBoss:
			_, err := d.parties.Boss.SetMode(mode)
			return err
		case models.PartyHumanTalent:
			_, err := d.parties.HumanTalent.SetMode(mode)
			return err
		}
		return ErrInvalidSelection
	})
}

// SelectParty selects an existing record. Selecting an enterprise reloads the
// boss and human-talent catalogs scoped to it.
func (d *Draft) SelectParty(ctx context.Context, kind models.PartyKind, id int64) error {
	var ticket ContactTicket
	var fetch bool
	err := d.mutate(func() error {
		switch kind {
		case models.PartyEnterprise:
			var err error
			ticket, fetch, err = d.parties.SelectEnterprise(id)
			return err
		case models.PartyBoss:
			_, err := d.parties.Boss.Select(id)
			return err
		case models.PartyHumanTalent:
			_, err := d.parties.HumanTalent.Select(id)
			return err
		}
		return ErrInvalidSelection
	})
	if err != nil || !fetch {
		return err
	}
	return d.fetchContacts(ctx, ticket)
}

// ReloadContacts reloads the boss and human-talent catalogs of the selected
// enterprise.
func (d *Draft) ReloadContacts(ctx context.Context) error {
	var ticket ContactTicket
	var fetch bool
	err := d.mutate(func() error {
		ticket, fetch = d.parties.BeginContactReload()
		return nil
	})
	if err != nil || !fetch {
		return err
	}
	return d.fetchContacts(ctx, ticket)
}

func (d *Draft) fetchContacts(ctx context.Context, ticket ContactTicket) error {
	var (
		bosses  []models.Boss
		talents []models.HumanTalent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bosses, err = d.source.LoadBossesByEnterprise(gctx, ticket.EnterpriseID)
		return err
	})
	g.Go(func() error {
		var err error
		talents, err = d.source.LoadHumanTalentByEnterprise(gctx, ticket.EnterpriseID)
		return err
	})
	loadErr := g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.applicable(models.CatalogContacts); err != nil {
		return err
	}
	err := d.parties.ApplyContacts(ticket, bosses, talents, loadErr)
	if errors.Is(err, ErrStaleResponse) {
		logrus.WithFields(logrus.Fields{
			"draft_id":      d.ID,
			"enterprise_id": ticket.EnterpriseID,
		}).Debug("Discarded stale contact response")
		return nil
	}
	return err
}

func (d *Draft) SetEnterpriseFields(fields models.Enterprise) error {
	return d.mutate(func() error { return d.parties.Enterprise.SetFields(fields) })
}

func (d *Draft) SetBossFields(fields models.Boss) error {
	return d.mutate(func() error { return d.parties.Boss.SetFields(fields) })
}

func (d *Draft) SetHumanTalentFields(fields models.HumanTalent) error {
	return d.mutate(func() error { return d.parties.HumanTalent.SetFields(fields) })
}

// Attach records a staged PDF and returns the attachment it replaces, if any.
func (d *Draft) Attach(att models.Attachment) (*models.Attachment, error) {
	var previous *models.Attachment
	err := d.mutate(func() error {
		previous = d.attachment
		d.attachment = &att
		return nil
	})
	return previous, err
}

// Detach removes the attachment and returns it.
func (d *Draft) Detach() (*models.Attachment, error) {
	var previous *models.Attachment
	err := d.mutate(func() error {
		previous = d.attachment
		d.attachment = nil
		return nil
	})
	return previous, err
}

// Snapshot returns the assembled draft.
func (d *Draft) Snapshot() models.RequestDraft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

func (d *Draft) snapshot() models.RequestDraft {
	var att *models.Attachment
	if d.attachment != nil {
		a := *d.attachment
		att = &a
	}
	return models.RequestDraft{
		Apprentice:  d.apprentice,
		Selection:   d.cascade.Selection(),
		Enterprise:  d.parties.Enterprise.State(),
		Boss:        d.parties.Boss.State(),
		HumanTalent: d.parties.HumanTalent.State(),
		Contract:    d.contract.Window(),
		Attachment:  att,
	}
}

// reset empties the user input of the draft and returns the attachment that
// was staged for it. Catalogs are kept.
func (d *Draft) reset() *models.Attachment {
	att := d.attachment
	d.attachment = nil
	d.cascade.reset()
	d.contract.reset()
	d.parties.reset()
	d.updatedAt = time.Now()
	return att
}

// SnapshotState returns the replayable user input of the draft.
func (d *Draft) SnapshotState() models.SnapshotState {
	d.mu.Lock()
	defer d.mu.Unlock()

	ent := d.parties.Enterprise.State()
	boss := d.parties.Boss.State()
	talent := d.parties.HumanTalent.State()
	window := d.contract.Window()
	s := models.SnapshotState{
		Selection:      d.cascade.Selection(),
		EnterpriseMode: ent.Mode,
		EnterpriseID:   ent.SelectedID,
		BossMode:       boss.Mode,
		BossID:         boss.SelectedID,
		TalentMode:     talent.Mode,
		TalentID:       talent.SelectedID,
		ContractStart:  FormatDate(window.StartDate),
		ContractEnd:    FormatDate(window.EndDate),
	}
	if ent.Mode == models.PartyModeCreate {
		s.EnterpriseFields = ent.Display
	}
	if boss.Mode == models.PartyModeCreate {
		s.BossFields = boss.Display
	}
	if talent.Mode == models.PartyModeCreate {
		s.TalentFields = talent.Display
	}
	if d.attachment != nil {
		a := *d.attachment
		s.Attachment = &a
	}
	return s
}

// Restore replays a snapshot through the regular transitions, loading the
// dependent catalogs on the way. Selections that are no longer available are
// dropped and reported in the joined error.
func (d *Draft) Restore(ctx context.Context, s models.SnapshotState) error {
	var errs []error
	keep := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	keep(d.SetLocation(&s.Selection.RegionalID, &s.Selection.CenterID, &s.Selection.HeadquartersID))
	if s.Selection.ProgramID != 0 {
		keep(d.SetProgram(ctx, s.Selection.ProgramID))
		keep(d.SetCohort(s.Selection.CohortID))
	}
	keep(d.SetModality(s.Selection.ModalityID))
	if start, end := s.ContractStart, s.ContractEnd; start != "" || end != "" {
		startDate, err := ParseDate(start)
		keep(err)
		endDate, err := ParseDate(end)
		keep(err)
		keep(d.SetContractDates(startDate, endDate))
	}

	keep(d.LoadEnterprises(ctx))
	if s.EnterpriseMode == models.PartyModeCreate {
		keep(d.SetPartyMode(models.PartyEnterprise, s.EnterpriseMode))
		keep(d.SetEnterpriseFields(s.EnterpriseFields))
	} else if s.EnterpriseID != 0 {
		keep(d.SelectParty(ctx, models.PartyEnterprise, s.EnterpriseID))
	}
	if s.BossMode == models.PartyModeCreate {
		keep(d.SetPartyMode(models.PartyBoss, s.BossMode))
		keep(d.SetBossFields(s.BossFields))
	} else if s.BossID != 0 {
		keep(d.SelectParty(ctx, models.PartyBoss, s.BossID))
	}
	if s.TalentMode == models.PartyModeCreate {
		keep(d.SetPartyMode(models.PartyHumanTalent, s.TalentMode))
		keep(d.SetHumanTalentFields(s.TalentFields))
	} else if s.TalentID != 0 {
		keep(d.SelectParty(ctx, models.PartyHumanTalent, s.TalentID))
	}
	if s.Attachment != nil {
		_, err := d.Attach(*s.Attachment)
		keep(err)
	}
	return errors.Join(errs...)
}
