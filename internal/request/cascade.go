// internal/request/cascade.go
package request

import (
	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

// CatalogView exposes the loaded reference catalogs.
type CatalogView interface {
	Catalogs() models.Catalogs
}

// CohortTicket identifies one cohort fetch. A result is applied only when its
// ticket still matches the current program selection.
type CohortTicket struct {
	ProgramID int64
	seq       uint64
}

// Cascade maintains the regional → center → headquarters and program → cohort
// chains. Every setter clears the dependent selections before returning, so the
// chain invariant holds after each call. Cascade does no locking; the owning
// Draft serialises access.
type Cascade struct {
	ref CatalogView
	sel models.SelectionState

	cohorts   []models.Cohort
	cohortErr error
	cohortSeq uint64
}

func NewCascade(ref CatalogView) *Cascade {
	return &Cascade{ref: ref}
}

func (c *Cascade) Selection() models.SelectionState {
	return c.sel
}

func (c *Cascade) SetRegional(id int64) error {
	if id != 0 && !contains(c.ref.Catalogs().Regionals, id, idOfRegional) {
		return ErrInvalidSelection
	}
	if id == c.sel.RegionalID {
		return nil
	}
	c.sel.RegionalID = id
	c.sel.CenterID = 0
	c.sel.HeadquartersID = 0
	return nil
}

func (c *Cascade) SetCenter(id int64) error {
	if id != 0 && !contains(c.CentersFor(c.sel.RegionalID), id, idOfCenter) {
		return ErrInvalidSelection
	}
	if id == c.sel.CenterID {
		return nil
	}
	c.sel.CenterID = id
	c.sel.HeadquartersID = 0
	return nil
}

func (c *Cascade) SetHeadquarters(id int64) error {
	if id != 0 && !contains(c.HeadquartersFor(c.sel.CenterID), id, idOfHeadquarters) {
		return ErrInvalidSelection
	}
	c.sel.HeadquartersID = id
	return nil
}

// SetProgram selects a program and drops the cohort selection together with the
// cohort list of the previous program. Callers fetch the new list with
// BeginCohortFetch/ApplyCohorts.
func (c *Cascade) SetProgram(id int64) error {
	if id != 0 && !contains(c.ref.Catalogs().Programs, id, idOfProgram) {
		return ErrInvalidSelection
	}
	if id == c.sel.ProgramID {
		return nil
	}
	c.sel.ProgramID = id
	c.sel.CohortID = 0
	c.cohorts = nil
	c.cohortErr = nil
	c.cohortSeq++
	return nil
}

func (c *Cascade) SetCohort(id int64) error {
	if id != 0 && !contains(c.Cohorts(), id, idOfCohort) {
		return ErrInvalidSelection
	}
	c.sel.CohortID = id
	return nil
}

func (c *Cascade) setModality(id int64) error {
	if id != 0 && !contains(c.ref.Catalogs().Modalities, id, idOfModality) {
		return ErrInvalidSelection
	}
	c.sel.ModalityID = id
	return nil
}

// revalidate drops selections that the current catalogs no longer offer,
// together with their children. It reports whether anything changed.
func (c *Cascade) revalidate() bool {
	before := c.sel
	if c.sel.RegionalID != 0 && !contains(c.ref.Catalogs().Regionals, c.sel.RegionalID, idOfRegional) {
		_ = c.SetRegional(0)
	}
	if c.sel.CenterID != 0 && !contains(c.CentersFor(c.sel.RegionalID), c.sel.CenterID, idOfCenter) {
		_ = c.SetCenter(0)
	}
	if c.sel.HeadquartersID != 0 && !contains(c.HeadquartersFor(c.sel.CenterID), c.sel.HeadquartersID, idOfHeadquarters) {
		c.sel.HeadquartersID = 0
	}
	if c.sel.ProgramID != 0 && !contains(c.ref.Catalogs().Programs, c.sel.ProgramID, idOfProgram) {
		_ = c.SetProgram(0)
	}
	if c.sel.ModalityID != 0 && !contains(c.ref.Catalogs().Modalities, c.sel.ModalityID, idOfModality) {
		c.sel.ModalityID = 0
	}
	return c.sel != before
}

// CentersFor returns the active centers of a regional. An unset regional has
// no centers.
func (c *Cascade) CentersFor(regionalID int64) []models.Center {
	out := []models.Center{}
	if regionalID == 0 {
		return out
	}
	for _, center := range c.ref.Catalogs().Centers {
		if center.Active && center.RegionalID == regionalID {
			out = append(out, center)
		}
	}
	return out
}

// HeadquartersFor returns the active headquarters of a center. An unset center
// has no headquarters.
func (c *Cascade) HeadquartersFor(centerID int64) []models.Headquarters {
	out := []models.Headquarters{}
	if centerID == 0 {
		return out
	}
	for _, hq := range c.ref.Catalogs().Headquarters {
		if hq.Active && hq.CenterID == centerID {
			out = append(out, hq)
		}
	}
	return out
}

// Cohorts returns the active cohorts fetched for the selected program.
func (c *Cascade) Cohorts() []models.Cohort {
	out := []models.Cohort{}
	if c.sel.ProgramID == 0 {
		return out
	}
	for _, cohort := range c.cohorts {
		if cohort.Active && cohort.ProgramID == c.sel.ProgramID {
			out = append(out, cohort)
		}
	}
	return out
}

// CohortErr is the retryable error of the last cohort fetch, if any.
func (c *Cascade) CohortErr() error {
	return c.cohortErr
}

// BeginCohortFetch issues a ticket for fetching the cohorts of the selected
// program. It reports false when no program is selected.
func (c *Cascade) BeginCohortFetch() (CohortTicket, bool) {
	if c.sel.ProgramID == 0 {
		return CohortTicket{}, false
	}
	c.cohortSeq++
	return CohortTicket{ProgramID: c.sel.ProgramID, seq: c.cohortSeq}, true
}

// ApplyCohorts stores the result of the fetch identified by t. A result whose
// ticket is no longer current is discarded with ErrStaleResponse. A failed
// fetch leaves an empty list and returns a *ReferenceLoadError.
func (c *Cascade) ApplyCohorts(t CohortTicket, list []models.Cohort, err error) error {
	if t.seq != c.cohortSeq || t.ProgramID != c.sel.ProgramID {
		return ErrStaleResponse
	}
	if err != nil {
		c.cohorts = nil
		c.cohortErr = &ReferenceLoadError{Catalog: models.CatalogCohorts, Err: err}
		return c.cohortErr
	}
	for i := range list {
		if list[i].ProgramID == 0 {
			list[i].ProgramID = t.ProgramID
		}
	}
	c.cohorts = list
	c.cohortErr = nil
	return nil
}

func (c *Cascade) reset() {
	c.sel = models.SelectionState{}
	c.cohorts = nil
	c.cohortErr = nil
	c.cohortSeq++
}

func contains[T any](list []T, id int64, idOf func(T) int64) bool {
	for _, item := range list {
		if idOf(item) == id {
			return true
		}
	}
	return false
}

// Top-level catalogs keep their inactive entries; those have no selectable id.

func idOfRegional(r models.Regional) int64 {
	if !r.Active {
		return 0
	}
	return r.ID
}

func idOfProgram(p models.Program) int64 {
	if !p.Active {
		return 0
	}
	return p.ID
}

func idOfModality(m models.Modality) int64 {
	if !m.Active {
		return 0
	}
	return m.ID
}

// Child lists are already filtered to active entries of the selected parent.

func idOfCenter(ce models.Center) int64 { return ce.ID }

func idOfHeadquarters(h models.Headquarters) int64 { return h.ID }

func idOfCohort(co models.Cohort) int64 { return co.ID }
