// internal/request/reference.go
package request

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

// CatalogSource loads the reference catalogs from the backend.
type CatalogSource interface {
	LoadRegionals(ctx context.Context) ([]models.Regional, error)
	LoadCenters(ctx context.Context) ([]models.Center, error)
	LoadHeadquarters(ctx context.Context) ([]models.Headquarters, error)
	LoadPrograms(ctx context.Context) ([]models.Program, error)
	LoadCohorts(ctx context.Context, programID int64) ([]models.Cohort, error)
	LoadModalities(ctx context.Context) ([]models.Modality, error)
}

var referenceKinds = []models.CatalogKind{
	models.CatalogRegionals,
	models.CatalogCenters,
	models.CatalogHeadquarters,
	models.CatalogPrograms,
	models.CatalogModalities,
}

// ReferenceData is the option universe shared by every draft. Catalogs are
// replaced wholesale on each load and never mutated in place.
type ReferenceData struct {
	source CatalogSource

	mu       sync.RWMutex
	catalogs models.Catalogs
	status   map[models.CatalogKind]models.CatalogStatus
	errs     map[models.CatalogKind]error
}

func NewReferenceData(source CatalogSource) *ReferenceData {
	r := &ReferenceData{
		source: source,
		status: make(map[models.CatalogKind]models.CatalogStatus, len(referenceKinds)),
		errs:   make(map[models.CatalogKind]error, len(referenceKinds)),
	}
	for _, kind := range referenceKinds {
		r.status[kind] = models.CatalogStatusPending
	}
	return r
}

// Load fetches the five independent catalogs concurrently and waits for all of
// them. A failed catalog is stored empty and reported in the returned error;
// it never prevents the others from loading.
func (r *ReferenceData) Load(ctx context.Context) error {
	r.mu.Lock()
	for _, kind := range referenceKinds {
		r.status[kind] = models.CatalogStatusPending
		delete(r.errs, kind)
	}
	r.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error {
		list, err := r.source.LoadRegionals(ctx)
		r.store(models.CatalogRegionals, err, func(c *models.Catalogs) { c.Regionals = list })
		return nil
	})
	g.Go(func() error {
		list, err := r.source.LoadCenters(ctx)
		r.store(models.CatalogCenters, err, func(c *models.Catalogs) { c.Centers = list })
		return nil
	})
	g.Go(func() error {
		list, err := r.source.LoadHeadquarters(ctx)
		r.store(models.CatalogHeadquarters, err, func(c *models.Catalogs) { c.Headquarters = list })
		return nil
	})
	g.Go(func() error {
		list, err := r.source.LoadPrograms(ctx)
		r.store(models.CatalogPrograms, err, func(c *models.Catalogs) { c.Programs = list })
		return nil
	})
	g.Go(func() error {
		list, err := r.source.LoadModalities(ctx)
		r.store(models.CatalogModalities, err, func(c *models.Catalogs) { c.Modalities = list })
		return nil
	})
	_ = g.Wait()

	return r.Err()
}

func (r *ReferenceData) store(kind models.CatalogKind, err error, apply func(*models.Catalogs)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		logrus.WithError(err).WithField("catalog", kind).Warn("Reference catalog failed to load")
		r.clear(kind)
		r.status[kind] = models.CatalogStatusFailed
		r.errs[kind] = &ReferenceLoadError{Catalog: kind, Err: err}
		return
	}
	apply(&r.catalogs)
	r.status[kind] = models.CatalogStatusLoaded
}

func (r *ReferenceData) clear(kind models.CatalogKind) {
	switch kind {
	case models.CatalogRegionals:
		r.catalogs.Regionals = nil
	case models.CatalogCenters:
		r.catalogs.Centers = nil
	case models.CatalogHeadquarters:
		r.catalogs.Headquarters = nil
	case models.CatalogPrograms:
		r.catalogs.Programs = nil
	case models.CatalogModalities:
		r.catalogs.Modalities = nil
	}
}

// Ready reports whether every catalog has settled, loaded or failed.
func (r *ReferenceData) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, kind := range referenceKinds {
		if r.status[kind] == models.CatalogStatusPending {
			return false
		}
	}
	return true
}

func (r *ReferenceData) Status(kind models.CatalogKind) models.CatalogStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status[kind]
}

// Statuses returns a copy of every catalog status.
func (r *ReferenceData) Statuses() map[models.CatalogKind]models.CatalogStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[models.CatalogKind]models.CatalogStatus, len(r.status))
	for k, v := range r.status {
		out[k] = v
	}
	return out
}

// Err joins the errors of the catalogs that failed on the last load.
func (r *ReferenceData) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var errs []error
	for _, kind := range referenceKinds {
		if err := r.errs[kind]; err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Catalogs returns the current catalogs. The slices are shared and must not be
// modified.
func (r *ReferenceData) Catalogs() models.Catalogs {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalogs
}

// Disabled reports whether a select backed by kind must be rendered disabled.
// Any pending catalog disables every select, so nobody picks from a partial
// option universe.
func (r *ReferenceData) Disabled(kind models.CatalogKind) bool {
	if !r.Ready() {
		return true
	}
	return r.Status(kind) != models.CatalogStatusLoaded
}

// LoadCohorts fetches the cohorts of one program on demand.
func (r *ReferenceData) LoadCohorts(ctx context.Context, programID int64) ([]models.Cohort, error) {
	return r.source.LoadCohorts(ctx, programID)
}
