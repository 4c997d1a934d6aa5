// internal/backend/catalogs.go
package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

const (
	pathRegionals    = "/general/regionals/"
	pathCenters      = "/general/centers/"
	pathHeadquarters = "/general/sedes/"
	pathPrograms     = "/general/programs/"
	pathCohorts      = "/general/programs/%d/load-fichas/"
	pathModalities   = "/general/modalities-productive-stage/"
)

func loadList[T any](ctx context.Context, c *Client, resource, path string, query url.Values, mapper func(record) (T, error)) ([]T, error) {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", resource, err)
	}
	return decodeRecords(resource, body, mapper)
}

func (c *Client) LoadRegionals(ctx context.Context) ([]models.Regional, error) {
	return loadList(ctx, c, "regionals", pathRegionals, nil, mapRegional)
}

func (c *Client) LoadCenters(ctx context.Context) ([]models.Center, error) {
	return loadList(ctx, c, "centers", pathCenters, nil, mapCenter)
}

func (c *Client) LoadHeadquarters(ctx context.Context) ([]models.Headquarters, error) {
	return loadList(ctx, c, "headquarters", pathHeadquarters, nil, mapHeadquarters)
}

func (c *Client) LoadPrograms(ctx context.Context) ([]models.Program, error) {
	return loadList(ctx, c, "programs", pathPrograms, nil, mapProgram)
}

// LoadCohorts fetches the cohorts of one program. Cohorts that do not name
// their program are attributed to programID.
func (c *Client) LoadCohorts(ctx context.Context, programID int64) ([]models.Cohort, error) {
	list, err := loadList(ctx, c, "cohorts", fmt.Sprintf(pathCohorts, programID), nil, mapCohort)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ProgramID == 0 {
			list[i].ProgramID = programID
		}
	}
	return list, nil
}

func (c *Client) LoadModalities(ctx context.Context) ([]models.Modality, error) {
	return loadList(ctx, c, "modalities", pathModalities, nil, mapModality)
}
