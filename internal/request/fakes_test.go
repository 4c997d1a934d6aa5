// internal/request/fakes_test.go
package request

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
)

var errBackendDown = errors.New("backend unavailable")

func testCatalogs() models.Catalogs {
	return models.Catalogs{
		Regionals: []models.Regional{
			{ID: 1, Name: "Antioquia", Active: true},
			{ID: 2, Name: "Distrito Capital", Active: true},
			{ID: 3, Name: "Cerrada", Active: false},
		},
		Centers: []models.Center{
			{ID: 10, Name: "Centro de Servicios", RegionalID: 1, Active: true},
			{ID: 11, Name: "Centro Agropecuario", RegionalID: 1, Active: true},
			{ID: 12, Name: "Centro Inactivo", RegionalID: 1, Active: false},
			{ID: 20, Name: "Centro de Gestión", RegionalID: 2, Active: true},
		},
		Headquarters: []models.Headquarters{
			{ID: 100, Name: "Sede Norte", CenterID: 10, Active: true},
			{ID: 101, Name: "Sede Sur", CenterID: 10, Active: true},
			{ID: 110, Name: "Sede Rural", CenterID: 11, Active: true},
			{ID: 200, Name: "Sede Calle 52", CenterID: 20, Active: true},
		},
		Programs: []models.Program{
			{ID: 5, Name: "Análisis y Desarrollo de Software", Active: true},
			{ID: 6, Name: "Cocina", Active: true},
			{ID: 7, Name: "Programa Cerrado", Active: false},
		},
		Modalities: []models.Modality{
			{ID: 1, Name: "Contrato de Aprendizaje", Active: true},
			{ID: 2, Name: "Pasantía", Active: true},
			{ID: 3, Name: "Proyecto Productivo", Active: true},
		},
	}
}

// fakeCatalogSource serves testCatalogs. Entries of errs fail the matching
// catalog; beforeCohorts runs while the draft lock is released.
type fakeCatalogSource struct {
	mu            sync.Mutex
	catalogs      models.Catalogs
	cohorts       map[int64][]models.Cohort
	errs          map[models.CatalogKind]error
	beforeCohorts func(programID int64)
	cohortCalls   []int64
}

func newFakeCatalogSource() *fakeCatalogSource {
	return &fakeCatalogSource{
		catalogs: testCatalogs(),
		cohorts: map[int64][]models.Cohort{
			5: {{ID: 50, FileNumber: "2560001", ProgramID: 5, Active: true}, {ID: 51, FileNumber: "2560002", Active: true}},
			6: {{ID: 60, FileNumber: "2670001", ProgramID: 6, Active: true}},
		},
		errs: map[models.CatalogKind]error{},
	}
}

func (f *fakeCatalogSource) err(kind models.CatalogKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[kind]
}

func (f *fakeCatalogSource) LoadRegionals(context.Context) ([]models.Regional, error) {
	return f.catalogs.Regionals, f.err(models.CatalogRegionals)
}

func (f *fakeCatalogSource) LoadCenters(context.Context) ([]models.Center, error) {
	return f.catalogs.Centers, f.err(models.CatalogCenters)
}

func (f *fakeCatalogSource) LoadHeadquarters(context.Context) ([]models.Headquarters, error) {
	return f.catalogs.Headquarters, f.err(models.CatalogHeadquarters)
}

func (f *fakeCatalogSource) LoadPrograms(context.Context) ([]models.Program, error) {
	return f.catalogs.Programs, f.err(models.CatalogPrograms)
}

func (f *fakeCatalogSource) LoadModalities(context.Context) ([]models.Modality, error) {
	return f.catalogs.Modalities, f.err(models.CatalogModalities)
}

func (f *fakeCatalogSource) LoadCohorts(_ context.Context, programID int64) ([]models.Cohort, error) {
	f.mu.Lock()
	f.cohortCalls = append(f.cohortCalls, programID)
	hook := f.beforeCohorts
	f.mu.Unlock()
	if hook != nil {
		hook(programID)
	}
	if err := f.err(models.CatalogCohorts); err != nil {
		return nil, err
	}
	list := f.cohorts[programID]
	return append([]models.Cohort(nil), list...), nil
}

// fakePartySource serves two enterprises with one boss and one human-talent
// contact each.
type fakePartySource struct {
	mu              sync.Mutex
	enterprises     []models.Enterprise
	bosses          map[int64][]models.Boss
	talents         map[int64][]models.HumanTalent
	enterpriseErr   error
	contactErr      error
	beforeContacts  func(enterpriseID int64)
	contactRequests []int64
}

func newFakePartySource() *fakePartySource {
	return &fakePartySource{
		enterprises: []models.Enterprise{
			{ID: 9, Name: "Acme SAS", NIT: "900123456", Location: "Medellín", Email: "contacto@acme.co"},
			{ID: 8, Name: "Globex", NIT: "800987654", Location: "Bogotá", Email: "info@globex.co"},
		},
		bosses: map[int64][]models.Boss{
			9: {{ID: 90, EnterpriseID: 9, Name: "Ana Ruiz", Phone: "3001234567", Email: "ana@acme.co", Position: "Líder"}},
			8: {{ID: 80, EnterpriseID: 8, Name: "Luis Mora", Phone: "3107654321", Email: "luis@globex.co", Position: "Jefe"}},
		},
		talents: map[int64][]models.HumanTalent{
			9: {{ID: 91, EnterpriseID: 9, Name: "Marta Gil", Email: "rh@acme.co", Phone: "3009876543"}},
			8: {{ID: 81, EnterpriseID: 8, Name: "Sara Paz", Email: "rh@globex.co", Phone: "3201112233"}},
		},
	}
}

func (f *fakePartySource) LoadEnterprises(context.Context) ([]models.Enterprise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enterpriseErr != nil {
		return nil, f.enterpriseErr
	}
	return f.enterprises, nil
}

func (f *fakePartySource) LoadBossesByEnterprise(_ context.Context, enterpriseID int64) ([]models.Boss, error) {
	f.mu.Lock()
	f.contactRequests = append(f.contactRequests, enterpriseID)
	hook := f.beforeContacts
	f.beforeContacts = nil
	err := f.contactErr
	f.mu.Unlock()
	if hook != nil {
		hook(enterpriseID)
	}
	if err != nil {
		return nil, err
	}
	return f.bosses[enterpriseID], nil
}

func (f *fakePartySource) LoadHumanTalentByEnterprise(_ context.Context, enterpriseID int64) ([]models.HumanTalent, error) {
	f.mu.Lock()
	err := f.contactErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.talents[enterpriseID], nil
}

// fakeGateway records the submission calls.
type fakeGateway struct {
	created   *models.CreateRequestResponse
	createErr error
	uploaded  models.UploadPDFResponse
	uploadErr error
	onCreate  func()

	payloads   []models.RequestPayload
	uploadIDs  []int64
	uploadBody [][]byte
}

func (g *fakeGateway) CreateRequest(_ context.Context, payload models.RequestPayload) (models.CreateRequestResponse, error) {
	g.payloads = append(g.payloads, payload)
	if g.onCreate != nil {
		g.onCreate()
	}
	if g.createErr != nil {
		return models.CreateRequestResponse{}, g.createErr
	}
	return *g.created, nil
}

func (g *fakeGateway) UploadPDF(_ context.Context, requestID int64, _ string, file io.Reader) (models.UploadPDFResponse, error) {
	g.uploadIDs = append(g.uploadIDs, requestID)
	data, _ := io.ReadAll(file)
	g.uploadBody = append(g.uploadBody, data)
	if g.uploadErr != nil {
		return models.UploadPDFResponse{}, g.uploadErr
	}
	return g.uploaded, nil
}

type memBlobs map[string][]byte

func (m memBlobs) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	data, ok := m[ref]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func int64Ptr(v int64) *int64 { return &v }
