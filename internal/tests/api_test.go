// internal/tests/api_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/July173/autogestionFrontWeb-sub002/internal/backend"
	"github.com/July173/autogestionFrontWeb-sub002/internal/config"
	"github.com/July173/autogestionFrontWeb-sub002/internal/handlers"
	"github.com/July173/autogestionFrontWeb-sub002/internal/i18n"
	"github.com/July173/autogestionFrontWeb-sub002/internal/middleware"
	"github.com/July173/autogestionFrontWeb-sub002/internal/models"
	"github.com/July173/autogestionFrontWeb-sub002/internal/request"
	"github.com/July173/autogestionFrontWeb-sub002/internal/router"
	"github.com/July173/autogestionFrontWeb-sub002/internal/services"
	"github.com/July173/autogestionFrontWeb-sub002/internal/utils"
)

var testPDF = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF")

// envelope mirrors utils.APIResponse with the data left raw.
type envelope struct {
	Success      bool                 `json:"success"`
	Data         json.RawMessage      `json:"data"`
	Error        *utils.APIError      `json:"error"`
	Notification *models.Notification `json:"notification"`
}

// fakeBackend is the REST backend the BFF talks to.
type fakeBackend struct {
	mu           sync.Mutex
	failCohorts  bool
	createStatus int
	createBody   string
	created      []map[string]any
	uploads      []string
	contactAuth  string
}

// do runs fn with the backend locked.
func (b *fakeBackend) do(fn func(b *fakeBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func (b *fakeBackend) handler() http.Handler {
	list := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		}
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/general/regionals/", list(`[{"id": 1, "name": "Cauca"}, {"id": 2, "name": "Valle"}]`))
	mux.HandleFunc("/general/centers/", list(`[{"id": 10, "name": "CTPI", "regional": 1}]`))
	mux.HandleFunc("/general/sedes/", list(`{"results": [{"id": 100, "name": "Sede Norte", "center": 10}]}`))
	mux.HandleFunc("/general/programs/", list(`[{"id": 5, "name": "ADSO"}]`))
	mux.HandleFunc("/general/programs/5/load-fichas/", func(w http.ResponseWriter, r *http.Request) {
		var fail bool
		b.do(func(b *fakeBackend) { fail = b.failCohorts })
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		list(`[{"id": 50, "file_number": "2560001"}]`)(w, r)
	})
	mux.HandleFunc("/general/modalities-productive-stage/", list(`[
		{"id": 1, "name": "Contrato de Aprendizaje"},
		{"id": 2, "name": "Pasantía"}
	]`))
	mux.HandleFunc("/assign/enterprises/", list(`[{"id": 9, "name_enterprise": "Acme SAS", "nit_enterprise": "900123456"}]`))
	mux.HandleFunc("/assign/bosses/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.contactAuth = r.Header.Get("Authorization")
		b.mu.Unlock()
		list(`[{"id": 90, "first_name": "Ana", "last_name": "Gómez", "enterprise": 9}]`)(w, r)
	})
	mux.HandleFunc("/assign/human-talents/", list(`[{"id": 91, "name": "Sofía"}]`))
	mux.HandleFunc("/assign/request-registrations/", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		b.mu.Lock()
		b.created = append(b.created, payload)
		status, body := b.createStatus, b.createBody
		b.mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
	mux.HandleFunc("/assign/request-registrations/42/upload-pdf/", func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile(backend.PDFField)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.mu.Lock()
		b.uploads = append(b.uploads, header.Filename)
		b.mu.Unlock()
		_, _ = io.WriteString(w, `{"success": true, "message": "Documento cargado"}`)
	})
	return mux
}

type APITestSuite struct {
	suite.Suite
	server  *httptest.Server
	backend *fakeBackend
	router  *gin.Engine
	token   string
}

func (suite *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(i18n.Initialize("es"))

	suite.backend = &fakeBackend{}
	suite.server = httptest.NewServer(suite.backend.handler())

	cfg := &config.Config{
		JWT:       config.JWTConfig{SecretKey: "test-secret"},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		I18n:      config.I18nConfig{DefaultLocale: "es"},
		Frontend:  config.FrontendConfig{RedirectAfterSubmit: "/home"},
		RateLimit: config.RateLimitConfig{RequestsPerMinute: 6_000_000, Burst: 1000, SubmitPerMinute: 6_000_000},
	}

	client := backend.NewClient(suite.server.URL, 5*time.Second)
	reference := request.NewReferenceData(client)
	suite.Require().NoError(reference.Load(context.Background()))
	storage, err := services.NewStorageService(cfg)
	suite.Require().NoError(err)

	suite.router = router.Initialize(router.Dependencies{
		Config:        cfg,
		Reference:     reference,
		Drafts:        services.NewDraftService(reference, client, client, storage, nil, time.Hour),
		Notifications: services.NewNotificationService(cfg),
		Limiters:      middleware.NewLimiters(cfg.RateLimit),
	})
	suite.token = suite.tokenFor(7)
}

func (suite *APITestSuite) TearDownSuite() {
	suite.server.Close()
}

func (suite *APITestSuite) SetupTest() {
	suite.backend.do(func(b *fakeBackend) {
		b.failCohorts = false
		b.createStatus = http.StatusCreated
		b.createBody = `{"id": 42, "message": "Solicitud registrada"}`
		b.created = nil
		b.uploads = nil
	})
}

func (suite *APITestSuite) tokenFor(apprenticeID int64) string {
	token, err := utils.GenerateJWT(apprenticeID, models.Apprentice{ID: apprenticeID, FirstName: "Camila"}, time.Hour)
	suite.Require().NoError(err)
	return token
}

func (suite *APITestSuite) send(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (suite *APITestSuite) call(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return suite.send(req, suite.token)
}

func (suite *APITestSuite) upload(path, filename, contentType string, data []byte) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pdf_file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	suite.Require().NoError(err)
	_, _ = part.Write(data)
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return suite.send(req, suite.token)
}

func (suite *APITestSuite) draft(env envelope) handlers.DraftResponse {
	var d handlers.DraftResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &d))
	return d
}

// createDraft starts a draft and returns its base path.
func (suite *APITestSuite) createDraft() string {
	w, env := suite.call(http.MethodPost, "/v1/drafts", nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return "/v1/drafts/" + suite.draft(env).ID.String()
}

func (suite *APITestSuite) fill(base string) {
	for _, step := range []struct {
		method, path string
		body         any
	}{
		{http.MethodPut, "/location", map[string]int64{"regional_id": 1, "center_id": 10, "headquarters_id": 100}},
		{http.MethodPut, "/program", map[string]int64{"program_id": 5}},
		{http.MethodPut, "/cohort", map[string]int64{"cohort_id": 50}},
		{http.MethodPut, "/modality", map[string]int64{"modality_id": 2}},
		{http.MethodPut, "/parties/enterprise/selection", map[string]int64{"id": 9}},
		{http.MethodPut, "/parties/boss/selection", map[string]int64{"id": 90}},
		{http.MethodPut, "/parties/human_talent/selection", map[string]int64{"id": 91}},
	} {
		w, _ := suite.call(step.method, base+step.path, step.body)
		suite.Require().Equal(http.StatusOK, w.Code, "%s: %s", step.path, w.Body.String())
	}
	w, _ := suite.upload(base+"/attachment", "soporte.pdf", "application/pdf", testPDF)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *APITestSuite) TestHealth() {
	w, _ := suite.send(httptest.NewRequest(http.MethodGet, "/health", nil), "")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"ready":true`)
}

func (suite *APITestSuite) TestAuthRequired() {
	w, env := suite.send(httptest.NewRequest(http.MethodGet, "/v1/catalogs", nil), "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(suite.T(), "UNAUTHORIZED", env.Error.Code)

	w, _ = suite.send(httptest.NewRequest(http.MethodGet, "/v1/catalogs", nil), "not-a-token")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestCatalogs() {
	w, env := suite.call(http.MethodGet, "/v1/catalogs", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp handlers.CatalogsResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &resp))
	suite.True(resp.Ready)
	suite.Len(resp.Catalogs.Regionals, 2)
	suite.Equal(int64(10), resp.Catalogs.Headquarters[0].CenterID)
	suite.Nil(env.Notification)
}

func (suite *APITestSuite) TestCompleteSubmission() {
	base := suite.createDraft()
	suite.fill(base)

	w, env := suite.call(http.MethodGet, base, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	d := suite.draft(env)
	suite.Equal("Ana Gómez", d.Draft.Boss.Display.Name)
	suite.Empty(d.Issues)
	suite.backend.do(func(b *fakeBackend) {
		suite.Equal("Bearer "+suite.token, b.contactAuth)
	})

	w, env = suite.call(http.MethodPost, base+"/submission", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(models.NotificationInfo, env.Notification.Type)
	suite.Equal(models.SubmissionAwaitingConfirmation, suite.draft(env).State)

	w, env = suite.call(http.MethodPost, base+"/submission/confirm", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal(models.NotificationSuccess, env.Notification.Type)
	suite.Equal("Documento cargado", env.Notification.Message)
	suite.Equal(models.SubmissionSucceeded, suite.draft(env).State)
	suite.backend.do(func(b *fakeBackend) {
		suite.Equal([]string{"soporte.pdf"}, b.uploads)
		suite.Require().Len(b.created, 1)
		suite.Equal(map[string]any{"id": float64(9)}, b.created[0]["enterprise"])
	})

	w, _ = suite.call(http.MethodPut, base+"/cohort", map[string]int64{"cohort_id": 50})
	suite.Equal(http.StatusConflict, w.Code, "outcome must be acknowledged first")

	w, env = suite.call(http.MethodPost, base+"/submission/acknowledge", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var ack handlers.AcknowledgeResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &ack))
	suite.Equal("/home", ack.RedirectTo)
	suite.Equal(models.SubmissionIdle, ack.Draft.State)
	suite.Zero(ack.Draft.Draft.Selection.HeadquartersID)
}

func (suite *APITestSuite) TestConfirmWithMissingFields() {
	base := suite.createDraft()

	w, _ := suite.call(http.MethodPost, base+"/submission", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w, env := suite.call(http.MethodPost, base+"/submission/confirm", nil)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal(models.NotificationError, env.Notification.Type)
	suite.Contains(env.Notification.Message, "Sede")
	suite.Contains(env.Notification.Message, "Documento PDF")
	suite.backend.do(func(b *fakeBackend) { suite.Empty(b.created) })

	d := suite.draft(env)
	suite.Equal(models.SubmissionIdle, d.State)
	suite.Require().NotNil(d.Outcome)
	suite.NotEmpty(d.Outcome.Issues)
}

func (suite *APITestSuite) TestBackendRejectsRequest() {
	suite.backend.do(func(b *fakeBackend) {
		b.createStatus = http.StatusBadRequest
		b.createBody = `{"detail": "El aprendiz ya tiene una solicitud activa"}`
	})

	base := suite.createDraft()
	suite.fill(base)
	w, _ := suite.call(http.MethodPost, base+"/submission", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w, env := suite.call(http.MethodPost, base+"/submission/confirm", nil)
	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Equal("El aprendiz ya tiene una solicitud activa", env.Notification.Message)
	suite.backend.do(func(b *fakeBackend) { suite.Empty(b.uploads) })

	w, env = suite.call(http.MethodPost, base+"/submission/acknowledge", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var ack handlers.AcknowledgeResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &ack))
	suite.Empty(ack.RedirectTo)
	suite.Equal(int64(100), ack.Draft.Draft.Selection.HeadquartersID, "the draft is kept for a retry")
	suite.NotNil(ack.Draft.Draft.Attachment)
}

func (suite *APITestSuite) TestMissingRequestIDIsPartial() {
	suite.backend.do(func(b *fakeBackend) { b.createBody = `{"message": "Creada"}` })

	base := suite.createDraft()
	suite.fill(base)
	suite.call(http.MethodPost, base+"/submission", nil)

	w, env := suite.call(http.MethodPost, base+"/submission/confirm", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(models.NotificationWarning, env.Notification.Type)
	suite.Equal(models.SubmissionPartialFailure, suite.draft(env).State)
	suite.backend.do(func(b *fakeBackend) { suite.Empty(b.uploads) })
}

func (suite *APITestSuite) TestInvalidSelection() {
	base := suite.createDraft()

	w, env := suite.call(http.MethodPut, base+"/location", map[string]int64{"regional_id": 2, "center_id": 10})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal("INVALID_SELECTION", env.Error.Code)

	w, _ = suite.call(http.MethodPut, base+"/program", map[string]any{})
	suite.Equal(http.StatusBadRequest, w.Code)

	w, _ = suite.call(http.MethodPut, base+"/parties/unknown/selection", map[string]int64{"id": 1})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestCascadeClearsDependents() {
	base := suite.createDraft()
	suite.fill(base)

	w, env := suite.call(http.MethodPut, base+"/location", map[string]int64{"regional_id": 2})
	suite.Require().Equal(http.StatusOK, w.Code)
	sel := suite.draft(env).Draft.Selection
	suite.Equal(int64(2), sel.RegionalID)
	suite.Zero(sel.CenterID)
	suite.Zero(sel.HeadquartersID)
	suite.Equal(int64(50), sel.CohortID)
}

func (suite *APITestSuite) TestContractDates() {
	base := suite.createDraft()

	w, _ := suite.call(http.MethodPut, base+"/contract", map[string]string{"start_date": "2025-01-15"})
	suite.Equal(http.StatusConflict, w.Code)

	w, _ = suite.call(http.MethodPut, base+"/modality", map[string]int64{"modality_id": 1})
	suite.Require().Equal(http.StatusOK, w.Code)

	w, env := suite.call(http.MethodPut, base+"/contract", map[string]string{"start_date": "2025-01-15", "end_date": "2025-08-10"})
	suite.Require().Equal(http.StatusOK, w.Code)
	d := suite.draft(env)
	suite.True(d.Draft.Contract.Required)
	suite.Require().Len(d.Issues, 1)
	suite.Equal("contract.end_date", d.Issues[0].Field)

	w, _ = suite.call(http.MethodPut, base+"/contract", map[string]string{"start_date": "15/01/2025"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestCreateModeParty() {
	base := suite.createDraft()

	w, _ := suite.call(http.MethodPut, base+"/parties/boss/fields", map[string]string{"name_boss": "Ana"})
	suite.Equal(http.StatusConflict, w.Code, "fields need create mode")

	w, _ = suite.call(http.MethodPut, base+"/parties/boss/mode", map[string]string{"mode": "create"})
	suite.Require().Equal(http.StatusOK, w.Code)

	w, env := suite.call(http.MethodPut, base+"/parties/boss/fields", map[string]string{
		"name_boss": "Ana", "phone_number": "123", "email_boss": "ana@acme.co", "position": "Líder",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	d := suite.draft(env)
	suite.Equal("Ana", d.Draft.Boss.Display.Name)
	suite.Require().Len(d.Issues, 1)
	suite.Equal("boss.phone", d.Issues[0].Field)
	suite.Equal("Teléfono del jefe inmediato", d.Issues[0].Label)

	w, _ = suite.call(http.MethodPut, base+"/parties/boss/mode", map[string]string{"mode": "other"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestCohortLoadFailureIsAWarning() {
	suite.backend.do(func(b *fakeBackend) { b.failCohorts = true })
	base := suite.createDraft()

	w, env := suite.call(http.MethodPut, base+"/program", map[string]int64{"program_id": 5})
	suite.Require().Equal(http.StatusOK, w.Code)
	d := suite.draft(env)
	suite.Equal(int64(5), d.Draft.Selection.ProgramID)
	suite.Require().Len(d.Warnings, 1)
	suite.Equal(i18n.T("es", i18n.KeyCohortsLoadFailed), d.Warnings[0].Message)

	suite.backend.do(func(b *fakeBackend) { b.failCohorts = false })

	w, env = suite.call(http.MethodPost, base+"/cohorts/reload", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	d = suite.draft(env)
	suite.Empty(d.Warnings)
	suite.Len(d.Options.Cohorts.Options, 1)
}

func (suite *APITestSuite) TestAttachmentRules() {
	base := suite.createDraft()

	w, env := suite.upload(base+"/attachment", "foto.png", "image/png", []byte("\x89PNG\r\n\x1a\n"))
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal("INVALID_FILE", env.Error.Code)

	w, env = suite.upload(base+"/attachment", "soporte.pdf", "application/pdf", testPDF)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(models.NotificationSuccess, env.Notification.Type)
	suite.Equal("soporte.pdf", suite.draft(env).Draft.Attachment.Filename)

	w, env = suite.call(http.MethodDelete, base+"/attachment", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Nil(suite.draft(env).Draft.Attachment)
}

func (suite *APITestSuite) TestDraftOwnership() {
	base := suite.createDraft()

	req := httptest.NewRequest(http.MethodGet, base, nil)
	w, _ := suite.send(req, suite.tokenFor(8))
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.call(http.MethodGet, "/v1/drafts/not-a-uuid", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w, _ = suite.call(http.MethodDelete, base, nil)
	suite.Equal(http.StatusNoContent, w.Code)
	w, _ = suite.call(http.MethodGet, base, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestDismissSubmission() {
	base := suite.createDraft()

	w, _ := suite.call(http.MethodDelete, base+"/submission", nil)
	suite.Equal(http.StatusConflict, w.Code)

	suite.call(http.MethodPost, base+"/submission", nil)
	w, env := suite.call(http.MethodDelete, base+"/submission", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(models.SubmissionIdle, suite.draft(env).State)

	w, _ = suite.call(http.MethodPost, base+"/submission/confirm", nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *APITestSuite) TestEnglishMessages() {
	req := httptest.NewRequest(http.MethodGet, "/v1/drafts/"+"00000000-0000-0000-0000-000000000000", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	w, env := suite.send(req, suite.token)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal(i18n.T("en", i18n.KeyDraftNotFound), env.Error.Message)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
