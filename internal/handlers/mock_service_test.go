package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"heating_profiles/internal/models"
	"heating_profiles/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockZones struct {
	zone    models.Zone
	zones   []models.Zone
	err     error
	lastID  int
	lastReq service.ZoneParams
}

func (m *mockZones) Create(ctx context.Context, p service.ZoneParams) (models.Zone, error) {
	m.lastReq = p
	return m.zone, m.err
}
func (m *mockZones) Get(ctx context.Context, id int) (models.Zone, error) {
	m.lastID = id
	return m.zone, m.err
}
func (m *mockZones) List(ctx context.Context) ([]models.Zone, error) {
	return m.zones, m.err
}
func (m *mockZones) Delete(ctx context.Context, id int) error {
	m.lastID = id
	return m.err
}

type mockProfiles struct {
	profile     models.Profile
	profiles    []models.Profile
	preview     []service.PreviewPoint
	temp        float64
	err         error
	lastID      string
	lastParams  service.ProfileParams
	lastDensity float64
	lastMinute  float64
}

func (m *mockProfiles) Create(ctx context.Context, p service.ProfileParams) (models.Profile, error) {
	m.lastParams = p
	return m.profile, m.err
}
func (m *mockProfiles) Get(ctx context.Context, id string) (models.Profile, error) {
	m.lastID = id
	return m.profile, m.err
}
func (m *mockProfiles) List(ctx context.Context) ([]models.Profile, error) {
	return m.profiles, m.err
}
func (m *mockProfiles) Update(ctx context.Context, id string, p service.ProfileParams) (models.Profile, error) {
	m.lastID = id
	m.lastParams = p
	return m.profile, m.err
}
func (m *mockProfiles) Delete(ctx context.Context, id string) error {
	m.lastID = id
	return m.err
}
func (m *mockProfiles) Preview(ctx context.Context, id string, density float64) ([]service.PreviewPoint, error) {
	m.lastID = id
	m.lastDensity = density
	return m.preview, m.err
}
func (m *mockProfiles) Evaluate(ctx context.Context, id string, elapsedMinutes float64) (float64, error) {
	m.lastID = id
	m.lastMinute = elapsedMinutes
	return m.temp, m.err
}

type mockControllers struct {
	controller    models.Controller
	createErr     error
	deleteErr     error
	startErr      error
	stopErr       error
	lastParams    service.ControllerParams
	lastID        int
	lastProfileID string
	startCalled   int
	stopCalled    int
}

func (m *mockControllers) Create(ctx context.Context, p service.ControllerParams) (models.Controller, error) {
	m.lastParams = p
	return m.controller, m.createErr
}
func (m *mockControllers) Delete(ctx context.Context, id int) error {
	m.lastID = id
	return m.deleteErr
}
func (m *mockControllers) StartProfile(ctx context.Context, id int, profileID string) error {
	m.startCalled++
	m.lastID = id
	m.lastProfileID = profileID
	return m.startErr
}
func (m *mockControllers) Stop(ctx context.Context, id int) error {
	m.stopCalled++
	m.lastID = id
	return m.stopErr
}

type mockMonitoring struct {
	state      models.Controller
	states     []models.Controller
	err        error
	lastZoneID int
}

func (m *mockMonitoring) GetState(ctx context.Context, id int) (models.Controller, error) {
	return m.state, m.err
}
func (m *mockMonitoring) ListStates(ctx context.Context, zoneID int) ([]models.Controller, error) {
	m.lastZoneID = zoneID
	return m.states, m.err
}

type mockEventLog struct {
	resp   []models.Event
	err    error
	last   service.LogFilter
	called int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.Event, error) {
	m.called++
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// serve runs one request through r with an optional JSON body and bearer token.
func serve(r http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
