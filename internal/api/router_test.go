package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/vortex-care/internal/app"
	"github.com/hackgods/vortex-care/internal/clinic"
	"github.com/hackgods/vortex-care/internal/config"
	"github.com/hackgods/vortex-care/internal/recruitment"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T, limiter *LoginLimiter) *testServer {
	t.Helper()
	cfg := config.Config{
		Env:            "test",
		StorageDriver:  config.DriverMemory,
		JWTSecret:      "test-secret",
		SessionTTL:     time.Hour,
		BcryptCost:     4,
		ReminderWindow: 24 * time.Hour,
		ClinicLocation: time.UTC,
		AuditMaxEvents: 100,
	}
	a, err := app.New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return &testServer{t: t, handler: NewRouter(RouterConfig{App: a, Limiter: limiter, Version: "test"})}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/auth/login", "", LoginRequest{Email: email, Password: password})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var res LoginResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res.Token
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decodeBody[ReadinessResponse](t, rec)
	assert.Equal(t, "ok", ready.Status)
	assert.Equal(t, "ok", ready.Dependencies["storage"])
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/auth/login", "", LoginRequest{Email: "admin@vortexcare.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decodeBody[ErrorResponse](t, rec).Error)

	token := s.login("ADMIN@vortexcare.com", "Admin@123")

	rec = s.do(http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
	assert.Equal(t, "admin@vortexcare.com", decodeBody[UserResponse](t, rec).Email)

	rec = s.do(http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/auth/register", "", RegisterRequest{
		FirstName: "A", LastName: "Patient", Email: "not-an-email",
		Phone: "123", Password: "weak", ConfirmPassword: "other",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody[ErrorResponse](t, rec)
	for _, field := range []string{"firstName", "email", "phone", "password", "confirmPassword"} {
		assert.Contains(t, body.Fields, field)
	}

	ok := RegisterRequest{
		FirstName: "Pat", LastName: "Ient", Email: "pat@example.com",
		Phone: "+15550001111", Password: "Str0ng!pass", ConfirmPassword: "Str0ng!pass",
	}
	rec = s.do(http.MethodPost, "/auth/register", "", ok)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "patient", string(decodeBody[LoginResponse](t, rec).User.Role))

	rec = s.do(http.MethodPost, "/auth/register", "", ok)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBadBearerToken(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(http.MethodGet, "/jobs", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJobApplication_RaisesDerivedCount(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/jobs?q=nurse", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	jobs := decodeBody[[]recruitment.PositionView](t, rec)
	require.Len(t, jobs, 1)
	assert.Equal(t, 12, jobs[0].ApplicationsCount)

	rec = s.do(http.MethodPost, "/jobs/"+jobs[0].ID+"/applications", "", ApplicationRequest{
		ApplicantName:     "Jane <b>Doe</b>",
		ApplicantEmail:    "jane@example.com",
		ApplicantPhone:    "+15550002222",
		YearsOfExperience: 4,
		Qualifications:    "RN license, ACLS certified",
		CoverLetter:       strings.Repeat("I would love to join the nursing team. ", 3),
		Resume:            "https://example.com/jane.pdf",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	application := decodeBody[recruitment.Application](t, rec)
	assert.Equal(t, "Jane Doe", application.ApplicantName)
	assert.Equal(t, "Registered Nurse", application.JobTitle)

	rec = s.do(http.MethodGet, "/jobs/"+jobs[0].ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 13, decodeBody[recruitment.PositionView](t, rec).ApplicationsCount)

	rec = s.do(http.MethodPost, "/jobs/missing/applications", "", ApplicationRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestJobApplication_ValidatesSanitizedText(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/jobs?q=nurse", "", nil)
	jobs := decodeBody[[]recruitment.PositionView](t, rec)
	require.Len(t, jobs, 1)

	rec = s.do(http.MethodPost, "/jobs/"+jobs[0].ID+"/applications", "", ApplicationRequest{
		ApplicantName:     "<b>x</b>",
		ApplicantEmail:    "jane@example.com",
		ApplicantPhone:    "+15550002222",
		YearsOfExperience: 4,
		Qualifications:    "RN license, ACLS certified",
		CoverLetter:       strings.Repeat("I would love to join the nursing team. ", 3),
		Resume:            "https://example.com/jane.pdf",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, decodeBody[ErrorResponse](t, rec).Fields, "applicantName")

	rec = s.do(http.MethodGet, "/jobs/"+jobs[0].ID, "", nil)
	assert.Equal(t, 12, decodeBody[recruitment.PositionView](t, rec).ApplicationsCount)
}

func TestBooking_ConflictOnSameSlot(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/services", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	services := decodeBody[[]clinic.MedicalService](t, rec)
	require.NotEmpty(t, services)

	rec = s.do(http.MethodGet, "/appointments/dates", "", nil)
	dates := decodeBody[[]string](t, rec)
	require.NotEmpty(t, dates)

	rec = s.do(http.MethodGet, "/appointments/slots?date="+dates[0], "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slots := decodeBody[SlotsResponse](t, rec)
	require.Contains(t, slots.Slots, "09:00")

	req := BookingRequest{
		FirstName: "Sam", LastName: "Lee", Email: "sam@example.com", Phone: "+15550003333",
		DateOfBirth: "1990-04-01", Gender: "other", ServiceID: services[0].ID,
		AppointmentDate: dates[0], AppointmentTime: "09:00", Reason: "Annual physical check-up",
	}
	rec = s.do(http.MethodPost, "/appointments", "", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	booking := decodeBody[clinic.Booking](t, rec)
	assert.Equal(t, clinic.StatusPending, booking.Appointment.Status)

	rec = s.do(http.MethodPost, "/appointments", "", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "slot_already_booked", decodeBody[ErrorResponse](t, rec).Error)

	rec = s.do(http.MethodGet, "/appointments/slots?date="+dates[0], "", nil)
	assert.NotContains(t, decodeBody[SlotsResponse](t, rec).Slots, "09:00")

	req.AppointmentTime = "12:15"
	rec = s.do(http.MethodPost, "/appointments", "", req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdmin_RequiresCapabilities(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	doctor := s.login("doctor@vortexcare.com", "Doctor@123")
	rec = s.do(http.MethodGet, "/admin/users", doctor, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/admin/stats", doctor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[StatsResponse](t, rec)
	assert.Equal(t, 6, stats.Recruitment.ActivePositions)

	admin := s.login("admin@vortexcare.com", "Admin@123")
	rec = s.do(http.MethodGet, "/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]UserResponse](t, rec), 3)
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	rec = s.do(http.MethodPost, "/admin/users", admin, CreateUserRequest{
		Email: "nurse@vortexcare.com", Password: "Nurse@1234", FirstName: "Nina",
		LastName: "Reyes", Role: "staff",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[UserResponse](t, rec)
	assert.True(t, created.IsActive)

	rec = s.do(http.MethodDelete, "/admin/users/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodGet, "/admin/users/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_AppointmentStatus(t *testing.T) {
	s := newTestServer(t, nil)
	admin := s.login("admin@vortexcare.com", "Admin@123")

	services := decodeBody[[]clinic.MedicalService](t, s.do(http.MethodGet, "/services", "", nil))
	dates := decodeBody[[]string](t, s.do(http.MethodGet, "/appointments/dates", "", nil))
	rec := s.do(http.MethodPost, "/appointments", "", BookingRequest{
		FirstName: "Kim", LastName: "Park", Email: "kim@example.com", Phone: "+15550004444",
		DateOfBirth: "1985-02-11", Gender: "female", ServiceID: services[0].ID,
		AppointmentDate: dates[0], AppointmentTime: "10:00", Reason: "Follow-up on blood work",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decodeBody[clinic.Booking](t, rec).Appointment.ID

	rec = s.do(http.MethodPost, "/admin/appointments/"+id+"/status", admin, StatusRequest{Status: "completed"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/admin/appointments/"+id+"/status", admin, StatusRequest{Status: "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, clinic.StatusConfirmed, decodeBody[clinic.Appointment](t, rec).Status)

	rec = s.do(http.MethodGet, "/admin/appointments/"+id+"/events", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]clinic.Event](t, rec), 2)
}

func TestLoginRateLimit(t *testing.T) {
	limiter := NewLoginLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	s := newTestServer(t, limiter)

	body := LoginRequest{Email: "admin@vortexcare.com", Password: "nope"}
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/auth/login", "", body).Code)
	}
	rec := s.do(http.MethodPost, "/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestLoginLimiter_Cleanup(t *testing.T) {
	l := NewLoginLimiter(5, time.Minute)
	t.Cleanup(l.Stop)
	l.get("10.0.0.1")
	require.Equal(t, 1, l.size())

	l.cleanup(time.Now().Add(time.Minute))
	assert.Equal(t, 1, l.size())
	l.cleanup(time.Now().Add(3 * time.Minute))
	assert.Equal(t, 0, l.size())
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.login("admin@vortexcare.com", "Admin@123")

	rec := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `vortex_login_total{outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), "vortex_store_persist_total")
}

func TestCORSPreflight(t *testing.T) {
	a := &testServer{t: t}
	cors := CORSMiddleware("https://vortexcare.com")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	a.handler = cors

	rec := a.do(http.MethodOptions, "/jobs", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://vortexcare.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
