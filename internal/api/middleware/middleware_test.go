package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/metrics"
)

const testSecret = "test-secret"

func echoIdentity(t *testing.T, got *domain.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		require.True(t, ok)
		*got = identity
		w.WriteHeader(http.StatusNoContent)
	})
}

func signToken(t *testing.T, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestNewAuthenticator(t *testing.T) {
	_, err := NewAuthenticator(AuthModeJWT, "")
	assert.Error(t, err)

	_, err = NewAuthenticator("basic", "")
	assert.Error(t, err)

	_, err = NewAuthenticator(AuthModeHeader, "")
	assert.NoError(t, err)
}

func TestAuthenticator_HeaderMode(t *testing.T) {
	a, err := NewAuthenticator(AuthModeHeader, "")
	require.NoError(t, err)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
		role    domain.Role
	}{
		{name: "patient", headers: map[string]string{HeaderUserID: "u-1", HeaderUserRole: "patient"}, want: http.StatusNoContent, role: domain.RolePatient},
		{name: "default role", headers: map[string]string{HeaderUserID: "u-1"}, want: http.StatusNoContent, role: domain.RolePatient},
		{name: "clinic admin", headers: map[string]string{HeaderUserID: "a-1", HeaderUserRole: "clinic_admin", HeaderClinicID: "c-1"}, want: http.StatusNoContent, role: domain.RoleClinicAdmin},
		{name: "admin without clinic", headers: map[string]string{HeaderUserID: "a-1", HeaderUserRole: "clinic_admin"}, want: http.StatusUnauthorized},
		{name: "unknown role", headers: map[string]string{HeaderUserID: "u-1", HeaderUserRole: "root"}, want: http.StatusUnauthorized},
		{name: "missing user", headers: map[string]string{}, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Identity
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()

			a.Middleware(echoIdentity(t, &got)).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, tt.role, got.Role)
			}
		})
	}
}

func TestAuthenticator_JWTMode(t *testing.T) {
	a, err := NewAuthenticator(AuthModeJWT, testSecret)
	require.NoError(t, err)

	valid := signToken(t, jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Role:             "clinic_admin",
		ClinicID:         "c-1",
	})
	expired := signToken(t, jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		Role:             "patient",
	})
	wrongAlg := signToken(t, jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a-1"},
		Role:             "patient",
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer " + valid, want: http.StatusNoContent},
		{name: "expired", header: "Bearer " + expired, want: http.StatusUnauthorized},
		{name: "wrong alg", header: "Bearer " + wrongAlg, want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "missing", header: "", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Identity
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			a.Middleware(echoIdentity(t, &got)).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "a-1", got.UserID)
				assert.Equal(t, "c-1", got.ClinicID)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RequireRole(domain.RoleClinicAdmin)(ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = req.WithContext(WithIdentity(req.Context(), domain.Identity{UserID: "u", Role: domain.RolePatient}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = req.WithContext(WithIdentity(req.Context(), domain.Identity{UserID: "a", Role: domain.RoleClinicAdmin, ClinicID: "c"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/appointments/{appointmentId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/abc", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("test", http.MethodGet, "/appointments/{appointmentId}", "404")))
}

type captureLogger struct{ messages []string }

func (l *captureLogger) Error(format string, v ...interface{}) { l.messages = append(l.messages, format) }

func TestRecovery(t *testing.T) {
	log := &captureLogger{}
	h := Recovery(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Len(t, log.messages, 1)
}
