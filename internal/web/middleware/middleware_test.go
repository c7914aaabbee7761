package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/jaarrekening/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(r.RemoteAddr))
})

func TestAPIKeyAuth(t *testing.T) {
	cfg := &config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}}
	h := APIKeyAuth(cfg)(okHandler)

	tests := []struct {
		name   string
		method string
		header map[string]string
		want   int
	}{
		{name: "read passes", method: http.MethodGet, want: http.StatusOK},
		{name: "missing key", method: http.MethodPost, want: http.StatusUnauthorized},
		{name: "wrong key", method: http.MethodDelete, header: map[string]string{"X-API-Key": "nope"}, want: http.StatusForbidden},
		{name: "header key", method: http.MethodPost, header: map[string]string{"X-API-Key": "k2"}, want: http.StatusOK},
		{name: "bearer key", method: http.MethodPost, header: map[string]string{"Authorization": "Bearer k1"}, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/companies/acme/years/2023", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	h := APIKeyAuth(&config.SecurityConfig{})(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/extract", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTrustedRealIP(t *testing.T) {
	h := TrustedRealIP([]string{"10.0.0.0/8", "192.168.1.5", "bogus"})(okHandler)

	tests := []struct {
		name   string
		remote string
		header map[string]string
		want   string
	}{
		{name: "trusted real ip", remote: "10.1.2.3:4000", header: map[string]string{"X-Real-IP": "203.0.113.7"}, want: "203.0.113.7"},
		{name: "trusted forwarded for", remote: "192.168.1.5:4000", header: map[string]string{"X-Forwarded-For": "203.0.113.8, 10.1.2.3"}, want: "203.0.113.8"},
		{name: "untrusted proxy", remote: "198.51.100.1:4000", header: map[string]string{"X-Real-IP": "203.0.113.7"}, want: "198.51.100.1:4000"},
		{name: "invalid header", remote: "10.1.2.3:4000", header: map[string]string{"X-Real-IP": "not-an-ip"}, want: "10.1.2.3:4000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[::ffff:10.0.0.1]:443"
	assert.Equal(t, "10.0.0.1", ClientIP(req))

	req.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", ClientIP(req))
}

type countingRecorder struct {
	statuses []int
}

func (c *countingRecorder) HTTPRequest(_ string, status int) {
	c.statuses = append(c.statuses, status)
}

func TestLogger_RecordsStatus(t *testing.T) {
	rec := &countingRecorder{}
	h := Logger(rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []int{http.StatusTeapot, http.StatusTeapot}, rec.statuses)
}

func TestLogger_NilRecorder(t *testing.T) {
	h := Logger(nil)(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
