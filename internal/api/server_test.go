package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/donor-concierge/internal/concierge"
	"github.com/david/donor-concierge/internal/concierge/conciergetest"
	"github.com/david/donor-concierge/internal/config"
	"github.com/david/donor-concierge/internal/metrics"
	"github.com/david/donor-concierge/internal/models"
)

const testSecret = "s3cret"

func newTestServer(t *testing.T) (*Server, *conciergetest.MemStore) {
	t.Helper()
	store := conciergetest.NewMemStore()
	reg := prometheus.NewRegistry()
	svc := concierge.NewService(store, concierge.WithMetrics(metrics.NewConciergeMetrics(reg)))
	cfg := &config.Config{CORSOrigins: []string{"*"}, AdminSecret: testSecret}
	return NewServer(svc, store, cfg, nil, reg), store
}

func do(t *testing.T, s *Server, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func registerDonor(t *testing.T, s *Server) uuid.UUID {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/v1/donors", `{"displayName":"Reb Yossi"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var d models.Donor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, "Reb Yossi", d.DisplayName)
	return d.ID
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestCORSUsesConfiguredOrigins(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", "", echo.HeaderOrigin, "https://app.example")
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	store := conciergetest.NewMemStore()
	cfg := &config.Config{CORSOrigins: []string{"https://app.example"}, AdminSecret: testSecret}
	restricted := NewServer(concierge.NewService(store), store, cfg, nil, prometheus.NewRegistry())

	rec = do(t, restricted, http.MethodGet, "/health", "", echo.HeaderOrigin, "https://app.example")
	assert.Equal(t, "https://app.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	rec = do(t, restricted, http.MethodGet, "/health", "", echo.HeaderOrigin, "https://evil.example")
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestMessageFlow(t *testing.T) {
	s, _ := newTestServer(t)
	id := registerDonor(t, s)

	rec := do(t, s, http.MethodPost, "/api/v1/donors/"+id.String()+"/messages", `{"content":"Clean water in Kenya"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Reply   string `json:"reply"`
		NextKey string `json:"nextKey"`
		Vision  struct {
			Pillars  []string `json:"pillars"`
			GeoFocus []string `json:"geoFocus"`
		} `json:"vision"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.Reply)
	assert.Equal(t, "budget", res.NextKey)
	assert.Equal(t, []string{"Clean Water"}, res.Vision.Pillars)
	assert.Equal(t, []string{"Africa"}, res.Vision.GeoFocus)

	rec = do(t, s, http.MethodGet, "/api/v1/donors/"+id.String()+"/transcript", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var turns []models.ChatTurn
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turns))
	assert.Len(t, turns, 2)

	for _, path := range []string{"vision", "board", "suggestions", "matches"} {
		rec = do(t, s, http.MethodGet, "/api/v1/donors/"+id.String()+"/"+path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMessageErrors(t *testing.T) {
	s, _ := newTestServer(t)
	id := registerDonor(t, s)

	rec := do(t, s, http.MethodPost, "/api/v1/donors/"+id.String()+"/messages", `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/donors/not-a-uuid/messages", `{"content":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/donors/"+uuid.NewString()+"/messages", `{"content":"hi"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/donors/"+uuid.NewString()+"/board", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSeedRequiresAdminSecret(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/seed", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/seed", "", "X-Admin-Secret", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/v1/seed", "", "Authorization", "Bearer "+testSecret)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSeedThenBrowseOpportunities(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/seed", "", "X-Admin-Secret", testSecret)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var seeded struct {
		Stats struct {
			Inserted int `json:"inserted"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &seeded))
	assert.Positive(t, seeded.Stats.Inserted)

	rec = do(t, s, http.MethodGet, "/api/v1/opportunities?category=water&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Opportunities []models.Opportunity `json:"opportunities"`
		Total         int                  `json:"total"`
		Limit         int                  `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 5, list.Limit)
	require.Len(t, list.Opportunities, 1)
	assert.Equal(t, "ke-village-wells", list.Opportunities[0].Key)

	rec = do(t, s, http.MethodGet, "/api/v1/opportunities/ke-village-wells", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/v1/opportunities/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	id := registerDonor(t, s)
	do(t, s, http.MethodPost, "/api/v1/donors/"+id.String()+"/messages", `{"content":"clean water"}`)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "donor_concierge_messages_total")
}
