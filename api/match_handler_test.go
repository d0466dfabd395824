package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andreypavlenko/jobmatch/internal/config"
	"github.com/andreypavlenko/jobmatch/internal/matching/orchestrator"
	"github.com/andreypavlenko/jobmatch/internal/matching/scoring"
	"github.com/andreypavlenko/jobmatch/internal/matching/selector"
	"github.com/andreypavlenko/jobmatch/internal/matching/variants"
	"github.com/andreypavlenko/jobmatch/internal/matching/weights"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	reg := variants.Registry(variants.Deps{Rules: scoring.DefaultRules()})
	sel := selector.New(reg, []variants.Name{variants.NameGeoAware, variants.NameEnhanced, variants.NameSkillsCentric}, nil)
	cfg := config.MatchConfig{DefaultMinScore: 0.0, DefaultLimit: 10, LimitCap: 50}
	orch := orchestrator.New(reg, sel, weights.DefaultBase(), nil, nil, cfg)
	return NewServer(orch, sel, reg, nil, nil, nil, nil, nil)
}

func setupRouter(s *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/")
	s.RegisterRoutes(group, func(c *gin.Context) { c.Next() })
	return router
}

func matchBody() []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"candidate": map[string]interface{}{
			"id":               "c1",
			"skills":           "Python, SQL",
			"years_experience": 4,
		},
		"jobs": []map[string]interface{}{
			{"id": "j1", "title": "Backend Engineer", "required_skills": "Python, SQL", "required_experience_years": 2},
		},
	})
	return body
}

func TestMatchReturnsSuccessEnvelope(t *testing.T) {
	router := setupRouter(newTestServer())

	req := httptest.NewRequest(http.MethodPost, "/match", bytes.NewReader(matchBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var env orchestrator.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, "success", env.Status)
	require.NotEmpty(t, env.Results)
}

func TestMatchRejectsMissingBody(t *testing.T) {
	router := setupRouter(newTestServer())

	req := httptest.NewRequest(http.MethodPost, "/match", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompareForcesComparisonMode(t *testing.T) {
	router := setupRouter(newTestServer())

	req := httptest.NewRequest(http.MethodPost, "/compare", bytes.NewReader(matchBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var env orchestrator.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotEmpty(t, env.ComparisonDetail)
}

func TestExplainReturnsRationaleWithoutScoring(t *testing.T) {
	router := setupRouter(newTestServer())

	req := httptest.NewRequest(http.MethodPost, "/explain", bytes.NewReader(matchBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var exp selector.Explanation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exp))
	require.NotEmpty(t, exp.Chosen)
}

func TestAlgorithmsListsEveryRegisteredVariant(t *testing.T) {
	router := setupRouter(newTestServer())

	req := httptest.NewRequest(http.MethodGet, "/algorithms", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Algorithms []algorithmInfo `json:"algorithms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Algorithms, 8)
}

func TestHealthReportsUptimeAndVersion(t *testing.T) {
	router := setupRouter(newTestServer())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, "ok", out["status"])
}
