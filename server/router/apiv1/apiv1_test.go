package apiv1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/venturemind/server/memory"
	"github.com/hrygo/venturemind/store"
)

// memStore is an in-memory memory.Store used to exercise handlers without a
// database.
type memStore struct {
	experiences    []*store.Experience
	patterns       []*store.Pattern
	marketInsights []*store.MarketInsight
	failPatterns   bool
}

func (m *memStore) CreateExperience(_ context.Context, create *store.Experience) (*store.Experience, error) {
	create.ID = int64(len(m.experiences) + 1)
	m.experiences = append(m.experiences, create)
	return create, nil
}

func (m *memStore) ListExperiences(_ context.Context, find *store.FindExperience) ([]*store.Experience, error) {
	list := []*store.Experience{}
	for _, e := range m.experiences {
		if find.ActionKind != nil && e.ActionKind != *find.ActionKind {
			continue
		}
		if find.Success != nil && e.Success != *find.Success {
			continue
		}
		list = append(list, e)
	}
	return list, nil
}

func (m *memStore) UpsertPattern(_ context.Context, fold *store.FoldPattern) (*store.Pattern, error) {
	for _, p := range m.patterns {
		if p.ActionKind == fold.ActionKind && p.Niche == fold.Niche {
			n := float64(p.UsageCount)
			p.SuccessRate = (p.SuccessRate*n + 1) / (n + 1)
			p.AvgRevenue = (p.AvgRevenue*n + fold.Revenue) / (n + 1)
			p.UsageCount++
			p.LastUsedTs = fold.LastUsedTs
			return p, nil
		}
	}
	pattern := &store.Pattern{
		ID:          int64(len(m.patterns) + 1),
		UID:         fold.UID,
		ActionKind:  fold.ActionKind,
		Niche:       fold.Niche,
		Data:        fold.Data,
		SuccessRate: 1,
		AvgRevenue:  fold.Revenue,
		UsageCount:  1,
		LastUsedTs:  fold.LastUsedTs,
	}
	m.patterns = append(m.patterns, pattern)
	return pattern, nil
}

func (m *memStore) ListPatterns(_ context.Context, find *store.FindPattern) ([]*store.Pattern, error) {
	if m.failPatterns {
		return nil, errors.New("storage unavailable")
	}
	list := []*store.Pattern{}
	for _, p := range m.patterns {
		if find.ActionKind != nil && p.ActionKind != *find.ActionKind {
			continue
		}
		list = append(list, p)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].SuccessRate != list[j].SuccessRate {
			return list[i].SuccessRate > list[j].SuccessRate
		}
		if list[i].AvgRevenue != list[j].AvgRevenue {
			return list[i].AvgRevenue > list[j].AvgRevenue
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (m *memStore) ListMarketInsights(_ context.Context, find *store.FindMarketInsight) ([]*store.MarketInsight, error) {
	list := []*store.MarketInsight{}
	for _, insight := range m.marketInsights {
		if find.Niche != nil && insight.Niche != *find.Niche {
			continue
		}
		list = append(list, insight)
	}
	return list, nil
}

func newTestService(st *memStore) (*APIV1Service, *echo.Echo) {
	e := echo.New()
	svc := NewAPIV1Service(nil, st, memory.NewEngine(st))
	svc.RegisterRoutes(e)
	return svc, e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRecordExperience(t *testing.T) {
	st := &memStore{}
	_, e := newTestService(st)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/experiences", `{
		"action_kind": "product_creation",
		"context": {"niche": "fitness", "price": 45},
		"result": {"success": true, "revenue_generated": 100}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp recordExperienceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Recorded)
	require.Len(t, st.experiences, 1)
	assert.Equal(t, "product_creation", st.experiences[0].ActionKind)
	require.Len(t, st.patterns, 1)
	assert.Equal(t, "fitness", st.patterns[0].Niche)
}

func TestRecordExperienceMissingActionKind(t *testing.T) {
	st := &memStore{}
	_, e := newTestService(st)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/experiences", `{"context": {}, "result": {}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, st.experiences)
}

func TestRecordExperienceMalformedBody(t *testing.T) {
	st := &memStore{}
	_, e := newTestService(st)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/experiences", `{"action_kind": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommend(t *testing.T) {
	st := &memStore{}
	_, e := newTestService(st)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/experiences", `{
		"action_kind": "product_creation",
		"context": {"niche": "fitness", "price": 45, "keywords": ["yoga"]},
		"result": {"success": true, "revenue_generated": 100}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/v1/recommendations", `{
		"action_kind": "product_creation",
		"context": {"niche": "fitness", "price": 45, "keywords": ["yoga"]}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Recommendation string  `json:"recommendation"`
		Confidence     float64 `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "use_pattern", resp.Recommendation)
	assert.InDelta(t, 1.0, resp.Confidence, 1e-9)
}

func TestRecommendNoData(t *testing.T) {
	st := &memStore{}
	_, e := newTestService(st)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/recommendations", `{
		"action_kind": "product_creation",
		"context": {"niche": "fitness"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Recommendation string `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no_data", resp.Recommendation)
}

func TestListPatterns(t *testing.T) {
	st := &memStore{}
	_, e := newTestService(st)

	for _, niche := range []string{"fitness", "crafts"} {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/experiences", `{
			"action_kind": "product_creation",
			"context": {"niche": "`+niche+`", "price": 30},
			"result": {"success": true, "revenue_generated": 50}
		}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, e, http.MethodGet, "/api/v1/patterns?action_kind=product_creation", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var views []patternView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "fitness", views[0].Niche)
	assert.Equal(t, "crafts", views[1].Niche)
}

func TestListPatternsStorageFailure(t *testing.T) {
	st := &memStore{failPatterns: true}
	_, e := newTestService(st)

	rec := doJSON(t, e, http.MethodGet, "/api/v1/patterns", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestInsights(t *testing.T) {
	st := &memStore{}
	_, e := newTestService(st)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/experiences", `{
		"action_kind": "marketing_campaign",
		"context": {"niche": "fitness"},
		"result": {"success": true, "revenue_generated": 20}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot memory.InsightsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, int64(1), snapshot.TotalExperiences)
	require.Contains(t, snapshot.ActionPerformance, "marketing_campaign")
	assert.InDelta(t, 1.0, snapshot.ActionPerformance["marketing_campaign"].SuccessRate, 1e-9)
}

func TestListExperiencesFiltered(t *testing.T) {
	st := &memStore{}
	_, e := newTestService(st)

	for _, body := range []string{
		`{"action_kind": "product_creation", "context": {"niche": "fitness", "price": 45}, "result": {"success": true, "revenue_generated": 100}}`,
		`{"action_kind": "product_creation", "context": {"niche": "crafts"}, "result": {"success": false}}`,
		`{"action_kind": "marketing_campaign", "context": {"niche": "fitness"}, "result": {"success": true, "revenue_generated": 30}}`,
	} {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/experiences", body)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, e, http.MethodGet, "/api/v1/experiences?action_kind=product_creation&success=true", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var views []experienceView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "product_creation", views[0].ActionKind)
	assert.True(t, views[0].Success)
	assert.Equal(t, 100.0, views[0].Revenue)
	assert.NotEmpty(t, views[0].UID)
	assert.NotEmpty(t, views[0].Lesson)

	var actionCtx memory.ActionContext
	require.NoError(t, json.Unmarshal(views[0].Context, &actionCtx))
	assert.Equal(t, "fitness", actionCtx.Niche)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/experiences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	assert.Len(t, views, 3)
}

func TestListMarketInsights(t *testing.T) {
	st := &memStore{
		marketInsights: []*store.MarketInsight{
			{ID: 1, Niche: "fitness", TrendData: `{"interest":"rising"}`, PerformanceData: `{}`, OptimalPricing: "40-50", UpdatedTs: 100},
			{ID: 2, Niche: "crafts", TrendData: `{}`, PerformanceData: `{}`, UpdatedTs: 200},
		},
	}
	_, e := newTestService(st)

	rec := doJSON(t, e, http.MethodGet, "/api/v1/market-insights?niche=fitness", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var views []marketInsightView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "fitness", views[0].Niche)
	assert.Equal(t, "40-50", views[0].OptimalPricing)
	assert.Equal(t, json.RawMessage(`{"interest":"rising"}`), views[0].TrendData)

	rec = doJSON(t, e, http.MethodGet, "/api/v1/market-insights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	assert.Len(t, views, 2)
}

func TestListExperiencesQueryValidation(t *testing.T) {
	st := &memStore{}
	_, e := newTestService(st)

	for _, path := range []string{
		"/api/v1/experiences?success=maybe",
		"/api/v1/experiences?limit=0",
		"/api/v1/experiences?limit=abc",
		"/api/v1/experiences?offset=-1",
	} {
		rec := doJSON(t, e, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}
