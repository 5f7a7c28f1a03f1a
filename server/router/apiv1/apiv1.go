// Package apiv1 exposes the memory engine's boundary operations over HTTP.
package apiv1

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/venturemind/internal/profile"
	verrors "github.com/hrygo/venturemind/server/internal/errors"
	"github.com/hrygo/venturemind/server/internal/observability"
	"github.com/hrygo/venturemind/server/memory"
	"github.com/hrygo/venturemind/store"
)

// defaultListLimit bounds journal listings when the caller does not ask for
// a specific page size.
const defaultListLimit = 50

// Store is the subset of store operations the listing handlers need.
type Store interface {
	ListExperiences(ctx context.Context, find *store.FindExperience) ([]*store.Experience, error)
	ListMarketInsights(ctx context.Context, find *store.FindMarketInsight) ([]*store.MarketInsight, error)
}

type APIV1Service struct {
	Profile *profile.Profile
	Store   Store
	Engine  *memory.Engine
}

func NewAPIV1Service(profile *profile.Profile, st Store, engine *memory.Engine) *APIV1Service {
	return &APIV1Service{
		Profile: profile,
		Store:   st,
		Engine:  engine,
	}
}

// RegisterRoutes registers the API routes with the given Echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/experiences", s.recordExperience)
	g.GET("/experiences", s.listExperiences)
	g.POST("/recommendations", s.recommend)
	g.GET("/patterns", s.listPatterns)
	g.GET("/insights", s.insights)
	g.GET("/market-insights", s.listMarketInsights)
}

type recordExperienceRequest struct {
	ActionKind string               `json:"action_kind"`
	Context    memory.ActionContext `json:"context"`
	Result     memory.ActionResult  `json:"result"`
}

type recordExperienceResponse struct {
	Recorded bool `json:"recorded"`
}

func (s *APIV1Service) recordExperience(c echo.Context) error {
	var req recordExperienceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.ActionKind == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "action_kind is required")
	}

	reqCtx := observability.NewRequestContext(slog.Default(), req.ActionKind)
	recorded := s.Engine.Record(c.Request().Context(), req.ActionKind, req.Context, req.Result)
	reqCtx.Info("experience recorded",
		slog.Bool("recorded", recorded),
		slog.Bool("success", req.Result.Success),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
	)

	// A storage failure degrades to recorded=false rather than an error
	// status; the caller's automation loop must keep going either way.
	return c.JSON(http.StatusOK, recordExperienceResponse{Recorded: recorded})
}

type recommendRequest struct {
	ActionKind string               `json:"action_kind"`
	Context    memory.ActionContext `json:"context"`
}

func (s *APIV1Service) recommend(c echo.Context) error {
	var req recommendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if req.ActionKind == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "action_kind is required")
	}

	reqCtx := observability.NewRequestContext(slog.Default(), req.ActionKind)
	recommendation := s.Engine.Recommend(c.Request().Context(), req.ActionKind, req.Context)
	reqCtx.Info("recommendation produced",
		slog.String("kind", string(recommendation.Kind)),
		slog.Float64("confidence", recommendation.Confidence),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
	)

	return c.JSON(http.StatusOK, recommendation)
}

type experienceView struct {
	UID        string          `json:"uid"`
	ActionKind string          `json:"action_kind"`
	Context    json.RawMessage `json:"context"`
	Result     json.RawMessage `json:"result"`
	Success    bool            `json:"success"`
	Revenue    float64         `json:"revenue"`
	Lesson     string          `json:"lesson,omitempty"`
	CreatedTs  int64           `json:"created_ts"`
}

func (s *APIV1Service) listExperiences(c echo.Context) error {
	find := &store.FindExperience{Limit: defaultListLimit}

	if v := c.QueryParam("action_kind"); v != "" {
		find.ActionKind = &v
	}
	if v := c.QueryParam("success"); v != "" {
		success, err := strconv.ParseBool(v)
		if err != nil {
			return toHTTPError(verrors.InvalidArgument("success must be a boolean"))
		}
		find.Success = &success
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return toHTTPError(verrors.InvalidArgument("limit must be a positive integer"))
		}
		find.Limit = limit
	}
	if v := c.QueryParam("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return toHTTPError(verrors.InvalidArgument("offset must be a non-negative integer"))
		}
		find.Offset = offset
	}

	experiences, err := s.Store.ListExperiences(c.Request().Context(), find)
	if err != nil {
		return toHTTPError(verrors.StorageUnavailable("failed to list experiences", err))
	}

	views := make([]experienceView, 0, len(experiences))
	for _, e := range experiences {
		views = append(views, experienceView{
			UID:        e.UID,
			ActionKind: e.ActionKind,
			Context:    json.RawMessage(e.Context),
			Result:     json.RawMessage(e.Result),
			Success:    e.Success,
			Revenue:    e.Revenue,
			Lesson:     e.Lesson,
			CreatedTs:  e.CreatedTs,
		})
	}
	return c.JSON(http.StatusOK, views)
}

type patternView struct {
	UID         string          `json:"uid"`
	ActionKind  string          `json:"action_kind"`
	Niche       string          `json:"niche"`
	Data        json.RawMessage `json:"data"`
	SuccessRate float64         `json:"success_rate"`
	AvgRevenue  float64         `json:"avg_revenue"`
	UsageCount  int64           `json:"usage_count"`
	LastUsedTs  int64           `json:"last_used_ts"`
}

func (s *APIV1Service) listPatterns(c echo.Context) error {
	patterns, err := s.Engine.Patterns(c.Request().Context(), c.QueryParam("action_kind"))
	if err != nil {
		return toHTTPError(verrors.StorageUnavailable("failed to list patterns", err))
	}

	views := make([]patternView, 0, len(patterns))
	for _, p := range patterns {
		views = append(views, patternView{
			UID:         p.UID,
			ActionKind:  p.ActionKind,
			Niche:       p.Niche,
			Data:        json.RawMessage(p.Data),
			SuccessRate: p.SuccessRate,
			AvgRevenue:  p.AvgRevenue,
			UsageCount:  p.UsageCount,
			LastUsedTs:  p.LastUsedTs,
		})
	}
	return c.JSON(http.StatusOK, views)
}

func (s *APIV1Service) insights(c echo.Context) error {
	snapshot, err := s.Engine.Insights(c.Request().Context())
	if err != nil {
		// Degrade to an empty snapshot; the dashboard renders zeros
		// instead of breaking.
		slog.Error("failed to build insights snapshot", "error", err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

type marketInsightView struct {
	Niche           string          `json:"niche"`
	TrendData       json.RawMessage `json:"trend_data"`
	PerformanceData json.RawMessage `json:"performance_data"`
	OptimalPricing  string          `json:"optimal_pricing,omitempty"`
	BestTimes       string          `json:"best_times,omitempty"`
	UpdatedTs       int64           `json:"updated_ts"`
}

func (s *APIV1Service) listMarketInsights(c echo.Context) error {
	find := &store.FindMarketInsight{}
	if v := c.QueryParam("niche"); v != "" {
		find.Niche = &v
	}

	insights, err := s.Store.ListMarketInsights(c.Request().Context(), find)
	if err != nil {
		return toHTTPError(verrors.StorageUnavailable("failed to list market insights", err))
	}

	views := make([]marketInsightView, 0, len(insights))
	for _, m := range insights {
		views = append(views, marketInsightView{
			Niche:           m.Niche,
			TrendData:       json.RawMessage(m.TrendData),
			PerformanceData: json.RawMessage(m.PerformanceData),
			OptimalPricing:  m.OptimalPricing,
			BestTimes:       m.BestTimes,
			UpdatedTs:       m.UpdatedTs,
		})
	}
	return c.JSON(http.StatusOK, views)
}

// toHTTPError maps a classified engine error to an HTTP status.
func toHTTPError(err error) *echo.HTTPError {
	switch verrors.GetCodeFromError(err, verrors.ErrCodeStorageUnavailable) {
	case verrors.ErrCodeInvalidArgument:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "storage unavailable")
	}
}
