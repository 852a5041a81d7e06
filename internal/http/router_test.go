package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/gamenight-backend/internal/compat"
	"github.com/yungbote/gamenight-backend/internal/domain"
	httpH "github.com/yungbote/gamenight-backend/internal/http/handlers"
	"github.com/yungbote/gamenight-backend/internal/platform/apierr"
	"github.com/yungbote/gamenight-backend/internal/platform/metrics"
	"github.com/yungbote/gamenight-backend/internal/services"
)

type stubCompatibility struct {
	score  *compat.CompatibilityScore
	ranked []compat.CompatibilityScore
	err    error
}

func (s *stubCompatibility) ScoreGame(ctx context.Context, playerID, gameID uuid.UUID) (*compat.CompatibilityScore, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.score, nil
}

func (s *stubCompatibility) RankGames(ctx context.Context, playerID uuid.UUID) ([]compat.CompatibilityScore, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ranked, nil
}

type stubOverview struct {
	overview *services.StatsOverview
	runs     []*domain.ImportRun
}

func (s *stubOverview) Overview(ctx context.Context) (*services.StatsOverview, error) {
	return s.overview, nil
}

func (s *stubOverview) RecentImports(ctx context.Context, limit int) ([]*domain.ImportRun, error) {
	return s.runs, nil
}

func testRouter(compatSvc services.CompatibilityService, overviewSvc services.OverviewService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterConfig{
		Metrics:              metrics.New(),
		MetricsEnabled:       true,
		CompatibilityHandler: httpH.NewCompatibilityHandler(compatSvc),
		StatsHandler:         httpH.NewStatsHandler(overviewSvc),
		HealthHandler:        httpH.NewHealthHandler(),
	})
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthAndMetrics(t *testing.T) {
	r := testRouter(&stubCompatibility{}, &stubOverview{})

	rec := doRequest(r, http.MethodGet, "/healthcheck")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: status=%d body=%q", rec.Code, rec.Body.String())
	}

	rec = doRequest(r, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: status=%d", rec.Code)
	}
}

func TestRouterScoreGame(t *testing.T) {
	playerID := uuid.New()
	gameID := uuid.New()
	stub := &stubCompatibility{
		score: &compat.CompatibilityScore{GameID: gameID, GameName: "Azul", Overall: 84},
	}
	r := testRouter(stub, &stubOverview{})

	rec := doRequest(r, http.MethodGet, "/api/v1/compatibility/players/"+playerID.String()+"/games/"+gameID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var got compat.CompatibilityScore
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Overall != 84 || got.GameName != "Azul" {
		t.Fatalf("score: %+v", got)
	}

	rec = doRequest(r, http.MethodGet, "/api/v1/compatibility/players/not-a-uuid/games/"+gameID.String())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad player id: status=%d", rec.Code)
	}
}

func TestRouterScoreGameNotFound(t *testing.T) {
	stub := &stubCompatibility{err: apierr.NotFound("player_not_found", nil)}
	r := testRouter(stub, &stubOverview{})

	rec := doRequest(r, http.MethodGet, "/api/v1/compatibility/players/"+uuid.NewString()+"/games/"+uuid.NewString())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Error.Code != "player_not_found" {
		t.Fatalf("code: %q", envelope.Error.Code)
	}
}

func TestRouterRankGames(t *testing.T) {
	stub := &stubCompatibility{
		ranked: []compat.CompatibilityScore{
			{GameName: "Azul", Overall: 90},
			{GameName: "Carcassonne", Overall: 75},
		},
	}
	r := testRouter(stub, &stubOverview{})

	rec := doRequest(r, http.MethodGet, "/api/v1/compatibility/players/"+uuid.NewString())
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var got struct {
		Scores []compat.CompatibilityScore `json:"scores"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Scores) != 2 || got.Scores[0].GameName != "Azul" {
		t.Fatalf("scores: %+v", got.Scores)
	}
}

func TestRouterStatsEndpoints(t *testing.T) {
	overview := &stubOverview{
		overview: &services.StatsOverview{Games: 12, Players: 4},
		runs:     []*domain.ImportRun{{Kind: domain.RunKindImport, Success: true}},
	}
	r := testRouter(&stubCompatibility{}, overview)

	rec := doRequest(r, http.MethodGet, "/api/v1/stats/overview")
	if rec.Code != http.StatusOK {
		t.Fatalf("overview: status=%d", rec.Code)
	}
	var got services.StatsOverview
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Games != 12 || got.Players != 4 {
		t.Fatalf("overview: %+v", got)
	}

	rec = doRequest(r, http.MethodGet, "/api/v1/imports?limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("imports: status=%d", rec.Code)
	}
	var runs struct {
		Runs []*domain.ImportRun `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs.Runs) != 1 || !runs.Runs[0].Success {
		t.Fatalf("runs: %+v", runs.Runs)
	}
}
