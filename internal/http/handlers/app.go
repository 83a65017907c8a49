package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// App bundles the handler dependencies. Handlers reach storage only through
// the repository interface so tests can substitute an in-memory fake.
type App struct {
	Repo   domain.AnalysisRepository
	Logger zerolog.Logger
}

func NewApp(repo domain.AnalysisRepository, logger zerolog.Logger) *App {
	return &App{Repo: repo, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, msg string) {
	a.json(w, code, map[string]string{"error": kind, "message": msg})
}
