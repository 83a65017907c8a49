package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	appmw "server/internal/middleware"
)

func NewRouter(app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, appmw.Logger(app.Logger))

	r.Get("/api/health", app.Health)

	r.Route("/api/image-analysis", func(r chi.Router) {
		r.Post("/", app.AnalysesCreate)
		r.Get("/", app.AnalysesList)
		r.Get("/search/{name}", app.AnalysesSearch)
		r.Get("/{id}", app.AnalysesGet)
		r.Put("/{id}", app.AnalysesUpdate)
		r.Delete("/{id}", app.AnalysesDelete)
	})

	return r
}
