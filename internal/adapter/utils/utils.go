// Package utils carries the router-level glue shared by the HTTP surface:
// the process-wide chi mux with swagger and metrics pre-mounted, plus small
// id and path-parameter helpers used by the handlers and middleware.
package utils

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterClient wraps the shared mux so route registration goes through one
// handle instead of a bare package variable.
type RouterClient struct {
	Router *chi.Mux
}

var (
	routerOnce sync.Once
	router     *chi.Mux
)

// GetRouter lazily builds the shared router. The swagger UI and the
// prometheus endpoint are mounted here so every binary that serves HTTP gets
// them without extra wiring; business routes are registered by the server.
func GetRouter() RouterClient {
	routerOnce.Do(func() {
		router = chi.NewRouter()
		mountSwagger(router)
		router.Handle("/metrics", promhttp.Handler())
	})
	return RouterClient{Router: router}
}

func mountSwagger(r *chi.Mux) {
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)
}

// GetNewUUID mints the ids used for jobs and request traces.
func GetNewUUID() string {
	return uuid.New().String()
}

// GetChiURLParam reads a chi path parameter off the request.
func GetChiURLParam(request *http.Request, key string) string {
	return chi.URLParam(request, key)
}
