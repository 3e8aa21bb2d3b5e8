package v1

import (
	"github.com/evyataryagoni/schoolfinder/internal/handler"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures the /v1 API routes
func SetupRoutes(schoolHandler *handler.SchoolHandler) chi.Router {
	r := chi.NewRouter()

	// POST /v1/schools
	r.Post("/schools", schoolHandler.AddSchool)

	// GET /v1/schools?latitude=<lat>&longitude=<lon>
	r.Get("/schools", schoolHandler.ListSchools)

	return r
}
