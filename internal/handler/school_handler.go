package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evyataryagoni/schoolfinder/internal/models"
	"github.com/evyataryagoni/schoolfinder/internal/service"
)

// maxBodyBytes caps add-school request bodies
const maxBodyBytes = 1 << 20

// Client-facing messages for server errors
const (
	msgCreateFailed = "Server error"
	msgListFailed   = "Something went wrong."
	msgSchoolAdded  = "School added successfully!"
)

// SchoolHandler handles HTTP requests for schools
// It deals with HTTP concerns only, validation and storage live in the service
type SchoolHandler struct {
	service *service.SchoolService
}

// NewSchoolHandler creates a new school handler with the given service
func NewSchoolHandler(service *service.SchoolService) *SchoolHandler {
	return &SchoolHandler{
		service: service,
	}
}

// AddSchool handles POST /v1/schools and POST /addSchool
// @Summary      Add a school
// @Description  Register a school with its name, address and coordinates
// @Tags         Schools
// @Accept       json
// @Produce      json
// @Param        school  body      models.CreateSchoolRequest  true  "School to add"
// @Success      201     {object}  models.CreateSchoolResponse
// @Failure      400     {object}  models.ErrorResponse  "Missing or malformed fields"
// @Failure      429     {object}  models.ErrorResponse  "Rate limit exceeded"
// @Failure      500     {object}  models.ErrorResponse  "Server error"
// @Router       /v1/schools [post]
func (h *SchoolHandler) AddSchool(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSchoolRequest

	// A string where a number is expected ("latitude": "abc") fails here
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, service.MsgInvalidSchool)
		return
	}

	school, err := h.service.CreateSchool(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, msgCreateFailed)
		return
	}

	h.respondJSON(w, http.StatusCreated, models.CreateSchoolResponse{
		Message: msgSchoolAdded,
		School:  school,
	})
}

// ListSchools handles GET /v1/schools and GET /listSchools
// @Summary      List schools by distance
// @Description  List every school ordered by great-circle distance from the given point
// @Tags         Schools
// @Produce      json
// @Param        latitude   query     number  true  "Reference latitude"   example(-33.8688)
// @Param        longitude  query     number  true  "Reference longitude"  example(151.2093)
// @Success      200        {array}   models.RankedSchool
// @Failure      400        {object}  models.ErrorResponse  "Missing or invalid coordinates"
// @Failure      429        {object}  models.ErrorResponse  "Rate limit exceeded"
// @Failure      500        {object}  models.ErrorResponse  "Internal server error"
// @Router       /v1/schools [get]
func (h *SchoolHandler) ListSchools(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	ranked, err := h.service.ListSchools(r.Context(), query.Get("latitude"), query.Get("longitude"))
	if err != nil {
		h.respondServiceError(w, err, msgListFailed)
		return
	}

	h.respondJSON(w, http.StatusOK, ranked)
}

// respondServiceError maps service errors to status codes
// Anything other than a validation error is reported without detail
func (h *SchoolHandler) respondServiceError(w http.ResponseWriter, err error, serverMessage string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		h.respondError(w, http.StatusBadRequest, verr.Message)
		return
	}
	h.respondError(w, http.StatusInternalServerError, serverMessage)
}

// respondJSON writes a JSON response with the given status code
func (h *SchoolHandler) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// Headers are already sent, nothing more can be reported to the client
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes an error response with consistent formatting
func (h *SchoolHandler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, models.ErrorResponse{Error: message})
}
