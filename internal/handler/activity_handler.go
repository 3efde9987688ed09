package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"cultural-map/internal/middleware"
	"cultural-map/internal/model"
	"cultural-map/internal/service"
	"cultural-map/pkg/apierror"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ActivityHandler struct {
	service  *service.ActivityService
	validate *validator.Validate
}

func NewActivityHandler(service *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service, validate: validator.New()}
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	var payload model.ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if err := validateStruct(h.validate, payload); err != nil {
		writeError(w, err)
		return
	}

	activity, err := h.service.Create(r.Context(), payload, principal)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, activity, nil)
}

func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	activity, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, activity, nil)
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	activities, total, err := h.service.List(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, activities, paginationMeta(page, limit, total))
}

func (h *ActivityHandler) Search(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		writeError(w, apierror.New("BAD_REQUEST", "missing query parameter: category", "", http.StatusBadRequest))
		return
	}

	page, limit := parsePagination(r)

	activities, total, err := h.service.ListByCategory(r.Context(), category, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, activities, paginationMeta(page, limit, total))
}

func (h *ActivityHandler) Near(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := parseFloat(q.Get("lat"), "lat")
	if err != nil {
		writeError(w, err)
		return
	}
	lon, err := parseFloat(q.Get("lon"), "lon")
	if err != nil {
		writeError(w, err)
		return
	}

	radius := 10.0
	if raw := q.Get("radius"); raw != "" {
		radius, err = parseFloat(raw, "radius")
		if err != nil {
			writeError(w, err)
			return
		}
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 || radius <= 0 {
		writeError(w, apierror.New("BAD_REQUEST", "coordinates or radius out of range", "", http.StatusBadRequest))
		return
	}

	page, limit := parsePagination(r)

	activities, total, err := h.service.Near(r.Context(), lat, lon, radius, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, activities, paginationMeta(page, limit, total))
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if err := validateStruct(h.validate, payload); err != nil {
		writeError(w, err)
		return
	}

	activity, err := h.service.Update(r.Context(), id, payload, principal)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, activity, nil)
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, principal); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.New("BAD_REQUEST", "invalid activity id", "", http.StatusBadRequest)
	}
	return id, nil
}

func parseFloat(raw string, name string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apierror.New("BAD_REQUEST", "invalid query parameter: "+name, "", http.StatusBadRequest)
	}
	return v, nil
}

func parsePagination(r *http.Request) (page int, limit int) {
	q := r.URL.Query()

	page = 1
	if raw := q.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}

	limit = defaultPageLimit
	if raw := q.Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
			if limit > maxPageLimit {
				limit = maxPageLimit
			}
		}
	}
	return page, limit
}

func paginationMeta(page int, limit int, total int) *model.Meta {
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return &model.Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
