package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cultural-map/internal/model"
	"cultural-map/pkg/apierror"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, defaultPageLimit},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"limit capped", "?limit=5000", 1, maxPageLimit},
		{"zero page ignored", "?page=0", 1, defaultPageLimit},
		{"negative ignored", "?page=-2&limit=-10", 1, defaultPageLimit},
		{"garbage ignored", "?page=abc&limit=xyz", 1, defaultPageLimit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/activities"+tc.query, nil)
			page, limit := parsePagination(req)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantLimit, limit)
		})
	}
}

func TestPaginationMeta(t *testing.T) {
	meta := paginationMeta(2, 20, 41)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, 41, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	assert.Equal(t, 0, paginationMeta(1, 20, 0).TotalPages)
	assert.Equal(t, 1, paginationMeta(1, 20, 20).TotalPages)
}

func TestWriteError_APIError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, apierror.New("FORBIDDEN", "you are not allowed to modify this activity", "", http.StatusForbidden))

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var resp model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
}

func TestWriteError_UnknownErrorIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: connection refused to 10.0.0.5"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	// The internal cause never reaches the client.
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestValidate_PasswordLengthBoundary(t *testing.T) {
	v := validator.New()

	ok := model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: strings.Repeat("a", 72),
	}
	assert.NoError(t, validateStruct(v, ok))

	// One byte past the bcrypt limit must fail validation, not hashing.
	tooLong := ok
	tooLong.Password = strings.Repeat("a", 73)
	err := validateStruct(v, tooLong)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)

	change := model.ChangePasswordRequest{
		CurrentPassword: "old-secret",
		NewPassword:     strings.Repeat("b", 73),
	}
	require.ErrorAs(t, validateStruct(v, change), &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
}

func TestNearRejectsBadCoordinates(t *testing.T) {
	h := NewActivityHandler(nil)

	cases := map[string]string{
		"missing lat":    "/api/v1/activities/near?lon=-3.7",
		"missing lon":    "/api/v1/activities/near?lat=40.4",
		"lat out":        "/api/v1/activities/near?lat=91&lon=-3.7",
		"lon out":        "/api/v1/activities/near?lat=40.4&lon=181",
		"zero radius":    "/api/v1/activities/near?lat=40.4&lon=-3.7&radius=0",
		"negative":       "/api/v1/activities/near?lat=40.4&lon=-3.7&radius=-5",
		"garbage radius": "/api/v1/activities/near?lat=40.4&lon=-3.7&radius=far",
	}

	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			rec := httptest.NewRecorder()
			h.Near(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
