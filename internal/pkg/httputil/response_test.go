package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWritesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"status": "healthy"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestNoContentHasEmptyBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestValidationErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string][]string{
		"email": {"The email field is required."},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var envelope ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "The given data was invalid.", envelope.Message)
	assert.Equal(t, []string{"The email field is required."}, envelope.Errors["email"])
}

func TestUnauthorizedMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Unauthorized(rec, "Unauthenticated.")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthenticated.")
}

func TestDecodeRejectsBadJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{broken"))

	var out map[string]string
	ok := Decode(rec, req, &out)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeAcceptsValidJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))

	var out map[string]string
	ok := Decode(rec, req, &out)

	assert.True(t, ok)
	assert.Equal(t, "x", out["name"])
}
