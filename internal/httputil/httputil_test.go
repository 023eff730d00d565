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

func TestRespondErrorWithExtras(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusConflict, "pasta já existe", map[string]interface{}{"resourceId": "f1"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Conflict", body["title"])
	assert.Equal(t, "pasta já existe", body["detail"])
	assert.Equal(t, "f1", body["resourceId"])
	assert.Contains(t, body["type"], "rfc7231")
}

func TestRespondFile(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondFile(rec, "application/pdf", "relatório final.pdf", []byte("%PDF-1.4"))

	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "8", rec.Header().Get("Content-Length"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment;"))
	assert.Equal(t, "%PDF-1.4", rec.Body.String())
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?limit=5&bad=abc&empty=&name=Compras", nil)

	tests := []struct {
		key  string
		want int
	}{
		{"limit", 5},
		{"bad", 10},
		{"missing", 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QueryInt(r, tt.key, 10), tt.key)
	}

	assert.Nil(t, QueryString(r, "empty"))
	require.NotNil(t, QueryString(r, "name"))
	assert.Equal(t, "Compras", *QueryString(r, "name"))
}

func TestUserIDContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetUserID(r))

	r = WithUserID(r, "u1")
	assert.Equal(t, "u1", GetUserID(r))
	id, ok := UserIDFromContext(r.Context())
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
}

func TestParseJSON(t *testing.T) {
	var dest struct {
		Name string `json:"name"`
	}
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Eventos","extra":1}`))
	require.NoError(t, ParseJSON(rec, r, &dest))
	assert.Equal(t, "Eventos", dest.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, ParseJSON(rec, r, &dest))
}
