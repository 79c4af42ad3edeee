package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger_LogsStatus(t *testing.T) {
	var buf bytes.Buffer
	app := drift.New()
	app.Use(RequestLogger(zerolog.New(&buf)))
	app.Get("/ok", func(c *drift.Context) {
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	app.Get("/missing", func(c *drift.Context) {
		c.NotFound("vault item not found")
	})
	app.Get("/boom", func(c *drift.Context) {
		c.InternalServerError("internal server error")
	})

	tests := []struct {
		path   string
		status int
		level  string
	}{
		{"/ok", http.StatusOK, "info"},
		{"/missing", http.StatusNotFound, "info"},
		{"/boom", http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			buf.Reset()
			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.status, rec.Code)

			var line struct {
				Level  string `json:"level"`
				Method string `json:"method"`
				Path   string `json:"path"`
				Status int    `json:"status"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
			assert.Equal(t, tt.level, line.Level)
			assert.Equal(t, http.MethodGet, line.Method)
			assert.Equal(t, tt.path, line.Path)
			assert.Equal(t, tt.status, line.Status)
		})
	}
}

func TestStatusRecorder_DefaultsToOK(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	assert.Equal(t, http.StatusOK, rec.Status())

	_, err := rec.Write([]byte("body"))
	require.NoError(t, err)
	rec.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusOK, rec.Status())
}
