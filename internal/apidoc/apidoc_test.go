package apidoc

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	doc, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Lockbox API", doc.Info.Title)
}

func TestLoad_DescribesEveryRoute(t *testing.T) {
	doc, err := Load(context.Background())
	require.NoError(t, err)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health"},
		{http.MethodPost, "/auth/signup"},
		{http.MethodPost, "/auth/login"},
		{http.MethodPost, "/auth/logout"},
		{http.MethodGet, "/auth/me"},
		{http.MethodPost, "/auth/2fa/setup"},
		{http.MethodPost, "/auth/2fa/verify"},
		{http.MethodPost, "/auth/2fa/disable"},
		{http.MethodGet, "/vault"},
		{http.MethodPost, "/vault"},
		{http.MethodPut, "/vault/{id}"},
		{http.MethodDelete, "/vault/{id}"},
		{http.MethodPost, "/vault/export"},
		{http.MethodPost, "/vault/import"},
	}

	for _, r := range routes {
		item := doc.Paths.Value(r.path)
		require.NotNil(t, item, r.path)
		assert.NotNil(t, item.GetOperation(r.method), "%s %s", r.method, r.path)
	}
}

func TestLoad_PublicRoutesHaveNoSecurity(t *testing.T) {
	doc, err := Load(context.Background())
	require.NoError(t, err)

	for _, path := range []string{"/auth/signup", "/auth/login"} {
		op := doc.Paths.Value(path).Post
		require.NotNil(t, op.Security, path)
		assert.Empty(t, *op.Security, path)
	}
}
