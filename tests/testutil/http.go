package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/lockbox-api/internal/middleware"
	"github.com/dimitrije/lockbox-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Signing settings shared by TestJWTService and any server config built for
// tests, so tokens from GenerateTestToken are accepted end to end.
const (
	TestJWTSecret  = "test-secret-key-for-testing-only"
	TestSessionTTL = time.Hour
)

// TestJWTService creates a JWTService with test configuration
func TestJWTService() *services.JWTService {
	return services.NewJWTService(TestJWTSecret, TestSessionTTL)
}

// GenerateTestToken issues a valid session token for testing
func GenerateTestToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := TestJWTService().Issue(userID)
	require.NoError(t, err, "issue test token")
	return token.Value
}

// SessionCookie returns a Cookie header value carrying the session token
func SessionCookie(token string) string {
	return middleware.SessionCookieName + "=" + token
}

// SessionHeaders lifts the authToken cookie set on rec into request headers
// for follow-up calls. It fails the test if no live session cookie was set.
func SessionHeaders(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	cookie := ResponseCookie(rec, middleware.SessionCookieName)
	require.NotNil(t, cookie, "response did not set %s", middleware.SessionCookieName)
	require.NotEmpty(t, cookie.Value, "session cookie was cleared")
	return map[string]string{"Cookie": SessionCookie(cookie.Value)}
}

// AuthHeader returns an Authorization header value with a Bearer token
func AuthHeader(token string) string {
	return "Bearer " + token
}

// HTTPTestClient provides helper methods for HTTP testing
type HTTPTestClient struct {
	t       *testing.T
	handler http.Handler
}

// NewHTTPTestClient creates a new HTTP test client
func NewHTTPTestClient(t *testing.T, handler http.Handler) *HTTPTestClient {
	return &HTTPTestClient{t: t, handler: handler}
}

// Request makes an HTTP request and returns the response
func (c *HTTPTestClient) Request(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	c.t.Helper()

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(c.t, err, "marshal request body")
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *HTTPTestClient) GET(path string, headers map[string]string) *httptest.ResponseRecorder {
	return c.Request(http.MethodGet, path, nil, headers)
}

func (c *HTTPTestClient) POST(path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	return c.Request(http.MethodPost, path, body, headers)
}

func (c *HTTPTestClient) PUT(path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	return c.Request(http.MethodPut, path, body, headers)
}

func (c *HTTPTestClient) DELETE(path string, headers map[string]string) *httptest.ResponseRecorder {
	return c.Request(http.MethodDelete, path, nil, headers)
}

// ParseJSON parses the response body as JSON
func ParseJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v), "decode response: %s", rec.Body.String())
}

// AssertStatus asserts the response status code
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rec.Code, "body: %s", rec.Body.String())
}

// ResponseCookie returns the named cookie set on the response, or nil.
func ResponseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
