package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dimitrije/lockbox-api/internal/client"
	"github.com/dimitrije/lockbox-api/internal/fieldcrypt"
	"github.com/dimitrije/lockbox-api/pkg/dto"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeySalt = "c2FsdHNhbHRzYWx0c2FsdA=="

func init() {
	color.NoColor = true
}

// testKeyCheck returns the key check for "account-password" under testKeySalt.
func testKeyCheck(t *testing.T) string {
	t.Helper()
	key, err := fieldcrypt.DeriveKey("account-password", testKeySalt)
	require.NoError(t, err)
	check, err := fieldcrypt.NewKeyCheck(key)
	require.NoError(t, err)
	return check
}

func saveTestSession(t *testing.T, path, server string) {
	t.Helper()
	require.NoError(t, client.SaveSession(path, &client.Session{
		Server: server, Email: "a@example.com", Token: "tok", KeySalt: testKeySalt, KeyCheck: testKeyCheck(t),
	}))
}

func runCLI(t *testing.T, sessionPath, input string, args ...string) (int, string) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp(strings.NewReader(input), &out)
	app.forceLineInput = true
	app.sessionPath = sessionPath

	code := Execute(context.Background(), app, args)
	return code, out.String()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGenerate(t *testing.T) {
	code, out := runCLI(t, filepath.Join(t.TempDir(), "s.json"), "", "generate", "--length", "20", "--no-symbols")

	require.Equal(t, 0, code, out)
	pw := strings.TrimSpace(out)
	assert.Len(t, pw, 20)
	assert.NotContains(t, pw, "!")
}

func TestGenerate_InvalidLength(t *testing.T) {
	code, out := runCLI(t, filepath.Join(t.TempDir(), "s.json"), "", "generate", "--length", "2")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "length must be between 4 and 50")
}

func TestList_NotLoggedIn(t *testing.T) {
	code, out := runCLI(t, filepath.Join(t.TempDir(), "s.json"), "", "list")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "not logged in")
}

func TestSignup_SavesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dto.SignupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Alice", req.Name)
		assert.Equal(t, "secret123", req.Password)

		http.SetCookie(w, &http.Cookie{Name: "authToken", Value: "tok"})
		writeJSON(w, http.StatusCreated, dto.AuthResponse{User: dto.UserResponse{Email: req.Email, KeySalt: testKeySalt, KeyCheck: "check"}})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "s.json")
	code, out := runCLI(t, path, "Alice\nalice@example.com\nsecret123\nsecret123\n", "--server", srv.URL, "signup")

	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Account created")

	s, err := client.LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, testKeySalt, s.KeySalt)
	assert.Equal(t, "check", s.KeyCheck)
	assert.Equal(t, srv.URL, s.Server)
}

func TestSignup_PasswordMismatch(t *testing.T) {
	code, out := runCLI(t, filepath.Join(t.TempDir(), "s.json"), "Alice\nalice@example.com\nsecret123\nsecret124\n", "signup")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "passwords do not match")
}

func TestLogin_PromptsForTwoFactor(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req dto.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.TOTPToken == "" {
			writeJSON(w, http.StatusUnauthorized, dto.TwoFactorRequiredResponse{Error: "2FA token required", Requires2FA: true})
			return
		}
		assert.Equal(t, "123456", req.TOTPToken)
		writeJSON(w, http.StatusOK, dto.AuthResponse{User: dto.UserResponse{Email: req.Email, KeySalt: testKeySalt}, Token: "tok"})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "s.json")
	code, out := runCLI(t, path, "secret123\n123456\n", "--server", srv.URL, "login", "--email", "alice@example.com")

	require.Equal(t, 0, code, out)
	assert.Equal(t, 2, calls)
	assert.Contains(t, out, "2FA code")

	s, err := client.LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
}

func TestAddAndList(t *testing.T) {
	var stored []dto.VaultItemResponse
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodPost:
			var req dto.VaultItemRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.NotEqual(t, "hunter2", req.Password)
			item := dto.VaultItemResponse{
				ID: uuid.New(), Title: req.Title, Username: req.Username, Password: req.Password, Notes: req.Notes,
			}
			stored = append(stored, item)
			writeJSON(w, http.StatusCreated, item)
		case http.MethodGet:
			writeJSON(w, http.StatusOK, dto.VaultListResponse{Items: stored})
		}
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "s.json")
	saveTestSession(t, path, srv.URL)

	code, out := runCLI(t, path, "hunter2\naccount-password\n", "add", "--title", "Bank", "--username", "alice")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Added")

	code, out = runCLI(t, path, "account-password\n", "list")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Bank")
	assert.Contains(t, out, hiddenPassword)
	assert.NotContains(t, out, "hunter2")

	code, out = runCLI(t, path, "account-password\n", "list", "--show")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "hunter2")

	code, out = runCLI(t, path, "wrong-password\n", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "wrong account password")
}

func TestAdd_WrongPasswordSealsNothing(t *testing.T) {
	posted := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posted++
		writeJSON(w, http.StatusCreated, dto.VaultItemResponse{ID: uuid.New()})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "s.json")
	saveTestSession(t, path, srv.URL)

	code, out := runCLI(t, path, "hunter2\naccount-pasword\n", "add", "--title", "Bank", "--username", "alice")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "wrong account password")
	assert.Zero(t, posted)
}

func TestAdd_SessionWithoutKeyCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, client.SaveSession(path, &client.Session{Server: "http://127.0.0.1:1", Token: "tok", KeySalt: testKeySalt}))

	code, out := runCLI(t, path, "hunter2\naccount-password\n", "add", "--title", "Bank", "--username", "alice")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "lockbox login")
}

func TestListAndUpdate_ItemSealedUnderAnotherKey(t *testing.T) {
	key, err := fieldcrypt.DeriveKey("account-password", testKeySalt)
	require.NoError(t, err)
	otherKey, err := fieldcrypt.DeriveKey("old-password", testKeySalt)
	require.NoError(t, err)

	good, err := fieldcrypt.SealItem(fieldcrypt.Item{Title: "Bank", Username: "alice", Password: "hunter2"}, key)
	require.NoError(t, err)
	stray, err := fieldcrypt.SealItem(fieldcrypt.Item{Title: "Mail", Username: "alice", Password: "letmein"}, otherKey)
	require.NoError(t, err)

	strayID := uuid.New()
	var updated *dto.VaultItemRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, dto.VaultListResponse{Items: []dto.VaultItemResponse{
				{ID: strayID, Title: stray.Title, Username: stray.Username, Password: stray.Password},
				{ID: uuid.New(), Title: good.Title, Username: good.Username, Password: good.Password},
			}})
		case http.MethodPut:
			var req dto.VaultItemRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			updated = &req
			writeJSON(w, http.StatusOK, dto.VaultItemResponse{ID: strayID, Title: req.Title, Username: req.Username, Password: req.Password})
		}
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "s.json")
	saveTestSession(t, path, srv.URL)

	code, out := runCLI(t, path, "account-password\n", "list", "--show")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "hunter2")
	assert.Contains(t, out, unreadablePassword)
	assert.Contains(t, out, "1 item(s) were sealed with a different key")

	code, out = runCLI(t, path, "account-password\n", "update", strayID.String(), "--title", "Webmail")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "--password or --generate")
	assert.Nil(t, updated)

	code, out = runCLI(t, path, "account-password\n", "update", strayID.String(), "--password", "fresh-secret")
	require.Equal(t, 0, code, out)
	require.NotNil(t, updated)
	assert.Equal(t, "Mail", updated.Title)

	password, err := fieldcrypt.DecryptField(updated.Password, key)
	require.NoError(t, err)
	assert.Equal(t, "fresh-secret", password)
}

func TestLogout_ClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "logged out successfully"})
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, client.SaveSession(path, &client.Session{Server: srv.URL, Token: "tok", KeySalt: testKeySalt}))

	code, out := runCLI(t, path, "", "logout")
	require.Equal(t, 0, code, out)

	_, err := client.LoadSession(path)
	assert.ErrorIs(t, err, client.ErrNoSession)
}

func TestExportImport(t *testing.T) {
	env := dto.ExportEnvelope{Type: "lockbox-vault-export", Version: "1.0", Data: "ZGF0YQ==", Checksum: "abc"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/vault/export":
			writeJSON(w, http.StatusOK, dto.ExportResponse{ExportData: env, ItemCount: 2})
		case "/api/v1/vault/import":
			var req dto.ImportRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, env, *req.ImportData)
			assert.True(t, req.ReplaceExisting)
			writeJSON(w, http.StatusOK, dto.ImportResponse{
				Imported: 1, Total: 2,
				Results: []dto.ImportItemResult{{Index: 0, Title: "a", Imported: true}, {Index: 1, Title: "b", Reason: "title is required"}},
			})
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "s.json")
	exportPath := filepath.Join(dir, "export.json")
	require.NoError(t, client.SaveSession(path, &client.Session{Server: srv.URL, Token: "tok", KeySalt: testKeySalt}))

	code, out := runCLI(t, path, "passphrase\n", "export", "-o", exportPath)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Exported 2 items")

	code, out = runCLI(t, path, "passphrase\n", "import", exportPath, "--replace")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Imported 1 of 2 items")
	assert.Contains(t, out, "title is required")
}

