// Package client talks to the lockbox API. Vault fields are sealed with the
// caller's field key before a request is built and opened after a response is
// decoded, so plaintext never leaves the process.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dimitrije/lockbox-api/internal/fieldcrypt"
	"github.com/dimitrije/lockbox-api/pkg/dto"
	"github.com/google/uuid"
)

const sessionCookieName = "authToken"

var ErrTwoFactorRequired = errors.New("two-factor code required")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Fields  []dto.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: %s", http.StatusText(e.Status))
	}
	return e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		http:    &http.Client{Timeout: 30 * time.Second},
		token:   token,
	}
}

func (c *Client) Token() string {
	return c.token
}

// Item is a decrypted vault item. An Unreadable item's sealed fields could
// not be opened with the caller's key, so Password and Notes are empty.
type Item struct {
	ID         uuid.UUID
	Title      string
	Username   string
	Password   string
	URL        string
	Notes      string
	CreatedAt  string
	UpdatedAt  string
	Unreadable bool
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (*dto.UserResponse, error) {
	var resp dto.AuthResponse
	res, err := c.do(ctx, http.MethodPost, "/auth/signup", dto.SignupRequest{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	c.takeSession(res)
	return &resp.User, nil
}

// Login returns ErrTwoFactorRequired when the account has 2FA enabled and
// code is empty.
func (c *Client) Login(ctx context.Context, email, password, code string) (*dto.UserResponse, error) {
	var resp dto.AuthResponse
	res, err := c.do(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password, TOTPToken: code}, &resp)
	if err != nil {
		return nil, err
	}
	c.takeSession(res)
	if resp.Token != "" {
		c.token = resp.Token
	}
	return &resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.token = ""
	return err
}

func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var resp dto.MeResponse
	if _, err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) SetupTwoFactor(ctx context.Context) (*dto.TwoFactorSetupResponse, error) {
	var resp dto.TwoFactorSetupResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/2fa/setup", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) VerifyTwoFactor(ctx context.Context, code string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/2fa/verify", dto.TwoFactorVerifyRequest{Token: code}, nil)
	return err
}

func (c *Client) DisableTwoFactor(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/2fa/disable", nil, nil)
	return err
}

// ListItems opens every item it can. An item sealed under another key comes
// back marked Unreadable instead of failing the whole listing.
func (c *Client) ListItems(ctx context.Context, key fieldcrypt.Key) ([]Item, error) {
	var resp dto.VaultListResponse
	if _, err := c.do(ctx, http.MethodGet, "/vault", nil, &resp); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(resp.Items))
	for _, raw := range resp.Items {
		item, err := openItem(raw, key)
		if errors.Is(err, fieldcrypt.ErrDecryptFailed) {
			item = unreadableItem(raw)
		} else if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) AddItem(ctx context.Context, key fieldcrypt.Key, item fieldcrypt.Item) (*Item, error) {
	req, err := sealRequest(item, key)
	if err != nil {
		return nil, err
	}

	var resp dto.VaultItemResponse
	if _, err := c.do(ctx, http.MethodPost, "/vault", req, &resp); err != nil {
		return nil, err
	}
	out, err := openItem(resp, key)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateItem(ctx context.Context, key fieldcrypt.Key, id uuid.UUID, item fieldcrypt.Item) (*Item, error) {
	req, err := sealRequest(item, key)
	if err != nil {
		return nil, err
	}

	var resp dto.VaultItemResponse
	if _, err := c.do(ctx, http.MethodPut, "/vault/"+id.String(), req, &resp); err != nil {
		return nil, err
	}
	out, err := openItem(resp, key)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteItem(ctx context.Context, id uuid.UUID) error {
	_, err := c.do(ctx, http.MethodDelete, "/vault/"+id.String(), nil, nil)
	return err
}

func (c *Client) Export(ctx context.Context, passphrase string) (*dto.ExportResponse, error) {
	var resp dto.ExportResponse
	if _, err := c.do(ctx, http.MethodPost, "/vault/export", dto.ExportRequest{ExportPassword: passphrase}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Import(ctx context.Context, env dto.ExportEnvelope, passphrase string, replace bool) (*dto.ImportResponse, error) {
	var resp dto.ImportResponse
	req := dto.ImportRequest{ImportData: &env, ImportPassword: passphrase, ReplaceExisting: replace}
	if _, err := c.do(ctx, http.MethodPost, "/vault/import", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return res, decodeError(res.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return res, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return res, nil
}

func decodeError(status int, data []byte) error {
	var body struct {
		Error       string           `json:"error"`
		Message     string           `json:"message"`
		Fields      []dto.FieldError `json:"fields"`
		Requires2FA bool             `json:"requires2FA"`
	}
	_ = json.Unmarshal(data, &body)

	if status == http.StatusUnauthorized && body.Requires2FA {
		return ErrTwoFactorRequired
	}

	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	return &APIError{Status: status, Message: msg, Fields: body.Fields}
}

func (c *Client) takeSession(res *http.Response) {
	for _, cookie := range res.Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			c.token = cookie.Value
		}
	}
}

func sealRequest(item fieldcrypt.Item, key fieldcrypt.Key) (dto.VaultItemRequest, error) {
	sealed, err := fieldcrypt.SealItem(item, key)
	if err != nil {
		return dto.VaultItemRequest{}, err
	}
	return dto.VaultItemRequest{
		Title:    sealed.Title,
		Username: sealed.Username,
		Password: sealed.Password,
		URL:      sealed.URL,
		Notes:    sealed.Notes,
	}, nil
}

func unreadableItem(raw dto.VaultItemResponse) Item {
	return Item{
		ID:         raw.ID,
		Title:      raw.Title,
		Username:   raw.Username,
		URL:        raw.URL,
		CreatedAt:  raw.CreatedAt,
		UpdatedAt:  raw.UpdatedAt,
		Unreadable: true,
	}
}

func openItem(raw dto.VaultItemResponse, key fieldcrypt.Key) (Item, error) {
	opened, err := fieldcrypt.OpenItem(fieldcrypt.Item{
		Title:    raw.Title,
		Username: raw.Username,
		Password: raw.Password,
		URL:      raw.URL,
		Notes:    raw.Notes,
	}, key)
	if err != nil {
		return Item{}, err
	}
	return Item{
		ID:        raw.ID,
		Title:     opened.Title,
		Username:  opened.Username,
		Password:  opened.Password,
		URL:       opened.URL,
		Notes:     opened.Notes,
		CreatedAt: raw.CreatedAt,
		UpdatedAt: raw.UpdatedAt,
	}, nil
}
