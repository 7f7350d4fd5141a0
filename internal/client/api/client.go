// Package api is the HTTP client for the vault server.
//
// The session token travels in the "token" cookie. Server responses are
// translated into the common error taxonomy so callers can match them with
// errors.Is.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/go-resty/resty/v2"
)

type Client struct {
	http *resty.Client
}

// New returns a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{http: c}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

type recordBody struct {
	ID   string `json:"id,omitempty"`
	Data string `json:"data"`
	IV   string `json:"iv"`
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if token != "" {
		r.SetCookie(&http.Cookie{Name: common.TokenCookieName, Value: token})
	}
	return r
}

// Signup creates an account and returns the new user id.
func (c *Client) Signup(ctx context.Context, email, password string) (string, error) {
	var out struct {
		UserID string `json:"userId"`
	}
	resp, err := c.request(ctx, "").
		SetBody(credentials{Email: email, Password: password}).
		SetResult(&out).
		Post("/api/auth/signup")
	if err := check(resp, err, http.StatusCreated); err != nil {
		return "", err
	}
	return out.UserID, nil
}

// Login exchanges credentials for a session token. Any rejection of the
// credentials is common.ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	resp, err := c.request(ctx, "").
		SetBody(credentials{Email: email, Password: password}).
		SetResult(&out).
		Post("/api/auth/login")
	if err := check(resp, err, http.StatusOK); err != nil {
		if errors.Is(err, common.ErrUnauthenticated) {
			return LoginResult{}, common.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if out.Token == "" {
		for _, ck := range resp.Cookies() {
			if ck.Name == common.TokenCookieName {
				out.Token = ck.Value
			}
		}
	}
	if out.Token == "" {
		return LoginResult{}, fmt.Errorf("%w: login response carried no token", common.ErrStorageFailure)
	}
	return out, nil
}

// Me returns the identity behind token.
func (c *Client) Me(ctx context.Context, token string) (models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	resp, err := c.request(ctx, token).SetResult(&out).Get("/api/auth/me")
	if err := check(resp, err, http.StatusOK); err != nil {
		return models.User{}, err
	}
	if out.User == nil {
		return models.User{}, common.ErrUnauthenticated
	}
	return *out.User, nil
}

// Logout asks the server to drop the cookie. The token itself stays valid
// until it expires.
func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.request(ctx, token).Post("/api/auth/logout")
	return check(resp, err, http.StatusOK)
}

// ListRecords returns the caller's records, newest first.
func (c *Client) ListRecords(ctx context.Context, token string) ([]models.RemoteRecord, error) {
	var out struct {
		Items []models.RemoteRecord `json:"items"`
	}
	resp, err := c.request(ctx, token).SetResult(&out).Get("/api/vault/list")
	if err := check(resp, err, http.StatusOK); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []models.RemoteRecord{}
	}
	return out.Items, nil
}

func (c *Client) CreateRecord(ctx context.Context, token string, env models.WireEnvelope) (models.RemoteRecord, error) {
	var out struct {
		Entry models.RemoteRecord `json:"entry"`
	}
	resp, err := c.request(ctx, token).
		SetBody(recordBody{Data: env.Data, IV: env.IV}).
		SetResult(&out).
		Post("/api/vault/add")
	if err := check(resp, err, http.StatusCreated); err != nil {
		return models.RemoteRecord{}, err
	}
	return out.Entry, nil
}

func (c *Client) UpdateRecord(ctx context.Context, token, id string, env models.WireEnvelope) (models.RemoteRecord, error) {
	var out struct {
		Updated models.RemoteRecord `json:"updated"`
	}
	resp, err := c.request(ctx, token).
		SetBody(recordBody{ID: id, Data: env.Data, IV: env.IV}).
		SetResult(&out).
		Put("/api/vault/update")
	if err := check(resp, err, http.StatusOK); err != nil {
		return models.RemoteRecord{}, err
	}
	return out.Updated, nil
}

func (c *Client) DeleteRecord(ctx context.Context, token, id string) error {
	resp, err := c.request(ctx, token).
		SetQueryParam("id", id).
		Delete("/api/vault/delete")
	return check(resp, err, http.StatusOK)
}

// check maps a transport error or unexpected status to the error taxonomy.
func check(resp *resty.Response, err error, want int) error {
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	if resp.StatusCode() == want {
		return nil
	}

	msg := serverMessage(resp)
	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrInvalidInput, msg)
	case http.StatusUnauthorized:
		return common.ErrUnauthenticated
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		return common.ErrEmailTaken
	default:
		return fmt.Errorf("%w: server status %d: %s", common.ErrStorageFailure, resp.StatusCode(), msg)
	}
}

func serverMessage(resp *resty.Response) string {
	var m messageResponse
	if err := json.Unmarshal(resp.Body(), &m); err == nil && m.Message != "" {
		return m.Message
	}
	return resp.Status()
}
