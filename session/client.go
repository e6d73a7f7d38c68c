// Package session is the client half of the authentication protocol:
// it logs in, attaches the bearer credential to every outgoing call
// except login itself, and on a 401 performs exactly one
// refresh-and-retry before giving up. Concurrent 401s share a single
// in-flight refresh. A 403 signals a privilege failure, not expiry,
// and is never refreshed.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/eventhub/eventhub/events"
	"github.com/eventhub/eventhub/users"
)

const (
	loginPath   = "/user/login"
	refreshPath = "/user/refresh"
)

var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrSessionExpired = errors.New("session expired, login required")
)

type Client struct {
	baseURL string
	http    *http.Client
	store   *Store

	// refreshGroup guarantees a single in-flight refresh: every caller
	// that observes a 401 while one is running waits on the same call,
	// and the slot is released on every exit path.
	refreshGroup singleflight.Group
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.http = httpClient
	}
}

func NewClient(baseURL string, store *Store, options ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
		store:   store,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User         *users.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

// Login authenticates and stores the returned session state.
func (c *Client) Login(ctx context.Context, username, password string) (*users.User, error) {
	resp, err := c.send(ctx, http.MethodPost, loginPath, loginRequest{Username: username, Password: password}, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, errors.Wrap(err, "[Client Login] decode response")
	}
	if lr.User == nil || lr.Token == "" || lr.RefreshToken == "" {
		return nil, errors.New("[Client Login] incomplete login response")
	}

	c.store.SetSession(lr.User, lr.Token, lr.RefreshToken)
	return lr.User, nil
}

// Logout discards the stored credentials. Tokens are self-contained, so
// the server holds nothing to tear down.
func (c *Client) Logout() {
	c.store.Clear()
}

// Refresh exchanges the stored refresh token for a new access token.
// Concurrent callers share one in-flight exchange. A 401 from the
// refresh endpoint means the session is no longer renewable: all stored
// state is cleared and ErrSessionExpired is returned.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	newToken, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		refreshToken := c.store.RefreshToken()
		user := c.store.User()
		if refreshToken == "" || user == nil {
			return nil, ErrNotLoggedIn
		}

		resp, err := c.send(ctx, http.MethodPost, refreshPath, refreshRequest{RefreshToken: refreshToken, UserID: user.ID}, "")
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			var rr refreshResponse
			if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
				return nil, errors.Wrap(err, "[Client Refresh] decode response")
			}
			if rr.Token == "" {
				return nil, errors.New("[Client Refresh] empty token in response")
			}
			c.store.SetAccessToken(rr.Token)
			return rr.Token, nil
		case http.StatusUnauthorized:
			c.store.Clear()
			return nil, ErrSessionExpired
		default:
			return nil, statusError(resp)
		}
	})
	if err != nil {
		return "", err
	}
	return newToken.(string), nil
}

// do sends an authenticated request. On the first 401 it refreshes once
// and retries the original request once with the new token; the retry's
// outcome is final. Login and refresh calls never trigger this path.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, body, c.store.AccessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	newToken, err := c.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, method, path, body, newToken)
}

func (c *Client) send(ctx context.Context, method, path string, body any, bearer string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "[Client send] marshal body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "[Client send] new request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client send] %s %s", method, path)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return errors.Wrapf(json.NewDecoder(resp.Body).Decode(dst), "[Client getJSON] decode %s", path)
}

// ListEvents returns the events visible to the logged-in user.
func (c *Client) ListEvents(ctx context.Context) ([]*events.Event, error) {
	var list []*events.Event
	if err := c.getJSON(ctx, "/event", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetUser fetches a user record; non-admins can only fetch their own.
func (c *Client) GetUser(ctx context.Context, id string) (*users.User, error) {
	var user users.User
	if err := c.getJSON(ctx, "/user/"+id, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update to a user record.
func (c *Client) UpdateUser(ctx context.Context, id string, patch map[string]any) (*users.User, error) {
	resp, err := c.do(ctx, http.MethodPut, "/user/"+id, patch)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}
	var user users.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, errors.Wrap(err, "[Client UpdateUser] decode response")
	}
	return &user, nil
}

// statusError maps a non-success response to a sentinel, keeping the
// server's short message where there is one.
func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	if body.Error != "" {
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("server error (%d)", resp.StatusCode)
}
