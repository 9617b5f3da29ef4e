package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	loginPath  = "/login"
	logoutPath = "/logout"
)

// Login submits the API login form and returns the session cookie value it
// issues. The API signals a rejected login either with 401 or with a
// redirect back to its login page carrying an error marker.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.send(req, loginPath)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, errorBodyLimit))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrInvalidCredentials
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		if strings.Contains(resp.Header.Get("Location"), "error") {
			return "", ErrInvalidCredentials
		}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", &StatusError{Method: http.MethodPost, Path: loginPath, Status: resp.StatusCode}
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == c.cookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", fmt.Errorf("login %s: %w", username, ErrNoSession)
}

// Logout ends the API session carried in ctx.
func (c *Client) Logout(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodPost, logoutPath, nil)
	if err != nil {
		return err
	}
	resp, err := c.send(req, logoutPath)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, errorBodyLimit))
	if resp.StatusCode >= 400 {
		return &StatusError{Method: http.MethodPost, Path: logoutPath, Status: resp.StatusCode}
	}
	return nil
}
