package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vovakirdan/tui-jumper/internal/core"
)

// Client implements Service against a remote Server.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:   baseURL,
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
	}
}

// do sends a request and decodes a JSON answer into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: encode %s: %w", path, err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("backend: %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s: %w: %v", path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var eb errorBody
		json.NewDecoder(resp.Body).Decode(&eb) //nolint:errcheck
		class := errorForStatus(resp.StatusCode, eb.Code)
		if errors.Is(class, ErrUnauthorized) {
			if inv, ok := c.tokens.(interface{ Invalidate() }); ok {
				inv.Invalidate()
			}
		}
		return fmt.Errorf("backend: %s: %w: %s", path, class, eb.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode %s: %w", path, err)
	}
	return nil
}

// StartSession implements Service.
func (c *Client) StartSession(ctx context.Context) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "/api/game/start", struct{}{}, &s, true)
	return s, err
}

// EndSession implements Service.
func (c *Client) EndSession(ctx context.Context, sessionID string, stats EndStats) (EndResult, error) {
	var res EndResult
	err := c.do(ctx, http.MethodPost, "/api/game/end", endSessionBody{SessionID: sessionID, EndStats: stats}, &res, true)
	return res, err
}

// Inventory implements Service.
func (c *Client) Inventory(ctx context.Context) (core.Inventory, error) {
	var inv core.Inventory
	err := c.do(ctx, http.MethodGet, "/api/powerups/inventory", nil, &inv, true)
	return inv, err
}

// UsePowerUp implements Service.
func (c *Client) UsePowerUp(ctx context.Context, kind core.PowerUpKind, sessionID string) (UseResult, error) {
	var res UseResult
	err := c.do(ctx, http.MethodPost, "/api/powerups/use", usePowerUpBody{Type: kind.String(), SessionID: sessionID}, &res, true)
	return res, err
}

// VerifyPayment implements Service.
func (c *Client) VerifyPayment(ctx context.Context, req PaymentRequest) (Verification, error) {
	var res Verification
	err := c.do(ctx, http.MethodPost, "/api/verify-payment", req, &res, true)
	return res, err
}

// Leaderboard implements Service.
func (c *Client) Leaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var body leaderboardBody
	if err := c.do(ctx, http.MethodGet, "/api/leaderboard?"+q.Encode(), nil, &body, false); err != nil {
		return nil, err
	}
	return body.Leaderboard, nil
}

var _ Service = (*Client)(nil)
