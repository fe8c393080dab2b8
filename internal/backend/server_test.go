package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-jumper/internal/chain"
	"github.com/vovakirdan/tui-jumper/internal/core"
)

type apiFixture struct {
	*ledgerFixture
	srv    *httptest.Server
	issuer *TokenIssuer
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	lf := newLedgerFixture(t, 0)
	issuer := NewTokenIssuer([]byte("test-secret"), time.Hour)
	s, err := NewServer(lf.ledger, issuer, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return &apiFixture{ledgerFixture: lf, srv: srv, issuer: issuer}
}

func (f *apiFixture) client(user string) *Client {
	return NewClient(f.srv.URL, NewCachedTokenSource(IssuerSource(f.issuer, user)), time.Second)
}

func TestClientServerRoundTrip(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()
	c := f.client("alice")

	s, err := c.StartSession(ctx)
	if err != nil || s.ID == "" || s.Inventory != core.UniformInventory(1) {
		t.Fatalf("StartSession() = %+v, %v", s, err)
	}

	use, err := c.UsePowerUp(ctx, core.PowerUpMagnet, s.ID)
	if err != nil || !use.Success {
		t.Fatalf("UsePowerUp() = %+v, %v", use, err)
	}

	v, err := c.VerifyPayment(ctx, PaymentRequest{
		TxHash:   f.pay(shopAddress, 1_500_000, chain.HyperEVM),
		Type:     PaymentPowerUp,
		Metadata: PaymentMetadata{Item: ItemBundle, Chain: chain.HyperEVM},
	})
	if err != nil || !v.Verified {
		t.Fatalf("VerifyPayment() = %+v, %v", v, err)
	}
	want := core.Inventory{Rocket: 6, Shield: 6, Magnet: 5, SlowTime: 6}
	if v.Inventory != want {
		t.Errorf("credited inventory = %v, want %v", v.Inventory, want)
	}

	inv, err := c.Inventory(ctx)
	if err != nil || inv != want {
		t.Errorf("Inventory() = %v, %v", inv, err)
	}

	end, err := c.EndSession(ctx, s.ID, EndStats{Score: 420, Height: 300, PowerUpsUsed: 1, CoinsCollected: 7})
	if err != nil || !end.Success || !end.IsNewHighScore || end.GlobalRank != 1 {
		t.Errorf("EndSession() = %+v, %v", end, err)
	}

	board, err := c.Leaderboard(ctx, 10, 0)
	if err != nil || len(board) != 1 || board[0].UserID != "alice" || board[0].Score != 420 {
		t.Errorf("Leaderboard() = %+v, %v", board, err)
	}
}

func TestClientMapsStatusesToErrors(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()
	c := f.client("bob")

	s, _ := c.StartSession(ctx)
	c.UsePowerUp(ctx, core.PowerUpShield, s.ID) //nolint:errcheck

	paid := f.pay(shopAddress, 1_000_000, chain.HyperEVM)
	c.VerifyPayment(ctx, PaymentRequest{TxHash: paid, Type: PaymentContinue}) //nolint:errcheck

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"insufficient", func() error {
			_, err := c.UsePowerUp(ctx, core.PowerUpShield, s.ID)
			return err
		}, ErrInsufficientPowerUps},
		{"unknown session", func() error {
			_, err := c.UsePowerUp(ctx, core.PowerUpRocket, "missing")
			return err
		}, ErrSessionNotFound},
		{"duplicate", func() error {
			_, err := c.VerifyPayment(ctx, PaymentRequest{TxHash: paid, Type: PaymentContinue})
			return err
		}, ErrDuplicatePayment},
		{"not found", func() error {
			_, err := c.VerifyPayment(ctx, PaymentRequest{TxHash: "0xdeadbeef", Type: PaymentContinue})
			return err
		}, ErrPaymentNotFound},
		{"mismatch", func() error {
			_, err := c.VerifyPayment(ctx, PaymentRequest{
				TxHash: f.pay(shopAddress, 1, chain.HyperEVM),
				Type:   PaymentContinue,
			})
			return err
		}, ErrPaymentMismatch},
		{"schema violation", func() error {
			_, err := c.VerifyPayment(ctx, PaymentRequest{TxHash: "not-hex", Type: PaymentContinue})
			return err
		}, ErrInvalidRequest},
		{"bundle needs item", func() error {
			_, err := c.VerifyPayment(ctx, PaymentRequest{TxHash: "0x01", Type: PaymentPowerUp})
			return err
		}, ErrInvalidRequest},
		{"unauthorized", func() error {
			bad := NewClient(f.srv.URL, TokenFunc(func(context.Context) (string, error) { return "forged.1.sig", nil }), time.Second)
			_, err := bad.Inventory(ctx)
			return err
		}, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestServerStatusCodes(t *testing.T) {
	f := newAPIFixture(t)
	tok, _, err := f.issuer.Issue("carol")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		auth   bool
		status int
	}{
		{"health", http.MethodGet, "/health", "", false, http.StatusOK},
		{"leaderboard public", http.MethodGet, "/api/leaderboard", "", false, http.StatusOK},
		{"leaderboard bad limit", http.MethodGet, "/api/leaderboard?limit=abc", "", false, http.StatusBadRequest},
		{"stats public", http.MethodGet, "/api/stats/carol", "", false, http.StatusOK},
		{"missing token", http.MethodGet, "/api/powerups/inventory", "", false, http.StatusUnauthorized},
		{"inventory", http.MethodGet, "/api/powerups/inventory", "", true, http.StatusOK},
		{"malformed json", http.MethodPost, "/api/game/end", "{", true, http.StatusBadRequest},
		{"negative score", http.MethodPost, "/api/game/end", `{"sessionId":"x","score":-1,"height":0}`, true, http.StatusBadRequest},
		{"unknown session", http.MethodPost, "/api/game/end", `{"sessionId":"x","score":1,"height":0}`, true, http.StatusNotFound},
		{"bad power-up", http.MethodPost, "/api/powerups/use", `{"type":"scoreBoost","sessionId":"x"}`, true, http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/api/game/start", "", true, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, f.srv.URL+tt.path, strings.NewReader(tt.body))
			if tt.auth {
				req.Header.Set("Authorization", "Bearer "+tok)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestStatusCodeRoundTrip(t *testing.T) {
	for _, e := range statusByError {
		got := errorForStatus(StatusCode(e.err), errorCode(e.err))
		if !errors.Is(got, e.err) {
			t.Errorf("%v -> %d -> %v", e.err, StatusCode(e.err), got)
		}
	}
	if StatusCode(errors.New("boom")) != http.StatusInternalServerError {
		t.Error("unclassified errors must be 500")
	}
}
