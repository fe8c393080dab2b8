package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-jumper/internal/backend"
	"github.com/vovakirdan/tui-jumper/internal/events"
	"github.com/vovakirdan/tui-jumper/internal/journal"
	"github.com/vovakirdan/tui-jumper/internal/storage"
)

func TestPrintPrices(t *testing.T) {
	var buf bytes.Buffer
	if err := printPrices(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Continue", "Rocket x5", "Bundle", "base", "hyperevm", "0.0015"} {
		if !strings.Contains(out, want) {
			t.Errorf("prices missing %q:\n%s", want, out)
		}
	}
}

func TestPrintScores(t *testing.T) {
	tests := []struct {
		name    string
		entries []backend.LeaderboardEntry
		want    string
	}{
		{"empty", nil, "No scores recorded yet."},
		{"rows", []backend.LeaderboardEntry{
			{Rank: 1, UserID: "alice", Score: 4200, TotalGames: 7, LastPlayed: time.Unix(0, 0)},
		}, "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printScores(&buf, tt.entries)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output lacks %q:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestPrintPayments(t *testing.T) {
	tests := []struct {
		name     string
		payments []storage.Payment
		want     []string
	}{
		{"empty", nil, []string{"No payments recorded for alice."}},
		{"rows", []storage.Payment{
			{TxHash: "0xabc", Type: "continue", Chain: "base", AmountGwei: 500_000, CreatedAt: time.Unix(0, 0)},
			{TxHash: "0xdef", Type: "powerup", Item: "bundle", Chain: "hyperevm", AmountGwei: 1_500_000, CreatedAt: time.Unix(0, 0)},
		}, []string{"0xabc", "continue", "bundle", "hyperevm", "0.0015"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printPayments(&buf, "alice", tt.payments)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output lacks %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestConnectHint(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":23234", "ssh localhost -p 23234"},
		{":2222", "ssh localhost -p 2222"},
		{"0.0.0.0:2200", "ssh localhost -p 2200"},
		{"[::]:2200", "ssh localhost -p 2200"},
		{"arcade.example.com:22", "ssh arcade.example.com"},
		{"10.0.0.5:4000", "ssh 10.0.0.5 -p 4000"},
		{"nohost", "ssh nohost"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := connectHint(tt.addr); got != tt.want {
				t.Errorf("connectHint(%q) = %q, want %q", tt.addr, got, tt.want)
			}
		})
	}
}

func TestWalletAddressStable(t *testing.T) {
	a, b := walletAddress("alice"), walletAddress("alice")
	if a != b {
		t.Errorf("address changed between calls: %s vs %s", a, b)
	}
	if a == walletAddress("bob") {
		t.Error("two users share an address")
	}
	if !strings.HasPrefix(a, "0x") {
		t.Errorf("address %q lacks 0x prefix", a)
	}
}

func TestRemoteTokens(t *testing.T) {
	t.Run("fixed token", func(t *testing.T) {
		t.Setenv(envToken, "abc")
		src, err := remoteTokens("alice")
		if err != nil {
			t.Fatal(err)
		}
		if tok, _ := src.Token(t.Context()); tok != "abc" {
			t.Errorf("token = %q, want abc", tok)
		}
	})
	t.Run("shared secret", func(t *testing.T) {
		t.Setenv(envToken, "")
		t.Setenv(envAuthSecret, "s3cret")
		src, err := remoteTokens("alice")
		if err != nil {
			t.Fatal(err)
		}
		tok, err := src.Token(t.Context())
		if err != nil {
			t.Fatal(err)
		}
		user, err := backend.NewTokenIssuer([]byte("s3cret"), tokenTTL).Verify(tok)
		if err != nil || user != "alice" {
			t.Errorf("Verify = %q, %v; want alice", user, err)
		}
	})
	t.Run("nothing set", func(t *testing.T) {
		t.Setenv(envToken, "")
		t.Setenv(envAuthSecret, "")
		if _, err := remoteTokens("alice"); err == nil {
			t.Error("expected an error without credentials")
		}
	})
}

func TestReplayFile(t *testing.T) {
	dir := t.TempDir()
	j := journal.New(dir, nil)
	for _, e := range []events.Event{events.GameStarted{}, events.GameOver{Score: 77}} {
		if err := j.Write(e); err != nil {
			t.Fatal(err)
		}
	}
	path := j.Path()
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := replay(&buf, []string{path}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "GameStarted") || !strings.Contains(out, `"Score":77`) {
		t.Errorf("replay output:\n%s", out)
	}
}
