package chain

import (
	"context"
	"errors"
	"testing"
)

func TestGweiFormatting(t *testing.T) {
	tests := []struct {
		in   string
		gwei Gwei
		out  string
	}{
		{"0.001", 1_000_000, "0.001"},
		{"0.0005", 500_000, "0.0005"},
		{"0.0015", 1_500_000, "0.0015"},
		{"2", 2 * GweiPerEther, "2"},
		{"1.000000001", GweiPerEther + 1, "1.000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEther(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.gwei {
				t.Errorf("ParseEther(%q) = %d, want %d", tt.in, got, tt.gwei)
			}
			if got.String() != tt.out {
				t.Errorf("String() = %q, want %q", got.String(), tt.out)
			}
		})
	}

	for _, bad := range []string{"", "abc", "0.0000000001", "1.x"} {
		if _, err := ParseEther(bad); err == nil {
			t.Errorf("ParseEther(%q) should fail", bad)
		}
	}
}

func TestReceiptConfirmationLag(t *testing.T) {
	ctx := context.Background()
	c := New(2)
	hash := c.Submit(Transfer{From: "a", To: "b", Amount: 10, Chain: Base})

	for i := 0; i < 2; i++ {
		if _, err := c.Receipt(ctx, Base, hash); !errors.Is(err, ErrReceiptNotFound) {
			t.Fatalf("lookup %d: err = %v, want not found", i, err)
		}
	}
	r, err := c.Receipt(ctx, Base, hash)
	if err != nil {
		t.Fatalf("confirmed lookup: %v", err)
	}
	if !r.Success || r.To != "b" || r.Amount != 10 {
		t.Errorf("receipt = %+v", r)
	}

	if _, err := c.Receipt(ctx, HyperEVM, hash); !errors.Is(err, ErrReceiptNotFound) {
		t.Error("receipt must not be visible on another chain")
	}

	c.Revert(hash)
	if r, _ := c.Receipt(ctx, Base, hash); r.Success {
		t.Error("reverted transfer reported success")
	}
}

func TestHashesAreUnique(t *testing.T) {
	c := New(0)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		h := c.Submit(Transfer{From: "a", To: "b", Amount: 1, Chain: Base})
		if seen[h] {
			t.Fatalf("duplicate hash %s", h)
		}
		seen[h] = true
	}
}

func TestLocalWallet(t *testing.T) {
	c := New(0)
	w := NewLocalWallet(c, "0xme")

	hash, err := w.Send(context.Background(), Transfer{To: "0xshop", Amount: 5, Chain: HyperEVM})
	if err != nil {
		t.Fatal(err)
	}
	r, err := c.Receipt(context.Background(), HyperEVM, hash)
	if err != nil || r.From != "0xme" {
		t.Errorf("receipt = %+v, %v", r, err)
	}

	w.SetApproval(func(Transfer) bool { return false })
	if _, err := w.Send(context.Background(), Transfer{To: "0xshop", Amount: 5, Chain: Base}); !errors.Is(err, ErrUserRejected) {
		t.Errorf("err = %v, want ErrUserRejected", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLocalWallet(c, "x").Send(ctx, Transfer{}); err == nil {
		t.Error("cancelled context should fail")
	}
}

func TestParseName(t *testing.T) {
	if n, err := ParseName("hyperevm"); err != nil || n != HyperEVM {
		t.Errorf("ParseName(hyperevm) = %v, %v", n, err)
	}
	if _, err := ParseName("solana"); err == nil {
		t.Error("unknown chain accepted")
	}
}
