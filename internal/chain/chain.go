// Package chain simulates the value-transfer network payments settle on.
// Wallets submit transfers; the backend looks receipts up independently.
package chain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Name identifies a supported chain.
type Name string

const (
	Base     Name = "base"
	HyperEVM Name = "hyperevm"
)

// ParseName validates a chain name.
func ParseName(s string) (Name, error) {
	switch Name(s) {
	case Base, HyperEVM:
		return Name(s), nil
	}
	return "", fmt.Errorf("chain: unknown chain %q", s)
}

// Gwei is an amount of native currency in units of 1e-9.
type Gwei int64

// GweiPerEther is the number of gwei in one whole coin.
const GweiPerEther Gwei = 1_000_000_000

// String formats the amount in whole coins, e.g. "0.0015".
func (g Gwei) String() string {
	sign := ""
	if g < 0 {
		sign, g = "-", -g
	}
	whole, frac := g/GweiPerEther, g%GweiPerEther
	if frac == 0 {
		return sign + strconv.FormatInt(int64(whole), 10)
	}
	f := strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
	return fmt.Sprintf("%s%d.%s", sign, whole, f)
}

// ParseEther parses a decimal coin amount such as "0.0005".
func ParseEther(s string) (Gwei, error) {
	whole, frac, _ := strings.Cut(strings.TrimSpace(s), ".")
	if len(frac) > 9 {
		return 0, fmt.Errorf("chain: %q has more than 9 decimals", s)
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("chain: parse %q: %w", s, err)
	}
	var f int64
	if frac != "" {
		f, err = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("chain: parse %q: %w", s, err)
		}
	}
	return Gwei(w)*GweiPerEther + Gwei(f), nil
}

// Transfer is a value transfer request.
type Transfer struct {
	From   string
	To     string
	Amount Gwei
	Chain  Name
}

// Receipt is what a chain reports about a mined transfer.
type Receipt struct {
	TxHash  string
	From    string
	To      string
	Amount  Gwei
	Chain   Name
	Success bool
}

// ErrReceiptNotFound means the transfer is unknown or not yet confirmed.
var ErrReceiptNotFound = errors.New("chain: receipt not found")

// Reader looks up receipts by transaction hash.
type Reader interface {
	Receipt(ctx context.Context, chain Name, txHash string) (Receipt, error)
}

type pending struct {
	receipt Receipt
	lookups int
}

// Chain is an in-memory ledger of transfers. A receipt becomes visible
// only after lag lookups, mimicking block confirmation delay.
// It is safe for concurrent use.
type Chain struct {
	mu    sync.Mutex
	lag   int
	nonce uint64
	txs   map[string]*pending
}

// New creates a chain whose receipts appear after lag failed lookups.
func New(lag int) *Chain {
	return &Chain{lag: max(lag, 0), txs: make(map[string]*pending)}
}

// Submit records a transfer and returns its transaction hash.
func (c *Chain) Submit(t Transfer) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nonce++
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s|%d|%d", t.Chain, t.From, t.To, t.Amount, c.nonce))
	hash := "0x" + hex.EncodeToString(sum[:])
	c.txs[hash] = &pending{receipt: Receipt{
		TxHash:  hash,
		From:    t.From,
		To:      t.To,
		Amount:  t.Amount,
		Chain:   t.Chain,
		Success: true,
	}}
	return hash
}

// Revert marks a submitted transfer as failed.
func (c *Chain) Revert(txHash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.txs[txHash]; ok {
		p.receipt.Success = false
	}
}

// Receipt implements Reader.
func (c *Chain) Receipt(ctx context.Context, chain Name, txHash string) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.txs[txHash]
	if !ok || p.receipt.Chain != chain {
		return Receipt{}, ErrReceiptNotFound
	}
	if p.lookups < c.lag {
		p.lookups++
		return Receipt{}, ErrReceiptNotFound
	}
	return p.receipt, nil
}

var _ Reader = (*Chain)(nil)
