package chain

import (
	"context"
	"errors"
)

// ErrUserRejected is returned when the wallet owner declines to sign.
var ErrUserRejected = errors.New("wallet: transaction rejected by user")

// Wallet signs and broadcasts transfers.
type Wallet interface {
	Send(ctx context.Context, t Transfer) (txHash string, err error)
}

// LocalWallet sends transfers from a fixed address onto a simulated chain.
type LocalWallet struct {
	chain   *Chain
	address string
	approve func(Transfer) bool
}

// NewLocalWallet creates a wallet that approves every transfer.
func NewLocalWallet(c *Chain, address string) *LocalWallet {
	return &LocalWallet{chain: c, address: address}
}

// SetApproval installs a signing prompt; returning false rejects the transfer.
func (w *LocalWallet) SetApproval(fn func(Transfer) bool) {
	w.approve = fn
}

// Address returns the sending address.
func (w *LocalWallet) Address() string {
	return w.address
}

// Send implements Wallet.
func (w *LocalWallet) Send(ctx context.Context, t Transfer) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	t.From = w.address
	if w.approve != nil && !w.approve(t) {
		return "", ErrUserRejected
	}
	return w.chain.Submit(t), nil
}

var _ Wallet = (*LocalWallet)(nil)
