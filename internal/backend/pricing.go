package backend

import (
	"fmt"

	"github.com/vovakirdan/tui-jumper/internal/chain"
	"github.com/vovakirdan/tui-jumper/internal/core"
)

// PurchaseQuantity is how many of a kind one power-up purchase credits.
const PurchaseQuantity = 5

// WelcomeBonus is granted on a user's first inventory access.
var WelcomeBonus = core.UniformInventory(1)

// ExpectedPrice is the minimum transfer the server accepts for a purchase.
// It never depends on anything the client declares about the amount.
func ExpectedPrice(t PaymentType, item string, c chain.Name) (chain.Gwei, error) {
	if _, err := chain.ParseName(string(c)); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	base := c == chain.Base

	switch t {
	case PaymentContinue:
		if base {
			return 500_000, nil
		}
		return 1_000_000, nil
	case PaymentPowerUp:
		if item == ItemBundle {
			return 1_500_000, nil
		}
		if _, err := storableKind(item); err != nil {
			return 0, err
		}
		if base {
			return 600_000, nil
		}
		return 500_000, nil
	default:
		return 0, fmt.Errorf("%w: unknown payment type %q", ErrInvalidRequest, t)
	}
}

// Credit returns the inventory a verified payment grants.
func Credit(t PaymentType, item string) (core.Inventory, error) {
	switch t {
	case PaymentContinue:
		return core.Inventory{}, nil
	case PaymentPowerUp:
		if item == ItemBundle {
			return core.UniformInventory(PurchaseQuantity), nil
		}
		kind, err := storableKind(item)
		if err != nil {
			return core.Inventory{}, err
		}
		return core.Inventory{}.Add(kind, PurchaseQuantity), nil
	default:
		return core.Inventory{}, fmt.Errorf("%w: unknown payment type %q", ErrInvalidRequest, t)
	}
}

func storableKind(item string) (core.PowerUpKind, error) {
	kind, err := core.ParsePowerUpKind(item)
	if err != nil || !core.Storable(kind) {
		return 0, fmt.Errorf("%w: %q is not a purchasable power-up", ErrInvalidRequest, item)
	}
	return kind, nil
}
