package core

import "fmt"

// Inventory counts the power-ups a user owns on the backend.
// The client only ever holds a copy received from the backend.
type Inventory struct {
	Rocket   int `json:"rocket"`
	Shield   int `json:"shield"`
	Magnet   int `json:"magnet"`
	SlowTime int `json:"slowTime"`
}

// UniformInventory returns an inventory with n of every storable kind.
func UniformInventory(n int) Inventory {
	return Inventory{Rocket: n, Shield: n, Magnet: n, SlowTime: n}
}

// Count returns the number held of kind k. Kinds that cannot be stored count as zero.
func (inv Inventory) Count(k PowerUpKind) int {
	switch k {
	case PowerUpRocket:
		return inv.Rocket
	case PowerUpShield:
		return inv.Shield
	case PowerUpMagnet:
		return inv.Magnet
	case PowerUpSlowTime:
		return inv.SlowTime
	default:
		return 0
	}
}

// Add returns a copy with n more of kind k.
func (inv Inventory) Add(k PowerUpKind, n int) Inventory {
	switch k {
	case PowerUpRocket:
		inv.Rocket += n
	case PowerUpShield:
		inv.Shield += n
	case PowerUpMagnet:
		inv.Magnet += n
	case PowerUpSlowTime:
		inv.SlowTime += n
	}
	return inv
}

// Plus returns the element-wise sum of two inventories.
func (inv Inventory) Plus(o Inventory) Inventory {
	return Inventory{
		Rocket:   inv.Rocket + o.Rocket,
		Shield:   inv.Shield + o.Shield,
		Magnet:   inv.Magnet + o.Magnet,
		SlowTime: inv.SlowTime + o.SlowTime,
	}
}

// Total returns the number of items across all kinds.
func (inv Inventory) Total() int {
	return inv.Rocket + inv.Shield + inv.Magnet + inv.SlowTime
}

// Storable reports whether kind k can be held in an inventory.
func Storable(k PowerUpKind) bool {
	for _, s := range InventoryPowerUps {
		if s == k {
			return true
		}
	}
	return false
}

func (inv Inventory) String() string {
	return fmt.Sprintf("rocket=%d shield=%d magnet=%d slowTime=%d",
		inv.Rocket, inv.Shield, inv.Magnet, inv.SlowTime)
}
