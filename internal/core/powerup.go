package core

import "fmt"

// PowerUpKind identifies a power-up, both as a world pickup and as an
// inventory item held by the backend.
type PowerUpKind int

const (
	PowerUpRocket PowerUpKind = iota
	PowerUpShield
	PowerUpMagnet
	PowerUpScoreBoost
	PowerUpSlowTime
	powerUpKindCount
)

// AllPowerUps lists every kind in display order.
var AllPowerUps = []PowerUpKind{
	PowerUpRocket, PowerUpShield, PowerUpMagnet, PowerUpScoreBoost, PowerUpSlowTime,
}

// InventoryPowerUps lists the kinds that can be bought and stored.
// Score boost only appears as a world pickup.
var InventoryPowerUps = []PowerUpKind{
	PowerUpRocket, PowerUpShield, PowerUpMagnet, PowerUpSlowTime,
}

// String returns the wire name used by the backend API.
func (k PowerUpKind) String() string {
	switch k {
	case PowerUpRocket:
		return "rocket"
	case PowerUpShield:
		return "shield"
	case PowerUpMagnet:
		return "magnet"
	case PowerUpScoreBoost:
		return "scoreBoost"
	case PowerUpSlowTime:
		return "slowTime"
	default:
		return "unknown"
	}
}

// Name returns the display name.
func (k PowerUpKind) Name() string {
	switch k {
	case PowerUpRocket:
		return "Rocket"
	case PowerUpShield:
		return "Shield"
	case PowerUpMagnet:
		return "Magnet"
	case PowerUpScoreBoost:
		return "Score Boost"
	case PowerUpSlowTime:
		return "Slow Time"
	default:
		return "?"
	}
}

// Glyph returns the character drawn for the pickup.
func (k PowerUpKind) Glyph() rune {
	switch k {
	case PowerUpRocket:
		return '^'
	case PowerUpShield:
		return 'O'
	case PowerUpMagnet:
		return 'U'
	case PowerUpScoreBoost:
		return 'x'
	case PowerUpSlowTime:
		return '~'
	default:
		return '?'
	}
}

// Color returns the accent color of the kind.
func (k PowerUpKind) Color() Color {
	switch k {
	case PowerUpRocket:
		return ColorBrightRed
	case PowerUpShield:
		return ColorBrightBlue
	case PowerUpMagnet:
		return ColorBrightMagenta
	case PowerUpScoreBoost:
		return ColorBrightGreen
	case PowerUpSlowTime:
		return ColorOrange
	default:
		return ColorDefault
	}
}

// Valid reports whether k is a known kind.
func (k PowerUpKind) Valid() bool {
	return k >= 0 && k < powerUpKindCount
}

// ParsePowerUpKind converts a wire name back into a kind.
func ParsePowerUpKind(s string) (PowerUpKind, error) {
	for _, k := range AllPowerUps {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown power-up %q", s)
}
