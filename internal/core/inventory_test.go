package core

import "testing"

func TestInventoryCountAndAdd(t *testing.T) {
	inv := UniformInventory(1)
	inv = inv.Add(PowerUpMagnet, 5)
	inv = inv.Add(PowerUpScoreBoost, 5) // not storable, ignored

	tests := []struct {
		kind PowerUpKind
		want int
	}{
		{PowerUpRocket, 1},
		{PowerUpShield, 1},
		{PowerUpMagnet, 6},
		{PowerUpSlowTime, 1},
		{PowerUpScoreBoost, 0},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := inv.Count(tt.kind); got != tt.want {
				t.Errorf("Count(%v) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}

	if inv.Total() != 9 {
		t.Errorf("Total() = %d, want 9", inv.Total())
	}
	if got := inv.Plus(UniformInventory(5)); got.SlowTime != 6 || got.Magnet != 11 {
		t.Errorf("Plus() = %v", got)
	}
}

func TestParsePowerUpKindRoundTrip(t *testing.T) {
	for _, k := range AllPowerUps {
		got, err := ParsePowerUpKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParsePowerUpKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParsePowerUpKind("laser"); err == nil {
		t.Error("expected error for unknown kind")
	}
	if Storable(PowerUpScoreBoost) || !Storable(PowerUpShield) {
		t.Error("Storable() mismatch")
	}
}
