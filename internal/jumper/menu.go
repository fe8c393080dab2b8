package jumper

import (
	"fmt"

	"github.com/vovakirdan/tui-jumper/internal/core"
)

// MenuScreen is a sub-state of StateMenu.
type MenuScreen int

const (
	MenuMain MenuScreen = iota
	MenuShop
)

type menuState struct {
	screen MenuScreen
	cursor int
}

// MenuItem is one selectable line. Disabled items are drawn dimmed and
// skipped by Confirm.
type MenuItem struct {
	Label    string
	Detail   string
	Selected bool
	Disabled bool
	action   func(g *Game)
}

// MenuItems returns the lines of the active menu and the cursor position.
func (g *Game) MenuItems() ([]MenuItem, int) {
	var items []MenuItem
	switch {
	case g.state == StateGameOver:
		items = g.gameOverItems()
	case g.state == StateMenu && g.menu.screen == MenuShop:
		items = g.shopItems()
	case g.state == StateMenu:
		items = g.mainItems()
	}
	return items, g.menu.cursor
}

func (g *Game) mainItems() []MenuItem {
	items := []MenuItem{{Label: "Play", action: (*Game).startGame}}
	for _, kind := range core.InventoryPowerUps {
		n := g.inventory.Count(kind)
		items = append(items, MenuItem{
			Label:    kind.Name(),
			Detail:   fmt.Sprintf("x%d", n),
			Selected: g.selected != nil && *g.selected == kind,
			Disabled: n <= 0,
			action:   func(g *Game) { g.toggleSelected(kind) },
		})
	}
	return append(items,
		MenuItem{Label: "Shop", action: func(g *Game) { g.openShop() }},
		MenuItem{Label: "Quit", action: func(g *Game) { g.quit = true }},
	)
}

func (g *Game) shopItems() []MenuItem {
	var items []MenuItem
	for _, kind := range core.InventoryPowerUps {
		p := g.powerUpPurchase(kind)
		items = append(items, MenuItem{
			Label:  p.label,
			Detail: p.price.String() + " ETH",
			action: func(g *Game) { g.startPayment(p) },
		})
	}
	bundle := g.bundlePurchase()
	return append(items,
		MenuItem{Label: "Bundle (5 of each)", Detail: bundle.price.String() + " ETH", action: func(g *Game) { g.startPayment(bundle) }},
		MenuItem{Label: "Back", action: func(g *Game) { g.closeShop() }},
	)
}

func (g *Game) gameOverItems() []MenuItem {
	cont := g.continuePurchase()
	return []MenuItem{
		{Label: "Continue", Detail: cont.price.String() + " ETH", action: func(g *Game) { g.startPayment(cont) }},
		{Label: "Buy power-ups", action: func(g *Game) { g.showMenu(); g.openShop() }},
		{Label: "Play again", action: (*Game).startGame},
		{Label: "Main menu", action: (*Game).showMenu},
	}
}

// toggleSelected picks kind for the next run, or clears it when it was
// already picked. Kinds the inventory lacks cannot be picked.
func (g *Game) toggleSelected(kind core.PowerUpKind) {
	if g.selected != nil && *g.selected == kind {
		g.selected = nil
		return
	}
	if g.inventory.Count(kind) > 0 {
		g.selected = &kind
	}
}

func (g *Game) openShop() {
	g.menu = menuState{screen: MenuShop}
}

func (g *Game) closeShop() {
	g.menu = menuState{screen: MenuMain}
	g.refreshInventory()
}

func (g *Game) handleMenuInput(in core.InputFrame) {
	if g.payment.Phase != PaymentIdle {
		g.handlePaymentInput(in)
		return
	}
	if in.Has(core.ActionBack) && g.menu.screen == MenuShop {
		g.closeShop()
		return
	}
	g.navigate(in)
}

func (g *Game) handleGameOverInput(in core.InputFrame) {
	if g.payment.Phase != PaymentIdle {
		g.handlePaymentInput(in)
		return
	}
	switch {
	case in.Has(core.ActionRestart):
		g.startGame()
	case in.Has(core.ActionBack):
		g.showMenu()
	default:
		g.navigate(in)
	}
}

// navigate moves the cursor and runs the item under it on Confirm.
func (g *Game) navigate(in core.InputFrame) {
	items, _ := g.MenuItems()
	if len(items) == 0 {
		return
	}
	n := len(items)
	if in.Has(core.ActionUp) {
		g.menu.cursor = (g.menu.cursor - 1 + n) % n
	}
	if in.Has(core.ActionDown) {
		g.menu.cursor = (g.menu.cursor + 1) % n
	}
	g.menu.cursor = core.Clamp(g.menu.cursor, 0, n-1)

	if in.Has(core.ActionConfirm) {
		it := items[g.menu.cursor]
		if !it.Disabled && it.action != nil {
			it.action(g)
		}
	}
}
