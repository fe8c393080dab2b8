package jumper

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/engine"
)

const (
	markerEvery   = 1000 // World pixels between altitude markers
	minPanelWidth = 32
)

var spinnerFrames = []rune{'|', '/', '-', '\\'}

// Render draws the current state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	switch g.state {
	case StateLoading:
		g.renderLoading(dst)
	case StateMenu:
		g.renderMenu(dst)
	case StatePlaying:
		g.renderWorld(dst)
		g.renderHUD(dst)
		if g.paused {
			drawPanel(dst, []string{"PAUSED", "", "P to resume"}, core.ColorBrightWhite)
		}
	case StateGameOver:
		g.renderWorld(dst)
		g.renderGameOver(dst)
	}

	if g.payment.Phase != PaymentIdle && g.state != StatePlaying {
		g.renderPayment(dst)
	}
}

func (g *Game) renderLoading(dst *core.Screen) {
	frame := g.spinner()
	mid := dst.Height() / 2
	dst.DrawTextCenteredColor(mid-1, g.Title(), core.ColorMatcha)
	dst.DrawTextCenteredColor(mid+1, string(frame)+" Loading...", core.ColorGray)
}

func (g *Game) spinner() rune {
	return spinnerFrames[(g.frames/8)%len(spinnerFrames)]
}

func (g *Game) renderMenu(dst *core.Screen) {
	title := "MATCHA JUMP"
	if g.menu.screen == MenuShop {
		title = "POWER-UP SHOP"
	}
	dst.DrawTextCenteredColor(2, title, core.ColorMatcha)
	dst.DrawTextCenteredColor(3, strings.Repeat("─", utf8.RuneCountInString(title)+4), core.ColorGreen)

	if g.menu.screen == MenuShop {
		dst.DrawTextCenteredColor(5, "You own: "+g.inventory.String(), core.ColorGray)
	} else {
		dst.DrawTextCenteredColor(5, fmt.Sprintf("High score: %d", g.highScore), core.ColorBrightYellow)
		if g.selected != nil {
			dst.DrawTextCenteredColor(6, "Starting with "+g.selected.Name(), g.selected.Color())
		}
	}

	items, cursor := g.MenuItems()
	drawItems(dst, items, cursor, 8)

	if g.notice != "" {
		dst.DrawTextCenteredColor(dst.Height()-3, g.notice, core.ColorOrange)
	}
	dst.DrawTextCenteredColor(dst.Height()-1, "↑/↓ move  Enter select  Esc back  Q quit", core.ColorGray)
}

// drawItems lists menu items centered from row y.
func drawItems(dst *core.Screen, items []MenuItem, cursor, y int) {
	width := 0
	for _, it := range items {
		width = max(width, utf8.RuneCountInString(it.Label)+utf8.RuneCountInString(it.Detail)+6)
	}
	x := (dst.Width() - width) / 2
	for i, it := range items {
		color := core.ColorWhite
		prefix := "  "
		if i == cursor {
			prefix = "> "
			color = core.ColorBrightYellow
		}
		if it.Disabled {
			color = core.ColorGray
		}
		label := it.Label
		if it.Selected {
			label += " *"
		}
		dst.DrawTextColor(x, y+i, prefix+label, color)
		if it.Detail != "" {
			dst.DrawTextColor(x+width-utf8.RuneCountInString(it.Detail), y+i, it.Detail, color)
		}
	}
}

// renderWorld draws the world through the camera, scaled to the screen.
func (g *Game) renderWorld(dst *core.Screen) {
	c := engine.NewCanvas(dst, g.cfg.Viewport.Width, g.cfg.Viewport.Height)
	g.camera.ApplyTransform(c)

	top := math.Floor(g.camera.Y/markerEvery) * markerEvery
	for y := top; y <= g.camera.Y+g.camera.Height; y += markerEvery {
		if y >= 0 {
			continue
		}
		cx, cy := c.ToCell(0, y)
		dst.DrawHLine(cx, cy, dst.Width(), '·', core.ColorGray)
		dst.DrawTextColor(cx+1, cy, fmt.Sprintf(" %dm ", int(-y/10)), core.ColorGray)
	}

	g.engine.Render(c, g.camera.IsInView)
	g.camera.RestoreTransform(c)
}

func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawTextColor(1, 0, fmt.Sprintf("Score %d", g.DisplayScore()), core.ColorBrightWhite)
	best := fmt.Sprintf("Best %d", g.highScore)
	dst.DrawTextColor(dst.Width()-utf8.RuneCountInString(best)-1, 0, best, core.ColorBrightYellow)

	if n := g.combo.Combo(); n > 0 {
		text := fmt.Sprintf("x%d COMBO", n)
		if m := g.combo.Multiplier(); m > 1 {
			text += fmt.Sprintf(" (%gx)", m)
		}
		dst.DrawTextCenteredColor(0, text, core.ColorOrange)
		bar := int(math.Ceil(g.combo.Timer() / g.cfg.Combo.Timeout.Seconds() * 10))
		dst.DrawTextCenteredColor(1, strings.Repeat("▬", core.Clamp(bar, 0, 10)), core.ColorOrange)
	}

	row := 2
	for _, a := range g.powerUps.Active() {
		text := a.Props.Name
		if rem := g.powerUps.Remaining(a.Kind); rem > 0 {
			text += fmt.Sprintf(" %.1fs", rem.Seconds())
		}
		dst.DrawTextColor(1, row, string(a.Props.Glyph)+" "+text, a.Props.Color)
		row++
	}

	if g.held != nil {
		text := "[Space] " + g.held.Name()
		color := g.held.Color()
		if g.powerUps.IsActive(*g.held) {
			color = core.ColorGray
		}
		dst.DrawTextColor(dst.Width()-utf8.RuneCountInString(text)-1, dst.Height()-1, text, color)
	}
	if g.hintVisible {
		dst.DrawTextCenteredColor(dst.Height()-2, "←/→ steer  Space power-up  P pause", core.ColorGray)
	}
	if g.notice != "" {
		dst.DrawTextColor(1, dst.Height()-1, g.notice, core.ColorOrange)
	}
}

func (g *Game) renderGameOver(dst *core.Screen) {
	lines := []string{
		"GAME OVER",
		"",
		fmt.Sprintf("Score   %d", g.DisplayScore()),
		fmt.Sprintf("Height  %dm", g.heightScore),
		fmt.Sprintf("Coins   %d", g.coins),
	}
	switch {
	case g.endResult != nil && g.endResult.IsNewHighScore:
		lines = append(lines, "", fmt.Sprintf("NEW HIGH SCORE!  Rank #%d", g.endResult.GlobalRank))
	case g.endResult != nil:
		lines = append(lines, "", fmt.Sprintf("Global rank #%d", g.endResult.GlobalRank))
	case g.highScore > g.runBest:
		lines = append(lines, "", "NEW HIGH SCORE!")
	}

	items, cursor := g.MenuItems()
	r := drawPanel(dst, append(lines, make([]string, len(items)+1)...), core.ColorBrightRed)
	drawItems(dst, items, cursor, r.Bottom()-len(items)-1)
	dst.DrawTextCenteredColor(dst.Height()-1, "↑/↓ move  Enter select  R retry  Esc menu", core.ColorGray)
}

func (g *Game) renderPayment(dst *core.Screen) {
	var title, hint string
	color := core.ColorBrightCyan
	switch g.payment.Phase {
	case PaymentProcessing:
		title = "Processing payment"
	case PaymentVerifying:
		title = "Verifying payment"
	case PaymentSuccess:
		title, hint, color = "Payment complete", "Enter to close", core.ColorBrightGreen
	case PaymentError:
		title, hint, color = "Payment failed", "R retry  Esc close", core.ColorBrightRed
	}
	if g.payment.busy() {
		title = string(g.spinner()) + " " + title
	}
	lines := []string{title, "", g.payment.Message}
	if hint != "" {
		lines = append(lines, "", hint)
	}
	drawPanel(dst, lines, color)
}

// drawPanel draws a bordered box with centered lines in the middle of the
// screen and returns its rectangle. The first line uses the accent color.
func drawPanel(dst *core.Screen, lines []string, accent core.Color) core.Rect {
	w := 0
	for _, l := range lines {
		w = max(w, utf8.RuneCountInString(l))
	}
	w = max(w+6, minPanelWidth)
	h := len(lines) + 2
	r := core.NewRect((dst.Width()-w)/2, (dst.Height()-h)/2, w, h)

	dst.FillRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r, accent)
	for i, l := range lines {
		color := core.ColorWhite
		if i == 0 {
			color = accent
		}
		x := r.X + (w-utf8.RuneCountInString(l))/2
		dst.DrawTextColor(x, r.Y+1+i, l, color)
	}
	return r
}
