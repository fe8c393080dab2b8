package jumper

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/vovakirdan/tui-jumper/internal/backend"
	"github.com/vovakirdan/tui-jumper/internal/chain"
	"github.com/vovakirdan/tui-jumper/internal/core"
	"github.com/vovakirdan/tui-jumper/internal/engine"
	"github.com/vovakirdan/tui-jumper/internal/events"
)

// PaymentPhase is the state of the purchase overlay.
type PaymentPhase int

const (
	PaymentIdle PaymentPhase = iota
	PaymentProcessing
	PaymentVerifying
	PaymentSuccess
	PaymentError
)

func (p PaymentPhase) String() string {
	switch p {
	case PaymentIdle:
		return "idle"
	case PaymentProcessing:
		return "processing"
	case PaymentVerifying:
		return "verifying"
	case PaymentSuccess:
		return "success"
	case PaymentError:
		return "error"
	default:
		return "unknown"
	}
}

// purchase is one priced item the player can pay for.
type purchase struct {
	kind  backend.PaymentType
	item  string // Power-up wire name or backend.ItemBundle; empty for continues
	price chain.Gwei
	label string
}

type paymentFlow struct {
	Phase   PaymentPhase
	Message string

	last    purchase // Retried with R after an error
	ticket  uint64   // Bumped per attempt; older results are dropped
	dismiss *engine.Timer
}

func (f paymentFlow) busy() bool {
	return f.Phase == PaymentProcessing || f.Phase == PaymentVerifying
}

// Payment returns the current purchase overlay phase and message.
func (g *Game) Payment() (PaymentPhase, string) {
	return g.payment.Phase, g.payment.Message
}

// run executes task through the runner with a deadline. The function it
// returns is applied on the game goroutine during a later Step.
func (g *Game) run(timeout time.Duration, task func(ctx context.Context) func(*Game)) {
	parent := g.ctx
	g.runner(func() {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		if apply := task(ctx); apply != nil {
			g.post(apply)
		}
	})
}

// post queues apply for the next Step. It gives up once the game is closed.
func (g *Game) post(apply func(*Game)) {
	select {
	case g.mailbox <- apply:
	case <-g.done:
	}
}

// drain applies every queued background result.
func (g *Game) drain() {
	for {
		select {
		case apply := <-g.mailbox:
			apply(g)
		default:
			return
		}
	}
}

func (g *Game) backendNotice(err error) string {
	if errors.Is(err, backend.ErrUnauthorized) {
		return backend.Message(err)
	}
	return "Backend unavailable, playing offline"
}

// load reads the local high score and the first inventory snapshot, then
// opens the menu. Failures only leave the inventory empty.
func (g *Game) load() {
	if g.scores != nil {
		g.highScore = max(g.highScore, g.scores.Load())
	}
	if g.backend == nil {
		g.state = StateMenu
		return
	}

	ticket := g.runID
	svc := g.backend
	g.run(g.cfg.Backend.Timeout, func(ctx context.Context) func(*Game) {
		inv, err := svc.Inventory(ctx)
		return func(g *Game) {
			if g.runID != ticket || g.state != StateLoading {
				return
			}
			if err != nil {
				g.logger.Warn("inventory load failed", "err", err)
				g.notice = g.backendNotice(err)
			} else {
				g.inventory = inv
			}
			g.state = StateMenu
		}
	})
}

// refreshInventory replaces the inventory with a fresh backend snapshot.
// Only the latest request is applied.
func (g *Game) refreshInventory() {
	if g.backend == nil {
		return
	}
	g.invTicket++
	ticket := g.invTicket
	svc := g.backend
	g.run(g.cfg.Backend.Timeout, func(ctx context.Context) func(*Game) {
		inv, err := svc.Inventory(ctx)
		return func(g *Game) {
			if g.invTicket != ticket {
				return
			}
			if err != nil {
				g.logger.Warn("inventory refresh failed", "err", err)
				return
			}
			g.inventory = inv
		}
	})
}

// requestSession opens a backend session for the current run and, when
// the player picked one, spends an inventory power-up on it. The run
// starts immediately; the power-up arrives with the backend's answer.
func (g *Game) requestSession(selected *core.PowerUpKind) {
	if g.backend == nil {
		return
	}
	ticket := g.runID
	svc := g.backend
	g.run(g.cfg.Backend.Timeout, func(ctx context.Context) func(*Game) {
		s, err := svc.StartSession(ctx)
		if err != nil {
			return func(g *Game) {
				if g.runID != ticket {
					return
				}
				g.logger.Warn("start session failed", "err", err)
				g.notice = g.backendNotice(err)
			}
		}

		inv := s.Inventory
		var useErr error
		if selected != nil {
			if _, useErr = svc.UsePowerUp(ctx, *selected, s.ID); useErr == nil {
				if fresh, err := svc.Inventory(ctx); err == nil {
					inv = fresh
				}
			}
		}
		return func(g *Game) {
			if g.runID != ticket {
				return
			}
			g.sessionID = s.ID
			g.inventory = inv
			g.bus.Publish(events.SessionStarted{SessionID: s.ID})

			if g.pendingEnd != nil {
				stats := *g.pendingEnd
				g.pendingEnd = nil
				g.endSession(stats)
				return
			}
			if selected != nil {
				g.grantSelected(*selected, useErr)
			}
		}
	})
}

// grantSelected hands the confirmed menu power-up to the player. Shields
// arm on their own; other kinds wait for the use key.
func (g *Game) grantSelected(kind core.PowerUpKind, useErr error) {
	if useErr != nil {
		g.logger.Warn("use power-up failed", "kind", kind, "err", useErr)
		g.notice = backend.Message(useErr)
		return
	}
	if g.state != StatePlaying {
		return
	}
	g.powerUpsUsed++
	if kind == core.PowerUpShield {
		g.playTimers.After(shieldArmDelay, func() {
			g.powerUps.Activate(Properties(core.PowerUpShield, g.cfg.PowerUps))
			g.bus.Publish(events.PowerUpUsed{Kind: core.PowerUpShield})
		})
		return
	}
	g.held = &kind
}

// endSession reports a finished run. Without a session yet, the report
// waits until the session arrives.
func (g *Game) endSession(stats backend.EndStats) {
	if g.backend == nil {
		return
	}
	if g.sessionID == "" {
		g.pendingEnd = &stats
		return
	}
	id := g.sessionID
	ticket := g.runID
	svc := g.backend
	g.run(g.cfg.Backend.Timeout, func(ctx context.Context) func(*Game) {
		res, err := svc.EndSession(ctx, id, stats)
		return func(g *Game) {
			if g.runID != ticket || g.state != StateGameOver {
				return
			}
			if err != nil {
				g.logger.Warn("end session failed", "session", id, "err", err)
				return
			}
			g.endResult = &res
			g.bus.Publish(events.SessionEnded{SessionID: id, NewHighScore: res.IsNewHighScore, GlobalRank: res.GlobalRank})
		}
	})
}

func (g *Game) continuePurchase() purchase {
	return purchase{
		kind:  backend.PaymentContinue,
		price: chain.Gwei(g.cfg.Payments.ContinueGwei),
		label: "Continue",
	}
}

func (g *Game) powerUpPurchase(kind core.PowerUpKind) purchase {
	return purchase{
		kind:  backend.PaymentPowerUp,
		item:  kind.String(),
		price: chain.Gwei(g.cfg.Payments.PowerUpGwei),
		label: kind.Name() + " x" + strconv.Itoa(backend.PurchaseQuantity),
	}
}

func (g *Game) bundlePurchase() purchase {
	return purchase{
		kind:  backend.PaymentPowerUp,
		item:  backend.ItemBundle,
		price: chain.Gwei(g.cfg.Payments.BundleGwei),
		label: "Bundle",
	}
}

// setPayment moves the overlay to phase. Terminal phases dismiss
// themselves after a delay unless a newer attempt started.
func (g *Game) setPayment(phase PaymentPhase, msg string) {
	g.payment.Phase = phase
	g.payment.Message = msg
	g.payment.dismiss.Cancel()
	g.payment.dismiss = nil
	if phase == PaymentSuccess || phase == PaymentError {
		ticket := g.payment.ticket
		g.payment.dismiss = g.uiTimers.After(g.cfg.Payments.DismissAfter, func() {
			if g.payment.ticket == ticket {
				g.dismissPayment()
			}
		})
	}
	g.bus.Publish(events.PaymentChanged{Phase: phase.String(), Message: msg})
}

func (g *Game) dismissPayment() {
	if g.payment.busy() || g.payment.Phase == PaymentIdle {
		return
	}
	g.setPayment(PaymentIdle, "")
}

// startPayment sends the transfer from the wallet and has the backend
// verify it. Inventory is only updated from the backend's answer.
func (g *Game) startPayment(p purchase) {
	if g.payment.busy() {
		return
	}
	g.payment.ticket++
	g.payment.last = p
	ticket := g.payment.ticket

	if g.wallet == nil || g.backend == nil {
		g.setPayment(PaymentError, "Payments are unavailable")
		return
	}
	network, err := chain.ParseName(g.cfg.Payments.Chain)
	if err != nil {
		g.setPayment(PaymentError, "Unsupported chain")
		return
	}

	g.setPayment(PaymentProcessing, "Confirm "+p.price.String()+" ETH in your wallet")
	wallet, svc := g.wallet, g.backend
	to := g.cfg.Payments.Address
	score := g.DisplayScore()
	timeout := g.cfg.Backend.Timeout + time.Duration(g.cfg.Backend.ReceiptTries)*g.cfg.Backend.ReceiptDelay

	g.run(timeout, func(ctx context.Context) func(*Game) {
		hash, err := wallet.Send(ctx, chain.Transfer{To: to, Amount: p.price, Chain: network})
		if err != nil {
			return func(g *Game) { g.paymentFailed(ticket, err) }
		}
		g.post(func(g *Game) {
			if g.payment.ticket == ticket && g.payment.Phase == PaymentProcessing {
				g.setPayment(PaymentVerifying, "Verifying payment...")
			}
		})

		v, err := svc.VerifyPayment(ctx, backend.PaymentRequest{
			TxHash: hash,
			Type:   p.kind,
			Metadata: backend.PaymentMetadata{
				Item:  p.item,
				Chain: network,
				Score: score,
			},
		})
		if err != nil {
			return func(g *Game) { g.paymentFailed(ticket, err) }
		}
		return func(g *Game) { g.paymentSucceeded(ticket, p, v) }
	})
}

func (g *Game) paymentSucceeded(ticket uint64, p purchase, v backend.Verification) {
	if g.payment.ticket != ticket {
		return
	}
	g.inventory = v.Inventory
	g.bus.Publish(events.HapticTriggered{Kind: events.HapticSuccess})
	g.logger.Info("payment verified", "type", p.kind, "item", p.item)

	if p.kind == backend.PaymentContinue {
		g.setPayment(PaymentSuccess, "Continue purchased!")
		if g.state == StateGameOver {
			g.continuePlaying()
		}
		return
	}
	g.setPayment(PaymentSuccess, "Purchased "+p.label+"!")
}

func (g *Game) paymentFailed(ticket uint64, err error) {
	if g.payment.ticket != ticket {
		return
	}
	msg := backend.Message(err)
	switch {
	case errors.Is(err, chain.ErrUserRejected):
		msg = "Transaction cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		msg = "Payment timed out"
	}
	g.logger.Warn("payment failed", "type", g.payment.last.kind, "err", err)
	g.bus.Publish(events.HapticTriggered{Kind: events.HapticError})
	g.setPayment(PaymentError, msg)
}

// handlePaymentInput drives the modal overlay. In-flight payments ignore
// input; terminal phases dismiss on Confirm/Back and retry on R.
func (g *Game) handlePaymentInput(in core.InputFrame) {
	switch g.payment.Phase {
	case PaymentError:
		if in.Has(core.ActionRestart) {
			g.startPayment(g.payment.last)
			return
		}
		fallthrough
	case PaymentSuccess:
		if in.Has(core.ActionConfirm) || in.Has(core.ActionBack) {
			g.dismissPayment()
		}
	}
}
