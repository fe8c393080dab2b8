package events

import (
	"testing"

	"github.com/vovakirdan/tui-jumper/internal/core"
)

func TestBusDeliversInOrder(t *testing.T) {
	b := NewBus()
	var got []string

	b.Subscribe(func(Event) { got = append(got, "first") })
	b.Subscribe(func(Event) { got = append(got, "second") })
	b.Publish(PlayerSprung{})

	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("delivery order = %v, expected [first second]", got)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	unsub := b.Subscribe(func(Event) { calls++ })

	b.Publish(GamePaused{})
	unsub()
	unsub() // second call is a no-op
	b.Publish(GamePaused{})

	if calls != 1 {
		t.Errorf("handler called %d times, expected 1", calls)
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d after unsubscribe, expected 0", b.Len())
	}
}

func TestBusUnsubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	var unsub func()
	calls := 0
	unsub = b.Subscribe(func(Event) {
		calls++
		unsub()
	})
	other := 0
	b.Subscribe(func(Event) { other++ })

	b.Publish(GameResumed{})
	b.Publish(GameResumed{})

	if calls != 1 {
		t.Errorf("self-removing handler called %d times, expected 1", calls)
	}
	if other != 2 {
		t.Errorf("remaining handler called %d times, expected 2", other)
	}
}

func TestOnFiltersByType(t *testing.T) {
	b := NewBus()
	var kinds []core.PowerUpKind
	On(b, func(e PowerUpCollected) { kinds = append(kinds, e.Kind) })

	b.Publish(PowerUpCollected{Kind: core.PowerUpMagnet})
	b.Publish(PowerUpExpired{Kind: core.PowerUpRocket})
	b.Publish(PowerUpCollected{Kind: core.PowerUpShield})

	if len(kinds) != 2 || kinds[0] != core.PowerUpMagnet || kinds[1] != core.PowerUpShield {
		t.Errorf("typed subscriber got %v", kinds)
	}
}

func TestNilBusPublish(t *testing.T) {
	var b *Bus
	b.Publish(GameOver{}) // must not panic
}

func TestChannelDropsOldest(t *testing.T) {
	b := NewBus()
	c := NewChannel(b, 2)
	defer c.Close()

	b.Publish(ScoreUpdated{Score: 1})
	b.Publish(ScoreUpdated{Score: 2})
	b.Publish(ScoreUpdated{Score: 3})

	first := (<-c.Events()).(ScoreUpdated)
	second := (<-c.Events()).(ScoreUpdated)
	if first.Score != 2 || second.Score != 3 {
		t.Errorf("buffer kept %d, %d; expected 2, 3", first.Score, second.Score)
	}
}

func TestChannelClose(t *testing.T) {
	b := NewBus()
	c := NewChannel(b, 4)
	c.Close()
	c.Close()

	b.Publish(GamePaused{})
	select {
	case e := <-c.Events():
		t.Errorf("closed channel received %T", e)
	default:
	}
	select {
	case <-c.Done():
	default:
		t.Error("Done() should be closed")
	}
}
