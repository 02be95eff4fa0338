package oneshot_test

import (
	"context"
	"errors"
	"testing"

	"github.com/creachadair/vend/oneshot"
	"github.com/fortytw2/leaktest"
	"pgregory.net/rapid"
)

func TestDeliver(t *testing.T) {
	defer leaktest.Check(t)()
	ctx := context.Background()

	snd, rcv := oneshot.New[string]()
	if !snd.Send("hello") {
		t.Error("Send: delivery refused")
	}
	if got, err := rcv.Receive(ctx); got != "hello" || err != nil {
		t.Errorf("Receive: got (%q, %v), want (hello, nil)", got, err)
	}

	// The pair is spent: another value is refused, and the receiver keeps
	// reporting the original outcome.
	if snd.Send("again") {
		t.Error("Second Send: delivery accepted, want refused")
	}
	if got, err := rcv.Receive(ctx); got != "hello" || err != nil {
		t.Errorf("Receive again: got (%q, %v), want (hello, nil)", got, err)
	}
}

func TestDeliverToWaiter(t *testing.T) {
	defer leaktest.Check(t)()

	snd, rcv := oneshot.New[int]()
	got := make(chan int, 1)
	go func() {
		v, err := rcv.Receive(context.Background())
		if err != nil {
			t.Errorf("Receive: unexpected error: %v", err)
		}
		got <- v
	}()

	snd.Send(25)
	if v := <-got; v != 25 {
		t.Errorf("Receive: got %d, want 25", v)
	}
}

func TestAbandoned(t *testing.T) {
	defer leaktest.Check(t)()

	snd, rcv := oneshot.New[bool]()
	errc := make(chan error, 1)
	go func() {
		_, err := rcv.Receive(context.Background())
		errc <- err
	}()

	snd.Close()
	if err := <-errc; !errors.Is(err, oneshot.ErrAbandoned) {
		t.Errorf("Receive: got error %v, want %v", err, oneshot.ErrAbandoned)
	}

	snd.Close() // safe to repeat
	if snd.Send(true) {
		t.Error("Send after Close: delivery accepted, want refused")
	}
}

func TestReceiverGivesUp(t *testing.T) {
	defer leaktest.Check(t)()

	snd, rcv := oneshot.New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := rcv.Receive(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Receive: got error %v, want %v", err, context.Canceled)
	}

	// The pair is dead: a late delivery is refused and closing has no effect.
	if snd.Send(1) {
		t.Error("Send to a gone receiver: delivery accepted, want refused")
	}
	snd.Close()
}

func TestResolutionWins(t *testing.T) {
	defer leaktest.Check(t)()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // ended before Receive is even called

	snd, rcv := oneshot.New[string]()
	snd.Send("kept")
	if got, err := rcv.Receive(ctx); got != "kept" || err != nil {
		t.Errorf("Receive: got (%q, %v), want (kept, nil)", got, err)
	}

	// Same for abandonment: the resolved outcome wins over the dead context.
	snd2, rcv2 := oneshot.New[string]()
	snd2.Close()
	if _, err := rcv2.Receive(ctx); !errors.Is(err, oneshot.ErrAbandoned) {
		t.Errorf("Receive: got error %v, want %v", err, oneshot.ErrAbandoned)
	}
}

// TestPairStates drives a pair through random sequences of its non-blocking
// transitions and checks each outcome against a reference model.
func TestPairStates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		snd, rcv := oneshot.New[int]()

		dead, cancel := context.WithCancel(context.Background())
		cancel() // Receive with this context reports immediately

		var (
			value     int
			delivered bool
			abandoned bool
			gone      bool
		)
		resolved := func() bool { return delivered || abandoned }

		t.Repeat(map[string]func(*rapid.T){
			"send": func(t *rapid.T) {
				v := rapid.Int().Draw(t, "value")
				ok := snd.Send(v)
				if want := !resolved() && !gone; ok != want {
					t.Fatalf("Send(%d): got %v, want %v", v, ok, want)
				}
				if ok {
					value, delivered = v, true
				}
			},
			"close": func(t *rapid.T) {
				snd.Close()
				if !resolved() && !gone {
					abandoned = true
				}
			},
			"receive": func(t *rapid.T) {
				got, err := rcv.Receive(dead)
				switch {
				case delivered:
					if got != value || err != nil {
						t.Fatalf("Receive: got (%d, %v), want (%d, nil)", got, err, value)
					}
				case abandoned:
					if !errors.Is(err, oneshot.ErrAbandoned) {
						t.Fatalf("Receive: got error %v, want %v", err, oneshot.ErrAbandoned)
					}
				default:
					if !errors.Is(err, context.Canceled) {
						t.Fatalf("Receive: got error %v, want %v", err, context.Canceled)
					}
					gone = true
				}
			},
		})
	})
}
