package completion

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkoukk/tiktoken-go"
)

func TestTiktokenCounterLoadDoesNotBlockOtherModels(t *testing.T) {
	slow := make(chan struct{})
	c := NewTiktokenCounter()
	c.load = func(model string) (*tiktoken.Tiktoken, error) {
		if model == "slow-model" {
			<-slow
		}
		return nil, errors.New("no encoding")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Count("slow-model", "text")
	}()

	counted := make(chan bool, 1)
	go func() {
		_, ok := c.Count("other-model", "text")
		counted <- ok
	}()
	select {
	case ok := <-counted:
		if ok {
			t.Fatalf("expected no count for a model without an encoding")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("count for another model waited behind a pending load")
	}

	close(slow)
	<-done
}

func TestTiktokenCounterCachesFailures(t *testing.T) {
	var loads atomic.Int32
	c := NewTiktokenCounter()
	c.load = func(string) (*tiktoken.Tiktoken, error) {
		loads.Add(1)
		return nil, errors.New("no encoding")
	}
	for i := 0; i < 3; i++ {
		if _, ok := c.Count("unknown", "x"); ok {
			t.Fatalf("expected no count")
		}
	}
	if n := loads.Load(); n != 1 {
		t.Fatalf("loads=%d", n)
	}
}
