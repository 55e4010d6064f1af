package resilience

import (
	"testing"
	"time"
)

func TestGroupSharesInFlightResult(t *testing.T) {
	var g Group[int]
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		v, err, _ := g.Do("key", func() (int, error) {
			close(started)
			<-release
			return 42, nil
		})
		if err != nil || v != 42 {
			t.Errorf("leader got %d, %v", v, err)
		}
	}()

	<-started
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()

	// Joins the in-flight call: the leader cannot finish until release
	// closes, which happens while this caller is blocked inside Do.
	v, err, shared := g.Do("key", func() (int, error) {
		t.Error("joiner executed fn")
		return 0, nil
	})
	if err != nil {
		t.Fatalf("joiner: %v", err)
	}
	if v != 42 {
		t.Fatalf("joiner got %d, want 42", v)
	}
	if !shared {
		t.Fatal("joiner did not share the in-flight result")
	}
}

func TestGroupDistinctKeysDoNotShare(t *testing.T) {
	var g Group[string]

	a, _, shared := g.Do("a", func() (string, error) { return "a", nil })
	if shared {
		t.Fatal("first call reported shared")
	}
	b, _, _ := g.Do("b", func() (string, error) { return "b", nil })

	if a != "a" || b != "b" {
		t.Fatalf("got %q/%q", a, b)
	}
}

func TestGroupRunsAgainAfterCompletion(t *testing.T) {
	var g Group[int]
	calls := 0
	fn := func() (int, error) { calls++; return calls, nil }

	first, _, _ := g.Do("key", fn)
	second, _, _ := g.Do("key", fn)

	if first != 1 || second != 2 {
		t.Fatalf("got %d/%d, want 1/2", first, second)
	}
}
