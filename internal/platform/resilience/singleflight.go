package resilience

import "sync"

type flightCall[T any] struct {
	wg  sync.WaitGroup
	val T
	err error
}

// Group deduplicates concurrent calls that share a key: the first caller
// runs fn and every caller blocked on the same key receives its result.
type Group[T any] struct {
	mu    sync.Mutex
	calls map[string]*flightCall[T]
}

// Do returns the value and error of fn for key. The boolean reports whether
// the result was shared with another in-flight caller.
func (g *Group[T]) Do(key string, fn func() (T, error)) (T, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flightCall[T])
	}
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &flightCall[T]{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	c.wg.Done()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	return c.val, c.err, false
}
