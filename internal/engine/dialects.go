package engine

import (
	"context"
	"encoding/json"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DialectCache memoizes the engine's supported-dialect list for the lifetime
// of the process. Fetching the list means spawning the engine, so it is done
// at most once; overlapping first calls are collapsed into a single
// invocation. A failed fetch leaves the cache unpopulated so a later call
// retries.
type DialectCache struct {
	runner *Runner

	mu       sync.RWMutex
	dialects []string

	group singleflight.Group
}

// NewDialectCache creates an empty cache backed by the given runner.
func NewDialectCache(runner *Runner) *DialectCache {
	return &DialectCache{runner: runner}
}

// Dialects returns the engine's supported dialect names, invoking the
// engine's dialects subcommand on first use. Callers must not modify the
// returned slice.
func (c *DialectCache) Dialects(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	cached := c.dialects
	c.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := c.group.Do("dialects", func() (any, error) {
		// Re-check under the group: another caller may have just populated.
		c.mu.RLock()
		cached := c.dialects
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		dialects, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.dialects = dialects
		c.mu.Unlock()
		return dialects, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// Populated reports whether the dialect list has been fetched.
func (c *DialectCache) Populated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dialects != nil
}

// Reset clears the cache so the next call re-fetches. There is no automatic
// expiry; the list only changes when the engine itself is upgraded.
func (c *DialectCache) Reset() {
	c.mu.Lock()
	c.dialects = nil
	c.mu.Unlock()
}

func (c *DialectCache) fetch(ctx context.Context) ([]string, error) {
	res, err := c.runner.Invoke(ctx, []string{"dialects"}, "")
	if err != nil {
		return nil, &DialectError{Reason: "invocation failed", Err: err}
	}
	if res.ExitCode != 0 {
		return nil, &DialectError{
			Reason: "engine exited non-zero",
			Err:    &ExecError{Args: []string{"dialects"}, ExitCode: res.ExitCode, Diagnostic: res.Output},
		}
	}

	var dialects []string
	if err := json.Unmarshal([]byte(res.Output), &dialects); err != nil {
		return nil, &DialectError{Reason: "output is not a JSON array of strings", Err: err}
	}
	if len(dialects) == 0 {
		return nil, &DialectError{Reason: "engine reported no dialects"}
	}
	return dialects, nil
}
