package generator

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
)

var (
	pathLocksMu sync.Mutex
	pathLocks   = map[string]*sync.Mutex{}
)

type heldLocksKey struct{}

// lockKey compares paths after filepath.Abs, so "src/a.js" and
// "./src/a.js" share a lock.
func lockKey(path string) string {
	key, err := filepath.Abs(path)
	if err != nil {
		key = filepath.Clean(path)
	}
	return key
}

func pathMutex(key string) *sync.Mutex {
	pathLocksMu.Lock()
	defer pathLocksMu.Unlock()

	mu, ok := pathLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		pathLocks[key] = mu
	}
	return mu
}

// LockPath acquires the process-wide lock for path and returns its release
// function.
func LockPath(path string) (unlock func()) {
	mu := pathMutex(lockKey(path))
	mu.Lock()
	return mu.Unlock
}

// lockPaths acquires the locks for every path in sorted key order, so two
// callers locking overlapping sets cannot deadlock. The returned context
// records the held keys for lockHeld.
func lockPaths(ctx context.Context, paths []string) (context.Context, func()) {
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		keys = append(keys, lockKey(p))
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)

	mus := make([]*sync.Mutex, len(keys))
	held := make(map[string]bool, len(keys))
	for i, k := range keys {
		mus[i] = pathMutex(k)
		mus[i].Lock()
		held[k] = true
	}

	return context.WithValue(ctx, heldLocksKey{}, held), func() {
		for i := len(mus) - 1; i >= 0; i-- {
			mus[i].Unlock()
		}
	}
}

// lockUnlessHeld is LockPath, except that it does nothing when ctx comes
// from an Execute that already holds the lock for path.
func lockUnlessHeld(ctx context.Context, path string) (unlock func()) {
	if held, ok := ctx.Value(heldLocksKey{}).(map[string]bool); ok && held[lockKey(path)] {
		return func() {}
	}
	return LockPath(path)
}
