package pool

import "sync"

var (
	permanentOnce sync.Once
	permanentPool *Pool
	permanentCfg  Config
)

// InitAlloc initializes the package-wide allocator state — the free
// list, the permanent pool, and its tunables — and returns the
// permanent pool, the parent of every other pool an embedding server
// creates. It is safe to call more than once; only the first call's
// Config takes effect.
func InitAlloc(cfg Config) *Pool {
	permanentOnce.Do(func() {
		permanentCfg = cfg
		globalStore.mu.Lock()
		globalStore.cfg = cfg
		globalStore.mu.Unlock()
		permanentPool = newPoolIn(globalStore, nil)
	})
	return permanentPool
}

// PermanentPool returns the pool created by the first call to
// InitAlloc, or nil if InitAlloc has not been called.
func PermanentPool() *Pool {
	return permanentPool
}

// BytesInFreeBlocks reports the bytes sitting unused on the process-wide
// free list, the same free list every pool in every tree draws its
// blocks from regardless of how it was rooted.
func BytesInFreeBlocks() int {
	return globalStore.bytesInFreeBlocks()
}
