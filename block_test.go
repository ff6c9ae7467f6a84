package pool

import "testing"

func TestBlockStoreReusesFreedBlock(t *testing.T) {
	s := newBlockStore(Config{MinFree: 8, MinAlloc: 64})
	b1 := s.acquire(32)
	s.release(b1)
	b2 := s.acquire(16)
	if b2 != b1 {
		t.Fatalf("expected the freed block to be reused, got a fresh allocation")
	}
	if b2.first != 0 {
		t.Fatalf("reused block should have first reset to 0, got %d", b2.first)
	}
}

func TestBlockStoreSkipsTooSmallFreeBlocks(t *testing.T) {
	s := newBlockStore(Config{MinFree: 8, MinAlloc: 64})
	small := newBlock(16)
	s.release(small)
	got := s.acquire(64)
	if got == small {
		t.Fatalf("a block too small to satisfy minSize+MinFree must not be reused")
	}
}

func TestBlockStoreDebugFillDetectsCorruption(t *testing.T) {
	s := newBlockStore(Config{MinFree: 8, MinAlloc: 64, DebugFill: true})
	b := s.acquire(32)
	s.release(b)
	b.buf[0] ^= 0xFF // corrupt the stamped sentinel
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic from the sentinel mismatch")
		}
		if _, ok := r.(*CorruptionError); !ok {
			t.Fatalf("expected *CorruptionError, got %T", r)
		}
	}()
	s.acquire(16)
}

func TestBlockStoreBytesInFreeBlocks(t *testing.T) {
	s := newBlockStore(Config{MinFree: 8, MinAlloc: 64})
	if s.bytesInFreeBlocks() != 0 {
		t.Fatalf("expected empty free list to report 0 bytes")
	}
	b1 := newBlock(64)
	b2 := newBlock(128)
	b1.next = b2
	s.release(b1)
	if got := s.bytesInFreeBlocks(); got != 192 {
		t.Fatalf("expected 192 bytes in free blocks, got %d", got)
	}
}
