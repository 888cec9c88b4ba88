package service

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Wyydra/teleguild/internal/core/domain"
)

func TestRegistryReserveIsSymmetricAndExclusive(t *testing.T) {
	r := NewSessionRegistry()
	a, b, c := domain.NewRoomID(), domain.NewRoomID(), domain.NewRoomID()

	if !r.TryReserve(a, b) {
		t.Fatalf("first reservation should succeed")
	}
	if peer, ok := r.PeerOf(b); !ok || peer != a {
		t.Fatalf("PeerOf(b) = %v, %v", peer, ok)
	}
	if r.TryReserve(a, c) || r.TryReserve(c, b) {
		t.Fatalf("engaged rooms must not be reserved again")
	}
	if r.TryReserve(c, c) {
		t.Fatalf("a room cannot be paired with itself")
	}

	r.Release(a, b)
	if r.Len() != 0 {
		t.Fatalf("Len() = %d after release", r.Len())
	}
	r.Release(a, b)
	if !r.TryReserve(a, c) {
		t.Fatalf("released room should be reservable")
	}
}

func TestRegistryReleaseIgnoresForeignPairs(t *testing.T) {
	r := NewSessionRegistry()
	a, b, c := domain.NewRoomID(), domain.NewRoomID(), domain.NewRoomID()
	r.TryReserve(a, b)

	r.Release(a, c)
	if _, ok := r.PeerOf(a); !ok {
		t.Fatalf("release of a pair that is not reserved must not free a")
	}
}

func TestRegistryConcurrentReservations(t *testing.T) {
	r := NewSessionRegistry()
	shared := domain.NewRoomID()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.TryReserve(domain.NewRoomID(), shared) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins.Load())
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
}
