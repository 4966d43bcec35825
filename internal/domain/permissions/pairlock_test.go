package permissions

import (
	"sync"
	"testing"
)

func TestPairLocks_SerializesSameKey(t *testing.T) {
	locks := newPairLocks()

	const n = 50
	counter := 0

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			unlock := locks.lock(pairKey("cust-1", "cg-1"))
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != n {
		t.Fatalf("expected %d increments under lock, got %d", n, counter)
	}
}

func TestPairLocks_DistinctKeysGetDistinctMutexes(t *testing.T) {
	locks := newPairLocks()

	unlockA := locks.lock(pairKey("cust-1", "cg-1"))
	// Si compartieran mutex, este lock se quedaría bloqueado.
	unlockB := locks.lock(pairKey("cust-1", "cg-2"))

	unlockA()
	unlockB()

	if len(locks.locks) != 2 {
		t.Fatalf("expected 2 keys in lock map, got %d", len(locks.locks))
	}
}
