package permissions

import "sync"

// pairLocks serializa las operaciones de escritura por clave (customer,
// caregiver). El write es read-modify-write de documento completo, así que
// dos escritores concurrentes sobre el mismo par se pisarían (lost update)
// sin este lock. Los locks no se liberan del mapa: la cardinalidad está
// acotada por la cantidad de pares.
type pairLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[string]*sync.Mutex)}
}

func pairKey(customerID, caregiverID string) string {
	return customerID + "|" + caregiverID
}

// lock toma el mutex de la clave y devuelve el unlock.
func (l *pairLocks) lock(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
