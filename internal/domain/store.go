package domain

// Storage is a durable key-value store of named slots. Each slot holds one
// serialized document.
type Storage interface {
	// GetSlot returns an error matching ErrNotFound when the slot was never written.
	GetSlot(name string) ([]byte, error)
	PutSlot(name string, value []byte) error
	Close() error
}
