package storage

// Store is a durable key-value slot. Values are opaque blobs; the tracker
// keeps its whole habit collection under a single key.
type Store interface {
	Get(key string) (val []byte, found bool, err error)
	Put(key string, val []byte) error
	Close() error
}
