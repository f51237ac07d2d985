package storage

// Entity is anything persistable in the key-value store. StorageKey must be
// stable for the entity's lifetime; StorageIndexes lists secondary keys
// whose values point back at the primary key.
type Entity interface {
	StorageKey() string
	StorageIndexes() []string
	MarshalStorage() ([]byte, error)
	UnmarshalStorage(data []byte) error
}
