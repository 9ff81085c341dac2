package cache

// RequestCacher keeps the most recent entries written under a key, newest first.
type RequestCacher interface {
	Write(key string, value []byte) error
	Read(key string) ([]string, error)
}
