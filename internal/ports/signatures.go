package ports

// SignatureStorePort remembers the last successful signature of each task.
type SignatureStorePort interface {
	Get(task string) (string, bool)
	Put(task string, signature string)
	Delete(task string)
	Flush() error
}
