package sorter

// Trash is a reversible delete. Nothing in the engine removes a file
// permanently; every disposal routes through here so it can be undone.
type Trash interface {
	Put(path string) error
}
