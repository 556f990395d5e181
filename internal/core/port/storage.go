package port

// Storage is the raw string key/value store backing session persistence. The
// production implementation writes a state file; tests swap in a memory fake.
// Each call is atomic at the API level; the store does no cross-process locking.
type Storage interface {
	// Get returns the raw value and whether the key exists.
	Get(key string) (string, bool)
	// Set writes the raw value for key.
	Set(key, value string) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error
}

// Navigator receives redirect requests from layers that would, in a browser,
// change the current location (401 handling, guard fallbacks). The CLI maps
// these to user-facing hints.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

// Navigate calls the underlying function.
func (f NavigatorFunc) Navigate(path string) { f(path) }
