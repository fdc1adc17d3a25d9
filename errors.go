package stripemap

import "fmt"

// KeyNotFoundError is the panic value raised by MustFind when the
// requested key is absent. It is the one place this map's contract
// signals failure by panic rather than by a boolean return, mirroring
// the throwing find(k) -> V overload of the map this package is modeled
// on.
type KeyNotFoundError struct {
	Key any
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("stripemap: key not found: %v", e.Key)
}
