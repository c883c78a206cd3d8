package memo

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Get when the key is absent and no fallback is configured.
var ErrKeyNotFound = errors.New("memo: key not found")

func keyNotFound(key Key) error {
	return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
}
