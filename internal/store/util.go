package store

import (
	"fmt"
	"os"
)

// readFileOrEmpty reads path, returning a nil slice (not an error) if the
// file does not yet exist.
func readFileOrEmpty(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
 if os.IsNotExist(err) {
 return nil, nil
 }
 return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return data, nil
}
