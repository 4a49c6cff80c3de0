// Package files has common file handling utilities.
package files

import "os"

// Exists returns true if the given path exists; it may be a file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
