// Package filex resolves directories and files under a served root.
package filex

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// ResolveDir returns dirName as an absolute path, relative names being taken
// from the working directory. ok is false when the directory does not exist.
func ResolveDir(dirName string) (dir string, ok bool, err error) {
	dir, err = filepath.Abs(dirName)
	if err != nil {
		return "", false, fmt.Errorf("abs %s: %w", dirName, err)
	}

	fi, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return dir, false, nil
	case err != nil:
		return "", false, fmt.Errorf("stat %s: %w", dir, err)
	case !fi.IsDir():
		return "", false, fmt.Errorf("%s is not a directory", dir)
	}
	return dir, true, nil
}

// RegularFile maps a slash-separated URL path onto root and reports whether a
// regular file exists there. The path is cleaned first, so ".." segments can
// never escape root.
func RegularFile(root, urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	full := filepath.Join(root, filepath.FromSlash(clean))

	fi, err := os.Stat(full)
	if err != nil || !fi.Mode().IsRegular() {
		return "", false
	}
	return full, true
}
