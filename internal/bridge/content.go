package bridge

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathTraversal reports a unit path that resolves outside the manifest
// directory. The parser's shallow check already rejects obvious escapes;
// this is the strict, filesystem-resolved guard at read time.
var ErrPathTraversal = errors.New("path escapes manifest directory")

// ErrNotFound reports a unit path that does not exist on disk.
var ErrNotFound = errors.New("resource file not found")

// Content is the body of a unit file. Data holds UTF-8 text, or base64 when
// Binary is set.
type Content struct {
	Data   string
	Binary bool
}

// Read loads the content of a unit file relative to the manifest directory.
// The resolved path must stay inside manifestDir. The MIME type decides
// whether the body is returned as text or base64.
func Read(manifestDir, unitPath, mime string) (Content, error) {
	root, err := filepath.Abs(manifestDir)
	if err != nil {
		return Content{}, fmt.Errorf("resolving manifest directory: %w", err)
	}
	if real, err := filepath.EvalSymlinks(root); err == nil {
		root = real
	}

	resolved := filepath.Clean(filepath.Join(root, filepath.FromSlash(unitPath)))
	if resolved != root && !strings.HasPrefix(resolved, root+string(filepath.Separator)) {
		return Content{}, fmt.Errorf("%w: %s", ErrPathTraversal, unitPath)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return Content{}, fmt.Errorf("%w: %s", ErrNotFound, unitPath)
		}
		return Content{}, fmt.Errorf("reading %s: %w", unitPath, err)
	}

	if IsBinaryMime(mime) {
		return Content{Data: base64.StdEncoding.EncodeToString(data), Binary: true}, nil
	}
	return Content{Data: string(data)}, nil
}
