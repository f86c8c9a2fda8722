// Package source loads project files from disk into the in-memory file set
// the engine consumes. File reading stays outside the engine itself; a
// failed read skips that file and the batch continues.
package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"ctxrank/pkg/types"
)

// DefaultMaxFileSize skips files larger than 1 MiB; they are almost never
// hand-written source.
const DefaultMaxFileSize = 1 << 20

// skipDirs are directory names never worth descending into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
}

// defaultExtensions is the set of source extensions loaded when no filter
// is configured.
var defaultExtensions = map[string]bool{
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
	".py": true, ".go": true,
}

// Loader walks a directory tree and collects source files.
type Loader struct {
	maxSize    int64
	extensions map[string]bool
	log        *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithMaxFileSize overrides the per-file size cap in bytes.
func WithMaxFileSize(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxSize = n
		}
	}
}

// WithExtensions replaces the extension allowlist.
func WithExtensions(exts []string) Option {
	return func(l *Loader) {
		if len(exts) == 0 {
			return
		}
		l.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			l.extensions[strings.ToLower(ext)] = true
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// New builds a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		maxSize:    DefaultMaxFileSize,
		extensions: defaultExtensions,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load walks root and returns every matching file, paths relative to root
// with forward slashes, sorted for determinism. Unreadable files are
// skipped, not fatal.
func (l *Loader) Load(root string) ([]types.SourceFile, error) {
	var files []types.SourceFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			l.log.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && (skipDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || !l.extensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}
		if info, err := d.Info(); err != nil || info.Size() > l.maxSize {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			l.log.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		files = append(files, types.NewSourceFile(filepath.ToSlash(rel), string(content)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
