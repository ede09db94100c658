package docgen

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/julianshen/autodocs/internal/config"
)

// Scan walks root and returns the text of every file whose extension is in
// cfg.AllowedExtensions. Directories named in cfg.IgnoreDirs are pruned
// before they are entered. Invalid UTF-8 is dropped rather than failing the
// file, and a file that cannot be read is logged and skipped.
func Scan(root string, cfg config.ScanConfig, logger *zap.Logger) (FileMap, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "scan root %q", root), ErrInvalidInput)
	}
	if !info.IsDir() {
		return nil, errors.Mark(errors.Newf("scan root %q is not a directory", root), ErrInvalidInput)
	}

	ignore := toSet(cfg.IgnoreDirs)
	allowed := toSet(cfg.AllowedExtensions)

	logger.Info("scanning directory", zap.String("root", root))

	files := FileMap{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping path", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && ignore[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !isRegularFile(path, d) {
			return nil
		}
		if !allowed[filepath.Ext(d.Name())] {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if shouldSkip(rel, ignore) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("error reading file", zap.String("path", rel), zap.Error(err))
			return nil
		}

		files = append(files, SourceFile{
			Path:    rel,
			Content: strings.ToValidUTF8(string(data), ""),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}

	logger.Info("scan complete", zap.String("root", root), zap.Int("files", len(files)))
	return files, nil
}

// isRegularFile reports whether d is a regular file, following a symlink to
// its target. Symlinked directories are not descended into.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// shouldSkip returns true if any element of the relative path is in the
// ignore set. This also catches ignored names used as file names.
func shouldSkip(relPath string, ignore map[string]bool) bool {
	for _, part := range strings.Split(relPath, "/") {
		if ignore[part] {
			return true
		}
	}
	return false
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
