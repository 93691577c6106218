package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"

	"datasetprep/logging"

	"github.com/pkg/errors"
)

// ListImageFiles returns every regular file under root whose base name
// matches pattern, in lexical walk order. Unreadable subdirectories are
// logged and skipped; an unreadable root is returned as an error together
// with nothing listed.
func ListImageFiles(root, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, errors.Wrapf(err, "bad file pattern %q", pattern)
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logging.LogWarning("Cannot access %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot walk %s", root)
	}
	return paths, nil
}

// LastFolder returns the name of the immediate parent directory of path
func LastFolder(path string) string {
	return filepath.Base(filepath.Dir(path))
}

// OutputPath maps a source path under inDir onto outDir. With
// groupByLastFolder the relative directory is replaced by the immediate
// parent folder name alone, flattening intermediate structure.
func OutputPath(path, inDir, outDir string, groupByLastFolder bool) (string, error) {
	if groupByLastFolder {
		return filepath.Join(outDir, LastFolder(path), filepath.Base(path)), nil
	}
	rel, err := filepath.Rel(inDir, path)
	if err != nil {
		return "", errors.Wrapf(err, "%s is not under %s", path, inDir)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("%s is not under %s", path, inDir)
	}
	return filepath.Join(outDir, rel), nil
}

// ShortenPath drops the first path component, for compact reports
func ShortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= 1 {
		return path
	}
	return filepath.FromSlash(strings.Join(parts[1:], "/"))
}

// IsJPGPath checks the lower-cased suffix the delete step requires
func IsJPGPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".jpg")
}
