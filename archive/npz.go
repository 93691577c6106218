package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Entry is one named array of an archive
type Entry struct {
	Name  string
	Array *Array
}

// Save writes all entries into a single .npz file at path, the way
// numpy.savez does: one uncompressed "<name>.npy" member per entry.
// The file is written next to path and renamed into place.
func Save(path string, entries ...Entry) (err error) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Name == "" || e.Array == nil {
			return errors.New("archive entries need a name and an array")
		}
		if seen[e.Name] {
			return errors.Errorf("duplicate archive entry %q", e.Name)
		}
		seen[e.Name] = true
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".npz-*")
	if err != nil {
		return errors.Wrapf(err, "cannot create archive %s", path)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	zw := zip.NewWriter(tmp)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name + ".npy", Method: zip.Store})
		if err != nil {
			return errors.Wrapf(err, "cannot add %s to archive", e.Name)
		}
		if err := WriteNPY(w, e.Array); err != nil {
			return errors.Wrapf(err, "cannot write %s", e.Name)
		}
	}
	if err := zw.Close(); err != nil {
		return errors.Wrapf(err, "cannot finish archive %s", path)
	}
	// CreateTemp makes the file owner-only; the dataset is read by other users
	if err := tmp.Chmod(0644); err != nil {
		return errors.Wrapf(err, "cannot set mode of archive %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "cannot close archive %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "cannot move archive into %s", path)
	}
	return nil
}

// Load reads every array of an .npz file, keyed by name without ".npy"
func Load(path string) (map[string]*Array, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open archive %s", path)
	}
	defer zr.Close()

	arrays := make(map[string]*Array, len(zr.File))
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, ".npy") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "cannot open member %s", f.Name)
		}
		a, err := ReadNPY(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read member %s", f.Name)
		}
		arrays[strings.TrimSuffix(f.Name, ".npy")] = a
	}
	return arrays, nil
}
