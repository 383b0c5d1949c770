package spritegen

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/bodgit/spritegen/crc32"
	"github.com/bodgit/spritegen/manifest"
)

func crcFile(file string) (uint32, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := crc32.New()
	if _, err = io.Copy(h, f); err != nil {
		return 0, err
	}

	return h.Sum32(), nil
}

// writeFileAtomic writes b to a temporary file next to file and renames it
// into place, so readers only ever see a complete file.
func writeFileAtomic(file string, b []byte) (err error) {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := ioutil.TempFile(dir, "."+filepath.Base(file)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(b); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Chmod(0644); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), file)
}

func readManifest(dir string) (*manifest.DB, error) {
	db := manifest.New()

	b, err := ioutil.ReadFile(filepath.Join(dir, manifest.Filename))
	switch {
	case os.IsNotExist(err):
		return db, nil
	case err != nil:
		return nil, err
	}

	if err := db.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return db, nil
}

func writeManifest(dir string, db *manifest.DB) error {
	b, err := db.MarshalBinary()
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, manifest.Filename), b)
}
