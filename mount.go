package hoydedata

import (
	"archive/zip"
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// A Mounter makes the contents of an archive readable as ordinary files.
type Mounter interface {
	// Mount makes the contents of the archive at archivePath available below
	// the existing directory dir.
	Mount(archivePath, dir string) error
	// Unmount releases a directory previously passed to Mount.
	Unmount(dir string) error
}

// A FuseZipMounter mounts zip archives read-only with fuse-zip.
type FuseZipMounter struct {
	FuseZip    string // Path to fuse-zip, default "fuse-zip".
	FuserMount string // Path to fusermount, default "fusermount".
}

// An ExtractMounter extracts zip archives into the mount directory. It does
// not require FUSE, at the cost of disk space.
type ExtractMounter struct{}

func (m FuseZipMounter) Mount(archivePath, dir string) error {
	return run(cmp.Or(m.FuseZip, "fuse-zip"), "-r", archivePath, dir)
}

func (m FuseZipMounter) Unmount(dir string) error {
	return run(cmp.Or(m.FuserMount, "fusermount"), "-u", dir)
}

func (ExtractMounter) Mount(archivePath, dir string) error {
	r, err := zip.OpenReader(archivePath)
	if r != nil {
		defer r.Close()
	}
	if err != nil {
		return err
	}

	for _, f := range r.File {
		if !filepath.IsLocal(f.Name) {
			return fmt.Errorf("%s: %s: non-local name", archivePath, f.Name)
		}
		name := filepath.Join(dir, filepath.FromSlash(f.Name))
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(name, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(f, name); err != nil {
			return fmt.Errorf("%s: %s: %w", archivePath, f.Name, err)
		}
	}
	return nil
}

func (ExtractMounter) Unmount(dir string) error {
	return os.RemoveAll(dir)
}

func extractFile(f *zip.File, name string) (err error) {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	w, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()
	_, err = io.Copy(w, rc)
	return err
}

// run runs the command name with args, including its output in any error.
func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		if output.Len() != 0 {
			return fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(output.Bytes()))
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
