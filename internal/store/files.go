package store

import (
	stdpath "path"
	"path/filepath"
	"strings"

	"github.com/hack-pad/hackpadfs"
	osfs "github.com/hack-pad/hackpadfs/os"

	"github.com/kittclouds/wikiqa/internal/errors"
)

// files resolves caller paths against a hackpadfs.FS. With no FS supplied
// the host filesystem is used and paths are OS paths.
type files struct {
	fs   hackpadfs.FS
	host *osfs.FS
}

func newFiles(fsys hackpadfs.FS) files {
	if fsys != nil {
		return files{fs: fsys}
	}
	host := osfs.NewFS()
	return files{fs: host, host: host}
}

// resolve turns a caller path into a path valid for f.fs.
func (f files) resolve(p string) (string, error) {
	if f.host != nil {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", errors.Wrapf(err, "resolve %s", p)
		}
		return f.host.FromOSPath(abs)
	}
	p = stdpath.Clean(strings.TrimPrefix(filepath.ToSlash(p), "/"))
	if p == "." || p == "" {
		return "", errors.Newf("invalid path %q", p)
	}
	return p, nil
}

// mkdirParent creates the parent directory of an FS path.
func (f files) mkdirParent(fsPath string) error {
	dir := stdpath.Dir(fsPath)
	if dir == "." || dir == "/" {
		return nil
	}
	if err := hackpadfs.MkdirAll(f.fs, dir, 0o755); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}
	return nil
}

func (f files) read(fsPath string) ([]byte, error) {
	return hackpadfs.ReadFile(f.fs, fsPath)
}

func (f files) write(fsPath string, data []byte) error {
	return hackpadfs.WriteFullFile(f.fs, fsPath, data, 0o644)
}

func (f files) exists(fsPath string) (bool, error) {
	_, err := hackpadfs.Stat(f.fs, fsPath)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, hackpadfs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
