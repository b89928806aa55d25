// Package billyfs adapts a go-billy filesystem to fsys.Filesystem.
// Useful with osfs for chrooted access or memfs in tests.
package billyfs

import (
	"os"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/filegate/filegate/fsys"
)

type FS struct{ b billy.Filesystem }

var _ fsys.Filesystem = FS{}

func New(b billy.Filesystem) FS { return FS{b: b} }

func (f FS) Stat(name string) (os.FileInfo, error) { return f.b.Stat(name) }

func (f FS) ReadFile(name string) ([]byte, error) { return util.ReadFile(f.b, name) }

func (f FS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return util.WriteFile(f.b, name, data, perm)
}

func (f FS) MkdirAll(path string, perm os.FileMode) error {
	return f.b.MkdirAll(path, perm)
}
