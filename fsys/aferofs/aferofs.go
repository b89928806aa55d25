// Package aferofs adapts an afero filesystem to fsys.Filesystem.
package aferofs

import (
	"os"

	"github.com/spf13/afero"

	"github.com/filegate/filegate/fsys"
)

type FS struct{ a afero.Fs }

var _ fsys.Filesystem = FS{}

func New(a afero.Fs) FS { return FS{a: a} }

func (f FS) Stat(name string) (os.FileInfo, error) { return f.a.Stat(name) }

func (f FS) ReadFile(name string) ([]byte, error) { return afero.ReadFile(f.a, name) }

func (f FS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return afero.WriteFile(f.a, name, data, perm)
}

func (f FS) MkdirAll(path string, perm os.FileMode) error {
	return f.a.MkdirAll(path, perm)
}
