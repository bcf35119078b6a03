package aidl

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// IODelegate is how the compiler reaches the file system.
type IODelegate interface {
	ReadFile(name string) ([]byte, error)
	FileExists(name string) bool
	AbsPath(name string) (string, error)
}

// OSDelegate reads from the real file system.
type OSDelegate struct{}

func (OSDelegate) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OSDelegate) FileExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

func (OSDelegate) AbsPath(name string) (string, error) {
	return filepath.Abs(name)
}

// FSDelegate serves files from an fs.FS. Names are slash separated and
// relative to the root of the file system; a leading slash is ignored.
type FSDelegate struct {
	FS fs.FS
}

func (d FSDelegate) clean(name string) string {
	name = path.Clean("/" + filepath.ToSlash(name))
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "."
	}
	return name
}

func (d FSDelegate) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(d.FS, d.clean(name))
}

func (d FSDelegate) FileExists(name string) bool {
	info, err := fs.Stat(d.FS, d.clean(name))
	return err == nil && !info.IsDir()
}

func (d FSDelegate) AbsPath(name string) (string, error) {
	name = d.clean(name)
	if name == "." {
		return "/", nil
	}
	return "/" + name, nil
}

// Overlay serves in-memory contents in front of another delegate, e.g. the
// unsaved buffers of an editor.
type Overlay struct {
	Base IODelegate

	mu    sync.RWMutex
	files map[string][]byte
}

func NewOverlay(base IODelegate) *Overlay {
	return &Overlay{Base: base, files: map[string][]byte{}}
}

func (o *Overlay) key(name string) string {
	if abs, err := o.Base.AbsPath(name); err == nil {
		return abs
	}
	return name
}

func (o *Overlay) Set(name string, content []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files[o.key(name)] = content
}

func (o *Overlay) Delete(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.files, o.key(name))
}

func (o *Overlay) lookup(name string) ([]byte, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	content, ok := o.files[o.key(name)]
	return content, ok
}

func (o *Overlay) ReadFile(name string) ([]byte, error) {
	if content, ok := o.lookup(name); ok {
		return content, nil
	}
	return o.Base.ReadFile(name)
}

func (o *Overlay) FileExists(name string) bool {
	if _, ok := o.lookup(name); ok {
		return true
	}
	return o.Base.FileExists(name)
}

func (o *Overlay) AbsPath(name string) (string, error) {
	return o.Base.AbsPath(name)
}
