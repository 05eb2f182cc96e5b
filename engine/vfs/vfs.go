package vfs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vesper-engine/vesper/engine/core"
)

type root interface {
	read(name string) ([]byte, bool, error)
	exists(name string) bool
	list(dir string) []string
	describe() string
}

// Filesystem merges one or more directory roots and pak archives behind a
// single read contract. Roots are consulted in the order they were added;
// the first root that has the name wins.
type Filesystem struct {
	roots []root
}

func New() *Filesystem {
	return &Filesystem{}
}

// AddRoot mounts a directory.
func (fs *Filesystem) AddRoot(dir string) *Filesystem {
	fs.roots = append(fs.roots, &dirRoot{base: dir})
	return fs
}

// AddPak mounts a pak archive from disk.
func (fs *Filesystem) AddPak(archivePath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	pak, err := OpenPak(f)
	if err != nil {
		f.Close()
		return err
	}
	core.LogDebug("vfs: mounted pak %s (build %s, %d files)", archivePath, pak.BuildID(), len(pak.index))
	fs.roots = append(fs.roots, &pakRoot{pak: pak, path: archivePath})
	return nil
}

// Mount adds a ready pak archive, for archives that do not live on disk.
func (fs *Filesystem) Mount(pak *Pak) *Filesystem {
	fs.roots = append(fs.roots, &pakRoot{pak: pak, path: "<memory>"})
	return fs
}

// Read returns the contents of the named file from the first root that
// has it. Missing names yield core.ErrSourceNotFound.
func (fs *Filesystem) Read(name string) ([]byte, error) {
	name = normalize(name)
	for _, r := range fs.roots {
		data, ok, err := r.read(name)
		if err != nil {
			return nil, fmt.Errorf("vfs: read %s from %s: %w", name, r.describe(), err)
		}
		if ok {
			return data, nil
		}
	}
	return nil, fmt.Errorf("vfs: %s: %w", name, core.ErrSourceNotFound)
}

// Exists reports whether any root has the named file.
func (fs *Filesystem) Exists(name string) bool {
	name = normalize(name)
	for _, r := range fs.roots {
		if r.exists(name) {
			return true
		}
	}
	return false
}

// ReadDir lists the files under dir across all roots, merged and sorted.
func (fs *Filesystem) ReadDir(dir string) []string {
	dir = normalize(dir)
	seen := make(map[string]struct{})
	var names []string
	for _, r := range fs.roots {
		for _, n := range r.list(dir) {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return path.Clean(strings.ReplaceAll(name, "\\", "/"))
}

type dirRoot struct {
	base string
}

func (d *dirRoot) read(name string) ([]byte, bool, error) {
	full := filepath.Join(d.base, filepath.FromSlash(name))
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (d *dirRoot) exists(name string) bool {
	_, err := os.Stat(filepath.Join(d.base, filepath.FromSlash(name)))
	return err == nil
}

func (d *dirRoot) list(dir string) []string {
	full := filepath.Join(d.base, filepath.FromSlash(dir))
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, path.Join(dir, e.Name()))
		}
	}
	return names
}

func (d *dirRoot) describe() string {
	return "dir:" + d.base
}

type pakRoot struct {
	pak  *Pak
	path string
}

func (p *pakRoot) read(name string) ([]byte, bool, error) {
	if !p.pak.Contains(name) {
		return nil, false, nil
	}
	data, err := p.pak.ReadAll(name)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (p *pakRoot) exists(name string) bool {
	return p.pak.Contains(name)
}

func (p *pakRoot) list(dir string) []string {
	var names []string
	for _, n := range p.pak.Names() {
		if path.Dir(n) == dir {
			names = append(names, n)
		}
	}
	return names
}

func (p *pakRoot) describe() string {
	return "pak:" + p.path
}
