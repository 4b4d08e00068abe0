package classpath

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	mmap "github.com/edsrzf/mmap-go"
)

// source is one classpath search-path entry: a directory tree of
// loose .class files, or a jar/zip archive of them (spec.md §4.3
// "Search path").
type source interface {
	// find returns the raw bytes of internalName+".class", or
	// ok=false if this entry doesn't contain it.
	find(internalName string) (data []byte, ok bool, err error)
	close() error
}

// dirSource is a directory-tree classpath entry. Each class file is
// memory-mapped on first lookup rather than read into a heap buffer,
// following the teacher pack's large-binary-input convention
// (saferwall-pe/file.go's File.New mmaps the whole PE rather than
// os.ReadFile-ing it).
type dirSource struct {
	root    string
	mapped  []mmap.MMap // kept open until close(), so returned []byte stays valid
}

func newDirSource(root string) *dirSource {
	return &dirSource{root: root}
}

func (d *dirSource) find(internalName string) ([]byte, bool, error) {
	path := filepath.Join(d.root, filepath.FromSlash(internalName)+".class")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, false, err
	}
	if fi.Size() == 0 {
		return nil, true, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, false, fmt.Errorf("classpath: mmap %s: %w", path, err)
	}
	d.mapped = append(d.mapped, m)
	return []byte(m), true, nil
}

func (d *dirSource) close() error {
	var firstErr error
	for _, m := range d.mapped {
		if err := m.Unmap(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	d.mapped = nil
	return firstErr
}

// archiveSource is a jar or zip classpath entry.
type archiveSource struct {
	path string
	zr   *zip.ReadCloser
	byName map[string]*zip.File
}

func newArchiveSource(path string) (*archiveSource, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("classpath: open archive %s: %w", path, err)
	}
	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byName[f.Name] = f
	}
	return &archiveSource{path: path, zr: zr, byName: byName}, nil
}

func (a *archiveSource) find(internalName string) ([]byte, bool, error) {
	entry, ok := a.byName[internalName+".class"]
	if !ok {
		return nil, false, nil
	}
	rc, err := entry.Open()
	if err != nil {
		return nil, false, fmt.Errorf("classpath: open %s in %s: %w", entry.Name, a.path, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("classpath: read %s in %s: %w", entry.Name, a.path, err)
	}
	return data, true, nil
}

func (a *archiveSource) close() error {
	return a.zr.Close()
}
