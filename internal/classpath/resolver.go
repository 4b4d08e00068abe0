package classpath

import (
	"fmt"
	"strings"
)

// Resolver looks up classes across an ordered list of directories and
// jar/zip archives, caching parsed results by internal name (spec.md
// §4.3 "Class-path resolver"). The first entry containing a match
// wins, matching javac's own classpath precedence.
type Resolver struct {
	sources []source
	cache   map[string]*ClassInfo
}

// NewResolver creates a resolver with no search-path entries; use Add
// to populate it before the first Find.
func NewResolver() *Resolver {
	return &Resolver{cache: make(map[string]*ClassInfo)}
}

// Add registers a directory or .jar/.zip archive as a search-path
// entry, in the order later entries are searched.
func (r *Resolver) Add(path string) error {
	if strings.HasSuffix(path, ".jar") || strings.HasSuffix(path, ".zip") {
		src, err := newArchiveSource(path)
		if err != nil {
			return err
		}
		r.sources = append(r.sources, src)
		return nil
	}
	r.sources = append(r.sources, newDirSource(path))
	return nil
}

// Find resolves an internal class name (e.g. "java/util/List") to its
// parsed shape, searching the registered sources in order and caching
// the result. It returns (nil, nil) if no source contains the class.
func (r *Resolver) Find(internalName string) (*ClassInfo, error) {
	if info, ok := r.cache[internalName]; ok {
		return info, nil
	}
	for _, src := range r.sources {
		data, ok, err := src.find(internalName)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		info, err := parseClassFile(data)
		if err != nil {
			return nil, fmt.Errorf("classpath: %s: %w", internalName, err)
		}
		r.cache[internalName] = info
		return info, nil
	}
	return nil, nil
}

// Close releases every open archive handle and memory mapping. A
// resolver must not be used after Close.
func (r *Resolver) Close() error {
	var firstErr error
	for _, src := range r.sources {
		if err := src.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
