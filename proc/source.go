// Package proc reads raw counters from the Linux process information
// interface. Every reader degrades to zero values instead of failing; the
// caller decides what a missing value means.
package proc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/procfs"
)

// DefaultRoot is where procfs is normally mounted.
const DefaultRoot = procfs.DefaultMountPoint

// Source is the /proc backed counter source. It is safe for concurrent use.
type Source struct {
	fs     procfs.FS
	root   string
	users  *UserResolver
	pageKB uint64
}

// NewSource opens the procfs mounted at root.
func NewSource(root string) (*Source, error) {
	if root == "" {
		root = DefaultRoot
	}
	fs, err := procfs.NewFS(root)
	if err != nil {
		return nil, fmt.Errorf("open procfs at %s: %w", root, err)
	}
	return &Source{
		fs:     fs,
		root:   root,
		users:  NewUserResolver(nil),
		pageKB: uint64(os.Getpagesize() / 1024),
	}, nil
}

// WithUserResolver replaces the uid lookup, mainly for tests.
func (s *Source) WithUserResolver(r *UserResolver) *Source {
	s.users = r
	return s
}

func (s *Source) path(elem ...string) string {
	return filepath.Join(append([]string{s.root}, elem...)...)
}
