package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

var ErrSymlinkLoop = errors.New("symbolic link loop")

// Walk is afero.Walk with symbolic links followed. fn receives the logical
// path under root and the info of whatever the path resolves to, so a linked
// directory is descended into and a linked file reports the target's size and
// time. A link that cannot be resolved is passed to fn as an error.
func Walk(fsys afero.Fs, root string, fn filepath.WalkFunc) error {
	info, err := fsys.Stat(root)
	if err != nil {
		return fn(root, nil, err)
	}

	err = walk(fsys, root, info, fn, nil)
	if errors.Is(err, filepath.SkipDir) || errors.Is(err, filepath.SkipAll) {
		return nil
	}
	return err
}

func walk(fsys afero.Fs, path string, info os.FileInfo, fn filepath.WalkFunc, parents []os.FileInfo) error {
	if info.IsDir() {
		for _, p := range parents {
			if os.SameFile(p, info) {
				return fmt.Errorf("%s: %w", path, ErrSymlinkLoop)
			}
		}
	}

	if err := fn(path, info, nil); err != nil {
		if info.IsDir() && errors.Is(err, filepath.SkipDir) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := afero.ReadDir(fsys, path)
	if err != nil {
		return fn(path, info, err)
	}

	parents = append(parents, info)
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())

		resolved, err := fsys.Stat(child)
		if err != nil {
			if err := fn(child, entry, err); err != nil && !errors.Is(err, filepath.SkipDir) {
				return err
			}
			continue
		}

		if err := walk(fsys, child, resolved, fn, parents); err != nil {
			return err
		}
	}

	return nil
}
