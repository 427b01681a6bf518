package transfer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dropzone/internal/util"

	"github.com/spf13/afero"
)

// CopyTree copies src into dst, which must not exist yet, keeping the directory
// layout, file modes and modification times. Symbolic links are replaced by
// copies of what they point to. A failed copy removes whatever part of dst it
// created and never touches src.
func CopyTree(ctx context.Context, fsys afero.Fs, src, dst string) (err error) {
	exists, err := afero.Exists(fsys, dst)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", dst, err)
	}
	if exists {
		return fmt.Errorf("copy destination %s: %w", dst, fs.ErrExist)
	}

	defer func() {
		if err != nil {
			_ = util.RemoveIfExists(fsys, dst)
		}
	}()

	return util.Walk(fsys, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.IsDir():
			if err := fsys.MkdirAll(target, info.Mode().Perm()|0700); err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
			return nil
		case info.Mode().IsRegular():
			return copyFile(fsys, path, target, info)
		default:
			return fmt.Errorf("cannot copy %s: unsupported file type %s", path, info.Mode().Type())
		}
	})
}

func copyFile(fsys afero.Fs, src, dst string, info os.FileInfo) error {
	in, err := fsys.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open src: %w", err)
	}

	defer func(in afero.File) {
		_ = in.Close()
	}(in)

	if err := util.AtomicWrite(fsys, dst, in, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}

	if err := fsys.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to keep times on %s: %w", dst, err)
	}

	return nil
}

// MoveTree relocates src to dst. When a plain rename is impossible, for example
// across devices, the tree is copied in full and only then removed from src.
func MoveTree(ctx context.Context, fsys afero.Fs, src, dst string) error {
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create parent dir: %w", err)
	}

	renameErr := fsys.Rename(src, dst)
	if renameErr == nil {
		return nil
	}

	if _, err := fsys.Stat(src); err != nil {
		return fmt.Errorf("failed to move %s: %w", src, renameErr)
	}

	if err := CopyTree(ctx, fsys, src, dst); err != nil {
		return errors.Join(fmt.Errorf("failed to move %s: %w", src, renameErr), err)
	}

	if err := fsys.RemoveAll(src); err != nil {
		return fmt.Errorf("copied %s to %s but failed to remove source: %w", src, dst, err)
	}

	return nil
}
