package ssh

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/sftp"
)

// UploadDir copies the tree under localDir so that remoteDir mirrors it.
// Missing remote directories are created; existing files are overwritten.
func (s *Session) UploadDir(ctx context.Context, localDir, remoteDir string) error {
	sc, err := s.sftpClient()
	if err != nil {
		return err
	}

	info, err := os.Stat(localDir)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", localDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", localDir)
	}

	return filepath.WalkDir(localDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return err
		}
		target := path.Join(remoteDir, filepath.ToSlash(rel))

		if d.IsDir() {
			if err := sc.MkdirAll(target); err != nil {
				return fmt.Errorf("failed to create remote directory %s: %w", target, err)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return uploadFile(sc, p, target)
	})
}

func uploadFile(sc *sftp.Client, local, remote string) error {
	src, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", local, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := sc.Create(remote)
	if err != nil {
		return fmt.Errorf("failed to create remote file %s: %w", remote, err)
	}

	if _, err := dst.ReadFrom(src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to upload %s: %w", local, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to close remote file %s: %w", remote, err)
	}
	if info, err := src.Stat(); err == nil {
		_ = sc.Chmod(remote, info.Mode().Perm())
	}
	return nil
}

// DownloadDir copies the tree under remoteDir so that localDir mirrors it.
func (s *Session) DownloadDir(ctx context.Context, remoteDir, localDir string) error {
	sc, err := s.sftpClient()
	if err != nil {
		return err
	}

	walker := sc.Walk(remoteDir)
	for walker.Step() {
		if err := walker.Err(); err != nil {
			return fmt.Errorf("failed to walk remote %s: %w", walker.Path(), err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(remoteDir, walker.Path())
		if err != nil {
			return err
		}
		target := filepath.Join(localDir, filepath.FromSlash(rel))

		info := walker.Stat()
		switch {
		case info.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
		case info.Mode().IsRegular():
			if err := downloadFile(sc, walker.Path(), target, info.Mode().Perm()); err != nil {
				return err
			}
		}
	}

	return nil
}

func downloadFile(sc *sftp.Client, remote, local string, perm fs.FileMode) error {
	src, err := sc.Open(remote)
	if err != nil {
		return fmt.Errorf("failed to open remote file %s: %w", remote, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(local, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", local, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to download %s: %w", remote, err)
	}
	return dst.Close()
}
