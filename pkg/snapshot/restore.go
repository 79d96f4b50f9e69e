package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"zombiezen.com/go/nix/nar"
)

// Restore extracts a NAR stream into dest, which must not already contain
// the archived files. It returns the number of regular files written.
func Restore(r io.Reader, dest string, c Compression) (int, error) {
	dr, err := decompress(r, c)
	if err != nil {
		return 0, err
	}
	defer dr.Close()

	narReader := nar.NewReader(bufio.NewReader(dr))
	fileCount := 0

	for {
		hdr, err := narReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fileCount, fmt.Errorf("reading NAR entry: %w", err)
		}

		targetPath, err := safeJoin(dest, hdr.Path)
		if err != nil {
			return fileCount, err
		}

		switch hdr.Mode.Type() {
		case os.ModeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fileCount, fmt.Errorf("creating directory %s: %w", targetPath, err)
			}
		case os.ModeSymlink:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return fileCount, fmt.Errorf("creating parent directory: %w", err)
			}
			if err := os.Symlink(hdr.LinkTarget, targetPath); err != nil {
				return fileCount, fmt.Errorf("creating symlink: %w", err)
			}
		case 0: // Regular file
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return fileCount, fmt.Errorf("creating parent directory: %w", err)
			}

			perm := os.FileMode(0644)
			if hdr.Mode&0111 != 0 {
				perm = 0755
			}

			outFile, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, perm)
			if err != nil {
				return fileCount, fmt.Errorf("creating file %s: %w", targetPath, err)
			}
			written, err := io.Copy(outFile, narReader)
			outFile.Close()
			if err != nil {
				return fileCount, fmt.Errorf("writing file: %w", err)
			}
			if written != hdr.Size {
				return fileCount, fmt.Errorf("size mismatch for %s", hdr.Path)
			}
			fileCount++
		}
	}

	return fileCount, nil
}

// RestoreFile extracts an archive file into dest.
func RestoreFile(archive, dest string) (int, error) {
	c, err := CompressionFor(archive)
	if err != nil {
		return 0, err
	}
	f, err := os.Open(archive)
	if err != nil {
		return 0, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()
	return Restore(f, dest, c)
}

func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if target != filepath.Clean(dest) && !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return target, nil
}
