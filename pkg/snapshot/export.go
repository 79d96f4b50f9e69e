package snapshot

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"zombiezen.com/go/nix/nar"
)

// Export writes the tree rooted at root to w as a NAR stream.
func Export(root string, w io.Writer, c Compression) error {
	cw, err := compress(w, c)
	if err != nil {
		return err
	}
	if err := writeNAR(root, cw); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// ExportFile writes root to an archive file, choosing the compression from
// the file extension.
func ExportFile(root, archive string) error {
	c, err := CompressionFor(archive)
	if err != nil {
		return err
	}

	f, err := os.Create(archive)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}

	bw := bufio.NewWriter(f)
	if err := Export(root, bw, c); err != nil {
		f.Close()
		os.Remove(archive)
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing archive: %w", err)
	}
	return f.Close()
}

// Hash returns "sha256:<hex>" of the NAR serialization of root. Two trees
// with the same contents, modes and symlinks hash equally.
func Hash(root string) (string, error) {
	h := sha256.New()
	if err := writeNAR(root, h); err != nil {
		return "", err
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}

// writeNAR walks root in lexical order, which is the entry order NAR requires.
func writeNAR(root string, w io.Writer) error {
	nw := nar.NewWriter(w)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			rel = ""
		}
		rel = filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return nw.WriteHeader(&nar.Header{Path: rel, Mode: fs.ModeDir | 0o755})

		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return fmt.Errorf("reading symlink %s: %w", path, err)
			}
			return nw.WriteHeader(&nar.Header{Path: rel, Mode: fs.ModeSymlink | 0o777, LinkTarget: target})

		case d.Type().IsRegular():
			mode := fs.FileMode(0o644)
			if info.Mode()&0o111 != 0 {
				mode = 0o755
			}
			if err := nw.WriteHeader(&nar.Header{Path: rel, Mode: mode, Size: info.Size()}); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			_, err = io.Copy(nw, f)
			f.Close()
			if err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			return nil
		}

		// Sockets, pipes and devices have no NAR representation
		return nil
	})
	if err != nil {
		return fmt.Errorf("serializing %s: %w", root, err)
	}

	return nw.Close()
}
