package registry

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Sync clones the alias repository and copies its aliases.toml into the cache.
// An empty branch clones the remote HEAD. Remote repositories are cloned
// shallow; local paths are cloned in full.
func Sync(ctx context.Context, cacheDir, url, branch string, progress io.Writer) error {
	if url == "" {
		return fmt.Errorf("registry: no repository URL configured")
	}

	tempDir, err := os.MkdirTemp("", "venvod-registry-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if progress != nil {
		fmt.Fprintf(progress, "Updating alias registry from %s...\n", url)
	}

	opts := &git.CloneOptions{
		URL:          url,
		SingleBranch: true,
		Progress:     progress,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}
	if fi, err := os.Stat(url); err != nil || !fi.IsDir() {
		opts.Depth = 1
	}

	if _, err := git.PlainCloneContext(ctx, tempDir, false, opts); err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}

	src := filepath.Join(tempDir, FileName)
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("registry: repository has no %s: %w", FileName, err)
	}
	if _, err := Parse(string(data)); err != nil {
		return err
	}

	dst := CachePath(cacheDir)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("registry: writing %s: %w", dst, err)
	}

	if progress != nil {
		fmt.Fprintln(progress, "Alias registry updated successfully.")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
