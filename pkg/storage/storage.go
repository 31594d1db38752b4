// Package storage defines the FileStore interface that generated level packs
// are written to. A pack is a flat set of files (manifest, one level file per
// difficulty, audio and cover assets) addressed by forward-slash paths
// relative to the store root.
//
// Two backends are provided: Local (a directory) and S3Store (a bucket and
// optional key prefix). Open picks one from a target string.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// FileStore is a minimal interface for file-oriented storage.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file for reading.
	// The caller must close the returned ReadCloser when done.
	// If the file does not exist, an error wrapping os.ErrNotExist is returned.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing.
	// If the file already exists it is replaced when the writer is closed.
	// The caller must close the returned WriteCloser to flush data, or
	// abort it (see Aborter) to discard the write.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// Aborter is implemented by writers that can discard a pending write.
// After Abort the destination is left as it was before Write.
type Aborter interface {
	Abort(err error) error
}

// abort discards w. Writers without an Abort method are closed.
func abort(w io.WriteCloser, cause error) {
	if a, ok := w.(Aborter); ok {
		a.Abort(cause)
		return
	}
	w.Close()
}

// WriteFile stores data under name. On failure nothing is stored.
func WriteFile(ctx context.Context, fs FileStore, name string, data []byte) error {
	w, err := fs.Write(ctx, name)
	if err != nil {
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		abort(w, err)
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	return nil
}

// ReadFile returns the contents of name.
func ReadFile(ctx context.Context, fs FileStore, name string) ([]byte, error) {
	r, err := fs.Read(ctx, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// CopyLocal copies a file from the local filesystem into the store.
// A failed copy leaves name untouched.
func CopyLocal(ctx context.Context, fs FileStore, name, localPath string) (int64, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	w, err := fs.Write(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("storage: write %s: %w", name, err)
	}
	n, err := io.Copy(w, src)
	if err != nil {
		abort(w, err)
		return n, fmt.Errorf("storage: copy %s: %w", localPath, err)
	}
	if err := w.Close(); err != nil {
		return n, fmt.Errorf("storage: write %s: %w", name, err)
	}
	return n, nil
}

// Target is a parsed output location.
type Target struct {
	// Dir is set for local targets.
	Dir string
	// Bucket and Prefix are set for s3:// targets.
	Bucket string
	Prefix string
}

// IsS3 reports whether the target is an S3 location.
func (t Target) IsS3() bool {
	return t.Bucket != ""
}

// Join returns a child target, used to place each song under its own folder.
func (t Target) Join(elem string) Target {
	if t.IsS3() {
		t.Prefix = strings.Trim(path.Join(t.Prefix, elem), "/")
		return t
	}
	t.Dir = path.Join(t.Dir, elem)
	return t
}

func (t Target) String() string {
	if t.IsS3() {
		if t.Prefix == "" {
			return "s3://" + t.Bucket
		}
		return "s3://" + t.Bucket + "/" + t.Prefix
	}
	return t.Dir
}

// ParseTarget parses "s3://bucket/prefix" or a local directory path.
func ParseTarget(s string) (Target, error) {
	if s == "" {
		return Target{}, fmt.Errorf("storage: empty target")
	}
	rest, ok := strings.CutPrefix(s, "s3://")
	if !ok {
		return Target{Dir: s}, nil
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Target{}, fmt.Errorf("storage: missing bucket in %q", s)
	}
	return Target{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

// Open returns the FileStore for a target. S3 targets use a client built
// from cfg.
func Open(t Target, cfg S3Config) (FileStore, error) {
	if !t.IsS3() {
		return NewLocal(t.Dir)
	}
	return NewS3(NewS3Client(cfg), t.Bucket, t.Prefix), nil
}
