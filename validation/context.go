package validation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Content hashing is skipped above this size; the fingerprint falls back to
// metadata and modification time only.
const maxContentHashSize = 1 << 20

// Context carries the subject of a validation run.
type Context struct {
	// FilePath is the path of the file under validation.
	FilePath string

	// FileSize is the file size in bytes.
	FileSize int64

	// FileExt is the lowercased file extension, including the dot.
	FileExt string

	// MimeType is the declared MIME type, if known.
	MimeType string

	// Metadata carries arbitrary caller-supplied attributes.
	Metadata map[string]any
}

// NewContext builds a Context for a file path, filling in size and extension
// from the filesystem when the file exists.
func NewContext(filePath string) Context {
	ctx := Context{
		FilePath: filePath,
		FileExt:  strings.ToLower(filepath.Ext(filePath)),
	}
	if info, err := os.Stat(filePath); err == nil {
		ctx.FileSize = info.Size()
	}
	return ctx
}

// Fingerprint returns a stable hash over the context's observable fields,
// the file's modification time, and - for small files - its content. It is
// used as the whole-run result cache key, so a changed file invalidates
// cached results.
func (c Context) Fingerprint() string {
	mtime := "0"
	contentHash := "unknown"

	if info, err := os.Stat(c.FilePath); err == nil {
		mtime = fmt.Sprintf("%d", info.ModTime().Unix())
		if info.Size() <= maxContentHashSize {
			contentHash = hashFileContent(c.FilePath)
		} else {
			contentHash = "large_file"
		}
	}

	meta := "{}"
	if len(c.Metadata) > 0 {
		// encoding/json sorts map keys, so this is deterministic.
		if b, err := json.Marshal(c.Metadata); err == nil {
			meta = string(b)
		}
	}

	keyData := fmt.Sprintf("%s:%d:%s:%s:%s:%s:%s",
		c.FilePath, c.FileSize, c.FileExt, c.MimeType, mtime, contentHash, meta)

	sum := sha256.Sum256([]byte(keyData))
	return hex.EncodeToString(sum[:8])
}

func hashFileContent(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "unknown"
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(h.Sum(nil)[:4])
}
