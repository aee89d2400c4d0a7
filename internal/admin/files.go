package admin

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileStorage keeps uploaded files and returns their media-relative path.
type FileStorage interface {
	Save(dir, filename string, r io.Reader) (string, error)
}

// DirStorage stores uploads below Root.
type DirStorage struct {
	Root string
}

func (s DirStorage) Save(dir, filename string, r io.Reader) (string, error) {
	name := cleanFilename(filename)
	if name == "" {
		return "", fmt.Errorf("invalid upload filename %q", filename)
	}

	target := filepath.Join(s.Root, filepath.FromSlash(dir))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	// O_EXCL so an upload never replaces an existing file.
	f, err := os.OpenFile(filepath.Join(target, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if os.IsExist(err) {
		name = withSuffix(name)
		f, err = os.OpenFile(filepath.Join(target, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return path.Join(dir, name), nil
}

func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if name == "" || name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return ""
	}
	return name
}

func withSuffix(name string) string {
	var b [4]byte
	rand.Read(b[:])
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + hex.EncodeToString(b[:]) + ext
}
