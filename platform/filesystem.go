package platform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/saintfish/chardet"

	"github.com/19h/ul2/ul"
)

const (
	defaultMimeType = "application/octet-stream"
	defaultCharset  = "utf-8"

	// sniffLen bounds how much content MimeType and Charset read.
	sniffLen = 8 << 10
)

// ErrDenied is returned for paths outside the root or rejected by the
// allow and deny patterns.
var ErrDenied = errors.New("platform: path not allowed")

// FileSystem serves files below a root directory. A request for x that
// does not exist is answered from x.gz or x.zst when one is present.
type FileSystem struct {
	root    string
	allow   []string
	deny    []string
	maxSize int64
}

var _ ul.FileSystem = (*FileSystem)(nil)

// Option configures a FileSystem.
type Option func(*FileSystem)

// WithAllow restricts the file system to paths matching one of the
// doublestar patterns, such as "assets/**/*.png".
func WithAllow(patterns ...string) Option {
	return func(f *FileSystem) { f.allow = append(f.allow, patterns...) }
}

// WithDeny hides paths matching one of the patterns. Deny wins over allow.
func WithDeny(patterns ...string) Option {
	return func(f *FileSystem) { f.deny = append(f.deny, patterns...) }
}

// WithMaxSize refuses files larger than n bytes after decompression.
func WithMaxSize(n int64) Option {
	return func(f *FileSystem) { f.maxSize = n }
}

// NewFileSystem returns a file system rooted at root. Patterns are
// validated here so a typo fails early.
func NewFileSystem(root string, opts ...Option) (*FileSystem, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("platform: resolve root: %w", err)
	}
	f := &FileSystem{root: abs}
	for _, opt := range opts {
		opt(f)
	}
	for _, p := range append(append([]string(nil), f.allow...), f.deny...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("platform: bad pattern %q", p)
		}
	}
	return f, nil
}

// Root is the absolute directory files are served from.
func (f *FileSystem) Root() string { return f.root }

// resolve maps a request path to a file below root.
func (f *FileSystem) resolve(p string) (string, error) {
	rel := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(p)), "/")
	if rel == "" || strings.ContainsRune(rel, 0) {
		return "", ErrDenied
	}
	for _, pat := range f.deny {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return "", ErrDenied
		}
	}
	if len(f.allow) > 0 {
		allowed := false
		for _, pat := range f.allow {
			if ok, _ := doublestar.Match(pat, rel); ok {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", ErrDenied
		}
	}
	return filepath.Join(f.root, filepath.FromSlash(rel)), nil
}

func isFile(name string) bool {
	st, err := os.Stat(name)
	return err == nil && st.Mode().IsRegular()
}

// FileExists reports whether p, or a compressed copy of it, can be served.
func (f *FileSystem) FileExists(p string) bool {
	name, err := f.resolve(p)
	if err != nil {
		return false
	}
	return isFile(name) || isFile(name+".gz") || isFile(name+".zst")
}

// OpenFile reads the file, decompressing a .gz or .zst sibling when the
// file itself is missing.
func (f *FileSystem) OpenFile(p string) ([]byte, error) {
	name, r, done, err := f.open(p)
	if err != nil {
		return nil, err
	}
	defer done()

	if f.maxSize > 0 {
		r = io.LimitReader(r, f.maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("platform: read %s: %w", filepath.Base(name), err)
	}
	if f.maxSize > 0 && int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("platform: %s is larger than %d bytes", filepath.Base(name), f.maxSize)
	}
	return data, nil
}

// open returns the decompressed content stream of p and the file it comes
// from. done closes both.
func (f *FileSystem) open(p string) (string, io.Reader, func(), error) {
	name, err := f.resolve(p)
	if err != nil {
		return "", nil, nil, fmt.Errorf("%w: %s", err, p)
	}
	switch {
	case isFile(name):
		return openWith(name, func(r io.Reader) (io.Reader, func(), error) { return r, func() {}, nil })
	case isFile(name + ".gz"):
		return openWith(name+".gz", func(r io.Reader) (io.Reader, func(), error) {
			zr, err := gzip.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return zr, func() { zr.Close() }, nil
		})
	case isFile(name + ".zst"):
		return openWith(name+".zst", func(r io.Reader) (io.Reader, func(), error) {
			zr, err := zstd.NewReader(r)
			if err != nil {
				return nil, nil, err
			}
			return zr, zr.Close, nil
		})
	}
	return "", nil, nil, fmt.Errorf("platform: open %s: %w", p, fs.ErrNotExist)
}

func openWith(name string, wrap func(io.Reader) (io.Reader, func(), error)) (string, io.Reader, func(), error) {
	file, err := os.Open(name)
	if err != nil {
		return "", nil, nil, err
	}
	r, done, err := wrap(file)
	if err != nil {
		file.Close()
		return "", nil, nil, fmt.Errorf("platform: decompress %s: %w", filepath.Base(name), err)
	}
	return name, r, func() {
		done()
		file.Close()
	}, nil
}

// sniff returns at most sniffLen bytes from the start of the content.
func (f *FileSystem) sniff(p string) ([]byte, error) {
	name, r, done, err := f.open(p)
	if err != nil {
		return nil, err
	}
	defer done()

	data, err := io.ReadAll(io.LimitReader(r, sniffLen))
	if err != nil {
		return nil, fmt.Errorf("platform: read %s: %w", filepath.Base(name), err)
	}
	return data, nil
}

// trimPartialRune drops a multi-byte sequence cut off by the sniff limit.
func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		if utf8.RuneStart(b[len(b)-i]) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			return b
		}
	}
	return b
}

// MimeType detects the type from the start of the file's content. Types
// the content cannot tell apart, such as CSS and JavaScript, come from the
// extension.
func (f *FileSystem) MimeType(p string) string {
	data, err := f.sniff(p)
	if err != nil {
		return byExtension(p, defaultMimeType)
	}
	detected := stripParams(mimetype.Detect(data).String())
	if detected == "text/plain" || detected == defaultMimeType {
		return byExtension(p, detected)
	}
	return detected
}

func byExtension(p, fallback string) string {
	if t := mime.TypeByExtension(path.Ext(p)); t != "" {
		return stripParams(t)
	}
	return fallback
}

func stripParams(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// Charset reports the text encoding judged from the start of the file.
// Valid UTF-8 and binary content report utf-8.
func (f *FileSystem) Charset(p string) string {
	data, err := f.sniff(p)
	if err == nil && len(data) == sniffLen {
		data = trimPartialRune(data)
	}
	if err != nil || utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return defaultCharset
	}
	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || res == nil || res.Charset == "" {
		return defaultCharset
	}
	return strings.ToLower(res.Charset)
}
