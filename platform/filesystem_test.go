package platform

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/19h/ul2/internal/native/soft"
	"github.com/19h/ul2/ul"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func writeFile(t *testing.T, root, name string, data []byte) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func zstded(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func testRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "index.html", []byte("<!DOCTYPE html><html><head><title>Home</title></head><body></body></html>"))
	writeFile(t, root, "css/site.css", []byte("body { color: red; }"))
	writeFile(t, root, "js/app.js", []byte("console.log('hi');"))
	writeFile(t, root, "img/logo.png", pngHeader)
	writeFile(t, root, "big.js.gz", gzipped(t, []byte("var big = 1;")))
	writeFile(t, root, "data.json.zst", zstded(t, []byte(`{"a":1}`)))
	writeFile(t, root, "keys/server.key", []byte("secret"))
	return root
}

func TestFileSystemOpen(t *testing.T) {
	fsys, err := NewFileSystem(testRoot(t))
	require.NoError(t, err)

	tests := []struct {
		path string
		want string
	}{
		{"index.html", "<!DOCTYPE html><html><head><title>Home</title></head><body></body></html>"},
		{"/css/site.css", "body { color: red; }"},
		{"js/../js/app.js", "console.log('hi');"},
		{"big.js", "var big = 1;"},
		{"data.json", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.True(t, fsys.FileExists(tt.path))
			data, err := fsys.OpenFile(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}

	assert.False(t, fsys.FileExists("missing.html"))
	assert.False(t, fsys.FileExists("css"), "directories are not files")
	_, err = fsys.OpenFile("missing.html")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFileSystemStaysUnderRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "www")
	writeFile(t, parent, "secret.txt", []byte("outside"))
	writeFile(t, root, "secret.txt", []byte("inside"))

	fsys, err := NewFileSystem(root)
	require.NoError(t, err)

	data, err := fsys.OpenFile("../secret.txt")
	require.NoError(t, err)
	assert.Equal(t, "inside", string(data))

	_, err = fsys.OpenFile("")
	assert.True(t, errors.Is(err, ErrDenied))
	assert.False(t, fsys.FileExists("/"))
}

func TestFileSystemAllowDeny(t *testing.T) {
	root := testRoot(t)

	fsys, err := NewFileSystem(root, WithDeny("**/*.key"))
	require.NoError(t, err)
	assert.False(t, fsys.FileExists("keys/server.key"))
	_, err = fsys.OpenFile("keys/server.key")
	assert.True(t, errors.Is(err, ErrDenied))
	assert.True(t, fsys.FileExists("index.html"))

	only, err := NewFileSystem(root, WithAllow("css/**", "*.html"), WithDeny("css/private/**"))
	require.NoError(t, err)
	assert.True(t, only.FileExists("css/site.css"))
	assert.True(t, only.FileExists("index.html"))
	assert.False(t, only.FileExists("js/app.js"))

	_, err = NewFileSystem(root, WithAllow("[unclosed"))
	assert.Error(t, err)
}

func TestFileSystemMaxSize(t *testing.T) {
	fsys, err := NewFileSystem(testRoot(t), WithMaxSize(10))
	require.NoError(t, err)

	_, err = fsys.OpenFile("index.html")
	assert.Error(t, err)
	data, err := fsys.OpenFile("data.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
}

func TestFileSystemMimeType(t *testing.T) {
	fsys, err := NewFileSystem(testRoot(t))
	require.NoError(t, err)

	tests := []struct {
		path string
		want string
	}{
		{"index.html", "text/html"},
		{"css/site.css", "text/css"},
		{"img/logo.png", "image/png"},
		{"data.json", "application/json"},
		{"missing.css", "text/css"},
		{"missing.unknownext", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, fsys.MimeType(tt.path))
		})
	}
	// The system mime tables may name either type for .js.
	assert.Contains(t, []string{"text/javascript", "application/javascript"}, fsys.MimeType("js/app.js"))
}

func TestFileSystemCharset(t *testing.T) {
	root := testRoot(t)
	// ISO-8859-1 encoded French prose.
	latin1 := bytes.Repeat([]byte("Le garçon a mangé une crème brûlée à côté de la fenêtre. "), 8)
	latin1 = bytes.ReplaceAll(latin1, []byte("ç"), []byte{0xe7})
	latin1 = bytes.ReplaceAll(latin1, []byte("é"), []byte{0xe9})
	latin1 = bytes.ReplaceAll(latin1, []byte("è"), []byte{0xe8})
	latin1 = bytes.ReplaceAll(latin1, []byte("û"), []byte{0xfb})
	latin1 = bytes.ReplaceAll(latin1, []byte("à"), []byte{0xe0})
	latin1 = bytes.ReplaceAll(latin1, []byte("ô"), []byte{0xf4})
	latin1 = bytes.ReplaceAll(latin1, []byte("ê"), []byte{0xea})
	writeFile(t, root, "latin1.txt", latin1)

	fsys, err := NewFileSystem(root)
	require.NoError(t, err)

	assert.Equal(t, "utf-8", fsys.Charset("index.html"))
	assert.Equal(t, "utf-8", fsys.Charset("img/logo.png"), "binary content")
	assert.Equal(t, "utf-8", fsys.Charset("missing.txt"))
	assert.NotEqual(t, "utf-8", fsys.Charset("latin1.txt"))
}

func TestFileSystemSniffsPrefix(t *testing.T) {
	root := t.TempDir()
	// A PNG well past the size limit, stored compressed.
	big := append(append([]byte(nil), pngHeader...), bytes.Repeat([]byte{0}, 1<<20)...)
	writeFile(t, root, "huge.bin.gz", gzipped(t, big))
	// UTF-8 up to the sniff limit with a rune split across it, then bytes
	// that are not UTF-8.
	text := append(bytes.Repeat([]byte("a"), sniffLen-1), "é"...)
	text = append(text, 0xff, 0xfe, 0xfd)
	writeFile(t, root, "long.txt", text)

	fsys, err := NewFileSystem(root, WithMaxSize(64))
	require.NoError(t, err)

	_, err = fsys.OpenFile("huge.bin")
	require.Error(t, err)
	assert.Equal(t, "image/png", fsys.MimeType("huge.bin"))
	assert.Equal(t, "utf-8", fsys.Charset("long.txt"))
}

func TestTrimPartialRune(t *testing.T) {
	euro := []byte("€")
	assert.Equal(t, []byte("ab"), trimPartialRune(append([]byte("ab"), euro[:2]...)))
	assert.Equal(t, append([]byte("ab"), euro...), trimPartialRune(append([]byte("ab"), euro...)))
	assert.Equal(t, []byte("abc"), trimPartialRune([]byte("abc")))
	assert.Empty(t, trimPartialRune(euro[:1]))
}

func TestFileSystemServesViews(t *testing.T) {
	b := soft.Install(t)
	fsys, err := NewFileSystem(testRoot(t))
	require.NoError(t, err)
	require.NoError(t, ul.SetFileSystem(fsys))
	defer ul.ClearFileSystem()

	html, err := b.ReadFile("index.html")
	require.NoError(t, err)
	assert.Contains(t, html, "<title>Home</title>")

	js, err := b.ReadFile("big.js")
	require.NoError(t, err)
	assert.Equal(t, "var big = 1;", js)
	assert.Equal(t, "utf-8", b.FileCharset("index.html"))

	r, err := ul.NewRenderer(nil)
	require.NoError(t, err)
	defer r.Close()
	v, err := r.CreateView(100, 100, nil, nil)
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.LoadURL("file:///index.html"))
	require.NoError(t, r.Update())
	assert.Equal(t, "Home", v.Title())
}
