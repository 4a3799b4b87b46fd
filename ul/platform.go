package ul

import (
	"strings"

	"go.uber.org/zap"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Logger receives the library's log messages.
type Logger interface {
	LogMessage(level LogLevel, message string)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(level LogLevel, message string)

// LogMessage calls f.
func (f LoggerFunc) LogMessage(level LogLevel, message string) { f(level, message) }

// FileSystem serves file:/// URLs and the library's bundled resources.
// Paths are relative to the file system's root.
type FileSystem interface {
	FileExists(path string) bool
	MimeType(path string) string
	Charset(path string) string
	OpenFile(path string) ([]byte, error)
}

// Clipboard backs copy and paste inside views.
type Clipboard interface {
	Clear()
	ReadPlainText() string
	WritePlainText(text string)
}

// The platform hooks take no user data in the native API, so each is a
// single process-wide slot.
var (
	loggerSlot = ffi.NewSlot[native.LogFunc]("platform.logger", func(token uintptr) error {
		api().PlatformSetLogger(token)
		return nil
	})
	fileSystemSlot = ffi.NewSlot[*native.FileSystemFuncs]("platform.file_system", func(token uintptr) error {
		api().PlatformSetFileSystem(token)
		return nil
	})
	clipboardSlot = ffi.NewSlot[*native.ClipboardFuncs]("platform.clipboard", func(token uintptr) error {
		api().PlatformSetClipboard(token)
		return nil
	})
)

func platformLog() *zap.Logger { return ffi.Logger().Named("platform") }

// SetLogger installs l as the library logger, replacing any previous one.
// It must be called before the renderer is created.
func SetLogger(l Logger, opts ...ffi.CallbackOption) error {
	if l == nil {
		ClearLogger()
		return nil
	}
	a := api()
	return loggerSlot.Set(func(level int32, msg ffi.Ptr) {
		l.LogMessage(LogLevel(level), readString(a, msg))
	}, opts...)
}

// ClearLogger uninstalls the library logger.
func ClearLogger() { loggerSlot.Clear() }

// sanitize replaces NUL, which cannot cross into a native string.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\x00", "\uFFFD")
}

// SetFileSystem installs fs as the library file system. It must be called
// before the renderer is created.
func SetFileSystem(fs FileSystem, opts ...ffi.CallbackOption) error {
	if fs == nil {
		ClearFileSystem()
		return nil
	}
	a := api()
	return fileSystemSlot.Set(&native.FileSystemFuncs{
		FileExists: func(path ffi.Ptr) bool {
			return fs.FileExists(readString(a, path))
		},
		MimeType: func(path ffi.Ptr) ffi.Ptr {
			mime := fs.MimeType(readString(a, path))
			if mime == "" {
				mime = "application/octet-stream"
			}
			return a.CreateString(sanitize(mime))
		},
		Charset: func(path ffi.Ptr) ffi.Ptr {
			cs := fs.Charset(readString(a, path))
			if cs == "" {
				cs = "utf-8"
			}
			return a.CreateString(sanitize(cs))
		},
		OpenFile: func(path ffi.Ptr) ffi.Ptr {
			p := readString(a, path)
			data, err := fs.OpenFile(p)
			if err != nil {
				platformLog().Debug("open file failed", zap.String("path", p), zap.Error(err))
				return 0
			}
			return a.CreateBufferFromCopy(data)
		},
	}, opts...)
}

// ClearFileSystem uninstalls the library file system.
func ClearFileSystem() { fileSystemSlot.Clear() }

// SetClipboard installs c as the library clipboard.
func SetClipboard(c Clipboard, opts ...ffi.CallbackOption) error {
	if c == nil {
		ClearClipboard()
		return nil
	}
	a := api()
	return clipboardSlot.Set(&native.ClipboardFuncs{
		Clear: c.Clear,
		ReadPlainText: func(result ffi.Ptr) {
			text := sanitize(c.ReadPlainText())
			tmp := a.CreateString(text)
			if tmp.IsNull() {
				return
			}
			defer a.DestroyString(tmp)
			a.StringAssign(result, tmp)
		},
		WritePlainText: func(text ffi.Ptr) {
			c.WritePlainText(readString(a, text))
		},
	}, opts...)
}

// ClearClipboard uninstalls the library clipboard.
func ClearClipboard() { clipboardSlot.Clear() }
