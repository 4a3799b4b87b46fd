// Package platform provides ready-made implementations of the library's
// platform hooks: a file system rooted at a directory, a logger that
// forwards to zap, and an in-process clipboard. Install them with
// ul.SetFileSystem, ul.SetLogger and ul.SetClipboard.
package platform
