// Package backend installs the native backend selected at build time. The
// wrapper packages import it for its side effect.
//
// Building with -tags ultralight links the Ultralight SDK through cgo;
// without the tag the in-process software backend is used.
package backend

import (
	"go.uber.org/zap"

	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

func init() {
	api := selected()
	native.Install(api)
	ffi.Logger().Debug("native backend installed", zap.String("backend", api.Name()))
}

// Name reports the backend linked into this binary.
func Name() string { return selected().Name() }
