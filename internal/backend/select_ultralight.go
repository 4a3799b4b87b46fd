//go:build ultralight

package backend

import (
	"github.com/19h/ul2/internal/native"
	"github.com/19h/ul2/internal/native/capi"
)

func selected() native.API { return capi.New() }
