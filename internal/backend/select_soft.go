//go:build !ultralight

package backend

import (
	"sync"

	"github.com/19h/ul2/internal/native"
	"github.com/19h/ul2/internal/native/soft"
)

var shared = sync.OnceValue(func() native.API { return soft.New() })

func selected() native.API { return shared() }
