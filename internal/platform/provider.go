package platform

import (
	"fmt"
	"runtime"
	"time"
)

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Subsystem Subsystem
	Inputter  Inputter
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("desktop-text is not supported on %s/%s; supported: darwin (cgo), linux (AT-SPI)", runtime.GOOS, runtime.GOARCH)

// Options configures the backends.
type Options struct {
	// DragDuration is how long a simulated drag takes from press to
	// release.
	DragDuration time.Duration
}

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/darwin/init.go and internal/platform/atspi/init.go.
var NewProviderFunc func(opts Options) (*Provider, error)

// RequestPermissionsFunc is set by platform-specific packages via init().
// It triggers OS permission prompts (e.g. accessibility) at startup.
var RequestPermissionsFunc func()

// NewProvider returns a Provider for the current OS.
func NewProvider(opts Options) (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc(opts)
}
