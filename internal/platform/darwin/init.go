//go:build darwin && cgo

package darwin

import "github.com/mj1618/desktop-text/internal/platform"

func init() {
	platform.NewProviderFunc = func(opts platform.Options) (*platform.Provider, error) {
		if err := CheckAccessibilityPermission(); err != nil {
			return nil, err
		}
		return &platform.Provider{
			Subsystem: NewSubsystem(),
			Inputter:  NewInputter(opts.DragDuration),
		}, nil
	}
	platform.RequestPermissionsFunc = RequestAccessibilityPermission
}
