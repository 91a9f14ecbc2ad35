//go:build linux

package atspi

import "github.com/mj1618/desktop-text/internal/platform"

func init() {
	platform.NewProviderFunc = func(opts platform.Options) (*platform.Provider, error) {
		conn, err := connect()
		if err != nil {
			return nil, err
		}
		return &platform.Provider{
			Subsystem: NewSubsystem(conn),
			Inputter:  NewInputter(conn, opts.DragDuration),
		}, nil
	}
}
