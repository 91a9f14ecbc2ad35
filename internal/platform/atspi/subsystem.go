//go:build linux

package atspi

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/mj1618/desktop-text/internal/platform"
)

// Subsystem receives focus events from the AT-SPI registry. godbus
// delivers signals on its own goroutine; they are buffered and only handed
// to the listener inside Poll.
type Subsystem struct {
	conn     *dbus.Conn
	signals  chan *dbus.Signal
	listener func(platform.FocusEvent)
}

// NewSubsystem connects to the accessibility bus.
func NewSubsystem(conn *dbus.Conn) *Subsystem {
	return &Subsystem{conn: conn, signals: make(chan *dbus.Signal, 64)}
}

func (s *Subsystem) RegisterFocusListener(fn func(platform.FocusEvent)) error {
	if err := s.conn.AddMatchSignal(
		dbus.WithMatchInterface(ifaceEvent),
		dbus.WithMatchMember("StateChanged"),
		dbus.WithMatchArg(0, "focused"),
	); err != nil {
		return fmt.Errorf("add focus match rule: %w", err)
	}
	registry := s.conn.Object(registryName, registryPath)
	if call := registry.Call(ifaceRegistry+".RegisterEvent", 0, focusEvent); call.Err != nil {
		// at-spi2-core 2.46 added properties and app bus name arguments.
		if call2 := registry.Call(ifaceRegistry+".RegisterEvent", 0, focusEvent, []string{}, ""); call2.Err != nil {
			return fmt.Errorf("register %s: %w", focusEvent, call.Err)
		}
	}
	s.conn.Signal(s.signals)
	s.listener = fn
	return nil
}

func (s *Subsystem) Poll(timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case sig := <-s.signals:
		s.deliver(sig)
	case <-timer.C:
		return nil
	}
	for {
		select {
		case sig := <-s.signals:
			s.deliver(sig)
		default:
			return nil
		}
	}
}

func (s *Subsystem) deliver(sig *dbus.Signal) {
	if sig == nil || s.listener == nil || !gainedFocus(sig) {
		return
	}
	s.listener(&accessible{conn: s.conn, ref: objectRef{Name: sig.Sender, Path: sig.Path}})
}

// gainedFocus reports whether sig is a StateChanged("focused", 1, ...).
func gainedFocus(sig *dbus.Signal) bool {
	if sig.Name != ifaceEvent+".StateChanged" || len(sig.Body) < 2 {
		return false
	}
	detail, _ := sig.Body[0].(string)
	gained, _ := sig.Body[1].(int32)
	return detail == "focused" && gained == 1
}

// matchRule is the Collection.GetMatches rule, (aiia{ss}iaiiasib).
type matchRule struct {
	States         []int32
	StateMatchType int32
	Attributes     map[string]string
	AttributeMatch int32
	Roles          []int32
	RoleMatchType  int32
	Interfaces     []string
	InterfaceMatch int32
	Invert         bool
}

const (
	matchAll      = int32(1)
	sortCanonical = uint32(1)
)

// CurrentFocus asks each application for a focused descendant.
func (s *Subsystem) CurrentFocus() (platform.FocusEvent, error) {
	var apps []objectRef
	root := s.conn.Object(registryName, rootPath)
	if err := root.Call(ifaceAccessible+".GetChildren", 0).Store(&apps); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	rule := matchRule{
		States:         []int32{1 << stateFocused, 0},
		StateMatchType: matchAll,
		Attributes:     map[string]string{},
		Roles:          []int32{0, 0, 0, 0},
		Interfaces:     []string{},
	}
	for _, app := range apps {
		if app.null() {
			continue
		}
		var found []objectRef
		call := s.conn.Object(app.Name, app.Path).Call(ifaceCollection+".GetMatches", 0, rule, sortCanonical, int32(1), true)
		if call.Store(&found) != nil || len(found) == 0 || found[0].null() {
			continue
		}
		return &accessible{conn: s.conn, ref: found[0]}, nil
	}
	return nil, nil
}

func (s *Subsystem) Close() error {
	s.listener = nil
	s.conn.RemoveSignal(s.signals)
	return s.conn.Close()
}
