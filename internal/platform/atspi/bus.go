//go:build linux

package atspi

import (
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"
)

const (
	registryName = "org.a11y.atspi.Registry"
	registryPath = dbus.ObjectPath("/org/a11y/atspi/registry")
	rootPath     = dbus.ObjectPath("/org/a11y/atspi/accessible/root")
	decPath      = dbus.ObjectPath("/org/a11y/atspi/registry/deviceeventcontroller")

	ifaceRegistry   = "org.a11y.atspi.Registry"
	ifaceAccessible = "org.a11y.atspi.Accessible"
	ifaceText       = "org.a11y.atspi.Text"
	ifaceHypertext  = "org.a11y.atspi.Hypertext"
	ifaceHyperlink  = "org.a11y.atspi.Hyperlink"
	ifaceCollection = "org.a11y.atspi.Collection"
	ifaceDEC        = "org.a11y.atspi.DeviceEventController"
	ifaceEvent      = "org.a11y.atspi.Event.Object"

	focusEvent = "object:state-changed:focused"
)

// objectRef is the (so) reference AT-SPI uses for accessible objects.
type objectRef struct {
	Name string
	Path dbus.ObjectPath
}

func (r objectRef) null() bool {
	return r.Path == "" || r.Path == "/org/a11y/atspi/null"
}

// busAddress returns the address of the accessibility bus, which is
// separate from the session bus.
func busAddress() (string, error) {
	if addr := os.Getenv("AT_SPI_BUS_ADDRESS"); addr != "" {
		return addr, nil
	}
	session, err := dbus.SessionBus()
	if err != nil {
		return "", fmt.Errorf("connect to session bus: %w", err)
	}
	var addr string
	if err := session.Object("org.a11y.Bus", "/org/a11y/bus").Call("org.a11y.Bus.GetAddress", 0).Store(&addr); err != nil {
		return "", fmt.Errorf("get accessibility bus address: %w", err)
	}
	return addr, nil
}

func connect() (*dbus.Conn, error) {
	addr, err := busAddress()
	if err != nil {
		return nil, err
	}
	conn, err := dbus.Connect(addr)
	if err != nil {
		return nil, fmt.Errorf("connect to accessibility bus: %w", err)
	}
	return conn, nil
}

// AT-SPI state bits, from AtspiStateType.
const (
	stateEditable = 7
	stateFocused  = 12
)

// hasState reports whether bit is set in a GetState bitset.
func hasState(states []uint32, bit uint) bool {
	word := int(bit / 32)
	if word >= len(states) {
		return false
	}
	return states[word]&(1<<(bit%32)) != 0
}
