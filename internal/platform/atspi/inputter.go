//go:build linux

package atspi

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

// AtspiKeySynthType values.
const (
	keyString          = uint32(4)
	keySym             = uint32(3)
	keyLockModifiers   = uint32(5)
	keyUnlockModifiers = uint32(6)
)

// dragSteps is the number of motion events between press and release.
const dragSteps = 20

// Inputter synthesizes input through the registry's device event
// controller.
type Inputter struct {
	conn         *dbus.Conn
	dragDuration time.Duration
}

// NewInputter returns an inputter on conn. dragDuration is how long a drag
// takes from press to release.
func NewInputter(conn *dbus.Conn, dragDuration time.Duration) *Inputter {
	return &Inputter{conn: conn, dragDuration: dragDuration}
}

func (in *Inputter) dec() dbus.BusObject {
	return in.conn.Object(registryName, decPath)
}

func (in *Inputter) mouse(x, y int, event string) error {
	if err := in.dec().Call(ifaceDEC+".GenerateMouseEvent", 0, int32(x), int32(y), event).Err; err != nil {
		return fmt.Errorf("mouse %s at (%d,%d): %w", event, x, y, err)
	}
	return nil
}

func (in *Inputter) key(code int32, keystring string, synth uint32) error {
	if err := in.dec().Call(ifaceDEC+".GenerateKeyboardEvent", 0, code, keystring, synth).Err; err != nil {
		return fmt.Errorf("keyboard event: %w", err)
	}
	return nil
}

func (in *Inputter) Drag(fromX, fromY, toX, toY int) error {
	if err := in.mouse(fromX, fromY, "abs"); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	if err := in.mouse(fromX, fromY, "b1p"); err != nil {
		return err
	}
	delay := in.dragDuration / dragSteps
	for i := 1; i <= dragSteps; i++ {
		x := fromX + (toX-fromX)*i/dragSteps
		y := fromY + (toY-fromY)*i/dragSteps
		if err := in.mouse(x, y, "abs"); err != nil {
			// Release to avoid a stuck button.
			_ = in.mouse(x, y, "b1r")
			return err
		}
		time.Sleep(delay)
	}
	return in.mouse(toX, toY, "b1r")
}

func (in *Inputter) TypeText(text string, delayMs int) error {
	for _, ch := range text {
		if err := in.key(0, string(ch), keyString); err != nil {
			return err
		}
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}
	}
	return nil
}

func (in *Inputter) KeyCombo(keys []string) error {
	sym, mods, err := parseKeyCombo(keys)
	if err != nil {
		return err
	}
	if mods != 0 {
		if err := in.key(int32(mods), "", keyLockModifiers); err != nil {
			return err
		}
		defer in.key(int32(mods), "", keyUnlockModifiers)
	}
	return in.key(int32(sym), "", keySym)
}
