//go:build linux

package atspi

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/mj1618/desktop-text/internal/platform"
)

// accessible is a remote AT-SPI object.
type accessible struct {
	conn *dbus.Conn
	ref  objectRef
}

func (a *accessible) object() dbus.BusObject {
	return a.conn.Object(a.ref.Name, a.ref.Path)
}

// Resolve lets an accessible serve as its own focus event.
func (a *accessible) Resolve() (platform.Accessible, error) {
	return a, nil
}

func (a *accessible) interfaces() ([]string, error) {
	var ifaces []string
	if err := a.object().Call(ifaceAccessible+".GetInterfaces", 0).Store(&ifaces); err != nil {
		return nil, fmt.Errorf("GetInterfaces %s: %w", a.ref.Path, err)
	}
	return ifaces, nil
}

func (a *accessible) implements(iface string) (bool, error) {
	ifaces, err := a.interfaces()
	if err != nil {
		return false, err
	}
	for _, i := range ifaces {
		if i == iface {
			return true, nil
		}
	}
	return false, nil
}

func (a *accessible) states() ([]uint32, error) {
	var states []uint32
	if err := a.object().Call(ifaceAccessible+".GetState", 0).Store(&states); err != nil {
		return nil, fmt.Errorf("GetState %s: %w", a.ref.Path, err)
	}
	return states, nil
}

func (a *accessible) Text() (platform.Text, error) {
	ok, err := a.implements(ifaceText)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, platform.ErrNoText
	}
	return &text{accessible: a}, nil
}

func (a *accessible) IsEditable() (bool, error) {
	states, err := a.states()
	if err != nil {
		return false, err
	}
	return hasState(states, stateEditable), nil
}

// text is the Text interface of an accessible. AT-SPI offsets count
// characters, so they are used as they are.
type text struct {
	*accessible
}

func (t *text) intProperty(name string) (int, error) {
	v, err := t.object().GetProperty(ifaceText + "." + name)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", name, err)
	}
	n, ok := v.Value().(int32)
	if !ok {
		return 0, fmt.Errorf("read %s: unexpected type %s", name, v.Signature())
	}
	return int(n), nil
}

func (t *text) Content() (string, error) {
	count, err := t.intProperty("CharacterCount")
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", nil
	}
	var s string
	if err := t.object().Call(ifaceText+".GetText", 0, int32(0), int32(count)).Store(&s); err != nil {
		return "", fmt.Errorf("GetText %s: %w", t.ref.Path, err)
	}
	return s, nil
}

func (t *text) CaretOffset() (int, error) {
	return t.intProperty("CaretOffset")
}

func (t *text) SetCaretOffset(offset int) error {
	var ok bool
	if err := t.object().Call(ifaceText+".SetCaretOffset", 0, int32(offset)).Store(&ok); err != nil {
		return fmt.Errorf("SetCaretOffset %d: %w", offset, err)
	}
	if !ok {
		return fmt.Errorf("SetCaretOffset %d refused", offset)
	}
	return nil
}

// coordTypeScreen requests screen-relative extents.
const coordTypeScreen = uint32(0)

func (t *text) CharacterExtents(offset int) (platform.BoundingBox, error) {
	var x, y, w, h int32
	call := t.object().Call(ifaceText+".GetCharacterExtents", 0, int32(offset), coordTypeScreen)
	if err := call.Store(&x, &y, &w, &h); err != nil {
		return platform.BoundingBox{}, fmt.Errorf("GetCharacterExtents %d: %w", offset, err)
	}
	return platform.BoundingBox{X: int(x), Y: int(y), Width: int(w), Height: int(h)}, nil
}

// SetSelection replaces the first selection, adding one when the object
// has none.
func (t *text) SetSelection(start, end int) error {
	var ok bool
	if err := t.object().Call(ifaceText+".SetSelection", 0, int32(0), int32(start), int32(end)).Store(&ok); err != nil {
		return fmt.Errorf("SetSelection [%d,%d): %w", start, end, err)
	}
	if ok {
		return nil
	}
	if err := t.object().Call(ifaceText+".AddSelection", 0, int32(start), int32(end)).Store(&ok); err != nil {
		return fmt.Errorf("AddSelection [%d,%d): %w", start, end, err)
	}
	if !ok {
		return fmt.Errorf("selection [%d,%d) refused", start, end)
	}
	return nil
}

// Embedded follows the hyperlink at charIndex to its target object.
func (t *text) Embedded(charIndex int) (platform.Text, error) {
	var linkIndex int32
	if err := t.object().Call(ifaceHypertext+".GetLinkIndex", 0, int32(charIndex)).Store(&linkIndex); err != nil {
		return nil, fmt.Errorf("GetLinkIndex %d: %w", charIndex, err)
	}
	if linkIndex < 0 {
		return nil, fmt.Errorf("no hyperlink at %d", charIndex)
	}
	var link objectRef
	if err := t.object().Call(ifaceHypertext+".GetLink", 0, linkIndex).Store(&link); err != nil {
		return nil, fmt.Errorf("GetLink %d: %w", linkIndex, err)
	}
	var target objectRef
	linkObj := t.conn.Object(link.Name, link.Path)
	if err := linkObj.Call(ifaceHyperlink+".GetObject", 0, int32(0)).Store(&target); err != nil {
		return nil, fmt.Errorf("Hyperlink.GetObject: %w", err)
	}
	if target.null() {
		return nil, fmt.Errorf("hyperlink at %d has no object", charIndex)
	}
	child := &accessible{conn: t.conn, ref: target}
	return child.Text()
}
