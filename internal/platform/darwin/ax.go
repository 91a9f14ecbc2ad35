//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <stdlib.h>

static AXUIElementRef ax_focused_element(void) {
    AXUIElementRef sys = AXUIElementCreateSystemWide();
    CFTypeRef focused = NULL;
    AXError err = AXUIElementCopyAttributeValue(sys, kAXFocusedUIElementAttribute, &focused);
    CFRelease(sys);
    if (err != kAXErrorSuccess || focused == NULL) return NULL;
    return (AXUIElementRef)focused;
}

static int ax_equal(AXUIElementRef a, AXUIElementRef b) {
    if (a == NULL || b == NULL) return a == b;
    return CFEqual(a, b);
}

static void ax_release(AXUIElementRef e) {
    if (e != NULL) CFRelease(e);
}

// Copies the string value of the element as UTF-8 into *out (malloc'd).
static int ax_copy_value(AXUIElementRef e, char **out) {
    CFTypeRef v = NULL;
    AXError err = AXUIElementCopyAttributeValue(e, kAXValueAttribute, &v);
    if (err != kAXErrorSuccess || v == NULL) return err ? (int)err : -1;
    if (CFGetTypeID(v) != CFStringGetTypeID()) {
        CFRelease(v);
        return -1;
    }
    CFIndex len = CFStringGetLength((CFStringRef)v);
    CFIndex max = CFStringGetMaximumSizeForEncoding(len, kCFStringEncodingUTF8) + 1;
    char *buf = malloc(max);
    if (!CFStringGetCString((CFStringRef)v, buf, max, kCFStringEncodingUTF8)) {
        free(buf);
        CFRelease(v);
        return -1;
    }
    CFRelease(v);
    *out = buf;
    return 0;
}

static int ax_selected_range(AXUIElementRef e, long *loc, long *len) {
    CFTypeRef v = NULL;
    AXError err = AXUIElementCopyAttributeValue(e, kAXSelectedTextRangeAttribute, &v);
    if (err != kAXErrorSuccess || v == NULL) return err ? (int)err : -1;
    CFRange r;
    int ok = AXValueGetValue((AXValueRef)v, kAXValueCFRangeType, &r);
    CFRelease(v);
    if (!ok) return -1;
    *loc = r.location;
    *len = r.length;
    return 0;
}

static int ax_set_selected_range(AXUIElementRef e, long loc, long len) {
    CFRange r = CFRangeMake(loc, len);
    AXValueRef v = AXValueCreate(kAXValueCFRangeType, &r);
    if (v == NULL) return -1;
    AXError err = AXUIElementSetAttributeValue(e, kAXSelectedTextRangeAttribute, v);
    CFRelease(v);
    return (int)err;
}

static int ax_bounds_for_range(AXUIElementRef e, long loc, long len,
                               double *x, double *y, double *w, double *h) {
    CFRange r = CFRangeMake(loc, len);
    AXValueRef param = AXValueCreate(kAXValueCFRangeType, &r);
    if (param == NULL) return -1;
    CFTypeRef v = NULL;
    AXError err = AXUIElementCopyParameterizedAttributeValue(e,
        kAXBoundsForRangeParameterizedAttribute, param, &v);
    CFRelease(param);
    if (err != kAXErrorSuccess || v == NULL) return err ? (int)err : -1;
    CGRect rect;
    int ok = AXValueGetValue((AXValueRef)v, kAXValueCGRectType, &rect);
    CFRelease(v);
    if (!ok) return -1;
    *x = rect.origin.x;
    *y = rect.origin.y;
    *w = rect.size.width;
    *h = rect.size.height;
    return 0;
}

static int ax_value_settable(AXUIElementRef e) {
    Boolean settable = false;
    if (AXUIElementIsAttributeSettable(e, kAXValueAttribute, &settable) != kAXErrorSuccess) return 0;
    return settable ? 1 : 0;
}

static void ax_run_loop(double seconds) {
    CFRunLoopRunInMode(kCFRunLoopDefaultMode, seconds, true);
}
*/
import "C"

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/mj1618/desktop-text/internal/platform"
)

// element is a retained AXUIElementRef.
type element struct {
	ref C.AXUIElementRef
}

// newElement takes ownership of ref.
func newElement(ref C.AXUIElementRef) *element {
	e := &element{ref: ref}
	runtime.SetFinalizer(e, func(e *element) { C.ax_release(e.ref) })
	return e
}

func focusedElement() *element {
	ref := C.ax_focused_element()
	if ref == 0 {
		return nil
	}
	return newElement(ref)
}

func (e *element) equal(o *element) bool {
	if e == nil || o == nil {
		return e == o
	}
	return C.ax_equal(e.ref, o.ref) != 0
}

func (e *element) Resolve() (platform.Accessible, error) {
	return e, nil
}

func (e *element) Text() (platform.Text, error) {
	content, err := e.value()
	if err != nil {
		return nil, platform.ErrNoText
	}
	return &text{el: e, index: newUTF16Index(content)}, nil
}

func (e *element) IsEditable() (bool, error) {
	return C.ax_value_settable(e.ref) != 0, nil
}

func (e *element) value() (string, error) {
	var out *C.char
	if rc := C.ax_copy_value(e.ref, &out); rc != 0 {
		return "", fmt.Errorf("read AXValue: AXError %d", int(rc))
	}
	defer C.free(unsafe.Pointer(out))
	return C.GoString(out), nil
}

// text is the AX text of one element. AX ranges count UTF-16 units; the
// index converts them to rune offsets.
type text struct {
	el    *element
	index utf16Index
}

func (t *text) Content() (string, error) {
	return t.index.content, nil
}

func (t *text) CaretOffset() (int, error) {
	var loc, n C.long
	if rc := C.ax_selected_range(t.el.ref, &loc, &n); rc != 0 {
		return -1, nil
	}
	return t.index.runeOffset(int(loc)), nil
}

func (t *text) SetCaretOffset(offset int) error {
	return t.SetSelection(offset, offset)
}

func (t *text) SetSelection(start, end int) error {
	s, e := t.index.unitOffset(start), t.index.unitOffset(end)
	if rc := C.ax_set_selected_range(t.el.ref, C.long(s), C.long(e-s)); rc != 0 {
		return fmt.Errorf("set AXSelectedTextRange [%d,%d): AXError %d", start, end, int(rc))
	}
	return nil
}

func (t *text) CharacterExtents(offset int) (platform.BoundingBox, error) {
	s, e := t.index.unitOffset(offset), t.index.unitOffset(offset+1)
	var x, y, w, h C.double
	if rc := C.ax_bounds_for_range(t.el.ref, C.long(s), C.long(e-s), &x, &y, &w, &h); rc != 0 {
		return platform.BoundingBox{}, fmt.Errorf("AXBoundsForRange at %d: AXError %d", offset, int(rc))
	}
	return platform.BoundingBox{
		X:      int(math.Round(float64(x))),
		Y:      int(math.Round(float64(y))),
		Width:  int(math.Round(float64(w))),
		Height: int(math.Round(float64(h))),
	}, nil
}

// Embedded always fails: AXValue strings carry no object placeholders.
func (t *text) Embedded(charIndex int) (platform.Text, error) {
	return nil, fmt.Errorf("no embedded object at %d", charIndex)
}

func runLoop(seconds float64) {
	C.ax_run_loop(C.double(seconds))
}
