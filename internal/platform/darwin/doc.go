// Package darwin provides the macOS accessibility subsystem using the AX
// API and CoreGraphics event injection.
// All functionality requires CGo (Objective-C frameworks). On other
// platforms, or when CGo is disabled, the package is empty.
package darwin
