// Package atspi provides the Linux accessibility subsystem over the AT-SPI2
// D-Bus protocol: focus events, the Text, Hypertext and Hyperlink
// interfaces, and input synthesis through the registry's device event
// controller. On other platforms the package is empty.
package atspi
