package main

import (
	"github.com/mj1618/desktop-text/cmd"

	_ "github.com/mj1618/desktop-text/internal/platform/atspi"
	_ "github.com/mj1618/desktop-text/internal/platform/darwin"
)

func main() {
	cmd.Execute()
}
