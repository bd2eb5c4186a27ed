package main

import (
	"os"

	"github.com/lixenwraith/particle3d/app"
	"github.com/lixenwraith/particle3d/config"
)

func main() {
	os.Exit(app.Main("gravity3d", config.VariantGravity, os.Args[1:]))
}
