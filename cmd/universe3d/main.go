// Command universe3d runs an n-body gravity simulation, try -headless 500 -chart run.png
package main

import (
	"os"

	"github.com/lixenwraith/particle3d/app"
	"github.com/lixenwraith/particle3d/config"
)

func main() {
	os.Exit(app.Main("universe3d", config.VariantUniverse, os.Args[1:]))
}
