// Command boids3d runs a 3D flocking simulation in the terminal.
//
//	boids3d [flags] [white|black]
package main

import (
	"os"

	"github.com/lixenwraith/particle3d/app"
	"github.com/lixenwraith/particle3d/config"
)

func main() {
	os.Exit(app.Main("boids3d", config.VariantBoids, os.Args[1:]))
}
