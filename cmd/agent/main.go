package main

import (
	"os"

	"github.com/swipesavvy/location-tracking-go/internal/cli"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
