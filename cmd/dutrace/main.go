package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dutrace/internal/cli"
)

// version is set at build time via ldflags.
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dutrace: %v\n", err)
		os.Exit(1)
	}
}
