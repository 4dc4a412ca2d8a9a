package main

import (
	"os"

	"github.com/flexnode/dsm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
