package main

import (
	"os"

	"github.com/tobsdb/tdblite/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
