package main

import (
	"os"

	"github.com/joaopmafra/sapie/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
