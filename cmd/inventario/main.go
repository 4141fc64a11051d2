package main

import (
	"os"

	"github.com/inventario-app/inventario/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
