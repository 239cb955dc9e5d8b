package main

import (
	"os"

	"github.com/Fepozopo/imgarith/pkg/cli"
)

func main() {
	os.Exit(cli.RunCLI())
}
