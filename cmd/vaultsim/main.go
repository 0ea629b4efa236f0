// Command vaultsim is a time-travel sandbox for yield vaults.
package main

import (
	"os"

	"github.com/roach88/vaultsim/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
