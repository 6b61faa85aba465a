package main

import (
	"os"

	"github.com/a2sh3r/onagui-ledger/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
