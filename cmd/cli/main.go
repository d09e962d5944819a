// Package main is the entry point for the sheetline CLI binary.
package main

import (
	"os"

	cli "sheetline/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
