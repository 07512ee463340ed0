package main

import (
	"os"

	"casa/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
