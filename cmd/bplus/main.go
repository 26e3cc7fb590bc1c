package main

import (
	"os"

	"github.com/alihshawon/bplus-lang/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
