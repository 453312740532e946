package main

import (
	"os"

	"github.com/sleekspend/sleekspend/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
