package main

import (
	"os"

	"github.com/stockscope/backend/cmd/scope/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
