package main

import (
	"os"

	"github.com/pathologix/emtrainer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
