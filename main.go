package main

import (
	"os"

	"github.com/intelligrit/room-index/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
