package main

import (
	"os"

	"github.com/gomlx/go-subword/cmd/subword/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
