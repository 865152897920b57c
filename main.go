package main

import (
	"os"

	"github.com/subha54820/Scam-Shield/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
