package main

import (
	"os"

	"github.com/pk527236/ai-support-assistant/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
