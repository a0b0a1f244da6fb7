package main

import (
	"os"

	"github.com/Geti23/quiz-app/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
