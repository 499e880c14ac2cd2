package main

import (
	"os"

	"github.com/mo-amir99/lms-progress-server-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
