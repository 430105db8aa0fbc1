package main

import (
	"os"

	"github.com/orolle/crp-aide/internal/adapters/driving/cli"
)

func main() {
	err := cli.Execute()
	if closeErr := cli.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		os.Exit(1)
	}
}
