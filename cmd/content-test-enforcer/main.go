package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/content-test-enforcer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		var failed *cli.FailedError
		if !errors.As(err, &failed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
