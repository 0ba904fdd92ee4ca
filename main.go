package main

import (
	"os"

	"github.com/firefly-engineering/wsshift/cmd"
	"github.com/firefly-engineering/wsshift/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
