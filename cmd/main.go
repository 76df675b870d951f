package main

import (
	"context"
	"fmt"
	"os"

	"sysmon/app"
	"sysmon/apperrors"
)

func main() {
	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
	os.Exit(application.Run(context.Background(), os.Stdout))
}
