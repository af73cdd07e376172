// Package main provides the entry point for the pandoc-web CLI and server.
package main

import (
	"io"
	"os"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/joho/godotenv"

	"github.com/GabrielNunesIT/pandoc-web/internal/cli"
)

func main() {
	// A missing .env file is fine; the environment and config file still apply.
	_ = godotenv.Load()

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
// Logs go to stderr so stdout carries only command output.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log := logger.NewConsoleLogger(stderr)

	app := cli.New(log)

	root := app.Root()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := app.Execute(); err != nil {
		log.Errorf("Error: %v", err)
		return 1
	}

	return 0
}
