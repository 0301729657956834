// Command stringart turns images into string art.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/stringart/internal/cli"
	sterrors "github.com/matzehuels/stringart/pkg/errors"
)

// Exit codes.
const (
	exitFailure   = 1
	exitBadInput  = 2
	exitInterrupt = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		code := exitCode(err)
		if code != exitInterrupt {
			fmt.Fprintf(os.Stderr, "stringart: %v\n", err)
		}
		os.Exit(code)
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	cli.RegisterHooks(c.Logger)
	return c.RootCommand().ExecuteContext(ctx)
}

// exitCode maps err to the process status: 130 after an interrupt, 2 when
// the user supplied bad input (image, config, plan, format or path), 1 for
// every other failure.
func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return exitInterrupt
	case sterrors.IsInvalid(err):
		return exitBadInput
	}
	return exitFailure
}
