package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"bidcheck/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.RootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if hint := cli.Hint(err); hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		stop()
		os.Exit(1)
	}
}
