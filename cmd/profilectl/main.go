package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/user-profile/internal/client/cli"
	"github.com/AlibekovAA/user-profile/internal/common/config"
)

func main() {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cli.NewRootCommand(cfg, os.Stdin).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
