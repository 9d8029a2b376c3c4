package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/user-profile/internal/common/bootstrap"
	srv "github.com/AlibekovAA/user-profile/internal/common/server"
)

const serviceName = "profile"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.NewApp(ctx, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start %s service: %v\n", serviceName, err)
		os.Exit(1)
	}

	serverConfig := srv.FromServiceConfig(app.Config)
	server := srv.New(serverConfig, app.Routes())

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			app.Log.Infof("%s service: stopping background workers", serviceName)
			cancel()
			return nil
		},
	}

	runErr := srv.Run(ctx, server, nil, serverConfig, app.Log, serviceName, shutdownHooks...)

	if err := app.Close(context.Background()); err != nil {
		app.Log.Errorf("failed to close store: %v", err)
	}
	if runErr != nil {
		app.Log.Fatalf("%s service: %v", serviceName, runErr)
	}
}
