package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hitoshi/orbitforum/internal/client"
	"github.com/hitoshi/orbitforum/internal/client/cli"
)

func main() {
	serverURL := os.Getenv("ORBITFORUM_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8000"
	}

	sessionPath, err := client.DefaultSessionPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to resolve session path:", err)
		os.Exit(1)
	}

	api, err := client.NewSessionClient(serverURL, client.NewFileSessionStore(sessionPath))
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize client:", err)
		os.Exit(1)
	}

	app := cli.NewApp(api, os.Stdin, os.Stdout)
	if err := app.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "client exited with error:", err)
		os.Exit(1)
	}
}
