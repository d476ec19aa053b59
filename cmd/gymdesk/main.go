package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vivekgym/gymdesk/internal/app"
)

// main runs the CLI entrypoint and exits on unrecoverable errors.
func main() {
	if errRun := run(context.Background(), os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("command failed")
		os.Exit(1)
	}
}

// run parses flags, loads the environment, and starts the server.
func run(ctx context.Context, args []string) error {
	// Same .env the settings screen historically wrote; missing is fine.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("gymdesk", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env GYMDESK_CONFIG)")
	port := fs.Int("port", 8190, "server port when the config does not set one")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}

	if errValidate := validatePort(*port); errValidate != nil {
		return errValidate
	}

	return app.RunServer(ctx, *cfgPath, *port)
}

func validatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}
