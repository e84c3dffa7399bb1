// Package main is the entrypoint for the globaltrade platform server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/globaltrade/platform/internal/config"
	"github.com/globaltrade/platform/internal/server"
	"github.com/globaltrade/platform/pkg/db"
)

const usage = `Usage: globaltrade [command]
       globaltrade serve     Start the platform (HTTP API, WebSocket, agents).
       globaltrade migrate   Run database migrations.
       globaltrade clear     Truncate all platform tables; schema is preserved.

Commands:
  serve     (default) Start the trade platform server.
  migrate   Run database migrations only.
  clear     Truncate platform data; schema preserved.

Environment: DATABASE_URL (required), MIGRATION_PATH, HTTP_PORT (default 8080),
COMMS_URL (optional, enables change events), OPENAI_API_KEY.
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" {
		cmd = args[0]
	}

	switch cmd {
	case "migrate":
		if err := runMigrate(); err != nil {
			log.Fatalf("globaltrade migrate: %v", err)
		}
		return
	case "clear":
		if err := runClear(); err != nil {
			log.Fatalf("globaltrade clear: %v", err)
		}
		return
	case "help", "-h", "--help":
		fmt.Print(usage)
		return
	case "serve", "":
		// serve (explicit or default)
		break
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q.\n%s", cmd, usage)
		os.Exit(1)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("globaltrade: %v", err)
	}
}

func runMigrate() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	migrationSQL, err := db.LoadMigrationFiles(cfg.MigrationPath)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if err := db.RunMigrations(ctx, pool, migrationSQL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func runClear() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForDB(); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := db.ClearPlatform(ctx, pool); err != nil {
		return fmt.Errorf("clear platform: %w", err)
	}
	return nil
}
