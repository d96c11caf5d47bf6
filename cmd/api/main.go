// Package main provides the main entry point for the NutriPlan API server
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/infrastructure/config"
	"github.com/nutriplan/backend/internal/infrastructure/container"
	"github.com/nutriplan/backend/internal/infrastructure/persistence/memory"
	"github.com/nutriplan/backend/internal/infrastructure/security"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Configuration file path")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage:\n  %s [-config path]\n  %s [-config path] token <user-id> [role]\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.Arg(0) == "token" {
		if err := issueToken(*configPath, flag.Args()[1:]); err != nil {
			log.Fatal(err)
		}
		return
	}

	app := fx.New(
		fx.NopLogger, // Use our own logger instead of Fx's
		fx.Supply(container.ConfigPath(*configPath)),
		container.Module,
	)

	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		if sig.ExitCode != 0 {
			defer os.Exit(sig.ExitCode)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
	}
}

// issueToken prints a signed access token. Users are managed by an external
// identity provider, so this is how development and test tokens are minted.
func issueToken(configPath string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("token: user id is required")
	}
	userID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("token: invalid user id: %w", err)
	}
	role := ""
	if len(args) > 1 {
		role = args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	revoked := memory.NewCacheRepository(time.Minute)
	defer revoked.Close()

	token, err := security.NewAuthService(cfg.Auth, revoked, zap.NewNop()).GenerateAccessToken(userID, role)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
