// Command client is a terminal sync client: it logs in, loads the caller's
// feedback, then follows the realtime feed and prints the store whenever it
// changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/feedtrack/feedtrack/internal/client"
	"github.com/feedtrack/feedtrack/internal/store"
)

func main() {
	baseURL := flag.String("server", "http://localhost:8080", "server base URL")
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: client -email you@example.com -password secret [-server url]")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	c, err := client.New(*baseURL, logger)
	if err != nil {
		logger.Error("client setup failed", "error", err)
		os.Exit(1)
	}

	unsubscribe := c.Store().Subscribe(printSnapshot)
	defer unsubscribe()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := c.Login(ctx, *email, *password); err != nil {
		logger.Error("login failed", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()

	logoutCtx := context.Background()
	if err := c.Logout(logoutCtx); err != nil {
		logger.Error("logout failed", "error", err)
	}
}

func printSnapshot(snap store.Snapshot) {
	if snap.Identity == nil {
		fmt.Println("-- signed out --")
		return
	}
	fmt.Printf("-- %s (%d items) --\n", snap.Identity.DisplayName, len(snap.Items))
	for _, item := range snap.Items {
		fmt.Printf("  [%s] %-12s %s\n", item.Category, item.Status, item.Title)
	}
}
