// Command ledgerctl runs operator tasks against the ledger database.
//
//	ledgerctl recalculate [-group ID]   rebuild balances from history
//	ledgerctl preview -group ID         show what simplifying would save
//	ledgerctl token -user ID            issue a bearer token for a user
//
// It reads the same environment configuration as the server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/splitledger/internal/app"
	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/pkg/logging"
)

var errUsage = errors.New("usage: ledgerctl <recalculate|preview|token> [flags]")

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.SetupWith(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, errUsage)
			os.Exit(2)
		}
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "recalculate":
		return recalculate(ctx, cfg, args[1:], out)
	case "preview":
		return preview(ctx, cfg, args[1:], out)
	case "token":
		return token(cfg, args[1:], out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func recalculate(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("recalculate", flag.ContinueOnError)
	groupID := fs.String("group", "", "only rebuild this group")
	concurrency := fs.Int("concurrency", cfg.RecalcConcurrency, "groups rebuilt in parallel")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, metrics.New(prometheus.NewRegistry()))
	if err != nil {
		return err
	}
	defer a.Close()

	if *groupID != "" {
		rows, err := a.Engine.RecalculateGroupBalances(ctx, *groupID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "group %s: %d balance rows\n", *groupID, len(rows))
		return nil
	}

	n, err := a.Engine.RecalculateAll(ctx, *concurrency)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "recalculated %d groups\n", n)
	return nil
}

func preview(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	groupID := fs.String("group", "", "group to preview")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *groupID == "" {
		return fmt.Errorf("%w: preview needs -group", errUsage)
	}

	a, err := app.New(ctx, cfg, metrics.New(prometheus.NewRegistry()))
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.Engine.GetSimplificationPreview(ctx, "", *groupID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "current\t%d\n", p.CurrentTransactions)
	fmt.Fprintf(w, "simplified\t%d\n", p.SimplifiedTransactions)
	fmt.Fprintf(w, "saved\t%d (%.1f%%)\n", p.TransactionsSaved, p.PercentageSaved)
	fmt.Fprintln(w)
	for _, r := range p.Simplified {
		fmt.Fprintf(w, "%s\t->\t%s\t%s\n", r.FromUserID, r.ToUserID, r.Amount)
	}
	return w.Flush()
}

func token(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	userID := fs.String("user", "", "user the token identifies")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == "" {
		return fmt.Errorf("%w: token needs -user", errUsage)
	}
	if cfg.Auth.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY is not set")
	}

	t, err := auth.NewJWTManager(cfg.Auth.JWTSecretKey, cfg.Auth.TokenDuration).Generate(*userID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, t)
	return nil
}
