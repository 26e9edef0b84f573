package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"FlashSaleSwiggy/config/database"
	"FlashSaleSwiggy/config/environment"
	"FlashSaleSwiggy/models"
	"FlashSaleSwiggy/services"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flashsale",
		Short:         "Check Swiggy outlet menus for missing flash-sale items",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetFlags(0)
			return nil
		},
	}

	root.AddCommand(newCheckCmd(), newCheckOutletCmd(), newListCmd())
	return root
}

// loadConfig reads the shared configuration, reporting failures on the command's error stream.
func loadConfig(cmd *cobra.Command) (*environment.Config, error) {
	cfg, err := environment.Load()
	if err != nil {
		cmd.PrintErrf("❌ Invalid configuration: %v\n", err)
		return nil, err
	}
	return cfg, nil
}

// recordRun stores the run in Firestore when it is configured. The CLI keeps no local history.
func recordRun(ctx context.Context, cfg *environment.Config, outlets []models.Outlet, targetCount int, results []models.MatchResult) {
	if !cfg.FirestoreEnabled() {
		return
	}
	client, err := database.InitFirebase(ctx, cfg)
	if err != nil {
		log.Printf("⚠️  Skipping report history: %v", err)
		return
	}
	defer client.Close()

	services.RecordReport(ctx, services.NewFirestoreReportStore(client),
		services.NewReport(models.SourceCLI, outlets, targetCount, results))
}
