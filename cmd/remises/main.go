// AngelaMos | 2026
// main.go

// Command remises runs one commission generation pass. Intended to be
// invoked from cron or by an operator; safe to re-run because already
// linked prospects are never counted twice.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fofanamamadou/affiliation-project/internal/commission"
	"github.com/fofanamamadou/affiliation-project/internal/config"
	"github.com/fofanamamadou/affiliation-project/internal/core"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	montant := flag.Int64("montant", 0,
		"amount per confirmed prospect (0 uses the configured default)")
	dryRun := flag.Bool("dry-run", false,
		"report what would be generated without writing anything")
	flag.Parse()

	if err := run(*configPath, *montant, *dryRun); err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, montant int64, dryRun bool) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if montant == 0 {
		montant = cfg.Remise.MontantParProspect
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := commission.NewService(
		commission.NewRepository(db.DB),
		db.DB,
		cfg.Remise.JustificatifDir,
	)

	start := time.Now()
	report, err := svc.Generate(ctx, montant, dryRun)
	if err != nil {
		return err
	}

	printReport(report, time.Since(start))
	return nil
}

func printReport(report *commission.GenerationReport, elapsed time.Duration) {
	if report.DryRun {
		fmt.Println("DRY RUN: no remises were created")
	}

	if len(report.Lines) == 0 {
		fmt.Println("no confirmed prospects awaiting a remise")
		return
	}

	for _, line := range report.Lines {
		fmt.Printf("%-36s  %-24s  %3d prospects  %8d",
			line.InfluenceurID,
			line.InfluenceurNom,
			line.Prospects,
			line.Montant,
		)
		if line.RemiseID != "" {
			fmt.Printf("  remise=%s", line.RemiseID)
		}
		fmt.Println()
	}

	fmt.Printf("\n%d remise(s), %d prospect(s), total %d (montant/prospect %d) in %s\n",
		len(report.Lines),
		report.TotalProspects,
		report.TotalMontant,
		report.MontantParProspect,
		elapsed.Round(time.Millisecond),
	)
}
