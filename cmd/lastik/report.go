package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/erazemk/lastik/internal/config"
	"github.com/erazemk/lastik/internal/model"
)

func cmdExpired(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("expired", &cfg, stdout)
	var at string
	fs.StringVar(&at, "at", "", "")
	if code, ok := parseFlags(fs, cfg, args, stderr); !ok {
		return code
	}

	now := time.Now()
	if at != "" {
		t, err := model.ParseTime(at)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}
		now = t
	}

	// Reports go to stdout, so logs stay on stderr.
	closeLog, err := setupLogger(stderr, stderr, cfg.LogPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	defer closeLog()

	s, err := openSession(ctx, cfg)
	if err != nil {
		slog.Error("failed to open session", "error", err)
		return exitError
	}
	defer s.Close()

	expired := s.Expired(now)
	if len(expired) == 0 {
		fmt.Fprintln(stdout, "no overdue hotel entries")
		return exitOK
	}
	printExpired(stdout, expired, now)
	return exitAttention
}

func printExpired(w io.Writer, entries []model.HotelEntry, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tPLATE\tTIRES\tDUE\tDAYS OVERDUE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\n",
			e.ID, e.CustomerName, e.PlateNumber, e.Quantity,
			e.RetrievalDate.Format(time.DateOnly), int(now.Sub(e.RetrievalDate).Hours()/24))
	}
	tw.Flush()
}

func cmdReconcile(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("reconcile", &cfg, stdout)
	var repair bool
	fs.BoolVar(&repair, "repair", false, "")
	if code, ok := parseFlags(fs, cfg, args, stderr); !ok {
		return code
	}

	closeLog, err := setupLogger(stderr, stderr, cfg.LogPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	defer closeLog()

	s, err := openSession(ctx, cfg)
	if err != nil {
		slog.Error("failed to open session", "error", err)
		return exitError
	}
	defer s.Close()

	drift, err := s.Reconcile(ctx, repair)
	if err != nil {
		slog.Error("failed to reconcile inventory", "error", err)
		return exitError
	}
	if len(drift) == 0 {
		fmt.Fprintln(stdout, "inventory index matches the ledgers")
		return exitOK
	}

	printDrift(stdout, drift)
	if repair {
		fmt.Fprintf(stdout, "repaired %d records\n", len(drift))
		return exitOK
	}
	return exitAttention
}

func printDrift(w io.Writer, drift []model.Drift) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIRE\tINDEXED\tREPLAYED")
	for _, d := range drift {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", d.TireID, d.Indexed, d.Replayed)
	}
	tw.Flush()
}
