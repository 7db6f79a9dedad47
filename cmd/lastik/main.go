// Command lastik runs the tire shop ledger: the HTTP API, the overdue hotel
// report and the inventory reconciliation.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/erazemk/lastik/internal/config"
)

// Exit codes.
const (
	exitOK        = 0
	exitError     = 1
	exitUsage     = 2
	exitAttention = 3
)

const usage = `Usage: lastik [command] [flags]

Commands:
  serve        run the HTTP API (default)
  expired      list hotel entries past their retrieval date
  reconcile    compare the inventory index with the ledgers

Common flags:
  -s, -store <kind>       sqlite, redis or memory (default: sqlite, env LASTIK_STORE)
  -d, -db <path>          SQLite database path (default: lastik.sqlite3, env LASTIK_DB)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit

serve flags:
  -a, -addr <host:port>   listen address (default: :8080, env LASTIK_ADDR)
  -i, -interval <dur>     overdue hotel alert interval, 0 disables (default: 1h)

expired flags:
  -at <time>              evaluate at this date or RFC 3339 time (default: now)

reconcile flags:
  -repair                 replace the index with the replayed ledgers

Redis is configured with LASTIK_REDIS_ADDR, LASTIK_REDIS_PASSWORD,
LASTIK_REDIS_DB and LASTIK_REDIS_PREFIX. Settings may also come from a .env file.

expired and reconcile exit with status 3 when they find something to act on.
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	switch cmd {
	case "serve":
		return cmdServe(ctx, cfg, args, stdout, stderr)
	case "expired":
		return cmdExpired(ctx, cfg, args, stdout, stderr)
	case "reconcile":
		return cmdReconcile(ctx, cfg, args, stdout, stderr)
	case "help":
		fmt.Fprint(stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", cmd)
		fmt.Fprint(stderr, usage)
		return exitUsage
	}
}

// newFlagSet registers the flags every command shares, defaulting to cfg.
func newFlagSet(name string, cfg *config.Config, stdout io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { fmt.Fprint(stdout, usage) }

	fs.StringVar(&cfg.Store, "store", cfg.Store, "")
	fs.StringVar(&cfg.Store, "s", cfg.Store, "")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")
	return fs
}

// parseFlags parses args and validates the result. It returns false with the
// exit code when the command should stop.
func parseFlags(fs *flag.FlagSet, cfg config.Config, args []string, stderr io.Writer) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK, false
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage, false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected argument: %s\n", fs.Arg(0))
		return exitUsage, false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage, false
	}
	return exitOK, true
}
