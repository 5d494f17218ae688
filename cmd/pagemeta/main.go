package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagemeta"
	"github.com/fwojciec/pagemeta/fs"
	"github.com/fwojciec/pagemeta/goquery"
	pmhttp "github.com/fwojciec/pagemeta/http"
	"github.com/fwojciec/pagemeta/rod"
	pmslog "github.com/fwojciec/pagemeta/slog"
	"github.com/fwojciec/pagemeta/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Extractor overrides the HTTP or browser extractor. Used by tests.
	Extractor pagemeta.PageExtractor
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		err := m.DB.Close()
		m.DB = nil
		return err
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagemeta"),
		kong.Description("Extract page metadata: meta tags, canonical URL, images, links and headings"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagemeta --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := kongCtx.Selected().Name

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Open the database only for commands that use it
	if cmd != "extract" || cli.Extract.Save {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			m.DB = nil
			fmt.Fprintf(stderr, "Hint: Set PAGEMETA_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		snapshots := sqlite.NewSnapshotService(m.DB)
		deps.Snapshots = snapshots
		if cli.Extract.Save {
			deps.Archive = sqlite.NewSnapshotStore(snapshots)
		}
	}

	if cmd == "extract" {
		limits := cli.Extract.Limits()
		if err := limits.Validate(); err != nil {
			return err
		}
		if cli.Extract.Concurrency < 1 {
			return pagemeta.Errorf(pagemeta.EINVALID, "concurrency must be at least 1")
		}
		if cli.Extract.Retries < 0 {
			return pagemeta.Errorf(pagemeta.EINVALID, "retries must not be negative")
		}

		extractor := m.Extractor
		if extractor == nil {
			var closeFn func() error
			extractor, closeFn, err = newExtractor(&cli.Extract, limits, deps.Logger)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer closeFn()
		}
		deps.Extractor = pmslog.NewLoggingPageExtractor(extractor, deps.Logger)

		if cli.Extract.Out != "" {
			out := filepath.Clean(cli.Extract.Out)
			deps.Files = fs.NewFileStore(filepath.Dir(out), filepath.Base(out))
		}
	}

	return kongCtx.Run(deps)
}

// newExtractor builds the browser or static HTML extractor for c.
// The returned func releases the extractor's resources.
func newExtractor(c *ExtractCmd, limits pagemeta.Limits, logger *slog.Logger) (pagemeta.PageExtractor, func() error, error) {
	if c.Browser {
		manager, err := rod.NewBrowserManager()
		if err != nil {
			return nil, nil, err
		}
		extractor := rod.NewPageExtractor(manager,
			rod.WithTimeout(c.Timeout),
			rod.WithRenderDelay(c.RenderDelay),
			rod.WithIdleWait(c.Idle),
			rod.WithLimits(limits),
		)
		return extractor, manager.Close, nil
	}

	var fetcher pagemeta.Fetcher = pmhttp.NewFetcher(pmhttp.WithTimeout(c.Timeout))
	if c.Retries > 0 {
		fetcher = pmhttp.NewRetryFetcher(fetcher,
			pmhttp.WithRetryDelays(c.RetryDelays()),
			pmhttp.WithRetryLogger(logger),
		)
	}
	fetcher = pmslog.NewLoggingFetcher(fetcher, logger)
	return goquery.NewPageExtractor(fetcher, goquery.WithLimits(limits)), fetcher.Close, nil
}

func defaultDBPath() string {
	if path := os.Getenv("PAGEMETA_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pagemeta.db"
	}
	dir := filepath.Join(home, ".pagemeta")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "pagemeta.db")
}
