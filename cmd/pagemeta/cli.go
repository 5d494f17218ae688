package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/pagemeta"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Extractor pagemeta.PageExtractor
	Snapshots pagemeta.SnapshotService

	// Files receives results when --out is set.
	Files pagemeta.ResultStore
	// Archive receives results when --save is set.
	Archive pagemeta.ResultStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log fetches and extractions to stderr"`

	Extract ExtractCmd `cmd:"" help:"Extract metadata from one or more pages"`
	History HistoryCmd `cmd:"" help:"List saved snapshots for a URL"`
	Show    ShowCmd    `cmd:"" help:"Print a saved snapshot as JSON"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a saved snapshot"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URLs        []string      `arg:"" name:"url" help:"Page URLs to extract"`
	Browser     bool          `short:"b" help:"Render pages in headless Chrome before extracting"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Timeout per page"`
	RenderDelay time.Duration `default:"0s" help:"Extra wait after load when rendering in Chrome"`
	Idle        time.Duration `default:"0s" help:"Wait until the network has been idle this long after load when rendering in Chrome (0 disables)"`
	Concurrency int           `short:"c" default:"3" help:"Concurrent extraction limit"`
	Retries     int           `short:"r" default:"2" help:"Retries for transient HTTP failures, with 1s, 2s, 4s... backoff"`
	MaxImages   int           `default:"10" help:"Maximum images to keep"`
	MaxLinks    int           `default:"20" help:"Maximum links to keep"`
	MaxHeadings int           `default:"20" help:"Maximum headings to keep"`
	Format      string        `short:"f" enum:"json,text" default:"json" help:"Output format (json, text)"`
	Out         string        `short:"o" help:"Write one JSON file per page under this directory"`
	Save        bool          `short:"s" help:"Record results as snapshots in the database"`
}

// Limits returns the truncation limits requested on the command line.
func (c *ExtractCmd) Limits() pagemeta.Limits {
	return pagemeta.Limits{
		Images:   c.MaxImages,
		Links:    c.MaxLinks,
		Headings: c.MaxHeadings,
	}
}

// RetryDelays returns the backoff before each retry: 1s, 2s, 4s and so on.
func (c *ExtractCmd) RetryDelays() []time.Duration {
	delays := make([]time.Duration, 0, c.Retries)
	for i := 0; i < c.Retries; i++ {
		delays = append(delays, time.Second<<i)
	}
	return delays
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL   string `arg:"" help:"Page URL"`
	Limit int    `short:"n" default:"20" help:"Maximum snapshots to list"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID     string `arg:"" help:"Snapshot ID"`
	Format string `short:"f" enum:"json,text" default:"json" help:"Output format (json, text)"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Snapshot ID"`
	Force bool   `help:"Confirm deletion"`
}
