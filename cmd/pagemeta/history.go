package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/pagemeta"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	snapshots, err := deps.Snapshots.FindSnapshots(deps.Ctx, pagemeta.SnapshotFilter{
		URL:   &c.URL,
		Limit: c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemeta.ErrorMessage(err))
		return err
	}

	if len(snapshots) == 0 {
		fmt.Fprintf(deps.Stdout, "No snapshots for %s. Use 'pagemeta extract --save' to record one.\n", c.URL)
		return nil
	}

	for _, s := range snapshots {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", s.ID, s.ExtractedAt.Format(time.RFC3339), shortHash(s.Hash))
	}

	return nil
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
