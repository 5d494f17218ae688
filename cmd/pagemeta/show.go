package main

import (
	"fmt"

	"github.com/fwojciec/pagemeta"
	"github.com/fwojciec/pagemeta/fs"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	snapshot, err := deps.Snapshots.FindSnapshotByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemeta.ErrorMessage(err))
		return err
	}

	if c.Format == "text" {
		fmt.Fprintln(deps.Stdout, pagemeta.FormatMetadata(snapshot.URL, snapshot.Metadata))
		return nil
	}

	b, err := fs.FormatRecord(snapshot.URL, snapshot.Metadata)
	if err != nil {
		return err
	}
	_, err = deps.Stdout.Write(b)
	return err
}
