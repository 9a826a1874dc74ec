// Package list prints the saved link history for the `links` command.
package list

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"keepsake/internal/links"
)

func Run(ctx context.Context, w io.Writer, dbPath, kind string, limit int) error {
	if !fileExists(dbPath) {
		fmt.Fprintf(w, "Keepsake database not found at %s\n", dbPath)
		fmt.Fprintln(w, "Hint: create a capsule or send a gift first, or set database.path in ~/.config/keepsake/config.yaml.")
		return nil
	}

	db, err := links.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed opening the Keepsake database: %w", err)
	}
	defer db.Close()

	rows, err := links.List(ctx, db, kind, limit)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "no such table") {
			fmt.Fprintln(w, "Keepsake database is present but has no link history yet.")
			return nil
		}
		return fmt.Errorf("query failed while reading link history: %w", err)
	}

	if len(rows) == 0 {
		if kind != "" {
			fmt.Fprintf(w, "No %s links saved yet.\n", kind)
		} else {
			fmt.Fprintln(w, "No links saved yet.")
		}
		return nil
	}

	fmt.Fprintf(w, "Found %d links:\n\n", len(rows))
	for _, r := range rows {
		ref := r.Ref
		if ref == "" {
			ref = "-"
		}
		fmt.Fprintf(w, "Kind: %s\n", r.Kind)
		fmt.Fprintf(w, "Ref: %s\n", ref)
		fmt.Fprintf(w, "Link: %s\n", r.URL)
		fmt.Fprintf(w, "Date: %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintln(w, strings.Repeat("-", 80))
	}
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	if _, err := os.Stat(path); err == nil {
		return true
	}
	return false
}
