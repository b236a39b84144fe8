package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type healthCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

type healthOutput struct {
	Checks []healthCheck `json:"checks"`
	Passed int           `json:"passed"`
	Total  int           `json:"total"`
}

// NewHealthCommand creates the health command.
func NewHealthCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check store, archive and history source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := rootOpts.app
			var checks []healthCheck

			// Test 1: Store
			if a.Store.Kind() == "none" {
				checks = append(checks, healthCheck{Name: "Store", OK: true, Detail: "not configured, archive is memory-only"})
			} else if err := a.Store.HealthCheck(cmd.Context()); err != nil {
				checks = append(checks, healthCheck{Name: "Store", Detail: err.Error()})
			} else {
				checks = append(checks, healthCheck{Name: "Store", OK: true, Detail: a.Store.Kind()})
			}

			// Test 2: Archive data
			size := a.Archive.Size()
			checks = append(checks, healthCheck{
				Name:   "Archive",
				OK:     size > 0,
				Detail: fmt.Sprintf("%d draws, latest concourse %d", size, a.Archive.LatestSequenceNumber()),
			})

			// Test 3: History source
			report, err := a.Controller.Sync(cmd.Context())
			if err != nil {
				checks = append(checks, healthCheck{Name: "History source", Detail: err.Error()})
			} else {
				checks = append(checks, healthCheck{
					Name:   "History source",
					OK:     true,
					Detail: fmt.Sprintf("%d new draws", report.FetchedCount),
				})
			}

			out := healthOutput{Checks: checks, Total: len(checks)}
			for _, check := range checks {
				if check.OK {
					out.Passed++
				}
			}

			return writeOutput(rootOpts, cmd.OutOrStdout(), out, func(w io.Writer) {
				fmt.Fprintf(w, "Lotto Backend Health Check - %s\n", time.Now().Format("2006-01-02 15:04:05"))
				fmt.Fprintln(w, strings.Repeat("=", 50))
				for _, check := range checks {
					mark := "OK"
					if !check.OK {
						mark = "FAILED"
					}
					fmt.Fprintf(w, "%-16s %-7s %s\n", check.Name+":", mark, check.Detail)
				}
				fmt.Fprintln(w, strings.Repeat("-", 50))

				switch {
				case out.Passed == out.Total:
					fmt.Fprintf(w, "SYSTEM HEALTHY: %d/%d checks passed\n", out.Passed, out.Total)
				case out.Passed >= out.Total/2:
					fmt.Fprintf(w, "SYSTEM DEGRADED: %d/%d checks passed\n", out.Passed, out.Total)
				default:
					fmt.Fprintf(w, "SYSTEM UNHEALTHY: %d/%d checks passed\n", out.Passed, out.Total)
				}
			})
		},
	}
}
