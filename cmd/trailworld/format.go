package main

import (
	"fmt"
	"io"

	"github.com/ChicagoDave/trailworld/pkg/validation"
	"github.com/ChicagoDave/trailworld/pkg/world"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, e := range r.Warnings {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(w io.Writer, e validation.Result) {
	fmt.Fprintf(w, "  [%s] %s\n", e.Level, e.Message)
	if e.Field != "" {
		fmt.Fprintf(w, "    -> %s = %v\n", e.Field, e.ActualValue)
	}
	if e.Expected != "" {
		fmt.Fprintf(w, "    expected: %s\n", e.Expected)
	}
	for _, s := range e.Suggestions {
		fmt.Fprintf(w, "    * %s\n", s)
	}
}

func printSummary(w io.Writer, s world.Summary) {
	fmt.Fprintf(w, "World %q (seed %v, key %s)\n", s.Name, s.Seed, s.Key[:12])
	fmt.Fprintf(w, "  Path length: %.1f m, lakes: %d, hammocks: %d\n", s.PathLength, s.Lakes, s.Hammocks)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-14s %-10s %9s %9s\n", "Category", "Mode", "Requested", "Placed")
	fmt.Fprintf(w, "%-14s %-10s %9s %9s\n", "--------------", "----------", "---------", "---------")
	for _, c := range s.Categories {
		req := "-"
		if c.Requested > 0 {
			req = fmt.Sprint(c.Requested)
		}
		fmt.Fprintf(w, "%-14s %-10s %9s %9d\n", c.Name, c.Mode, req, c.Placed)
	}

	if len(s.Spurs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-18s %-8s %8s %8s %9s %11s\n", "Spur", "Kind", "t", "Length", "Occluders", "Breadcrumbs")
		for _, sp := range s.Spurs {
			fmt.Fprintf(w, "%-18s %-8s %8.3f %8.1f %9d %11d\n",
				sp.ID, sp.Kind, sp.JunctionT, sp.Length, sp.Occluders, sp.Breadcrumbs)
		}
	}
}
