package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ChicagoDave/trailworld/internal/server"
	"github.com/ChicagoDave/trailworld/pkg/preview"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trailworld",
		Short: "Deterministic procedural world generator for trail scenes",
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "generate [project-path]",
		Short: "Generate a world and print its summary and overview as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.OutOrStdout(), args[0], workers)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent category placement (0 = GOMAXPROCS)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a recipe and the world it generates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args[0])
		},
	}
}

func previewCmd() *cobra.Command {
	var (
		out  string
		size int
	)

	cmd := &cobra.Command{
		Use:   "preview [project-path]",
		Short: "Render a top-down PNG of the generated world",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPreview(args[0], out, size)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "map.png", "output PNG path")
	cmd.Flags().IntVarP(&size, "size", "s", preview.DefaultSize, "image size in pixels")
	return cmd
}

func schemaCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Write the JSON schema for world.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchema(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "schema path (stdout when empty)")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the local dev server with live instance buffers",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			srv := server.New(args[0], port)
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
