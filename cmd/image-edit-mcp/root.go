package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-edit-mcp/internal/config"
	"github.com/ironsheep/image-edit-mcp/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "image-edit-mcp",
	Short: "MCP server for image editing",
	Long: `image-edit-mcp serves an editable image canvas over the MCP protocol on
stdin/stdout. Configure it in your MCP client (e.g., Claude Desktop).

Environment variables:
  IMAGE_EDIT_LOG_LEVEL=debug        Enable debug logging
  IMAGE_EDIT_DEFAULT_SOURCE=<path>  Image loaded when no source is given
  IMAGE_EDIT_FETCH_TIMEOUT=30s      Timeout for remote images
  IMAGE_EDIT_CHART_WIDTH=1200       Histogram chart width in pixels
  IMAGE_EDIT_CHART_HEIGHT=400       Histogram chart height in pixels`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if cfg.Debug() {
			log.Printf("Image Edit MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server.Version = Version
		srv := server.New(cfg)
		if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
			return newExitCodeError(fmt.Errorf("server error: %w", err), ExitCodeServerError)
		}
		return nil
	},
}

// Execute executes the root command.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	err := rootCmd.Execute()
	if err != nil {
		rootCmd.PrintErrln("Error:", err)
	}
	return err
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("image-edit-mcp {{.Version}}\n  Build time: %s\n  Git commit: %s\n", BuildTime, GitCommit))
}

// loadConfig reads the environment and sets up logging. Logs go to stderr
// since stdout is for the MCP protocol.
func loadConfig() (config.Config, error) {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, newExitCodeError(err, ExitCodeConfigError)
	}
	return cfg, nil
}
