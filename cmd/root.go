package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-og/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "photo-og",
	Short: "Render and publish Open Graph preview images for a photo catalog",
	Long: `photo-og renders a 1200x628 Open Graph preview card for every photo of a
catalog manifest (optionally synced from PhotoPrism), uploads the cards to
object storage and writes the public URLs back into the manifest.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// NewRootCmd returns the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().String("config", "", "YAML config file overlaid on the environment")
	rootCmd.PersistentFlags().String("manifest", "", "Photo manifest path (default from OG_MANIFEST or photos-manifest.json)")
	rootCmd.PersistentFlags().StringSlice("font-dir", nil, "Extra directories searched for the card fonts")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if mustGetBool(cmd, "verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig reads the environment, overlays the --config file and applies
// the --manifest override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Load()
	if path := mustGetString(cmd, "config"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if manifest := mustGetString(cmd, "manifest"); manifest != "" {
		cfg.Manifest = manifest
	}
	cfg.OG.FontDirs = append(mustGetStringSlice(cmd, "font-dir"), cfg.OG.FontDirs...)
	if cfg.Manifest == "" {
		return nil, fmt.Errorf("manifest path is empty")
	}
	return cfg, nil
}
