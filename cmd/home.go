package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-og/internal/catalog"
	"github.com/kozaktomas/photo-og/internal/og"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Render and publish the site-level card",
	Long: `Render the homepage card (site name, catalog statistics and a collage of
the newest photos) and upload it as home.png next to the item previews.
With --output the card is written to a local file instead.`,
	Args: cobra.NoArgs,
	RunE: runHome,
}

func init() {
	rootCmd.AddCommand(homeCmd)

	homeCmd.Flags().StringP("output", "o", "", "Write the PNG to this file instead of publishing")
	homeCmd.Flags().Bool("force", false, "Upload even when the card was already uploaded")
}

func runHome(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	manifest, err := catalog.LoadManifestOrEmpty(cfg.Manifest)
	if err != nil {
		return err
	}
	publisher := newPublisher(ctx, cfg, nil)

	if output := mustGetString(cmd, "output"); output != "" {
		data, err := publisher.RenderHome(ctx, manifest.Data)
		if err != nil {
			return fmt.Errorf("could not render home card: %w", err)
		}
		if err := os.WriteFile(output, data, 0600); err != nil {
			return fmt.Errorf("could not write %s: %w", output, err)
		}
		fmt.Printf("Home card written to %s (%d bytes)\n", output, len(data))
		return nil
	}

	if err := requireEnabled(publisher); err != nil {
		return err
	}
	out := publisher.PublishHome(ctx, manifest.Data, og.Signal{ForceMode: mustGetBool(cmd, "force")})
	if out.Status != og.StatusPublished {
		return fmt.Errorf("home card %s at %s stage: %w", out.Status, out.Stage, out.Err)
	}
	fmt.Printf("Home card published: %s\n", out.URL)
	return nil
}
