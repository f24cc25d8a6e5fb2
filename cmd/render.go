package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-og/internal/catalog"
)

var renderCmd = &cobra.Command{
	Use:   "render <item-id>",
	Short: "Render the preview of one manifest item to a local file",
	Long: `Render the preview card of a single item without uploading it. The output
format follows --svg; the default is PNG. Use this to check a layout or a
font setup before a run.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("output", "o", "", "Output file (default <item-id>.png or .svg)")
	renderCmd.Flags().Bool("svg", false, "Write the vector form instead of PNG")
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	manifest, err := catalog.LoadManifest(cfg.Manifest)
	if err != nil {
		return err
	}
	item, err := findItem(manifest, args[0])
	if err != nil {
		return err
	}

	svg := mustGetBool(cmd, "svg")
	output := mustGetString(cmd, "output")
	if output == "" {
		output = item.ID + ".png"
		if svg {
			output = item.ID + ".svg"
		}
	}

	// Rendering works without storage, so a disabled publisher is fine here.
	publisher := newPublisher(ctx, cfg, nil)

	var data []byte
	if svg {
		var buf bytes.Buffer
		if err := publisher.WriteItemSVG(ctx, &buf, item); err != nil {
			return fmt.Errorf("could not render %s: %w", item.ID, err)
		}
		data = buf.Bytes()
	} else {
		data, err = publisher.RenderItem(ctx, item)
		if err != nil {
			return fmt.Errorf("could not render %s: %w", item.ID, err)
		}
	}

	if err := os.WriteFile(output, data, 0600); err != nil {
		return fmt.Errorf("could not write %s: %w", output, err)
	}
	fmt.Printf("Rendered %s to %s (%d bytes)\n", cfg.PhotoPrism.PhotoURL(item.ID), output, len(data))
	return nil
}
