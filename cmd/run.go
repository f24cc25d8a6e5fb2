package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-og/internal/catalog"
	"github.com/kozaktomas/photo-og/internal/config"
	"github.com/kozaktomas/photo-og/internal/og"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Render and publish preview images for every manifest item",
	Long: `Render the OG preview of every item in the manifest, upload it to the
configured storage and write the public URL back into the manifest.

Items whose content did not change since the last publish only have their
existing URL resolved. --force re-renders and re-uploads everything;
--force-manifest does the same when the manifest is being rebuilt.

When PhotoPrism is configured the manifest is first synced from the library.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("force", false, "Re-render and re-upload every item")
	runCmd.Flags().Bool("force-manifest", false, "Treat the manifest as rebuilt and re-publish every item")
	runCmd.Flags().Bool("skip-home", false, "Do not publish the site-level card")
	runCmd.Flags().Bool("no-sync", false, "Do not sync items from PhotoPrism even when configured")
	runCmd.Flags().Int("limit", 0, "Process at most this many items (0 = all)")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	force := mustGetBool(cmd, "force")
	forceManifest := mustGetBool(cmd, "force-manifest")
	limit := mustGetInt(cmd, "limit")

	manifest, err := catalog.LoadManifestOrEmpty(cfg.Manifest)
	if err != nil {
		return err
	}

	var thumbs catalog.ThumbnailSource
	if cfg.PhotoPrism.Enabled() && !mustGetBool(cmd, "no-sync") {
		source, closeFn, err := syncFromPhotoPrism(ctx, &cfg.PhotoPrism, manifest)
		if err != nil {
			return err
		}
		defer closeFn()
		thumbs = source
	}

	publisher := newPublisher(ctx, cfg, thumbs)
	if !publisher.Enabled() {
		fmt.Printf("OG image publishing disabled: %v\n", publisher.Err())
		return saveManifest(manifest, cfg.Manifest)
	}

	items := manifest.Data
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	fmt.Printf("Publishing %d items to %s\n\n", len(items), publisher.Prefix())

	bar := progressbar.NewOptions(len(items),
		progressbar.OptionSetDescription("Rendering previews"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("items"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	report, runErr := publisher.Run(ctx, items, signalsFor(force, forceManifest), func(og.Outcome) {
		bar.Add(1)
	})
	bar.Finish()
	fmt.Println()

	if runErr == nil && !mustGetBool(cmd, "skip-home") {
		home := publisher.PublishHome(ctx, manifest.Data, og.Signal{ForceMode: force, ForceManifest: forceManifest})
		report.Add(home)
		if home.Status == og.StatusPublished {
			fmt.Printf("Home card: %s\n", home.URL)
		}
	}

	if err := saveManifest(manifest, cfg.Manifest); err != nil {
		return err
	}
	if report != nil {
		printReport(os.Stdout, report, &cfg.PhotoPrism)
	}
	if runErr != nil {
		return runErr
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d items failed to publish", report.Failed)
	}
	return nil
}

// signalsFor derives the per-item signal from the manifest bookkeeping and
// the force flags.
func signalsFor(force, forceManifest bool) og.SignalFunc {
	return func(item *catalog.Item) og.Signal {
		return og.Signal{
			Skipped:       item.Unchanged(),
			ForceMode:     force,
			ForceManifest: forceManifest,
		}
	}
}

func saveManifest(manifest *catalog.Manifest, path string) error {
	if err := manifest.Save(path); err != nil {
		return fmt.Errorf("could not save manifest: %w", err)
	}
	return nil
}

// printReport writes the run summary and the failed items.
func printReport(w io.Writer, report *og.RunReport, pp *config.PhotoPrismConfig) {
	fmt.Fprintf(w, "\nRun %s finished in %s\n", report.RunID, report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  Published: %d\n", report.Published)
	fmt.Fprintf(w, "  Reused:    %d\n", report.Reused)
	fmt.Fprintf(w, "  Skipped:   %d\n", report.Skipped)
	fmt.Fprintf(w, "  Failed:    %d\n", report.Failed)
	fmt.Fprintf(w, "  Uploads:   %d\n", report.Uploads)

	if report.FontsMissing() {
		fmt.Fprintf(w, "\nFonts were not found, nothing was rendered. Install the card fonts or pass --font-dir.\n")
	}

	failures := report.Failures()
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(w, "\nFailed items:\n")
	for _, o := range failures {
		reason := "unknown error"
		if o.Err != nil {
			reason = o.Err.Error()
		}
		if errors.Is(o.Err, og.ErrDisabled) {
			reason = "publishing disabled"
		}
		fmt.Fprintf(w, "  %s [%s] %s\n", pp.PhotoURL(o.ItemID), o.Stage, reason)
	}
}
