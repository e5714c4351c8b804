package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ironsheep/blob-tools-mcp/internal/blob"
	"github.com/ironsheep/blob-tools-mcp/internal/config"
	"github.com/ironsheep/blob-tools-mcp/internal/imaging"
	"github.com/ironsheep/blob-tools-mcp/internal/shape"
)

type labelOptions struct {
	threshold    float64
	minSize      int
	blur         bool
	invert       bool
	strategy     string
	colorMode    string
	seed         int64
	boxes        bool
	showDisabled bool
	shapes       bool
	out          string
	list         bool
	verbose      bool
}

func labelCmd(configPath *string) *cobra.Command {
	var opts labelOptions

	cmd := &cobra.Command{
		Use:   "label IMAGE",
		Short: "Label the connected components of an image",
		Long: `Threshold IMAGE, label its connected foreground components and
print the statistics of the components that pass the size filter.

Flags left unset take their value from the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(config.Resolve(*configPath))
			if err != nil {
				return err
			}
			opts.applyDefaults(cmd, cfg)
			if err := opts.validate(); err != nil {
				return err
			}
			if opts.verbose {
				blob.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
				defer blob.SetLogger(nil)
			}
			return runLabel(cmd.OutOrStdout(), args[0], opts)
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&opts.threshold, "threshold", "t", 128, "luminance above which a pixel is foreground (0-255)")
	f.IntVarP(&opts.minSize, "min-size", "m", 6, "smallest component size kept by the filter")
	f.BoolVar(&opts.blur, "blur", true, "smooth the image before thresholding")
	f.BoolVar(&opts.invert, "invert", false, "label dark shapes on a light background")
	f.StringVar(&opts.strategy, "strategy", "weighted", "union strategy: weighted or unweighted")
	f.StringVar(&opts.colorMode, "color", config.ColorBySize, "colouring of the output image: size or random")
	f.Int64Var(&opts.seed, "seed", 0, "seed for random colouring (0 picks one)")
	f.BoolVar(&opts.boxes, "boxes", false, "outline component bounding boxes")
	f.BoolVar(&opts.showDisabled, "show-disabled", false, "paint filtered-out components in gray")
	f.BoolVar(&opts.shapes, "shapes", false, "classify components and caption them in the output image")
	f.StringVarP(&opts.out, "out", "o", "", "write the coloured component map to this file")
	f.BoolVarP(&opts.list, "list", "l", false, "print one line per component")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log labeling diagnostics to stderr")

	return cmd
}

// applyDefaults replaces every flag the user did not set with its config
// value.
func (o *labelOptions) applyDefaults(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if !f.Changed("threshold") {
		o.threshold = cfg.Labeling.Threshold
	}
	if !f.Changed("min-size") {
		o.minSize = cfg.Labeling.MinSize
	}
	if !f.Changed("blur") {
		o.blur = cfg.Labeling.Blur
	}
	if !f.Changed("invert") {
		o.invert = cfg.Labeling.Invert
	}
	if !f.Changed("strategy") {
		o.strategy = cfg.Labeling.Strategy
	}
	if !f.Changed("color") {
		o.colorMode = cfg.Render.ColorMode
	}
	if !f.Changed("seed") {
		o.seed = cfg.Render.Seed
	}
	if !f.Changed("boxes") {
		o.boxes = cfg.Render.DrawBoxes
	}
	if !f.Changed("verbose") {
		o.verbose = cfg.Debug()
	}
}

func (o *labelOptions) validate() error {
	if o.threshold < 0 || o.threshold > 255 {
		return fmt.Errorf("threshold %g not in [0,255]", o.threshold)
	}
	if o.minSize < 0 {
		return fmt.Errorf("min-size %d is negative", o.minSize)
	}
	if _, err := blob.ParseColorMode(o.colorMode); err != nil {
		return err
	}
	return nil
}

func runLabel(w io.Writer, path string, o labelOptions) error {
	strategy, err := blob.ParseStrategy(o.strategy)
	if err != nil {
		return err
	}

	img, err := imaging.NewImageCache().Load(path)
	if err != nil {
		return err
	}
	raster := imaging.Preprocess(img, o.blur, o.invert)

	forest, err := blob.New(raster.Width()*raster.Height(), blob.WithStrategy(strategy))
	if err != nil {
		return err
	}
	if err := forest.Populate(raster, o.threshold); err != nil {
		return fmt.Errorf("labeling %s: %w", path, err)
	}
	if err := forest.Flatten(); err != nil {
		return fmt.Errorf("labeling %s: %w", path, err)
	}

	stats := forest.Filter(o.minSize)
	fmt.Fprintf(w, "%s: %dx%d, %d components (%d before merging)\n",
		path, forest.Width(), forest.Height(), forest.Count(), forest.PrePassGroups())
	fmt.Fprintln(w, stats.String())

	comps := forest.EnabledComponents()
	if o.list {
		for _, c := range comps {
			line := c.Region.String()
			if o.shapes {
				line += "\t" + string(shape.Classify(c.Size, c.Bounds()).Kind)
			}
			fmt.Fprintln(w, line)
		}
	}

	if o.out == "" {
		return nil
	}

	mode, err := blob.ParseColorMode(o.colorMode)
	if err != nil {
		return err
	}
	if _, err := forest.Colorize(mode, stats, o.seed); err != nil {
		return err
	}

	labels, err := forest.Labels()
	if err != nil {
		return err
	}
	ropts := imaging.RenderOptions{DrawBoxes: o.boxes, ShowDisabled: o.showDisabled}
	if o.shapes {
		ropts.Captions = make(map[int]string, len(comps))
		for _, c := range comps {
			ropts.Captions[c.Root] = shape.Classify(c.Size, c.Bounds()).Kind.Caption()
		}
	}
	canvas, err := imaging.RenderComponents(forest.Width(), forest.Height(), labels, forest.Components(), ropts)
	if err != nil {
		return err
	}
	if err := imaging.SaveImage(canvas, o.out); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", o.out)
	return nil
}
