package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-edit-mcp/internal/chart"
	"github.com/ironsheep/image-edit-mcp/internal/editor"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// editOptions holds the flags of one edit invocation.
type editOptions struct {
	in        string
	out       string
	ops       []string
	histogram string
	width     int
	height    int
}

func init() {
	rootCmd.AddCommand(newEditCmd())
}

func newEditCmd() *cobra.Command {
	o := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Apply edits to an image file",
		Long: `Load an image, apply each --op in order, and write the result.

Operations:
  invert             255 minus each color channel
  grayscale          truncated average of R, G and B
  brightness=N       add N to every channel
  contrast=C         scale channels around the mean brightness, C in [-100, 100]
  binarize=T         white where R+G+B > T, black otherwise

Example:
  image-edit-mcp edit --in photo.jpg --op grayscale --op contrast=1.5 --out out.png --histogram hist.png`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return newExitCodeError(err, ExitCodeInvalidArguments)
			}
			if o.out == "" && o.histogram == "" {
				return newExitCodeError(fmt.Errorf("nothing to write: give --out and/or --histogram"), ExitCodeInvalidArguments)
			}
			if o.width < 0 || o.height < 0 {
				return newExitCodeError(fmt.Errorf("invalid size %dx%d", o.width, o.height), ExitCodeInvalidArguments)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}

	cmd.Flags().StringVar(&o.in, "in", "", "Input image path or http(s) URL (default: $IMAGE_EDIT_DEFAULT_SOURCE or the built-in image)")
	cmd.Flags().StringVar(&o.out, "out", "", "Output image path (.png, .jpg or .bmp)")
	cmd.Flags().StringArrayVar(&o.ops, "op", nil, "Operation to apply, repeatable and applied in order: "+strings.Join(opNames(), ", "))
	cmd.Flags().StringVar(&o.histogram, "histogram", "", "Write the brightness histogram chart of the result to this PNG path")
	cmd.Flags().IntVar(&o.width, "width", 0, "Canvas width; 0 keeps the native width or the aspect ratio")
	cmd.Flags().IntVar(&o.height, "height", 0, "Canvas height; 0 keeps the native height or the aspect ratio")

	return cmd
}

func (o *editOptions) run(cmd *cobra.Command) error {
	ops := make([]editor.Op, 0, len(o.ops))
	for _, s := range o.ops {
		op, err := editor.ParseOp(s)
		if err != nil {
			return newExitCodeError(fmt.Errorf("invalid --op %q: %w", s, err), ExitCodeInvalidArguments)
		}
		ops = append(ops, op)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	source := o.in
	if source == "" {
		source = cfg.DefaultSource
	}

	canvas := imaging.NewCanvas(&imaging.Loader{Timeout: cfg.FetchTimeout})
	info, err := canvas.Load(context.Background(), source, o.width, o.height)
	if err != nil {
		return newExitCodeError(fmt.Errorf("could not load %s: %w", source, err), ExitCodeInvalidInput)
	}

	var renderer editor.HistogramRenderer
	if o.histogram != "" {
		renderer = chart.NewRenderer(cfg.ChartWidth, cfg.ChartHeight)
	}
	ed := editor.New(canvas, renderer)
	ed.SetDebug(cfg.Debug())

	var hist *editor.HistogramResult
	if len(ops) > 0 {
		res, err := ed.ApplyAll(ops)
		if err != nil {
			return newExitCodeError(err, ExitCodeEditError)
		}
		hist = res.Histogram
	} else {
		hist, err = ed.Histogram()
		if err != nil {
			return newExitCodeError(err, ExitCodeEditError)
		}
	}

	if o.out != "" {
		img, err := canvas.Snapshot()
		if err != nil {
			return newExitCodeError(err, ExitCodeEditError)
		}
		if err := imaging.Save(img, o.out); err != nil {
			return newExitCodeError(err, ExitCodeInvalidOutput)
		}
		cmd.Printf("Wrote %dx%d image to %s\n", info.Width, info.Height, o.out)
	}

	if o.histogram != "" {
		if len(hist.ChartPNG) == 0 {
			return newExitCodeError(fmt.Errorf("histogram chart could not be rendered"), ExitCodeEditError)
		}
		if err := os.WriteFile(o.histogram, hist.ChartPNG, 0o644); err != nil {
			return newExitCodeError(fmt.Errorf("could not write histogram: %w", err), ExitCodeInvalidOutput)
		}
		cmd.Printf("Wrote histogram of %d pixels to %s\n", hist.Pixels, o.histogram)
	}

	return nil
}

func opNames() []string {
	names := make([]string, len(editor.Kinds))
	for i, k := range editor.Kinds {
		names[i] = string(k)
	}
	return names
}
