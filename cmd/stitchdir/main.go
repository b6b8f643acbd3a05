// Command stitchdir склеивает каталог скриншотов прокрутки в один PNG.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"scroll-stitch/config"
	app "scroll-stitch/internal/application"
	"scroll-stitch/internal/domain/entity"
	"scroll-stitch/internal/infrastructure/ann"
	"scroll-stitch/internal/infrastructure/frames"
	"scroll-stitch/internal/infrastructure/vision"
)

func main() {
	dir := flag.String("dir", "", "Directory with screenshots (*.png, *.jpg), stitched in name order")
	out := flag.String("o", "scroll.png", "Output PNG path")
	horizontal := flag.Bool("horizontal", false, "Horizontal scroll")
	hintFlag := flag.String("hint", "trailing", "Edge new frames extend: trailing|leading")
	flag.Parse()

	if *dir == "" {
		fmt.Println("Usage: stitchdir -dir <frames> [-o out.png] [-horizontal] [-hint leading|trailing]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	hint, err := entity.ParseEdge(*hintFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	direction := entity.Vertical
	if *horizontal {
		direction = entity.Horizontal
	}

	src, err := frames.NewDirSource(*dir, hint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	stitcher := app.NewStitcher(vision.NewExtractor(), ann.NewBuilder())
	if err := stitcher.Init(cfg.StitchOptions(direction)); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("=== Stitching %d frames from %s (%s) ===\n", src.Len(), *dir, direction)
	for i := 0; ; i++ {
		img, edge, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(os.Stderr, "Interrupted")
				os.Exit(1)
			}
			fmt.Printf("frame %3d: skipped: %v\n", i, err)
			continue
		}

		p, err := stitcher.HandleImage(img, edge)
		switch {
		case err != nil:
			fmt.Printf("frame %3d: %v\n", i, err)
		case p.Unchanged:
			fmt.Printf("frame %3d: unchanged\n", i)
		case p.Appended:
			leading, trailing := stitcher.Extents()
			fmt.Printf("frame %3d: %s edge at %d (leading %d, trailing %d)\n", i, p.Target, p.EdgePosition, leading, trailing)
		default:
			fmt.Printf("frame %3d: already covered\n", i)
		}
	}

	result, err := stitcher.Export()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Nothing to export: %v\n", err)
		os.Exit(1)
	}

	data, err := vision.EncodePNG(result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}

	b := result.Bounds()
	fmt.Printf("\nWrote %s (%dx%d)\n", *out, b.Dx(), b.Dy())
}
