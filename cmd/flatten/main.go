// Command flatten renders a photo with its annotation sidecar into a
// single PNG, for regenerating thumbnails outside the app.
package main

import (
	"flag"
	"fmt"
	"os"

	"stylemark/internal/annotation"
	"stylemark/internal/photo"
	"stylemark/internal/render"
)

func main() {
	photoPath := flag.String("photo", "", "Photo file (png, jpeg or tiff)")
	marksPath := flag.String("marks", "", "Annotation sidecar JSON (default: <photo>.marks.json)")
	outPath := flag.String("out", "", "Output PNG path (default: <photo>.annotated.png)")
	maxDim := flag.Int("max-dim", 0, "Bound the output's longest side in pixels (0 = native)")
	flag.Parse()

	if *photoPath == "" {
		fmt.Fprintln(os.Stderr, "usage: flatten -photo <file> [-marks <file>] [-out <file>]")
		os.Exit(2)
	}
	if *marksPath == "" {
		*marksPath = *photoPath + ".marks.json"
	}
	if *outPath == "" {
		*outPath = *photoPath + ".annotated.png"
	}

	p, err := photo.Load(*photoPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flatten: %v\n", err)
		os.Exit(1)
	}

	set, err := annotation.LoadSet(*marksPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flatten: %v\n", err)
		os.Exit(1)
	}

	flat, err := render.Flatten(p.Image, set, render.New())
	if err != nil {
		fmt.Fprintf(os.Stderr, "flatten: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flatten: %v\n", err)
		os.Exit(1)
	}
	if err := render.EncodeThumbnail(out, flat, *maxDim); err != nil {
		out.Close()
		fmt.Fprintf(os.Stderr, "flatten: %v\n", err)
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "flatten: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%d annotations)\n", *outPath, set.Count())
}
