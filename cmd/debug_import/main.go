package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/tinyamasisurum0/spotifyreviewer/pkg/importer"
)

func main() {
	f := flag.String("file", "", "screenshot file to run through the import pipeline")
	focus := flag.Bool("focus", true, "crop to the detected text column before OCR")
	raw := flag.Bool("raw", false, "print the raw OCR text as well")
	flag.Parse()
	if *f == "" {
		log.Fatalf("-file required")
	}

	im := importer.New(nil, importer.DefaultOptions())
	result, err := im.ImportFromImage(*f, *focus, func(status string, progress float64) {
		fmt.Printf("[%3.0f%%] %s\n", progress*100, status)
	})
	if err != nil {
		log.Fatalf("import error: %v", err)
	}

	fmt.Printf("confidence=%.4f candidates=%d\n", result.Confidence, len(result.Candidates))
	for _, c := range result.Candidates {
		fmt.Printf("  line %3d: %s - %s\n", c.LineNumber, c.Artist, c.Album)
	}
	if *raw {
		fmt.Println("--- raw OCR text ---")
		fmt.Println(result.RawText)
	}
}
