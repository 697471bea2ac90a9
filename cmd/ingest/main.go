// Command ingest builds exam collections from certification dump PDFs.
//
// Usage:
//
//	go run ./cmd/ingest -exam az104 dumps/az104-part1.pdf dumps/az104-part2.pdf
//
// Questions land in the exam's directory under the data root (-data,
// default ./data), one JSON record per line, with extracted images
// alongside. With -append the new questions join an existing
// collection instead of replacing it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"examtrainer"
)

func main() {
	var (
		exam       = flag.String("exam", "", "Exam name (required)")
		dataDir    = flag.String("data", "", "Data directory (overrides config)")
		appendMode = flag.Bool("append", false, "Append to an existing collection instead of replacing it")
		verbose    = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	if *exam == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: ingest -exam NAME [-data DIR] [-append] [-v] file.pdf [file.pdf ...]")
		os.Exit(2)
	}

	cfg := examtrainer.DefaultConfig()
	cfg.FromEnv()
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	level := cfg.SlogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	pipeline, err := examtrainer.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating pipeline: %v\n", err)
		os.Exit(1)
	}

	batch, err := pipeline.IngestBatch(context.Background(), *exam, flag.Args(), *appendMode)
	if batch != nil {
		for _, doc := range batch.Documents {
			if doc.Error != "" {
				fmt.Printf("%s: FAILED (%s)\n", doc.Source, doc.Error)
				continue
			}
			fmt.Printf("%s: %d questions, %d images (%d pages)\n",
				doc.Source, doc.Questions, doc.Images, doc.Pages)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ingest failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %d questions total\n", *exam, batch.TotalQuestions)
}
