// Copyright 2026 Veridian Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/veridian-labs/corpusit"
	"github.com/veridian-labs/corpusit/ai"
	"github.com/veridian-labs/corpusit/core"
	"github.com/veridian-labs/corpusit/reindex"
	"github.com/veridian-labs/corpusit/search"
)

// maxDisplayedErrors caps the batch error listing; the remainder is
// summarized as a single overflow line.
const maxDisplayedErrors = 10

func main() {
	// A .env file next to the binary is optional.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "corpusit",
		Usage: "Ingest documents into a local knowledge index and query it by similarity",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest a file or every supported file in a directory",
				ArgsUsage: "<path>",
				Action:    ingestCommand,
				Flags: append(engineFlags(),
					&cli.BoolFlag{
						Name:    "recursive",
						Aliases: []string{"r"},
						Usage:   "Descend into subdirectories",
					},
				),
			},
			{
				Name:      "scan",
				Usage:     "Preview what a directory ingestion would process, without ingesting",
				ArgsUsage: "<directory>",
				Action:    scanCommand,
				Flags: append(engineFlags(),
					&cli.BoolFlag{
						Name:    "recursive",
						Aliases: []string{"r"},
						Usage:   "Descend into subdirectories",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Find the stored chunks most similar to a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"k"},
						Usage:   "Number of results to return",
						Value:   search.DefaultLimit,
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every stored chunk with the configured embedding model",
				Action: reindexCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:   "status",
				Usage:  "List every ingested file recorded in the chunk store",
				Action: statusCommand,
				Flags:  engineFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// engineFlags are the flags shared by every command that opens the store.
func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to the chunk store directory",
			Value:   "./knowledge_db",
			EnvVars: []string{"CORPUSIT_DB"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"CORPUSIT_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"CORPUSIT_EMBEDDING_MODEL"},
		},
		&cli.IntFlag{
			Name:    "chunk-size",
			Usage:   "Maximum characters per chunk",
			Value:   1000,
			EnvVars: []string{"CORPUSIT_CHUNK_SIZE"},
		},
		&cli.IntFlag{
			Name:    "chunk-overlap",
			Usage:   "Characters of overlap between adjacent chunks",
			Value:   200,
			EnvVars: []string{"CORPUSIT_CHUNK_OVERLAP"},
		},
	}
}

func newEngine(c *cli.Context) (*corpusit.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	engine, err := corpusit.NewEngine(c.String("db"),
		corpusit.WithAIConfig(aiConfig),
		corpusit.WithChunking(c.Int("chunk-size"), c.Int("chunk-overlap")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge store: %w", err)
	}
	return engine, nil
}

func ingestCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("path argument is required")
	}

	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := engine.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	ctx := context.Background()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}

	if !info.IsDir() {
		outcome := pipeline.IngestFile(ctx, path)
		fmt.Println(outcome.Message(path))
		return nil
	}

	report := pipeline.IngestDirectory(ctx, path, c.Bool("recursive"))
	printBatchReport(report)
	return nil
}

func scanCommand(c *cli.Context) error {
	root := c.Args().First()
	if root == "" {
		return fmt.Errorf("directory argument is required")
	}

	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := engine.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	report, err := pipeline.Scan(context.Background(), root, c.Bool("recursive"))
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if report.TotalFiles == 0 {
		fmt.Printf("No supported files found in %s\n", root)
		return nil
	}

	fmt.Printf("%s: %d supported files, %.2f MB\n", root, report.TotalFiles, report.TotalSizeMB)

	stats := make([]*core.KindStats, 0, len(report.ByKind))
	for _, s := range report.ByKind {
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Label < stats[j].Label })

	for _, s := range stats {
		fmt.Printf("  %-16s %5d files  %8.2f MB\n", s.Label, s.Count, s.SizeMB)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.Search(context.Background(), query, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results found")
		return nil
	}

	for i, hit := range results {
		if hit.SourceFile == "" {
			// Sentinel result: the index or the embedding service is down.
			fmt.Println(hit.Content)
			continue
		}
		fmt.Printf("%d. %s (%s, %.1f%% match)\n", i+1, hit.SourceFile, hit.Label, hit.Similarity)
		fmt.Printf("   %s\n", hit.Content)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	reindexer := engine.NewReindexer(config, os.Stderr)
	if err := reindexer.Run(context.Background()); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := engine.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	count, err := pipeline.RebuildLedger(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read the chunk store: %w", err)
	}

	if count == 0 {
		fmt.Println("No files ingested")
		return nil
	}

	fmt.Printf("%d ingested files:\n", count)
	for _, record := range engine.Ledger().Records() {
		fmt.Printf("  %s (%s, %d chunks, %.2f KB)\n",
			record.Path, record.Label, record.ChunkCount, float64(record.ByteSize)/1024)
	}
	return nil
}

func printBatchReport(report *core.BatchReport) {
	if report.Note != "" {
		fmt.Println(report.Note)
		return
	}

	fmt.Printf("Ingested %d files, skipped %d, failed %d\n",
		report.SuccessCount, report.SkippedCount, report.FailCount)

	for i, batchErr := range report.Errors {
		if i == maxDisplayedErrors {
			fmt.Printf("  ... and %d more errors\n", len(report.Errors)-maxDisplayedErrors)
			break
		}
		fmt.Printf("  %s: %s\n", batchErr.File, batchErr.Reason)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
