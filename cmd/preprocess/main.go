package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/xhad/kbprep/pkg/classifier"
	"github.com/xhad/kbprep/pkg/cleaner"
	cfgPkg "github.com/xhad/kbprep/pkg/config"
	"github.com/xhad/kbprep/pkg/extractor"
	"github.com/xhad/kbprep/pkg/loader"
	"github.com/xhad/kbprep/pkg/output"
	"github.com/xhad/kbprep/pkg/pipeline"
	"github.com/xhad/kbprep/pkg/processor"
)

const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

type Flags struct {
	ConfigPath string
	Input      string
	Output     string
}

func main() {
	os.Exit(realMain())
}

func realMain() (code int) {
	defer func() {
		if r := recover(); r != nil {
			color.Red("\n\nUnexpected error: %v\n", r)
			fmt.Fprintln(os.Stderr, string(debug.Stack()))
			code = exitError
		}
	}()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	flags := parseFlags()

	config, err := cfgPkg.LoadConfig(flags.ConfigPath)
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return exitError
	}
	if flags.Input != "" {
		config.Paths.KnowledgeBase = flags.Input
	}
	if flags.Output != "" {
		config.Paths.Output = flags.Output
	}
	if errs := config.Validate(); len(errs) > 0 {
		color.Red("Invalid configuration:")
		for _, e := range errs {
			color.Red("  - %s", e.Error())
		}
		return exitError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			color.Yellow("\n\nProcessing interrupted by user")
			return exitInterrupted
		case errors.Is(err, loader.ErrMissingInput):
			color.Red("Error: %v", err)
			fmt.Println("\nCreate the directory or point to it with -input or KBPREP_INPUT_DIR.")
		case errors.Is(err, loader.ErrNoDocuments):
			color.Red("Error: %v", err)
			fmt.Printf("\nAdd markdown files matching %q to the knowledge base.\n", config.Paths.Pattern)
		default:
			color.Red("\n\nError: %v", err)
		}
		return exitError
	}
	return exitOK
}

func parseFlags() Flags {
	var flags Flags

	flag.StringVar(&flags.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&flags.Input, "input", "", "Knowledge base directory")
	flag.StringVar(&flags.Output, "output", "", "Path of the processed chunks file")
	flag.Parse()

	return flags
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func printBanner(config *cfgPkg.Config, files int) {
	rule := strings.Repeat("=", 70)
	fmt.Println(rule)
	color.Cyan("  Knowledge Base Preprocessing")
	color.Cyan("  with Content Cleaning & Structured Extraction")
	fmt.Println(rule)
	fmt.Println()

	color.Blue("Found %d markdown files in %s\n", files, config.Paths.KnowledgeBase)
	fmt.Println()

	fmt.Println("Chunker:")
	fmt.Printf("   - Tokenizer: %s\n", config.Chunker.Tokenizer)
	fmt.Printf("   - Max Tokens: %d\n", config.Chunker.MaxTokens)
	fmt.Printf("   - Overlap Tokens: %d\n", config.Chunker.OverlapTokens)
	fmt.Printf("   - Min Chunk Tokens: %d\n", config.Chunker.MinTokens)
	fmt.Printf("   - Embedding Model: %s (%d dimensions)\n", config.Analyzer.EmbeddingModel, config.Analyzer.EmbeddingDimensions)
	fmt.Println()
	fmt.Println("Content Cleaning:")
	fmt.Println("   - Removing navigation boilerplate")
	fmt.Println("   - Filtering duplicate content")
	fmt.Println("   - Extracting structured data (FAQs, hours, pricing)")
	fmt.Println()
}

func run(ctx context.Context, config *cfgPkg.Config) error {
	source := loader.NewWithConfig(loader.LoaderConfig{
		Dir:     config.Paths.KnowledgeBase,
		Pattern: config.Paths.Pattern,
	})

	paths, err := source.List()
	if err != nil {
		return err
	}

	printBanner(config, len(paths))

	chunker, err := processor.NewWithConfig(processor.ProcessorConfig{
		MaxTokens:     config.Chunker.MaxTokens,
		OverlapTokens: config.Chunker.OverlapTokens,
		MinTokens:     config.Chunker.MinTokens,
		MinChars:      config.Chunker.MinChars,
		Tokenizer:     config.Chunker.Tokenizer,
		ScratchDir:    config.Chunker.ScratchDir,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize chunker: %w", err)
	}

	processingBar := getProgressBar(len(paths), "Processing documents...")
	startTime := time.Now()

	p, err := pipeline.NewWithConfig(pipeline.PipelineConfig{
		Source: source,
		Cleaner: cleaner.NewWithConfig(cleaner.CleanerConfig{
			SkipPatterns:     config.Cleaner.SkipPatterns,
			ReviewerHeadings: config.Cleaner.ReviewerHeadings,
			HoursSignatures:  config.Cleaner.HoursSignatures,
			FootnotePrefixes: config.Cleaner.FootnotePrefixes,
		}),
		Extractor: extractor.NewWithConfig(extractor.ExtractorConfig{
			Practice:        config.Practice,
			Offer:           config.Offer,
			HoursSignatures: config.Cleaner.HoursSignatures,
		}),
		Chunker:    chunker,
		Classifier: classifier.NewWithConfig(classifier.ClassifierConfig{Practice: config.Practice}),
		OnFile: func(index, total int, report pipeline.FileReport) {
			processingBar.Add(1)
			rate := float64(index) / time.Since(startTime).Seconds()
			processingBar.Describe(color.BlueString(
				"[%d/%d] %s (%.1f files/sec)", index, total, report.Name, rate))
		},
		OnError: func(name string, err error) {
			processingBar.Add(1)
			fmt.Println()
			color.Red("   Error processing %s: %v", filepath.Base(name), err)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	result, err := p.Run(ctx, paths)
	if err != nil {
		return err
	}
	processingBar.Finish()
	fmt.Println()

	printSummary(result)

	color.Blue("Saving chunks to %s...", config.Paths.Output)
	size, err := output.WriteChunks(config.Paths.Output, result.Chunks)
	if err != nil {
		return fmt.Errorf("failed to save chunks: %w", err)
	}
	color.Green("   ✓ Saved %.2f KB\n", float64(size)/1024)
	fmt.Println()

	color.Green("Success! Chunks ready for embedding and upload.")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Review %s (optional)\n", config.Paths.Output)
	fmt.Println("  2. Run: analyze")
	return nil
}

func printSummary(result *pipeline.Result) {
	s := result.Summary()
	stats := result.Stats
	rule := strings.Repeat("=", 70)

	fmt.Println(rule)
	color.Green("✓ Processing Complete!")
	fmt.Printf("   - Total files processed: %d\n", s.Processed)
	if len(result.Failed) > 0 {
		color.Yellow("   - Files skipped: %d", len(result.Failed))
	}
	fmt.Printf("   - Total chunks created: %d\n", s.TotalChunks)
	fmt.Printf("   - Average chunks per file: %.1f\n", s.AvgChunksPerFile)
	fmt.Println()

	fmt.Println("Content Statistics:")
	fmt.Printf("   - Original lines: %d\n", stats.OriginalLines)
	fmt.Printf("   - Cleaned lines: %d\n", stats.CleanedLines)
	fmt.Printf("   - Removed lines: %d (%.1f%% reduction)\n", stats.RemovedLines, stats.ReductionPercent())
	fmt.Println()

	fmt.Println("Chunk Distribution:")
	fmt.Printf("   - Service content: %d (%.1f%%)\n", stats.ServiceChunks, s.ServicePercent)
	fmt.Printf("   - FAQ chunks: %d (%.1f%%)\n", stats.FAQChunks, s.FAQPercent)
	fmt.Printf("   - Business info: %d (%.1f%%)\n", stats.BusinessChunks, s.BusinessPercent)
	fmt.Println(rule)
	fmt.Println()
}
