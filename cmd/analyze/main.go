package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/xhad/kbprep/pkg/analyzer"
	cfgPkg "github.com/xhad/kbprep/pkg/config"
	"github.com/xhad/kbprep/pkg/output"
)

const (
	exitOK    = 0
	exitError = 1
)

type Flags struct {
	ConfigPath string
	Input      string
	Report     string
}

func main() {
	os.Exit(realMain())
}

func realMain() (code int) {
	defer func() {
		if r := recover(); r != nil {
			color.Red("Error: %v", r)
			fmt.Fprintln(os.Stderr, string(debug.Stack()))
			code = exitError
		}
	}()

	_ = godotenv.Load()

	flags := parseFlags()

	config, err := cfgPkg.LoadConfig(flags.ConfigPath)
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return exitError
	}
	if flags.Input != "" {
		config.Paths.Output = flags.Input
	}
	if flags.Report != "" {
		config.Paths.Report = flags.Report
	}

	if err := run(config); err != nil {
		color.Red("Error: %v", err)
		switch {
		case errors.Is(err, output.ErrNotFound):
			fmt.Println("\nPlease run preprocessing first:")
			fmt.Println("  preprocess")
		case errors.Is(err, analyzer.ErrNoChunks):
			fmt.Println("\nThe chunks file is empty; check the preprocessing output.")
		}
		return exitError
	}
	return exitOK
}

func parseFlags() Flags {
	var flags Flags

	flag.StringVar(&flags.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&flags.Input, "input", "", "Path of the processed chunks file")
	flag.StringVar(&flags.Report, "report", "", "Path of the analysis report")
	flag.Parse()

	return flags
}

func run(config *cfgPkg.Config) error {
	fmt.Printf("Loading chunks from %s...\n", config.Paths.Output)
	chunks, err := output.ReadChunks(config.Paths.Output)
	if err != nil {
		return err
	}
	color.Green("✓ Loaded %d chunks\n", len(chunks))
	fmt.Println()

	a := config.Analyzer
	report, err := analyzer.Analyze(chunks, analyzer.Options{
		ShortChars:          a.ShortChars,
		LongChars:           a.LongChars,
		DuplicatePrefix:     a.DuplicatePrefix,
		PricePer1KTokens:    a.PricePer1KTokens,
		StorageKBPerChunk:   a.StorageKBPerChunk,
		TopSources:          a.TopSources,
		SiteDomain:          config.Practice.Domain,
		EmbeddingModel:      a.EmbeddingModel,
		EmbeddingDimensions: a.EmbeddingDimensions,
	})
	if err != nil {
		return err
	}

	report.Print(os.Stdout)
	report.PrintSamples(os.Stdout, a.SampleCount)

	if _, err := output.WriteReport(config.Paths.Report, report.Summary()); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	color.Blue("Detailed report exported to: %s\n", config.Paths.Report)
	return nil
}
