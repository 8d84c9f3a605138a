// Package pipeline runs the cleaning, extraction, chunking and
// classification steps over a knowledge base and aggregates the chunks in
// output order.
package pipeline

import (
	"context"
	"fmt"

	"github.com/xhad/kbprep/internal/models"
	"github.com/xhad/kbprep/internal/types"
	"github.com/xhad/kbprep/pkg/classifier"
	"github.com/xhad/kbprep/pkg/cleaner"
	"github.com/xhad/kbprep/pkg/extractor"
)

// RunContext carries the state shared across files within one run.
type RunContext struct {
	Stats          models.Stats
	OfferProcessed bool
}

// FileReport describes what a single file contributed.
type FileReport struct {
	Name          string
	FAQChunks     int
	OfferChunk    bool
	ContentChunks int
}

type PipelineConfig struct {
	Source     types.DocumentSource
	Cleaner    *cleaner.Cleaner
	Extractor  *extractor.Extractor
	Chunker    types.Chunker
	Classifier *classifier.Classifier

	OnFile  func(index, total int, report FileReport)
	OnError func(name string, err error)
}

type Pipeline struct {
	config PipelineConfig
}

type Result struct {
	Chunks []models.Chunk
	Stats  models.Stats
	Files  int
	Failed []string
}

// Summary holds the derived figures printed after a run.
type Summary struct {
	TotalChunks      int
	Processed        int
	AvgChunksPerFile float64
	FAQPercent       float64
	BusinessPercent  float64
	ServicePercent   float64
}

func (r *Result) Summary() Summary {
	total := len(r.Chunks)
	processed := r.Files - len(r.Failed)

	s := Summary{
		TotalChunks:     total,
		Processed:       processed,
		FAQPercent:      models.Percent(r.Stats.FAQChunks, total),
		BusinessPercent: models.Percent(r.Stats.BusinessChunks, total),
		ServicePercent:  models.Percent(r.Stats.ServiceChunks, total),
	}
	if processed > 0 {
		s.AvgChunksPerFile = float64(total) / float64(processed)
	}
	return s
}

func NewWithConfig(config PipelineConfig) (*Pipeline, error) {
	if config.Source == nil || config.Cleaner == nil || config.Extractor == nil ||
		config.Chunker == nil || config.Classifier == nil {
		return nil, fmt.Errorf("pipeline requires a source, cleaner, extractor, chunker and classifier")
	}
	return &Pipeline{config: config}, nil
}

// Run processes every path in order. A file that fails contributes no
// chunks; the run continues with the next one. Cancelling ctx stops the
// run between files and returns ctx.Err().
func (p *Pipeline) Run(ctx context.Context, paths []string) (*Result, error) {
	run := &RunContext{}
	result := &Result{Files: len(paths)}

	// Business hours are emitted once per run, not per file.
	if hours, ok := p.config.Extractor.BusinessHours(p.config.Extractor.HoursMarker()); ok {
		p.config.Classifier.Complete(hours.Metadata, hours.Text, "", "")
		result.Chunks = append(result.Chunks, hours)
		run.Stats.BusinessChunks++
	}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			result.Stats = run.Stats
			return result, err
		}

		chunks, report, err := p.processFile(ctx, run, path)
		if err != nil {
			if ctx.Err() != nil {
				result.Stats = run.Stats
				return result, ctx.Err()
			}
			result.Failed = append(result.Failed, path)
			if p.config.OnError != nil {
				p.config.OnError(path, err)
			}
			continue
		}

		result.Chunks = append(result.Chunks, chunks...)
		if p.config.OnFile != nil {
			p.config.OnFile(i+1, len(paths), report)
		}
	}

	result.Stats = run.Stats
	return result, nil
}

// processFile stages the file's chunks and commits its counters to run
// only when every step succeeds.
func (p *Pipeline) processFile(ctx context.Context, run *RunContext, path string) ([]models.Chunk, FileReport, error) {
	doc, err := p.config.Source.Read(path)
	if err != nil {
		return nil, FileReport{}, err
	}
	report := FileReport{Name: doc.Name}

	var stats models.Stats
	cleaned := p.config.Cleaner.Clean(doc.Content, doc.Name, &stats)

	var chunks []models.Chunk

	faqs := p.config.Extractor.FAQs(cleaned, doc.Name)
	for _, faq := range faqs {
		p.config.Classifier.Complete(faq.Metadata, faq.Text, doc.Name, doc.Content)
		chunks = append(chunks, faq)
	}
	report.FAQChunks = len(faqs)
	stats.FAQChunks += len(faqs)

	offerTaken := false
	if !run.OfferProcessed && p.config.Extractor.OfferEligible(doc.Name) {
		if offer, ok := p.config.Extractor.SpecialOffer(cleaned); ok {
			p.config.Classifier.Complete(offer.Metadata, offer.Text, doc.Name, doc.Content)
			chunks = append(chunks, offer)
			offerTaken = true
			report.OfferChunk = true
			stats.BusinessChunks++
		}
	}

	passages, err := p.config.Chunker.Process(ctx, doc.Name, cleaned)
	if err != nil {
		return nil, FileReport{}, fmt.Errorf("failed to chunk %s: %w", doc.Name, err)
	}
	for _, passage := range passages {
		meta := p.config.Classifier.Metadata(passage.Content, doc.Name, doc.Content, passage.Metadata)
		chunks = append(chunks, models.Chunk{Text: passage.Content, Metadata: meta})
	}
	report.ContentChunks = len(passages)
	stats.ServiceChunks += len(passages)

	if offerTaken {
		run.OfferProcessed = true
	}
	run.Stats.OriginalLines += stats.OriginalLines
	run.Stats.CleanedLines += stats.CleanedLines
	run.Stats.RemovedLines += stats.RemovedLines
	run.Stats.FAQChunks += stats.FAQChunks
	run.Stats.BusinessChunks += stats.BusinessChunks
	run.Stats.ServiceChunks += stats.ServiceChunks

	return chunks, report, nil
}
