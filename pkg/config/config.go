package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultOverlapTokens = 50

type Config struct {
	Paths struct {
		KnowledgeBase string `yaml:"knowledge_base"`
		Pattern       string `yaml:"pattern"`
		Output        string `yaml:"output"`
		Report        string `yaml:"report"`
	} `yaml:"paths"`

	Chunker struct {
		MaxTokens     int    `yaml:"max_tokens"`
		OverlapTokens int    `yaml:"overlap_tokens"`
		MinTokens     int    `yaml:"min_tokens"`
		MinChars      int    `yaml:"min_chars"`
		Tokenizer     string `yaml:"tokenizer"`
		ScratchDir    string `yaml:"scratch_dir"`
	} `yaml:"chunker"`

	Practice Practice `yaml:"practice"`

	Cleaner struct {
		SkipPatterns     []string `yaml:"skip_patterns"`
		ReviewerHeadings []string `yaml:"reviewer_headings"`
		HoursSignatures  []string `yaml:"hours_signatures"`
		FootnotePrefixes []string `yaml:"footnote_prefixes"`
	} `yaml:"cleaner"`

	Offer Offer `yaml:"offer"`

	Analyzer struct {
		ShortChars          int     `yaml:"short_chars"`
		LongChars           int     `yaml:"long_chars"`
		DuplicatePrefix     int     `yaml:"duplicate_prefix"`
		PricePer1KTokens    float64 `yaml:"price_per_1k_tokens"`
		SampleCount         int     `yaml:"sample_count"`
		TopSources          int     `yaml:"top_sources"`
		StorageKBPerChunk   float64 `yaml:"storage_kb_per_chunk"`
		EmbeddingModel      string  `yaml:"embedding_model"`
		EmbeddingDimensions int     `yaml:"embedding_dimensions"`
	} `yaml:"analyzer"`
}

// Practice identifies the site the knowledge base was scraped from.
type Practice struct {
	Name    string   `yaml:"name"`
	Address string   `yaml:"address"`
	Phone   string   `yaml:"phone"`
	Doctors []string `yaml:"doctors"`
	Domain  string   `yaml:"domain"`
	Hours   []string `yaml:"hours"`
}

type Offer struct {
	Triggers       []string `yaml:"triggers"`
	FilenameMarker string   `yaml:"filename_marker"`
	Price          string   `yaml:"price"`
	Includes       []string `yaml:"includes"`
	Note           string   `yaml:"note"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"kbprep.yaml",
			"kbprep.yml",
			filepath.Join(os.Getenv("HOME"), ".config/kbprep/config.yaml"),
			"/etc/kbprep/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := newConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	mergeWithEnv(config)
	applyDefaults(config)

	return config, nil
}

// Default returns the built-in site profile.
func Default() *Config {
	config, _ := getDefaultConfig()
	return config
}

// newConfig presets fields whose zero value is a valid setting, so an
// explicit 0 in the file is kept.
func newConfig() *Config {
	config := &Config{}
	config.Chunker.OverlapTokens = defaultOverlapTokens
	return config
}

func getDefaultConfig() (*Config, error) {
	config := newConfig()
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.Paths.KnowledgeBase == "" {
		config.Paths.KnowledgeBase = "knowledge-base"
	}
	if config.Paths.Pattern == "" {
		config.Paths.Pattern = "*.md"
	}
	if config.Paths.Output == "" {
		config.Paths.Output = "processed-chunks.json"
	}
	if config.Paths.Report == "" {
		config.Paths.Report = "chunk-analysis-report.json"
	}

	if config.Chunker.MaxTokens == 0 {
		config.Chunker.MaxTokens = 350
	}
	if config.Chunker.MinTokens == 0 {
		config.Chunker.MinTokens = 75
	}
	if config.Chunker.MinChars == 0 {
		config.Chunker.MinChars = 100
	}
	if config.Chunker.Tokenizer == "" {
		// GPT-2 byte pair encoding
		config.Chunker.Tokenizer = "r50k_base"
	}

	applyPracticeDefaults(&config.Practice)

	if len(config.Cleaner.SkipPatterns) == 0 {
		config.Cleaner.SkipPatterns = defaultSkipPatterns()
	}
	if len(config.Cleaner.ReviewerHeadings) == 0 {
		config.Cleaner.ReviewerHeadings = []string{
			"## Andrea M.", "## Diana D.", "## Lina D.", "## Sandra G.",
		}
	}
	if len(config.Cleaner.HoursSignatures) == 0 {
		config.Cleaner.HoursSignatures = []string{"| Day | Hours |", "| Monday |"}
	}
	if len(config.Cleaner.FootnotePrefixes) == 0 {
		config.Cleaner.FootnotePrefixes = []string{`\*Every`, "*Every"}
	}

	if len(config.Offer.Triggers) == 0 {
		config.Offer.Triggers = []string{"New Patient Special", "$99"}
	}
	if config.Offer.FilenameMarker == "" {
		config.Offer.FilenameMarker = "special-offers"
	}
	if config.Offer.Price == "" {
		config.Offer.Price = "$99"
	}
	if len(config.Offer.Includes) == 0 {
		config.Offer.Includes = []string{
			"Comprehensive dental cleaning",
			"Dental X-rays",
			"Dental exam with " + joinOr(config.Practice.Doctors),
			"Fluoride treatment",
		}
	}
	if config.Offer.Note == "" {
		config.Offer.Note = "Not valid for patients with dental insurance."
	}

	if config.Analyzer.ShortChars == 0 {
		config.Analyzer.ShortChars = 100
	}
	if config.Analyzer.LongChars == 0 {
		config.Analyzer.LongChars = 2000
	}
	if config.Analyzer.DuplicatePrefix == 0 {
		config.Analyzer.DuplicatePrefix = 200
	}
	if config.Analyzer.PricePer1KTokens == 0 {
		config.Analyzer.PricePer1KTokens = 0.0001
	}
	if config.Analyzer.SampleCount == 0 {
		config.Analyzer.SampleCount = 3
	}
	if config.Analyzer.TopSources == 0 {
		config.Analyzer.TopSources = 10
	}
	if config.Analyzer.StorageKBPerChunk == 0 {
		config.Analyzer.StorageKBPerChunk = 6
	}
	if config.Analyzer.EmbeddingModel == "" {
		config.Analyzer.EmbeddingModel = "openai/text-embedding-3-small"
	}
	if config.Analyzer.EmbeddingDimensions == 0 {
		config.Analyzer.EmbeddingDimensions = 512
	}
}

func applyPracticeDefaults(p *Practice) {
	if p.Name == "" {
		p.Name = "Shoreline Dental Chicago"
	}
	if p.Address == "" {
		p.Address = "737 North Michigan Avenue, Suite 910, Chicago, IL 60611"
	}
	if p.Phone == "" {
		p.Phone = "(312) 266-3399"
	}
	if len(p.Doctors) == 0 {
		p.Doctors = []string{"Dr. Mollie Rojas", "Dr. Sonal Patel"}
	}
	if p.Domain == "" {
		p.Domain = "www.shorelinedentalchicago.com"
	}
	if len(p.Hours) == 0 {
		p.Hours = []string{
			"Monday: 11:00 AM - 7:00 PM",
			"Tuesday: 7:00 AM - 7:00 PM",
			"Wednesday: 7:00 AM - 7:00 PM",
			"Thursday: 7:00 AM - 3:00 PM",
			"Friday: 7:00 AM - 3:00 PM",
			"Saturday: 8:00 AM - 1:00 PM (Every other Saturday)",
			"Sunday: Closed",
		}
	}
}

func defaultSkipPatterns() []string {
	return []string{
		"![Spinner",
		"![logo]",
		"![icon]",
		"Back",
		"- [Home](",
		"- [About](",
		"- [Services](",
		"- [Patient Resources](",
		"- [Contact Us](",
		"- [Cosmetic Dentistry](",
		"- [General & Family Dentistry](",
		"- [Oral Surgery](",
		"- [Restorative Dentistry](",
		"- [Meet Our Team](",
		"- [Office Tour](",
		"- [Financial Options](",
		"- [Special Offers](",
		"[Review](",
		"[Directions](",
		"[Call Us](",
		"[Request Appointment](",
		"[Get Directions]",
		"[Make a Payment]",
		"[Schedule an Appointment]",
		"© Copyright",
		"**Website Design**",
		"👋 Hello! What can I do",
		"_Invisalign and the Invisalign logo",
		"Facebook icon",
		"Google icon",
		"YouTube icon",
		"Yelp icon",
	}
}

func joinOr(names []string) string {
	switch len(names) {
	case 0:
		return "our dentists"
	case 1:
		return names[0]
	}
	out := names[0]
	for _, n := range names[1:] {
		out += " or " + n
	}
	return out
}

func mergeWithEnv(config *Config) {
	if dir := os.Getenv("KBPREP_INPUT_DIR"); dir != "" {
		config.Paths.KnowledgeBase = dir
	}
	if out := os.Getenv("KBPREP_OUTPUT"); out != "" {
		config.Paths.Output = out
	}
	if report := os.Getenv("KBPREP_REPORT"); report != "" {
		config.Paths.Report = report
	}
	if tok := os.Getenv("KBPREP_TOKENIZER"); tok != "" {
		config.Chunker.Tokenizer = tok
	}
}
