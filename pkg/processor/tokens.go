package processor

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TiktokenCounter counts tokens with a tiktoken encoding.
type TiktokenCounter struct {
	encodingName string
	tke          *tiktoken.Tiktoken
}

// NewTiktokenCounter accepts an encoding name or a model name.
func NewTiktokenCounter(modelOrEncoding string) (*TiktokenCounter, error) {
	tke, err := tiktoken.GetEncoding(modelOrEncoding)
	if err != nil {
		tke, err = tiktoken.EncodingForModel(modelOrEncoding)
		if err != nil {
			return nil, fmt.Errorf("failed to load tokenizer %q: %w", modelOrEncoding, err)
		}
	}
	return &TiktokenCounter{encodingName: modelOrEncoding, tke: tke}, nil
}

func (tc *TiktokenCounter) CountTokens(text string) int {
	return len(tc.tke.Encode(text, nil, nil))
}

func (tc *TiktokenCounter) Encoding() string {
	return tc.encodingName
}
