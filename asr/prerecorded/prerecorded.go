package prerecorded

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/All-Turtles/deepgram-go-sdk/asr"
	"github.com/All-Turtles/deepgram-go-sdk/deepgram"
)

// used for the model name in output
const modelPrefix = "deepgram-"

type Transcriber struct {
	client *deepgram.Client
}

func NewTranscriber(client *deepgram.Client) *Transcriber {
	return &Transcriber{client: client}
}

var _ asr.Transcriber = (*Transcriber)(nil)

func (t *Transcriber) Transcribe(ctx context.Context, source any, options *deepgram.Options) (*asr.Output, error) {
	result, err := t.client.Listen().PreRecorded(ctx, source, options).Unwrap()
	if err != nil {
		return nil, fmt.Errorf("transcribing: %w", err)
	}

	return &asr.Output{
		Text:       result.Transcript(),
		ModelName:  modelName(result.Metadata),
		RequestID:  result.Metadata.RequestID,
		Confidence: result.Confidence(),
		Duration:   result.Metadata.Duration,
	}, nil
}

// modelName prefers the human readable names from model_info over model ids.
func modelName(metadata deepgram.Metadata) string {
	names := make([]string, 0, len(metadata.Models))
	for _, id := range metadata.Models {
		if info, ok := metadata.ModelInfo[id]; ok && info.Name != "" {
			names = append(names, info.Name)
			continue
		}
		names = append(names, id)
	}
	if len(names) == 0 {
		return modelPrefix + "unknown"
	}
	sort.Strings(names)
	return modelPrefix + strings.Join(names, "+")
}
