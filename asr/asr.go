package asr

import (
	"context"

	"github.com/All-Turtles/deepgram-go-sdk/deepgram"
)

// Transcriber turns a deepgram source (URL, buffer or stream) into text.
type Transcriber interface {
	Transcribe(ctx context.Context, source any, options *deepgram.Options) (*Output, error)
}

type Output struct {
	Text       string
	ModelName  string
	RequestID  string
	Confidence float64
	// Seconds of audio
	Duration float64
}
