package main

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/All-Turtles/deepgram-go-sdk/asr"
	"github.com/All-Turtles/deepgram-go-sdk/asr/prerecorded"
	"github.com/All-Turtles/deepgram-go-sdk/deepgram"
	"github.com/All-Turtles/deepgram-go-sdk/messages"
	"github.com/All-Turtles/deepgram-go-sdk/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const stdinSource = "-"

// mime.TypeByExtension only knows what the host's mime database has
var audioMimetypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".opus": "audio/ogg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".webm": "audio/webm",
	".mp4":  "video/mp4",
}

type transcribeRun struct {
	log *zap.Logger

	cfg         config
	options     *deepgram.Options
	transcriber asr.Transcriber
	messages    *messages.MessageProvider
}

func newTranscribeRun(cfg config, parentLogger *zap.Logger) (*transcribeRun, error) {
	client, err := deepgram.NewClient(cfg.APIKey, cfg.Client, deepgram.WithLogger(parentLogger))
	if err != nil {
		return nil, fmt.Errorf("creating deepgram client: %w", err)
	}

	options, err := deepgram.ParseOptions(cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("parsing params: %w", err)
	}

	messageProvider, err := messages.NewMessageProvider()
	if err != nil {
		return nil, fmt.Errorf("creating message provider: %w", err)
	}

	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	return &transcribeRun{
		log:         parentLogger.Named("transcribe"),
		cfg:         cfg,
		options:     options,
		transcriber: prerecorded.NewTranscriber(client),
		messages:    messageProvider,
	}, nil
}

// Run transcribes every source and writes the rendered results to stdout in
// argument order. It returns how many sources failed.
func (t *transcribeRun) Run(ctx context.Context, sources []string, stdin io.Reader, stdout io.Writer) (int, error) {
	results := make([]messages.Transcription, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.Concurrency)

	for i, source := range sources {
		if source == stdinSource {
			// read up front so concurrent jobs never share stdin
			data, err := utils.ReadAllLimit(stdin, t.cfg.MaxStdinSize)
			if err != nil {
				results[i] = messages.Transcription{Source: source, Error: fmt.Sprintf("reading stdin: %s", err)}
				continue
			}
			stdin = strings.NewReader("")
			g.Go(func() (err error) {
				results[i], err = t.transcribe(ctx, source, deepgram.BufferSource{Buffer: data, Mimetype: t.cfg.Mimetype})
				return err
			})
			continue
		}

		g.Go(func() (err error) {
			results[i], err = t.transcribePath(ctx, source)
			return err
		})
	}

	err := g.Wait()
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, result := range results {
		message := t.cfg.Format
		if result.Error != "" {
			message = messages.ErrorMessage
			failed++
		}

		text, err := t.messages.ExecuteText(message, result)
		if err != nil {
			return failed, fmt.Errorf("rendering %s: %w", result.Source, err)
		}
		fmt.Fprintln(stdout, text)
	}

	return failed, nil
}

func (t *transcribeRun) transcribePath(ctx context.Context, source string) (messages.Transcription, error) {
	if isURL(source) {
		return t.transcribe(ctx, source, deepgram.URLSource{URL: source})
	}

	f, err := os.Open(source)
	if err != nil {
		return messages.Transcription{Source: source, Error: fmt.Sprintf("opening file: %s", err)}, nil
	}
	defer f.Close()

	return t.transcribe(ctx, source, deepgram.StreamSource{Stream: f, Mimetype: mimetypeFor(source, t.cfg.Mimetype)})
}

// transcribe only returns an error for panics, failed sources are reported in the result.
func (t *transcribeRun) transcribe(ctx context.Context, name string, source any) (result messages.Transcription, err error) {
	ctx, log := utils.WithLog(ctx, t.log,
		zap.String("job_id", uuid.NewString()),
		zap.String("source", name),
		zap.Stringer("source_kind", deepgram.Classify(source)),
	)
	defer utils.RecoverError(log, &err)

	result.Source = name

	out, err := t.transcriber.Transcribe(ctx, source, t.options)
	if err != nil {
		log.Info("transcription failed", zap.Error(err))
		result.Error = err.Error()
		return result, nil
	}

	log.With(zap.String("request_id", out.RequestID), zap.Float64("duration", out.Duration)).Info("transcribed")

	result.RequestID = out.RequestID
	result.ModelName = out.ModelName
	result.Duration = out.Duration
	result.Confidence = out.Confidence
	result.Transcript = out.Text
	return result, nil
}

func isURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func mimetypeFor(path string, override string) string {
	if override != "" {
		return override
	}

	ext := strings.ToLower(filepath.Ext(path))
	if mimetype, ok := audioMimetypes[ext]; ok {
		return mimetype
	}

	mimetype, _, _ := strings.Cut(mime.TypeByExtension(ext), ";")
	return mimetype
}
