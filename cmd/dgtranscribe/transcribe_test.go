package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/All-Turtles/deepgram-go-sdk/deepgram"
	"go.uber.org/zap/zaptest"
)

const responseFixture = `{
	"metadata": {"request_id": "req-1", "duration": 2.0, "channels": 1, "models": ["m"], "model_info": {"m": {"name": "nova-2"}}},
	"results": {"channels": [{"alternatives": [{"transcript": "hello from %s", "confidence": 0.5}]}]}
}`

func newTestServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		body, _ := io.ReadAll(r.Body)
		what := r.Header.Get("Content-Type")
		if what == "application/json" {
			what = "url"
		}
		if r.URL.Query().Get("model") != "nova-2" {
			what = "missing params"
		}
		if len(body) == 0 {
			what = "empty body"
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, strings.Replace(responseFixture, "%s", what, 1))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRun(t *testing.T) {
	server := newTestServer(t)

	dir := t.TempDir()
	wavPath := filepath.Join(dir, "a.wav")
	if err := os.WriteFile(wavPath, []byte("RIFF"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	unknownPath := filepath.Join(dir, "notes.unknownext")
	if err := os.WriteFile(unknownPath, []byte("data"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg := config{
		APIKey:       "test-key",
		Client:       deepgram.ClientOptions{URL: server.URL},
		Params:       []string{"model=nova-2"},
		Concurrency:  2,
		Format:       "text",
		MaxStdinSize: 1024,
	}

	run, err := newTranscribeRun(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("setting up: %v", err)
	}

	sources := []string{
		"https://audio.example/a.wav",
		wavPath,
		filepath.Join(dir, "missing.wav"),
		unknownPath,
		"-",
	}

	var stdout bytes.Buffer
	failed, err := run.Run(context.Background(), sources, strings.NewReader("stdin audio"), &stdout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failed != 3 {
		t.Errorf("failed = %d, want 3\n%s", failed, stdout.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != len(sources) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(sources), len(lines), stdout.String())
	}

	if lines[0] != "hello from url" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "hello from audio/wav" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], sources[2]+": error: opening file") {
		t.Errorf("line 2 = %q", lines[2])
	}
	if lines[3] != unknownPath+": error: transcribing: Mimetype must be provided if the source is a Buffer or a Readable" {
		t.Errorf("line 3 = %q", lines[3])
	}
	if lines[4] != "-: error: transcribing: Mimetype must be provided if the source is a Buffer or a Readable" {
		t.Errorf("line 4 = %q", lines[4])
	}
}

func TestRunStdinWithMimetype(t *testing.T) {
	server := newTestServer(t)

	cfg := config{
		APIKey:       "test-key",
		Client:       deepgram.ClientOptions{URL: server.URL},
		Params:       []string{"model=nova-2"},
		Mimetype:     "audio/ogg",
		Concurrency:  1,
		Format:       "summary",
		MaxStdinSize: 1024,
	}

	run, err := newTranscribeRun(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("setting up: %v", err)
	}

	var stdout bytes.Buffer
	failed, err := run.Run(context.Background(), []string{"-"}, strings.NewReader("stdin audio"), &stdout)
	if err != nil || failed != 0 {
		t.Fatalf("Run() = %d, %v", failed, err)
	}

	want := "- [2.0s, deepgram-nova-2, confidence 50%]: hello from audio/ogg\n"
	if stdout.String() != want {
		t.Errorf("got %q, want %q", stdout.String(), want)
	}
}

func TestRunStdinLimit(t *testing.T) {
	cfg := config{
		APIKey:       "test-key",
		Mimetype:     "audio/wav",
		Concurrency:  1,
		Format:       "text",
		MaxStdinSize: 4,
	}

	run, err := newTranscribeRun(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("setting up: %v", err)
	}

	var stdout bytes.Buffer
	failed, err := run.Run(context.Background(), []string{"-"}, strings.NewReader("too much audio"), &stdout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failed != 1 || !strings.Contains(stdout.String(), "read size limit reached") {
		t.Errorf("failed = %d, output %q", failed, stdout.String())
	}
}

func TestNewTranscribeRunErrors(t *testing.T) {
	log := zaptest.NewLogger(t)

	if _, err := newTranscribeRun(config{}, log); err == nil {
		t.Error("expected an error without an api key")
	}
	if _, err := newTranscribeRun(config{APIKey: "k", Params: []string{"bad"}}, log); err == nil {
		t.Error("expected an error for a malformed param")
	}
}

func TestMimetypeFor(t *testing.T) {
	tests := []struct {
		path     string
		override string
		want     string
	}{
		{path: "a.wav", want: "audio/wav"},
		{path: "A.MP3", want: "audio/mpeg"},
		{path: "a.flac", override: "audio/x-flac", want: "audio/x-flac"},
		{path: "noext", want: ""},
	}

	for _, tt := range tests {
		if got := mimetypeFor(tt.path, tt.override); got != tt.want {
			t.Errorf("mimetypeFor(%q, %q) = %q, want %q", tt.path, tt.override, got, tt.want)
		}
	}
}

func TestIsURL(t *testing.T) {
	for source, want := range map[string]bool{
		"https://audio.example/a.wav": true,
		"HTTP://audio.example/a.wav":  true,
		"./https.wav":                 false,
		"-":                           false,
	} {
		if got := isURL(source); got != want {
			t.Errorf("isURL(%q) = %v", source, got)
		}
	}
}
