package deepgram

import (
	"bytes"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	var nilURL *URLSource
	var nilStream *StreamSource

	tests := []struct {
		name   string
		source any
		want   SourceKind
	}{
		{name: "url", source: URLSource{URL: "http://audio.example/file.wav"}, want: SourceURL},
		{name: "url pointer", source: &URLSource{URL: "http://audio.example/file.wav"}, want: SourceURL},
		{name: "buffer", source: BufferSource{Buffer: []byte("RIFF"), Mimetype: "audio/wav"}, want: SourceBuffer},
		{name: "buffer pointer", source: &BufferSource{Buffer: []byte("RIFF")}, want: SourceBuffer},
		{name: "raw bytes", source: []byte("RIFF"), want: SourceBuffer},
		{name: "stream", source: StreamSource{Stream: strings.NewReader("RIFF"), Mimetype: "audio/wav"}, want: SourceStream},
		{name: "stream pointer", source: &StreamSource{Stream: strings.NewReader("RIFF")}, want: SourceStream},
		{name: "bare reader", source: strings.NewReader("RIFF"), want: SourceStream},
		{name: "stream without reader", source: StreamSource{Mimetype: "audio/wav"}, want: SourceUnknown},
		{name: "nil url pointer", source: nilURL, want: SourceUnknown},
		{name: "stream with typed nil buffer", source: StreamSource{Stream: (*bytes.Buffer)(nil), Mimetype: "audio/wav"}, want: SourceUnknown},
		{name: "stream with typed nil reader", source: &StreamSource{Stream: (*strings.Reader)(nil), Mimetype: "audio/wav"}, want: SourceUnknown},
		{name: "typed nil bare reader", source: (*bytes.Reader)(nil), want: SourceUnknown},
		{name: "nil stream pointer", source: nilStream, want: SourceUnknown},
		{name: "nil", source: nil, want: SourceUnknown},
		{name: "string", source: "http://audio.example/file.wav", want: SourceUnknown},
		{name: "record", source: map[string]string{"test": "breaker", "mimetype": "application/xml"}, want: SourceUnknown},
		{name: "struct", source: struct{ Test string }{Test: "breaker"}, want: SourceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.source)
			if got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
			if again := Classify(tt.source); again != got {
				t.Errorf("second Classify() = %s, first %s", again, got)
			}
		})
	}
}

func TestClassifyDoesNotConsumeStream(t *testing.T) {
	r := strings.NewReader("RIFF")
	Classify(StreamSource{Stream: r, Mimetype: "audio/wav"})
	if r.Len() != 4 {
		t.Errorf("stream was read during classification, %d bytes left", r.Len())
	}
}
