package deepgram

import (
	"bytes"
	"io"
	"reflect"
)

type SourceKind int

const (
	SourceUnknown SourceKind = iota
	SourceURL
	SourceBuffer
	SourceStream
)

func (k SourceKind) String() string {
	switch k {
	case SourceURL:
		return "url"
	case SourceBuffer:
		return "buffer"
	case SourceStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Source is audio to transcribe: a URLSource, BufferSource or StreamSource.
type Source interface {
	source()
}

// URLSource points the API at audio it downloads itself.
type URLSource struct {
	URL string `json:"url"`
}

type BufferSource struct {
	Buffer   []byte
	Mimetype string
}

// StreamSource is read to EOF and sent as the request body. It is not closed.
type StreamSource struct {
	Stream   io.Reader
	Mimetype string
}

func (URLSource) source()    {}
func (BufferSource) source() {}
func (StreamSource) source() {}

// Classify reports which kind of source value is. Anything that is not one of
// the source variants, raw bytes or a reader is SourceUnknown.
func Classify(source any) SourceKind {
	kind, _ := normalize(source)
	return kind
}

// normalizedSource is a classified source with its payload pulled out.
type normalizedSource struct {
	url      string
	body     io.Reader
	mimetype string
}

func normalize(source any) (SourceKind, normalizedSource) {
	switch s := source.(type) {
	case URLSource:
		return SourceURL, normalizedSource{url: s.URL}
	case *URLSource:
		if s != nil {
			return SourceURL, normalizedSource{url: s.URL}
		}

	case BufferSource:
		return SourceBuffer, bufferSource(s.Buffer, s.Mimetype)
	case *BufferSource:
		if s != nil {
			return SourceBuffer, bufferSource(s.Buffer, s.Mimetype)
		}
	case []byte:
		return SourceBuffer, bufferSource(s, "")

	case StreamSource:
		if !isNilReader(s.Stream) {
			return SourceStream, normalizedSource{body: s.Stream, mimetype: s.Mimetype}
		}
	case *StreamSource:
		if s != nil && !isNilReader(s.Stream) {
			return SourceStream, normalizedSource{body: s.Stream, mimetype: s.Mimetype}
		}
	case io.Reader:
		if !isNilReader(s) {
			return SourceStream, normalizedSource{body: s}
		}
	}

	return SourceUnknown, normalizedSource{}
}

// isNilReader also catches typed nils like (*bytes.Buffer)(nil), which would
// panic once read.
func isNilReader(r io.Reader) bool {
	if r == nil {
		return true
	}
	rv := reflect.ValueOf(r)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func bufferSource(buf []byte, mimetype string) normalizedSource {
	return normalizedSource{body: bytes.NewReader(buf), mimetype: mimetype}
}
