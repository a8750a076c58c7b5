package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/All-Turtles/deepgram-go-sdk/utils"
	"go.uber.org/zap"
)

const listenPath = "/v1/listen"

// error bodies larger than this are not worth decoding
const maxErrorBodySize = 64 << 10

type ListenClient struct {
	log *zap.Logger

	apiKey  string
	url     *url.URL
	headers http.Header
	fetch   Fetch
}

// listenURL builds {base}/v1/listen?{query}. The "?" is kept even when the query is empty.
func (l *ListenClient) listenURL(options *Options) *url.URL {
	u := *l.url
	u.Path = u.Path + listenPath
	u.RawPath = ""
	u.RawQuery = options.Encode()
	u.ForceQuery = true
	u.Fragment = ""
	return &u
}

// PreRecorded transcribes a URLSource, BufferSource or StreamSource in a single request.
// Local validation failures are returned without contacting the API.
func (l *ListenClient) PreRecorded(ctx context.Context, source any, options *Options) Response[PrerecordedResponse] {
	log := utils.Logger(ctx, l.log)

	kind, src := normalize(source)
	switch kind {
	case SourceUnknown:
		return failure[PrerecordedResponse](newError(ErrUnknownSource))
	case SourceBuffer, SourceStream:
		if src.mimetype == "" {
			return failure[PrerecordedResponse](newError(ErrMissingMimetype))
		}
	}

	body, contentType, err := encodeBody(kind, src)
	if err != nil {
		return failure[PrerecordedResponse](wrapError(err, "encoding request body"))
	}

	endpoint := l.listenURL(options)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return failure[PrerecordedResponse](wrapError(err, "creating request"))
	}
	for k, v := range l.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	req.Header.Set("Content-Type", contentType)

	log = log.With(zap.Stringer("source_kind", kind), zap.String("path", endpoint.Path))
	log.Debug("sending transcription request")

	resp, err := l.fetch(req)
	if err != nil {
		return failure[PrerecordedResponse](wrapError(err, "sending request"))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := responseError(resp)
		log.Debug("transcription request failed", zap.Int("status", resp.StatusCode), zap.Error(apiErr))
		return failure[PrerecordedResponse](apiErr)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure[PrerecordedResponse](&Error{
			Message: fmt.Sprintf("reading response body: %s", err),
			Status:  resp.StatusCode,
			Err:     err,
		})
	}

	var result PrerecordedResponse
	err = json.Unmarshal(data, &result)
	if err != nil {
		return failure[PrerecordedResponse](&Error{
			Message: fmt.Sprintf("decoding response json: %s", err),
			Status:  resp.StatusCode,
			Err:     err,
		})
	}

	result.Raw = json.RawMessage(data)

	log.Debug("transcription done", zap.String("request_id", result.Metadata.RequestID))

	return success(&result)
}

func encodeBody(kind SourceKind, src normalizedSource) (io.Reader, string, error) {
	if kind == SourceURL {
		payload, err := json.Marshal(URLSource{URL: src.url})
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(payload), "application/json", nil
	}

	return src.body, src.mimetype, nil
}

func responseError(resp *http.Response) *Error {
	apiErr := &Error{
		Message: fmt.Sprintf("non-ok http response: [%d] %s", resp.StatusCode, resp.Status),
		Status:  resp.StatusCode,
	}

	data, _ := utils.ReadAllLimit(resp.Body, maxErrorBodySize)

	var body apiErrorBody
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Code = body.ErrCode
		apiErr.RequestID = body.RequestID
		if body.ErrMsg != "" {
			apiErr.Message = fmt.Sprintf("%s: %s", apiErr.Message, body.ErrMsg)
		}
	}

	return apiErr
}
