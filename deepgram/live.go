package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/All-Turtles/deepgram-go-sdk/utils"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// LiveClient is a streaming transcription session. It starts no goroutines;
// Send and Receive may be called from one goroutine each.
type LiveClient struct {
	log  *zap.Logger
	conn *websocket.Conn
}

func (l *ListenClient) liveURL(options *Options) *url.URL {
	u := l.listenURL(options)
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	default:
		u.Scheme = "wss"
	}
	return u
}

// Live opens a streaming transcription session.
func (l *ListenClient) Live(ctx context.Context, options *Options) Response[LiveClient] {
	log := utils.Logger(ctx, l.log).Named("live")

	header := l.headers.Clone()
	if header == nil {
		header = make(http.Header)
	}
	if !hasAuthorization(header) {
		header.Set("Authorization", authorization(l.apiKey))
	}

	endpoint := l.liveURL(options)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint.String(), header)
	if err != nil {
		dialErr := wrapError(err, "dialing live endpoint")
		if resp != nil {
			apiErr := responseError(resp)
			resp.Body.Close()
			apiErr.Message = fmt.Sprintf("%s: %s", dialErr.Message, apiErr.Message)
			apiErr.Err = err
			dialErr = apiErr
		}
		return failure[LiveClient](dialErr)
	}

	log.Debug("live session opened", zap.String("path", endpoint.Path))

	return success(&LiveClient{
		log:  log,
		conn: conn,
	})
}

// Send writes one chunk of audio. Empty chunks are dropped since the API
// treats an empty frame as the end of the stream.
func (c *LiveClient) Send(audio []byte) error {
	if len(audio) == 0 {
		return nil
	}

	err := c.conn.WriteMessage(websocket.BinaryMessage, audio)
	if err != nil {
		return fmt.Errorf("writing audio: %w", err)
	}
	return nil
}

// Receive blocks until the next message from the API.
func (c *LiveClient) Receive() (*LiveMessage, error) {
	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("reading message: %w", err)
		}
		if messageType != websocket.TextMessage {
			c.log.Debug("ignoring non-text message", zap.Int("message_type", messageType))
			continue
		}

		var msg LiveMessage
		err = json.Unmarshal(data, &msg)
		if err != nil {
			return nil, fmt.Errorf("decoding message json: %w", err)
		}
		return &msg, nil
	}
}

// Finish asks the API to flush remaining results and close the session.
func (c *LiveClient) Finish() error {
	err := c.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CloseStream"}`))
	if err != nil {
		return fmt.Errorf("writing close stream: %w", err)
	}
	return nil
}

func (c *LiveClient) Close() error {
	err := c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil && err != websocket.ErrCloseSent {
		c.conn.Close()
		return fmt.Errorf("writing close message: %w", err)
	}
	return c.conn.Close()
}
