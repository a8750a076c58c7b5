package deepgram

import "encoding/json"

// PrerecordedResponse is a typed view of the API response. Raw holds the body
// as received, including fields the typed view does not declare.
type PrerecordedResponse struct {
	Metadata Metadata `json:"metadata"`
	Results  Results  `json:"results"`

	Raw json.RawMessage `json:"-"`
}

// MarshalJSON returns Raw when set so re-encoding a response loses nothing.
func (r PrerecordedResponse) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	type plain PrerecordedResponse
	return json.Marshal(plain(r))
}

type Metadata struct {
	TransactionKey string               `json:"transaction_key,omitempty"`
	RequestID      string               `json:"request_id"`
	Sha256         string               `json:"sha256,omitempty"`
	Created        string               `json:"created,omitempty"`
	Duration       float64              `json:"duration"`
	Channels       int                  `json:"channels"`
	Models         []string             `json:"models,omitempty"`
	ModelInfo      map[string]ModelInfo `json:"model_info,omitempty"`
}

type ModelInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Arch    string `json:"arch"`
}

type Results struct {
	Channels   []Channel   `json:"channels"`
	Utterances []Utterance `json:"utterances,omitempty"`
}

type Channel struct {
	Alternatives     []Alternative `json:"alternatives"`
	DetectedLanguage string        `json:"detected_language,omitempty"`
}

type Alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words,omitempty"`
}

type Word struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
	// Only set when diarization is enabled
	Speaker        *int   `json:"speaker,omitempty"`
	PunctuatedWord string `json:"punctuated_word,omitempty"`
}

type Utterance struct {
	ID         string  `json:"id"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
	Channel    int     `json:"channel"`
	Transcript string  `json:"transcript"`
	Words      []Word  `json:"words,omitempty"`
	Speaker    *int    `json:"speaker,omitempty"`
}

// Transcript returns the best alternative of the first channel, or "" if there is none.
func (r *PrerecordedResponse) Transcript() string {
	alt := r.bestAlternative()
	if alt == nil {
		return ""
	}
	return alt.Transcript
}

// Confidence of the alternative Transcript returns.
func (r *PrerecordedResponse) Confidence() float64 {
	alt := r.bestAlternative()
	if alt == nil {
		return 0
	}
	return alt.Confidence
}

func (r *PrerecordedResponse) bestAlternative() *Alternative {
	if r == nil || len(r.Results.Channels) == 0 || len(r.Results.Channels[0].Alternatives) == 0 {
		return nil
	}
	return &r.Results.Channels[0].Alternatives[0]
}

// LiveMessage is one JSON frame received from a live session. Type is one of
// "Results", "Metadata", "UtteranceEnd" or "SpeechStarted".
type LiveMessage struct {
	Type         string  `json:"type"`
	ChannelIndex []int   `json:"channel_index,omitempty"`
	Duration     float64 `json:"duration,omitempty"`
	Start        float64 `json:"start,omitempty"`
	IsFinal      bool    `json:"is_final,omitempty"`
	SpeechFinal  bool    `json:"speech_final,omitempty"`
	Channel      Channel `json:"channel"`
	RequestID    string  `json:"request_id,omitempty"`
}

func (m *LiveMessage) Transcript() string {
	if m == nil || len(m.Channel.Alternatives) == 0 {
		return ""
	}
	return m.Channel.Alternatives[0].Transcript
}
