package messages

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/google/go-jsonnet"
)

//go:embed jsonnet/*
var templates embed.FS

// Formats a transcription result can be rendered in.
var Formats = []string{"text", "summary", "json"}

const ErrorMessage = "error"

type MessageProvider struct {
	// jsonnet.VM holds TLA state between calls
	mu sync.Mutex
	vm *jsonnet.VM
}

// Transcription is the data every template receives.
type Transcription struct {
	Source     string  `json:"source"`
	RequestID  string  `json:"request_id"`
	ModelName  string  `json:"model_name"`
	Duration   float64 `json:"duration"`
	Confidence float64 `json:"confidence"`
	Transcript string  `json:"transcript"`
	Error      string  `json:"error,omitempty"`
}

func NewMessageProvider() (*MessageProvider, error) {
	m := &MessageProvider{
		vm: jsonnet.MakeVM(),
	}

	imports := make(map[string]jsonnet.Contents)
	err := fs.WalkDir(templates, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		imports[strings.TrimPrefix(path, "jsonnet/")] = jsonnet.MakeContentsRaw(content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	m.vm.Importer(&jsonnet.MemoryImporter{
		Data: imports,
	})

	_, _, err = m.vm.ImportData("anonymous", "index.jsonnet")
	if err != nil {
		return nil, fmt.Errorf("importing index: %w", err)
	}

	return m, nil
}

// ExecuteMessage evaluates the template messageName with data and returns the resulting JSON.
func (m *MessageProvider) ExecuteMessage(messageName string, data any) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshaling data: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.vm.TLAVar("message_key", messageName)
	m.vm.TLACode("data", string(jsonData))
	defer m.vm.TLAReset()

	jsonOut, err := m.vm.EvaluateAnonymousSnippet("anonymous", "function(message_key, data) (import 'index.jsonnet')[message_key](data)")
	if err != nil {
		return "", fmt.Errorf("evaluating jsonnet: %w", err)
	}

	return jsonOut, nil
}

// ExecuteText is ExecuteMessage for templates that evaluate to a string.
func (m *MessageProvider) ExecuteText(messageName string, data any) (string, error) {
	jsonOut, err := m.ExecuteMessage(messageName, data)
	if err != nil {
		return "", err
	}

	var text string
	err = json.Unmarshal([]byte(jsonOut), &text)
	if err != nil {
		return "", fmt.Errorf("message %q did not evaluate to a string: %w", messageName, err)
	}
	return text, nil
}

func IsFormat(name string) bool {
	for _, f := range Formats {
		if f == name {
			return true
		}
	}
	return false
}
