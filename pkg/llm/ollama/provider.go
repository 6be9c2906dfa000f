package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"docs-assistant-be/pkg/llm"
)

// Provider talks to a local Ollama server over its chat API. When a
// conversation id is supplied it keeps the transcript in memory, so follow-up
// calls carry continuity without the caller re-sending history.
type Provider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client

	mu          sync.Mutex
	transcripts map[string][]llm.Message
}

var _ llm.Provider = &Provider{}

func NewProvider(baseURL, modelName string) *Provider {
	return &Provider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
		transcripts: make(map[string][]llm.Message),
	}
}

// --- Request/Response structs (internal to this package) ---

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  *modelSettings `json:"options,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type modelSettings struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// --- Interface implementation ---

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(opts)

	full := history
	if options.ConversationId != "" {
		p.mu.Lock()
		prior := p.transcripts[options.ConversationId]
		full = append(append(make([]llm.Message, 0, len(prior)+len(history)), prior...), history...)
		p.mu.Unlock()
	}

	messages := make([]chatMessage, len(full))
	for i, msg := range full {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages[i] = chatMessage{Role: role, Content: msg.Content}
	}

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   options.StreamHandler != nil,
		Options: &modelSettings{
			Temperature: options.Temperature,
		},
	}
	if options.MaxTokens > 0 {
		reqPayload.Options.NumPredict = options.MaxTokens
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := p.BaseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var answer string
	if options.StreamHandler != nil {
		answer, err = readStream(resp.Body, options.StreamHandler)
	} else {
		answer, err = readSingle(resp.Body)
	}
	if err != nil {
		return "", err
	}

	if options.ConversationId != "" {
		p.mu.Lock()
		p.transcripts[options.ConversationId] = append(p.transcripts[options.ConversationId],
			append(append([]llm.Message(nil), history...), llm.Message{Role: "assistant", Content: answer})...)
		p.mu.Unlock()
	}

	return answer, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	// Reuse Chat for simplicity as most new LLMs are chat-optimized
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// Forget drops the stored transcript for a conversation.
func (p *Provider) Forget(conversationId string) {
	p.mu.Lock()
	delete(p.transcripts, conversationId)
	p.mu.Unlock()
}

func readSingle(body io.Reader) (string, error) {
	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	var parsed chatResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	return parsed.Message.Content, nil
}

// readStream consumes Ollama's line-delimited JSON stream, forwarding each
// fragment to the handler and accumulating the full answer.
func readStream(body io.Reader, handler func(chunk string)) (string, error) {
	var sb strings.Builder
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var parsed chatResponse
		if err := json.Unmarshal(line, &parsed); err != nil {
			return "", fmt.Errorf("unmarshal stream line: %w", err)
		}
		if parsed.Message.Content != "" {
			sb.WriteString(parsed.Message.Content)
			handler(parsed.Message.Content)
		}
		if parsed.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read stream: %w", err)
	}
	return sb.String(), nil
}
