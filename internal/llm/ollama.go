package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Bandeaditi/mail-automated-system/internal/logging"
)

// Fixed sampling temperature for all calls; the prompts are engineered
// around it.
const temperature = 0.7

// Ollama talks to a local Ollama server over its generate endpoint.
type Ollama struct {
	model   string
	url     string
	client  *http.Client
	timeout time.Duration
	log     *logrus.Logger
}

func NewOllama(model, url string, timeout time.Duration, log *logrus.Logger) *Ollama {
	return &Ollama{
		model:   model,
		url:     url,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		log:     log,
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict  int     `json:"num_predict"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (o *Ollama) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	start := time.Now()

	payload := generateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			NumPredict:  maxTokens,
			Temperature: temperature,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		o.fail(start, failureReason(err))
		return "", fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		o.fail(start, fmt.Sprintf("http %d", resp.StatusCode))
		return "", fmt.Errorf("model returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		o.fail(start, "decode error")
		return "", fmt.Errorf("decode model response: %w", err)
	}

	text := strings.TrimSpace(out.Response)
	if text == "" {
		o.fail(start, "empty response")
		return "", errors.New("model returned empty response")
	}

	o.log.WithFields(logging.ModelCallFields("generate", true, time.Since(start), "")).
		Debug("model call complete")

	return text, nil
}

func (o *Ollama) fail(start time.Time, reason string) {
	o.log.WithFields(logging.ModelCallFields("generate", false, time.Since(start), reason)).
		Error("model call failed")
}

// failureReason names the transport failure for diagnostics. Callers only
// ever see a generic error.
func failureReason(err error) string {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return "timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "connection error"
}
