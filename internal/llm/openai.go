package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"

	"github.com/Bandeaditi/mail-automated-system/internal/logging"
)

// OpenAI is the alternate generation backend, for setups without a local
// model server.
type OpenAI struct {
	api   openai.Client
	model string
	log   *logrus.Logger
}

func NewOpenAI(apiKey, model string, log *logrus.Logger) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &OpenAI{
		api:   client,
		model: model,
		log:   log,
	}, nil
}

func (c *OpenAI) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	start := time.Now()

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
		Temperature:         openai.Float(temperature),
	})
	if err != nil {
		c.log.WithFields(logging.ModelCallFields("generate", false, time.Since(start), "api error")).
			Error("model call failed")
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		c.log.WithFields(logging.ModelCallFields("generate", false, time.Since(start), "empty response")).
			Error("model call failed")
		return "", errors.New("model returned empty response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		c.log.WithFields(logging.ModelCallFields("generate", false, time.Since(start), "empty response")).
			Error("model call failed")
		return "", errors.New("model returned empty response")
	}

	c.log.WithFields(logging.ModelCallFields("generate", true, time.Since(start), "")).
		Debug("model call complete")

	return text, nil
}
