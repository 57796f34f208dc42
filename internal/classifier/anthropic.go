package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/JaimeStill/lifeline/pkg/formatting"
)

const systemPrompt = `You triage emergency rescue requests sent during floods and storms.
Messages may be written in Vietnamese or English and are often informal.

Classify the urgency of the message as exactly one of:
- Critical: immediate threat to life (injury, drowning, trapped people, medical emergency)
- High: people at risk and needing rescue soon (rising water, stranded, vulnerable people)
- Low: everything else (information, supplies, non-urgent requests)

Respond with only a JSON object: {"label": "<Low|High|Critical>", "confidence": <0.0-1.0>}`

type labelResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Anthropic asks a Claude model for the urgency label.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

var _ Classifier = (*Anthropic)(nil)

// NewAnthropic creates a Claude-backed classifier from cfg. A non-empty
// cfg.Endpoint overrides the API base URL. Additional request options are
// applied last.
func NewAnthropic(cfg *Config, opts ...option.RequestOption) *Anthropic {
	reqOpts := []option.RequestOption{
		option.WithMaxRetries(0),
	}
	if cfg.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.Endpoint))
	}
	reqOpts = append(reqOpts, opts...)

	return &Anthropic{
		client:    anthropic.NewClient(reqOpts...),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
	}
}

func (a *Anthropic) Classify(ctx context.Context, message string) (Result, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(message)),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = strings.TrimSpace(block.Text)
			break
		}
	}
	if text == "" {
		return Result{}, fmt.Errorf("%w: empty model response", ErrUnavailable)
	}

	parsed, err := formatting.Parse[labelResponse](text)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return newResult(parsed.Label, parsed.Confidence)
}
