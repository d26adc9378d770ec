package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"lead-console/internal/model"
	"lead-console/internal/msgtemplate"
)

// Composer drafts message text for an ad's leads.
type Composer interface {
	// ComposeMessage returns a message body that may use the standard lead
	// placeholders, written in the given language.
	ComposeMessage(ctx context.Context, ad model.Ad, language string) (string, error)
}

// OpenAIComposer implements Composer using the OpenAI Chat Completions API.
type OpenAIComposer struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewOpenAI(cfg Config, logger zerolog.Logger) (*OpenAIComposer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("openai model must be specified")
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	return &OpenAIComposer{
		client: openai.NewClientWithConfig(cc),
		model:  cfg.Model,
		logger: logger.With().Str("component", "ai").Logger(),
	}, nil
}

func (o *OpenAIComposer) ComposeMessage(ctx context.Context, ad model.Ad, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	sys := fmt.Sprintf(`
		You write the first Messenger message a business sends to someone who just submitted a lead form.
		Write in %s. Keep it under 60 words, friendly and specific to the ad.
		Personalise it with these placeholders, written exactly as shown: %s.
		Output the message text only, no quotes, no subject line.
		`, langOrDefault(language), placeholderList())
	user := fmt.Sprintf("Ad: %s\nCampaign: %s\nAd set: %s", ad.AdName, ad.CampaignName, ad.AdsetName)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sys},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.7,
	})
	if err != nil {
		o.logger.Error().Err(err).Int64("ad_id", ad.ID).Msg("compose message failed")
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func placeholderList() string {
	fields := msgtemplate.StandardFields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, msgtemplate.Token(f.Key))
	}
	return strings.Join(names, ", ")
}

func langOrDefault(lang string) string {
	l := strings.TrimSpace(lang)
	if l == "" {
		return "English"
	}
	return l
}
