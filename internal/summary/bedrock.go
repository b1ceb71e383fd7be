package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const anthropicVersion = "bedrock-2023-05-31"

type bedrockSummarizer struct {
	client    *bedrockruntime.Client
	modelID   string
	maxTokens int
}

// NewBedrockSummarizer builds a Summarizer backed by an Anthropic model on
// Amazon Bedrock in the given region, using the ambient credential chain.
func NewBedrockSummarizer(ctx context.Context, region, modelID string, maxTokens int) (Summarizer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &bedrockSummarizer{
		client:    bedrockruntime.NewFromConfig(cfg),
		modelID:   modelID,
		maxTokens: maxTokens,
	}, nil
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (b *bedrockSummarizer) Summarize(ctx context.Context, systemPrompt, transcript string) (string, error) {
	body, err := buildAnthropicBody(systemPrompt, transcript, b.maxTokens)
	if err != nil {
		return "", err
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("invoke model: %w", err)
	}
	return parseAnthropicResponse(out.Body)
}

func buildAnthropicBody(systemPrompt, transcript string, maxTokens int) ([]byte, error) {
	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		System:           systemPrompt,
		Messages:         []anthropicMessage{{Role: "user", Content: transcript}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode model request: %w", err)
	}
	return body, nil
}

func parseAnthropicResponse(body []byte) (string, error) {
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == "" {
		return "", errors.New("model response missing content")
	}
	return resp.Content[0].Text, nil
}
