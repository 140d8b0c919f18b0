package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/LiboWorks/cppbuild/internal/config"
	openai "github.com/sashabaranov/go-openai"
)

// maxStderrBytes caps how much compiler output is sent to the model.
// g++ template errors easily run to megabytes; the head carries the cause.
const maxStderrBytes = 16 * 1024

// OpenAIDiagnostician implements Diagnostician using the OpenAI API
// or any compatible endpoint (e.g. a local llama.cpp server).
type OpenAIDiagnostician struct {
	client       *openai.Client
	defaultModel string
	maxTokens    int
}

// OpenAIConfig holds configuration for the OpenAI diagnostician.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string // Optional: for Azure or compatible APIs
	Model     string
	MaxTokens int
}

// NewOpenAIDiagnostician creates a new OpenAI-backed diagnostician.
// Empty fields fall back to the global configuration.
func NewOpenAIDiagnostician(cfg OpenAIConfig) (*OpenAIDiagnostician, error) {
	globalCfg := config.Get()

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = globalCfg.OpenAIAPIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not provided (set OPENAI_API_KEY or pass in config)")
	}

	clientCfg := openai.DefaultConfig(apiKey)
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = globalCfg.OpenAIBaseURL
	}
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	model := cfg.Model
	if model == "" {
		model = globalCfg.OpenAIModel
	}

	return &OpenAIDiagnostician{
		client:       openai.NewClientWithConfig(clientCfg),
		defaultModel: model,
		maxTokens:    cfg.MaxTokens,
	}, nil
}

// Explain implements Diagnostician.
func (d *OpenAIDiagnostician) Explain(ctx context.Context, argv []string, stderr string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: d.defaultModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a C++ build assistant. Explain the root cause of the " +
					"compiler or linker error in a few sentences and suggest a fix.",
			},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(argv, stderr)},
		},
	}
	if d.maxTokens > 0 {
		req.MaxTokens = d.maxTokens
	}

	resp, err := d.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Name implements Diagnostician.
func (d *OpenAIDiagnostician) Name() string {
	return "openai"
}

func buildPrompt(argv []string, stderr string) string {
	if len(stderr) > maxStderrBytes {
		stderr = stderr[:maxStderrBytes] + "\n[... truncated]"
	}
	var b strings.Builder
	b.WriteString("Command:\n")
	b.WriteString(strings.Join(argv, " "))
	b.WriteString("\n\nCompiler output:\n")
	b.WriteString(stderr)
	return b.String()
}
