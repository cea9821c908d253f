package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pk527236/ai-support-assistant/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// Assistant defines the language-model operations the triage workflow
// depends on. All methods accept free-form ticket text and return plain
// text (or a parsed classification); transport failures surface as errors
// so callers can degrade gracefully.
type Assistant interface {
	// ClassifyTicket assigns a severity and type to a ticket. Missing or
	// unparseable fields fall back to S3/QUESTION.
	ClassifyTicket(ctx context.Context, ticketText string) (model.Classification, error)
	// ExplainTicket restates the ticket factually for the support agent.
	ExplainTicket(ctx context.Context, ticketText string) (string, error)
	// DraftSolution writes an actionable solution from knowledge-base context.
	DraftSolution(ctx context.Context, ticketText, kbContext string, severity model.Severity, severityName string) (string, error)
	// SummarizeFeatureRequest drafts a product-backlog summary for an
	// enhancement ticket.
	SummarizeFeatureRequest(ctx context.Context, ticketText string) (string, error)
	// AnswerFollowUp answers a follow-up question, with or without
	// knowledge-base context.
	AnswerFollowUp(ctx context.Context, question, ticketContext, kbContext string) (string, error)
}

// Embedder turns text into embedding vectors for the semantic store.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// OpenAIClient implements Assistant and Embedder over any
// OpenAI-compatible chat completion API.
type OpenAIClient struct {
	client         *openai.Client
	model          string
	embeddingModel string
	product        string
}

type Config struct {
	APIKey         string
	Model          string
	BaseURL        string // optional, for OpenAI-compatible providers
	EmbeddingModel string
	Product        string
}

func NewOpenAI(cfg Config) *OpenAIClient {
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	if cfg.Model == "" {
		panic("ai: model must be specified")
	}
	product := cfg.Product
	if product == "" {
		product = "DVSum"
	}
	return &OpenAIClient{
		client:         c,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		product:        product,
	}
}

func (o *OpenAIClient) ClassifyTicket(ctx context.Context, ticketText string) (model.Classification, error) {
	out, err := o.create(ctx, classifySystemPrompt(o.product), classifyUserPrompt(ticketText))
	if err != nil {
		slog.Error("ai: classify ticket error", "err", err)
		return model.Classification{}, err
	}
	return parseClassification(out), nil
}

func (o *OpenAIClient) ExplainTicket(ctx context.Context, ticketText string) (string, error) {
	out, err := o.create(ctx, explainSystemPrompt(o.product), explainUserPrompt(ticketText))
	if err != nil {
		slog.Error("ai: explain ticket error", "err", err)
		return "", err
	}
	return scrubEmpathy(strings.Trim(strings.TrimSpace(out), `"'`)), nil
}

func (o *OpenAIClient) DraftSolution(ctx context.Context, ticketText, kbContext string, severity model.Severity, severityName string) (string, error) {
	out, err := o.create(ctx, solutionSystemPrompt(o.product), solutionUserPrompt(ticketText, kbContext, severity, severityName))
	if err != nil {
		slog.Error("ai: draft solution error", "err", err)
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *OpenAIClient) SummarizeFeatureRequest(ctx context.Context, ticketText string) (string, error) {
	out, err := o.create(ctx, frSystemPrompt, frUserPrompt(ticketText))
	if err != nil {
		slog.Error("ai: feature request summary error", "err", err)
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *OpenAIClient) AnswerFollowUp(ctx context.Context, question, ticketContext, kbContext string) (string, error) {
	var user string
	if strings.TrimSpace(kbContext) != "" {
		user = answerWithKBPrompt(question, ticketContext, kbContext)
	} else {
		user = answerWithoutKBPrompt(question, ticketContext, o.product)
	}
	out, err := o.create(ctx, answerSystemPrompt(o.product), user)
	if err != nil {
		slog.Error("ai: answer follow-up error", "err", err)
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Embed converts texts into embedding vectors.
func (o *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if o.embeddingModel == "" {
		return nil, fmt.Errorf("ai: embedding model not configured")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
	}
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(o.embeddingModel),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("ai: embeddings count mismatch: sent %d, got %d", len(texts), len(resp.Data))
	}
	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

func (o *OpenAIClient) create(ctx context.Context, system, user string) (string, error) {
	// Default timeout guard, if caller didn't set one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 120*time.Second)
		defer cancel()
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.3,
		MaxTokens:   2048,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
