package service

import (
	"context"
	"encoding/json"
	"fmt"

	"lina-ai/internal/models"
	"lina-ai/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

// ChatBackend is the conversational fallback used when a query resolves to
// neither an action nor needs one. Implementations make a single synchronous
// call and return one text reply.
type ChatBackend interface {
	Reply(ctx context.Context, query, contextSummary string) (string, error)
}

// LLMService is the GigaChat-backed ChatBackend.
type LLMService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

func buildSystemInstruction() string {
	return `You are Lina, a witty, concise, and helpful AI financial assistant.
Use emojis sparingly. Keep answers to 1-3 sentences.
You may receive a summary of the user's finances for context; do not recite it unless asked.
Never claim to have moved money. Any payment or transfer happens only after the user confirms it in the app.`
}

func NewLLMService(cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.SystemInstruction = buildSystemInstruction()
	model.Temperature = 0.2

	return &LLMService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Reply sends one chat turn to the backend and returns its text.
func (s *LLMService) Reply(ctx context.Context, query, contextSummary string) (string, error) {
	prompt := fmt.Sprintf("User's query: %q\n\nUser's financial info (for context, do not mention it unless asked):\n%s", query, contextSummary)

	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate chat reply: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return resp.Choices[0].Message.Content, nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

// contextSummary renders the parts of a snapshot worth handing to the chat
// backend, including the selected insight when one was produced.
func contextSummary(fctx *models.FinancialContext, insightText string) string {
	summary := struct {
		Balance          float64 `json:"balance"`
		Cashback         float64 `json:"cashback"`
		TransactionCount int     `json:"transaction_count"`
		UnpaidBillCount  int     `json:"unpaid_bill_count"`
		SavingsGoalCount int     `json:"savings_goal_count"`
		Insight          string  `json:"insight,omitempty"`
	}{
		Balance:          fctx.Balance,
		Cashback:         fctx.Cashback,
		TransactionCount: len(fctx.RecentTransactions),
		UnpaidBillCount:  len(fctx.UnpaidBills),
		SavingsGoalCount: len(fctx.SavingsGoals),
		Insight:          insightText,
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return insightText
	}
	return string(data)
}
