package service

import (
	"context"
	"errors"
	"fmt"

	"lina-ai/internal/dto"
	"lina-ai/internal/models"

	"go.uber.org/zap"
)

type routerState int

const (
	stateStart routerState = iota
	stateActionDetected
	stateActionResolved
	stateActionFailed
	stateAnalyzing
	stateChatting
	stateDone
)

func (s routerState) String() string {
	switch s {
	case stateStart:
		return "start"
	case stateActionDetected:
		return "action_detected"
	case stateActionResolved:
		return "action_resolved"
	case stateActionFailed:
		return "action_failed"
	case stateAnalyzing:
		return "analyzing"
	case stateChatting:
		return "chatting"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// RouterService orchestrates one query through extraction, resolution and
// confirmation, falling back to insight analysis plus the conversational
// backend. Every call terminates with exactly one envelope; all state is
// request-local, so concurrent calls never interfere.
type RouterService struct {
	extractor *IntentExtractor
	actions   *ActionService
	insights  *InsightService
	chat      ChatBackend
	logger    *zap.Logger
}

func NewRouterService(
	extractor *IntentExtractor,
	actions *ActionService,
	insights *InsightService,
	chat ChatBackend,
	logger *zap.Logger,
) *RouterService {
	return &RouterService{
		extractor: extractor,
		actions:   actions,
		insights:  insights,
		chat:      chat,
		logger:    logger,
	}
}

// ProcessQuery routes a free-text query against a financial snapshot.
// Detected actions become confirmation requests, failed lookups become
// structured error payloads, and everything else flows through the insight
// engine into the chat backend.
func (s *RouterService) ProcessQuery(ctx context.Context, query string, fctx *models.FinancialContext) *dto.ResponseEnvelope {
	var (
		state       = stateStart
		intent      models.ExtractedIntent
		desc        *models.ActionDescriptor
		lookupFail  *NotFoundError
		insightText string
		envelope    *dto.ResponseEnvelope
	)

	for state != stateDone {
		prev := state

		switch state {
		case stateStart:
			intent = s.extractor.Extract(query)
			if intent.Kind == models.IntentNone {
				state = stateAnalyzing
			} else {
				state = stateActionDetected
			}

		case stateActionDetected:
			var err error
			desc, err = s.resolve(intent, fctx)
			switch {
			case err == nil:
				state = stateActionResolved
			case errors.As(err, &lookupFail):
				state = stateActionFailed
			default:
				// Resolution blew up unexpectedly; degrade to the chat path
				// instead of surfacing a fault.
				s.logger.Warn("Action resolution failed, falling back to chat",
					zap.String("query", query), zap.Error(err))
				state = stateAnalyzing
			}

		case stateActionResolved:
			envelope = &dto.ResponseEnvelope{
				Success:  true,
				Response: s.actions.BuildConfirmation(desc),
				Query:    query,
			}
			state = stateDone

		case stateActionFailed:
			envelope = &dto.ResponseEnvelope{
				Success: true,
				Response: &dto.ActionConfirmation{
					Action: string(models.ActionError),
					Error:  lookupFail.Message,
				},
				Query: query,
			}
			state = stateDone

		case stateAnalyzing:
			insightText = s.insights.Analyze(fctx)
			state = stateChatting

		case stateChatting:
			reply, err := s.chat.Reply(ctx, query, contextSummary(fctx, insightText))
			if err != nil {
				s.logger.Error("Chat backend failed", zap.Error(err))
				envelope = &dto.ResponseEnvelope{
					Success: false,
					Query:   query,
					Error:   err.Error(),
				}
			} else {
				envelope = &dto.ResponseEnvelope{
					Success:  true,
					Response: reply,
					Query:    query,
				}
			}
			state = stateDone
		}

		s.logger.Debug("Router transition",
			zap.Stringer("from", prev),
			zap.Stringer("to", state),
		)
	}

	return envelope
}

// resolve dispatches an intent to its resolver. Panics inside a resolver are
// converted to errors so the router can degrade to the chat path.
func (s *RouterService) resolve(intent models.ExtractedIntent, fctx *models.FinancialContext) (desc *models.ActionDescriptor, err error) {
	defer func() {
		if r := recover(); r != nil {
			desc = nil
			err = fmt.Errorf("action resolution panicked: %v", r)
		}
	}()

	switch intent.Kind {
	case models.IntentPayBill:
		return s.actions.ResolvePayBill(intent.BillName, fctx)
	case models.IntentSendMoney:
		return s.actions.ResolveSendMoney(intent.Amount, intent.Recipient, fctx)
	case models.IntentAddMoney:
		return s.actions.ResolveAddMoney(intent.Amount), nil
	default:
		return nil, fmt.Errorf("unsupported intent kind %q", intent.Kind)
	}
}
