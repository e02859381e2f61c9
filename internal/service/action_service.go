package service

import (
	"fmt"
	"strings"

	"lina-ai/internal/dto"
	"lina-ai/internal/models"

	"go.uber.org/zap"
)

// NotFoundError reports a failed bill or contact lookup. The router turns it
// into a structured error payload rather than a failed response.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ActionService resolves extracted intents against a financial snapshot and
// wraps resolved actions into confirmation requests. It never moves money;
// execution belongs to the caller after the user confirms.
type ActionService struct {
	logger *zap.Logger
}

func NewActionService(logger *zap.Logger) *ActionService {
	return &ActionService{logger: logger}
}

// ResolvePayBill finds the first unpaid bill whose name contains the
// extracted text, case-insensitively, in snapshot order.
func (s *ActionService) ResolvePayBill(billName string, fctx *models.FinancialContext) (*models.ActionDescriptor, error) {
	needle := strings.ToLower(strings.TrimSpace(billName))

	for _, bill := range fctx.UnpaidBills {
		if bill.Paid {
			continue
		}
		if strings.Contains(strings.ToLower(bill.Name), needle) {
			return &models.ActionDescriptor{
				Kind: models.ActionPayBill,
				Payload: map[string]any{
					"billId":   bill.ID,
					"billName": bill.Name,
					"amount":   bill.Amount,
					"category": bill.Category,
				},
			}, nil
		}
	}

	return nil, &NotFoundError{
		Message: fmt.Sprintf("Sorry, I couldn't find an unpaid bill named '%s'.", billName),
	}
}

// ResolveSendMoney finds the first contact whose name contains the recipient
// text, case-insensitively. The amount is carried through as extracted;
// zero and negative values are not rejected here.
func (s *ActionService) ResolveSendMoney(amount float64, recipient string, fctx *models.FinancialContext) (*models.ActionDescriptor, error) {
	needle := strings.ToLower(strings.TrimSpace(recipient))

	for _, contact := range fctx.Contacts {
		if strings.Contains(strings.ToLower(contact.Name), needle) {
			return &models.ActionDescriptor{
				Kind: models.ActionSendMoney,
				Payload: map[string]any{
					"recipientId": contact.ID,
					"recipient":   contact.Name,
					"amount":      amount,
				},
			}, nil
		}
	}

	return nil, &NotFoundError{
		Message: fmt.Sprintf("Sorry, I couldn't find '%s' in your contacts.", recipient),
	}
}

// ResolveAddMoney builds an add-money descriptor. No lookup is involved, so
// it always succeeds.
func (s *ActionService) ResolveAddMoney(amount float64) *models.ActionDescriptor {
	return &models.ActionDescriptor{
		Kind: models.ActionAddMoney,
		Payload: map[string]any{
			"amount": amount,
		},
	}
}

// BuildConfirmation formats a resolved action into a confirmation request.
// The message restates the key fields so the caller can render a one-line
// prompt.
func (s *ActionService) BuildConfirmation(desc *models.ActionDescriptor) *dto.ActionConfirmation {
	var message string

	switch desc.Kind {
	case models.ActionPayBill:
		message = fmt.Sprintf("Pay your %s bill for $%.2f? Confirm and I'll set it up.",
			desc.Payload["billName"], desc.Payload["amount"])
	case models.ActionSendMoney:
		message = fmt.Sprintf("Send $%.2f to %s? Confirm and it's on the way.",
			desc.Payload["amount"], desc.Payload["recipient"])
	case models.ActionAddMoney:
		message = fmt.Sprintf("Add $%.2f to your balance? Confirm to continue.",
			desc.Payload["amount"])
	}

	return &dto.ActionConfirmation{
		Action:  string(desc.Kind),
		Payload: desc.Payload,
		Message: message,
	}
}
