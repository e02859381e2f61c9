package service

import (
	"errors"
	"strings"
	"testing"

	"lina-ai/internal/models"

	"go.uber.org/zap"
)

func testContext() *models.FinancialContext {
	return &models.FinancialContext{
		Balance: 820.40,
		UnpaidBills: []models.Bill{
			{ID: "b1", Name: "Electricity", Amount: 54.30, Category: "Utilities"},
			{ID: "b2", Name: "Water Bill", Amount: 45.50, Category: "Utilities"},
			{ID: "b3", Name: "Internet", Amount: 79.99, Category: "Utilities"},
		},
		Contacts: []models.Contact{
			{ID: "c1", Name: "Samantha"},
			{ID: "c2", Name: "John Smith"},
		},
	}
}

func TestActionService_ResolvePayBill(t *testing.T) {
	s := NewActionService(zap.NewNop())
	fctx := testContext()

	desc, err := s.ResolvePayBill("electricity", fctx)
	if err != nil {
		t.Fatalf("ResolvePayBill failed: %v", err)
	}
	if desc.Kind != models.ActionPayBill {
		t.Errorf("Kind = %q, want %q", desc.Kind, models.ActionPayBill)
	}
	if desc.Payload["billId"] != "b1" {
		t.Errorf("billId = %v, want b1", desc.Payload["billId"])
	}
	if desc.Payload["amount"] != 54.30 {
		t.Errorf("amount = %v, want 54.30", desc.Payload["amount"])
	}
}

func TestActionService_ResolvePayBill_FirstMatchWins(t *testing.T) {
	s := NewActionService(zap.NewNop())
	fctx := &models.FinancialContext{
		UnpaidBills: []models.Bill{
			{ID: "b1", Name: "Phone Bill"},
			{ID: "b2", Name: "Second Phone Bill"},
		},
	}

	desc, err := s.ResolvePayBill("phone", fctx)
	if err != nil {
		t.Fatalf("ResolvePayBill failed: %v", err)
	}
	if desc.Payload["billId"] != "b1" {
		t.Errorf("billId = %v, want first match b1", desc.Payload["billId"])
	}
}

func TestActionService_ResolvePayBill_NotFound(t *testing.T) {
	s := NewActionService(zap.NewNop())

	_, err := s.ResolvePayBill("rent", testContext())
	if err == nil {
		t.Fatal("expected NotFoundError")
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error type = %T, want *NotFoundError", err)
	}
	if !strings.Contains(nf.Message, "rent") {
		t.Errorf("message %q should name the missing bill", nf.Message)
	}
}

func TestActionService_ResolveSendMoney_SubstringMatch(t *testing.T) {
	s := NewActionService(zap.NewNop())

	desc, err := s.ResolveSendMoney(20.0, "sam", testContext())
	if err != nil {
		t.Fatalf("ResolveSendMoney failed: %v", err)
	}
	if desc.Payload["recipient"] != "Samantha" {
		t.Errorf("recipient = %v, want Samantha", desc.Payload["recipient"])
	}
	if desc.Payload["amount"] != 20.0 {
		t.Errorf("amount = %v, want 20.0", desc.Payload["amount"])
	}
}

func TestActionService_ResolveSendMoney_NotFound(t *testing.T) {
	s := NewActionService(zap.NewNop())

	_, err := s.ResolveSendMoney(15.0, "bob", testContext())
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if !strings.Contains(nf.Message, "bob") {
		t.Errorf("message %q should name the missing contact", nf.Message)
	}
}

func TestActionService_ResolveAddMoney(t *testing.T) {
	s := NewActionService(zap.NewNop())

	desc := s.ResolveAddMoney(250.75)
	if desc.Kind != models.ActionAddMoney {
		t.Errorf("Kind = %q, want %q", desc.Kind, models.ActionAddMoney)
	}
	if desc.Payload["amount"] != 250.75 {
		t.Errorf("amount = %v, want 250.75", desc.Payload["amount"])
	}
}

func TestActionService_BuildConfirmation(t *testing.T) {
	s := NewActionService(zap.NewNop())
	fctx := testContext()

	tests := []struct {
		name         string
		desc         *models.ActionDescriptor
		wantAction   string
		wantFragment []string
	}{
		{
			name: "pay bill restates name and amount",
			desc: func() *models.ActionDescriptor {
				d, _ := s.ResolvePayBill("water", fctx)
				return d
			}(),
			wantAction:   "payBill",
			wantFragment: []string{"Water Bill", "$45.50"},
		},
		{
			name:         "send money restates recipient and amount",
			desc:         mustResolveSend(t, s, 20.0, "sam", fctx),
			wantAction:   "sendMoney",
			wantFragment: []string{"Samantha", "$20.00"},
		},
		{
			name:         "add money restates amount",
			desc:         s.ResolveAddMoney(100),
			wantAction:   "addMoney",
			wantFragment: []string{"$100.00"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conf := s.BuildConfirmation(tc.desc)
			if conf.Action != tc.wantAction {
				t.Errorf("Action = %q, want %q", conf.Action, tc.wantAction)
			}
			for _, frag := range tc.wantFragment {
				if !strings.Contains(conf.Message, frag) {
					t.Errorf("Message %q missing %q", conf.Message, frag)
				}
			}
		})
	}
}

func mustResolveSend(t *testing.T, s *ActionService, amount float64, recipient string, fctx *models.FinancialContext) *models.ActionDescriptor {
	t.Helper()
	desc, err := s.ResolveSendMoney(amount, recipient, fctx)
	if err != nil {
		t.Fatalf("ResolveSendMoney failed: %v", err)
	}
	return desc
}
