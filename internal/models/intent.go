package models

// IntentKind classifies what a query asks the service to do.
type IntentKind string

const (
	IntentPayBill   IntentKind = "pay_bill"
	IntentSendMoney IntentKind = "send_money"
	IntentAddMoney  IntentKind = "add_money"
	IntentNone      IntentKind = "none"
)

// ExtractedIntent is the result of pattern extraction over one query.
// Only the fields relevant to the matched kind are set. Produced fresh per
// query and never stored.
type ExtractedIntent struct {
	Kind      IntentKind
	BillName  string  // pay_bill
	Amount    float64 // send_money, add_money
	Recipient string  // send_money
}

// NoAction is the intent returned when no pattern matches.
func NoAction() ExtractedIntent {
	return ExtractedIntent{Kind: IntentNone}
}
