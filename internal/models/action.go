package models

// ActionKind identifies a money-movement action awaiting confirmation.
type ActionKind string

const (
	ActionPayBill   ActionKind = "payBill"
	ActionSendMoney ActionKind = "sendMoney"
	ActionAddMoney  ActionKind = "addMoney"
	ActionError     ActionKind = "error"
)

// ActionDescriptor is the normalized, confirmable representation of a
// resolved action. The payload carries kind-specific fields (billId, amount,
// recipient, ...). Nothing in this service executes the underlying transfer;
// descriptors only ever become confirmation requests.
type ActionDescriptor struct {
	Kind    ActionKind
	Payload map[string]any
}
