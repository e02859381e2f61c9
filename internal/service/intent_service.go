package service

import (
	"regexp"
	"strconv"
	"strings"

	"lina-ai/internal/models"

	"go.uber.org/zap"
)

// IntentMatcher tries a single pattern family against a query. Matchers are
// independent so each family can be tested on its own.
type IntentMatcher interface {
	Match(query string) (models.ExtractedIntent, bool)
}

// IntentExtractor runs an ordered list of matchers over a query,
// first-match-wins. Pay-bill is tried before send-money so queries like
// "send $5 to pay my rent bill" resolve as a bill payment.
type IntentExtractor struct {
	matchers []IntentMatcher
	logger   *zap.Logger
}

func NewIntentExtractor(logger *zap.Logger) *IntentExtractor {
	return &IntentExtractor{
		matchers: []IntentMatcher{
			&payBillMatcher{},
			&sendMoneyMatcher{},
			&addMoneyMatcher{},
		},
		logger: logger,
	}
}

// Extract classifies a query and pulls out its parameters. Queries matching
// no pattern yield a no-action intent and flow to the insight/chat path.
func (e *IntentExtractor) Extract(query string) models.ExtractedIntent {
	for _, m := range e.matchers {
		if intent, ok := m.Match(query); ok {
			e.logger.Debug("Intent matched",
				zap.String("kind", string(intent.Kind)),
				zap.String("query", query),
			)
			return intent
		}
	}
	return models.NoAction()
}

// payBillMatcher matches "pay [my] <name> bill", capturing the shortest run
// of words between "pay" and "bill". The filler word "the" is stripped from
// the captured name.
type payBillMatcher struct{}

var payBillPattern = regexp.MustCompile(`pay\s+(?:my\s+)?(.+?)\s+bill`)

func (*payBillMatcher) Match(query string) (models.ExtractedIntent, bool) {
	m := payBillPattern.FindStringSubmatch(strings.ToLower(query))
	if m == nil {
		return models.ExtractedIntent{}, false
	}

	name := stripWord(m[1], "the")
	return models.ExtractedIntent{
		Kind:     models.IntentPayBill,
		BillName: name,
	}, true
}

// sendMoneyMatcher matches "send [$]<amount> ... to <recipient>". The amount
// must follow "send" directly; the recipient is everything after the final
// "to" token.
type sendMoneyMatcher struct{}

var sendAmountPattern = regexp.MustCompile(`send\s+\$?(\d+(?:\.\d+)?)`)

func (*sendMoneyMatcher) Match(query string) (models.ExtractedIntent, bool) {
	lower := strings.ToLower(query)

	loc := sendAmountPattern.FindStringSubmatchIndex(lower)
	if loc == nil {
		return models.ExtractedIntent{}, false
	}

	toIdx := strings.LastIndex(lower, " to ")
	if toIdx < loc[1]-1 {
		return models.ExtractedIntent{}, false
	}

	recipient := strings.TrimSpace(lower[toIdx+len(" to "):])
	if recipient == "" {
		return models.ExtractedIntent{}, false
	}

	amount, err := strconv.ParseFloat(lower[loc[2]:loc[3]], 64)
	if err != nil {
		return models.ExtractedIntent{}, false
	}

	return models.ExtractedIntent{
		Kind:      models.IntentSendMoney,
		Amount:    amount,
		Recipient: recipient,
	}, true
}

// addMoneyMatcher fires when the query mentions adding/depositing/loading
// funds and carries at least one digit. The amount is the first decimal run
// in the original query.
type addMoneyMatcher struct{}

var (
	addMoneyKeywords  = []string{"add", "deposit", "load"}
	decimalRunPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

func (*addMoneyMatcher) Match(query string) (models.ExtractedIntent, bool) {
	lower := strings.ToLower(query)

	var keyword bool
	for _, k := range addMoneyKeywords {
		if strings.Contains(lower, k) {
			keyword = true
			break
		}
	}
	if !keyword || !strings.ContainsAny(query, "0123456789") {
		return models.ExtractedIntent{}, false
	}

	amount, err := strconv.ParseFloat(decimalRunPattern.FindString(query), 64)
	if err != nil {
		return models.ExtractedIntent{}, false
	}

	return models.ExtractedIntent{
		Kind:   models.IntentAddMoney,
		Amount: amount,
	}, true
}

// stripWord removes standalone occurrences of word from a space-separated
// phrase.
func stripWord(phrase, word string) string {
	fields := strings.Fields(phrase)
	kept := fields[:0]
	for _, f := range fields {
		if f != word {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
