package service

import (
	"fmt"
	"math"
	"strings"

	"lina-ai/internal/models"

	"go.uber.org/zap"
)

// Rule priorities. Lower values win; ties go to the rule registered first.
const (
	priorityVacationNudge     = 1.0
	priorityCashbackNudge     = 1.5
	priorityAnomalyAlert      = 2.0
	priorityDiningNudge       = 3.0
	prioritySubscriptionAudit = 4.0
	priorityLowBalanceWarning = 5.0
)

const (
	cashbackRedeemFloor = 10.0
	healthyBalanceFloor = 1000.0
	anomalyMinSamples   = 5 // strictly more than this many payment/send entries required
	anomalyAmountFloor  = 100.0
	diningSpendLimit    = 100.0
	lowBalanceCeiling   = 500.0
)

var subscriptionKeywords = []string{"netflix", "spotify", "hulu", "gym", "membership"}

const (
	needMoreHistoryMessage = "I don't have enough transaction history to spot trends yet. Check back after a few more purchases!"
	allClearMessage        = "Everything looks on track! Your spending is steady and nothing needs your attention right now."
	analysisFailedMessage  = "I couldn't finish analyzing your account just now, but everything else is working fine."
)

type insightRule struct {
	name     string
	priority float64
	eval     func(fctx *models.FinancialContext) (string, bool)
}

// InsightService inspects a financial snapshot and produces the single most
// important observation. It is read-only and deterministic for identical
// input.
type InsightService struct {
	rules  []insightRule
	logger *zap.Logger
}

func NewInsightService(logger *zap.Logger) *InsightService {
	s := &InsightService{logger: logger}
	s.rules = []insightRule{
		{name: "cashback_redeem", priority: priorityCashbackNudge, eval: cashbackRule},
		{name: "vacation_savings", priority: priorityVacationNudge, eval: vacationSavingsRule},
		{name: "spend_anomaly", priority: priorityAnomalyAlert, eval: anomalyRule},
		{name: "dining_spend", priority: priorityDiningNudge, eval: diningRule},
		{name: "subscription_audit", priority: prioritySubscriptionAudit, eval: subscriptionRule},
		{name: "low_balance", priority: priorityLowBalanceWarning, eval: lowBalanceRule},
	}
	return s
}

// Analyze evaluates every rule and returns the text of the insight with the
// numerically lowest priority. An empty transaction history short-circuits
// to a fixed message, and a snapshot firing no rule gets an all-clear. Rule
// panics are recovered into a best-effort message, never propagated.
func (s *InsightService) Analyze(fctx *models.FinancialContext) (text string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Insight analysis panicked", zap.Any("panic", r))
			text = analysisFailedMessage
		}
	}()

	if len(fctx.RecentTransactions) == 0 {
		return needMoreHistoryMessage
	}

	var best *models.Insight
	for _, rule := range s.rules {
		msg, ok := rule.eval(fctx)
		if !ok {
			continue
		}
		s.logger.Debug("Insight rule fired",
			zap.String("rule", rule.name),
			zap.Float64("priority", rule.priority),
		)
		if best == nil || rule.priority < best.Priority {
			best = &models.Insight{Priority: rule.priority, Text: msg}
		}
	}

	if best == nil {
		return allClearMessage
	}
	return best.Text
}

func cashbackRule(fctx *models.FinancialContext) (string, bool) {
	if fctx.Cashback < cashbackRedeemFloor {
		return "", false
	}
	return fmt.Sprintf("You've got $%.2f in cashback rewards ready to redeem. Don't leave it sitting there!", fctx.Cashback), true
}

func vacationSavingsRule(fctx *models.FinancialContext) (string, bool) {
	if fctx.Balance <= healthyBalanceFloor {
		return "", false
	}
	for _, goal := range fctx.SavingsGoals {
		if strings.Contains(strings.ToLower(goal.Name), "vacation") {
			return fmt.Sprintf("Your balance is looking healthy at $%.2f. It could be a great time to put some toward your %s.", fctx.Balance, goal.Name), true
		}
	}
	return "", false
}

// anomalyRule flags the most recent payment/send transaction sitting more
// than two standard deviations above the mean, with a $100 absolute floor.
// Transactions arrive most-recent-first, so the scan stops at the first hit.
func anomalyRule(fctx *models.FinancialContext) (string, bool) {
	var spends []models.Transaction
	for _, tx := range fctx.RecentTransactions {
		if tx.Type == models.TransactionPayment || tx.Type == models.TransactionSend {
			spends = append(spends, tx)
		}
	}
	if len(spends) <= anomalyMinSamples {
		return "", false
	}

	amounts := make([]float64, len(spends))
	for i, tx := range spends {
		amounts[i] = tx.Amount
	}
	mean := meanOf(amounts)
	threshold := mean + 2*populationStdDev(amounts, mean)

	for _, tx := range spends {
		if tx.Amount > threshold && tx.Amount > anomalyAmountFloor {
			return fmt.Sprintf("I spotted an unusually large %s of $%.2f for %s. If you don't recognize it, it's worth a closer look.", tx.Type, tx.Amount, tx.Title), true
		}
	}
	return "", false
}

func diningRule(fctx *models.FinancialContext) (string, bool) {
	var total float64
	for _, tx := range fctx.RecentTransactions {
		if tx.Type != models.TransactionPayment && tx.Type != models.TransactionSend {
			continue
		}
		if tx.Category == "Food & Drink" {
			total += tx.Amount
		}
	}
	if total <= diningSpendLimit {
		return "", false
	}
	return fmt.Sprintf("You've spent $%.2f on food and drink recently. Want to set a dining budget?", total), true
}

// subscriptionRule groups transactions with subscription-sounding titles by
// title; a title seen more than once counts as recurring.
func subscriptionRule(fctx *models.FinancialContext) (string, bool) {
	counts := make(map[string]int)
	for _, tx := range fctx.RecentTransactions {
		title := strings.ToLower(tx.Title)
		for _, keyword := range subscriptionKeywords {
			if strings.Contains(title, keyword) {
				counts[tx.Title]++
				break
			}
		}
	}

	recurring := 0
	for _, n := range counts {
		if n > 1 {
			recurring++
		}
	}
	if recurring <= 1 {
		return "", false
	}
	return fmt.Sprintf("You're paying for %d recurring subscriptions. A quick audit might free up some spending money.", recurring), true
}

func lowBalanceRule(fctx *models.FinancialContext) (string, bool) {
	if fctx.Balance >= lowBalanceCeiling || len(fctx.UnpaidBills) == 0 {
		return "", false
	}
	return fmt.Sprintf("Heads up: your balance is under $%.0f and you still have %d unpaid bill(s) coming due.", lowBalanceCeiling, len(fctx.UnpaidBills)), true
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var variance float64
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)))
}
