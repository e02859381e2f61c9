// Command datagen produces synthetic training data for the router: a CSV of
// categorized transactions and a JSONL file of templated user queries with
// their intents. It is a standalone batch tool and shares nothing with the
// request path.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"lina-ai/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var merchantsByCategory = map[string][]string{
	"groceries":      {"Whole Foods", "Trader Joe's", "Safeway", "Instacart", "Kroger"},
	"dining":         {"Starbucks", "McDonald's", "Doordash", "Subway", "Sweetgreen", "Chipotle"},
	"transportation": {"Uber", "Lyft", "Clipper Card", "Chevron", "Shell Gas"},
	"shopping":       {"Amazon.com", "Target", "Walmart", "Best Buy", "Etsy", "Zara"},
	"entertainment":  {"Netflix.com", "Spotify", "AMC Theatres", "Ticketmaster", "Steam Games"},
	"utilities":      {"PG&E", "Comcast", "Verizon", "AT&T", "T-Mobile"},
	"bills":          {"Geico", "State Farm", "Sallie Mae", "SoFi Student Loan"},
}

var intentTemplates = map[string][]string{
	"check_balance": {
		"What's my balance?",
		"How much money do I have?",
		"Show me my account balance.",
		"How much do I have left?",
	},
	"pay_bill": {
		"Pay my {category} bill",
		"pay the {category} bill",
		"Can you pay my {category} bill?",
	},
	"send_money": {
		"send ${amount} to {name}",
		"Send {amount} dollars to {name}",
	},
	"add_money": {
		"add ${amount} to my account",
		"deposit {amount} please",
		"load {amount} onto my card",
	},
	"spending_analysis": {
		"How much did I spend on {category} this {timeframe}?",
		"Show my {category} spending for the {timeframe}",
		"What did I spend at {merchant} last {timeframe}?",
	},
}

var entities = map[string][]string{
	"timeframe": {"week", "month", "year"},
	"name":      {"Sarah", "John", "Emma", "Michael", "Sam"},
}

type transactionRow struct {
	ID          string
	Description string
	Merchant    string
	Amount      float64
	Date        string
	Category    string
}

type conversationRow struct {
	Intent string `json:"intent"`
	Query  string `json:"user_query"`
}

func main() {
	var (
		numTransactions  = flag.Int("transactions", 5000, "number of transactions to generate")
		numConversations = flag.Int("conversations", 2000, "number of conversations to generate")
		outDir           = flag.String("out", "training_data", "output directory")
		seed             = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	)
	flag.Parse()

	if err := logger.Init("info"); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		appLogger.Fatal("Failed to create output directory", zap.Error(err))
	}

	txPath := filepath.Join(*outDir, "categorized_transactions.csv")
	if err := writeTransactionsCSV(txPath, generateTransactions(rng, *numTransactions)); err != nil {
		appLogger.Fatal("Failed to write transactions", zap.Error(err))
	}
	appLogger.Info("Generated transactions",
		zap.Int("count", *numTransactions),
		zap.String("path", txPath),
	)

	convPath := filepath.Join(*outDir, "labeled_queries.jsonl")
	if err := writeConversationsJSONL(convPath, generateConversations(rng, *numConversations)); err != nil {
		appLogger.Fatal("Failed to write conversations", zap.Error(err))
	}
	appLogger.Info("Generated conversations",
		zap.Int("count", *numConversations),
		zap.String("path", convPath),
	)
}

func generateTransactions(rng *rand.Rand, n int) []transactionRow {
	categories := sortedKeys(merchantsByCategory)

	rows := make([]transactionRow, 0, n)
	for i := 0; i < n; i++ {
		category := categories[rng.Intn(len(categories))]
		merchant := merchantsByCategory[category][rng.Intn(len(merchantsByCategory[category]))]
		amount := 5.50 + rng.Float64()*245.49
		date := time.Now().AddDate(0, 0, -rng.Intn(730)).Format("2006-01-02")

		rows = append(rows, transactionRow{
			ID:          uuid.NewString(),
			Description: fmt.Sprintf("%s #%03d", merchant, rng.Intn(900)+100),
			Merchant:    merchant,
			Amount:      float64(int(amount*100)) / 100,
			Date:        date,
			Category:    category,
		})
	}
	return rows
}

func generateConversations(rng *rand.Rand, n int) []conversationRow {
	intents := sortedKeys(intentTemplates)

	rows := make([]conversationRow, 0, n)
	for i := 0; i < n; i++ {
		intent := intents[rng.Intn(len(intents))]
		templates := intentTemplates[intent]
		rows = append(rows, conversationRow{
			Intent: intent,
			Query:  fillTemplate(rng, templates[rng.Intn(len(templates))]),
		})
	}
	return rows
}

// fillTemplate substitutes every {placeholder} with a random entity value.
func fillTemplate(rng *rand.Rand, template string) string {
	query := template

	fillers := []struct {
		key    string
		values []string
	}{
		{"category", sortedKeys(merchantsByCategory)},
		{"merchant", allMerchants()},
		{"timeframe", entities["timeframe"]},
		{"name", entities["name"]},
	}
	for _, f := range fillers {
		placeholder := "{" + f.key + "}"
		for strings.Contains(query, placeholder) {
			query = strings.Replace(query, placeholder, f.values[rng.Intn(len(f.values))], 1)
		}
	}

	for strings.Contains(query, "{amount}") {
		query = strings.Replace(query, "{amount}", strconv.Itoa(rng.Intn(4500)+500), 1)
	}

	return query
}

func allMerchants() []string {
	var merchants []string
	for _, category := range sortedKeys(merchantsByCategory) {
		merchants = append(merchants, merchantsByCategory[category]...)
	}
	return merchants
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeTransactionsCSV(path string, rows []transactionRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"transaction_id", "description", "merchant", "amount", "date", "category"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.ID,
			row.Description,
			row.Merchant,
			strconv.FormatFloat(row.Amount, 'f', 2, 64),
			row.Date,
			row.Category,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeConversationsJSONL(path string, rows []conversationRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}
