// Package categorizer extracts categorized transactions from statement text with an LLM.
package categorizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"google.golang.org/genai"
)

const (
	DefaultModel          = "gemini-2.5-flash"
	DefaultSampleMaxChars = 20000
	sampleRatio           = 0.6
	maxTransactions       = 100
	requestTimeout        = 90 * time.Second
)

// ErrNotConfigured is returned by Analyze when no API key was supplied.
var ErrNotConfigured = errors.New("categorizer is not configured")

// textGenerator sends a prompt to a model and returns its text output.
type textGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini implements services.Categorizer on top of the Gemini API.
type Gemini struct {
	generator      textGenerator
	sampleMaxChars int
	logger         *slog.Logger
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.3)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// NewGemini creates a Gemini categorizer. An empty apiKey yields a categorizer
// whose Analyze always fails with ErrNotConfigured.
func NewGemini(ctx context.Context, apiKey, model string, sampleMaxChars int, logger *slog.Logger) (*Gemini, error) {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gemini{sampleMaxChars: sampleMaxChars, logger: logger}
	if g.sampleMaxChars <= 0 {
		g.sampleMaxChars = DefaultSampleMaxChars
	}
	if apiKey == "" {
		logger.Warn("Gemini API key is empty, statement categorization is disabled")
		return g, nil
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	g.generator = &geminiGenerator{client: client, model: model}
	logger.Info("Gemini categorizer initialized", slog.String("model", model))
	return g, nil
}

// Analyze samples content, asks the model to extract transactions and parses its reply.
func (g *Gemini) Analyze(ctx context.Context, content string, categories []domain.Category) (*domain.StatementAnalysis, error) {
	if g.generator == nil {
		return nil, ErrNotConfigured
	}
	sample := Sample(content, g.sampleMaxChars)
	if sample == "" {
		return nil, errors.New("statement content is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	start := time.Now()
	raw, err := g.generator.Generate(ctx, buildPrompt(sample, categories))
	if err != nil {
		return nil, fmt.Errorf("categorizer: %w", err)
	}
	g.log().Debug("Categorizer response received",
		slog.Int("sample_chars", len([]rune(sample))),
		slog.Int("response_chars", len(raw)),
		slog.Duration("elapsed", time.Since(start)))

	analysis, err := ParseResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("categorizer: %w", err)
	}
	return analysis, nil
}

func (g *Gemini) log() *slog.Logger {
	if g.logger == nil {
		return slog.Default()
	}
	return g.logger
}

// Sample returns the leading min(60% of content, maxChars) characters, trimmed.
func Sample(content string, maxChars int) string {
	runes := []rune(content)
	n := int(float64(len(runes)) * sampleRatio)
	if maxChars > 0 && n > maxChars {
		n = maxChars
	}
	return strings.TrimSpace(string(runes[:n]))
}

func buildPrompt(sample string, categories []domain.Category) string {
	var credit, debit strings.Builder
	for _, c := range categories {
		line := fmt.Sprintf("- %s: %s\n", c.Code, c.NameEN)
		if c.Type == domain.Credit {
			credit.WriteString(line)
		} else {
			debit.WriteString(line)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a financial analyst. Extract up to %d transactions from this bank statement.\n\n", maxTransactions)
	b.WriteString("Rules:\n")
	b.WriteString("1. Use ONLY these category codes, matching them exactly.\n\n")
	b.WriteString("INCOME (CREDIT):\n")
	b.WriteString(credit.String())
	b.WriteString("\nEXPENSES (DEBIT):\n")
	b.WriteString(debit.String())
	b.WriteString("\n2. Keep descriptions in their original language.\n")
	b.WriteString("3. Amounts are positive for CREDIT and negative for DEBIT.\n")
	b.WriteString("4. Confidence is a number from 0.0 to 1.0.\n")
	b.WriteString("5. If the text is not a bank statement, set \"isFinancialData\" to false and return no transactions.\n")
	b.WriteString("6. If the account number or name cannot be determined, set \"account\" to null.\n\n")
	b.WriteString("BANK STATEMENT DATA:\n")
	b.WriteString(sample)
	b.WriteString("\n\nReturn ONLY raw JSON with this shape, without Markdown or code fences:\n")
	b.WriteString(responseShape)
	return b.String()
}

const responseShape = `{
  "isFinancialData": true,
  "account": {"accountNumber": "GR1234567890", "accountName": "Business Account", "accountType": "checking", "currency": "EUR"},
  "transactions": [
    {
      "id": "txn_001",
      "date": "2024-11-08",
      "description": "INVOICE PAYMENT FROM CUSTOMER",
      "amount": 1500.50,
      "type": "CREDIT",
      "categoryCode": "INVOICE_PAYMENT_FULL",
      "confidence": 0.95,
      "counterparty": "CUSTOMER NAME",
      "reasoning": "Matches an invoice payment"
    }
  ],
  "summary": {"totalTransactions": 1, "creditTotal": 1500.50, "debitTotal": 0, "dateRange": {"from": "2024-11-01", "to": "2024-11-30"}},
  "analysis": "One transaction categorized with high confidence"
}`
