package categorizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrNoJSON is returned when the model reply has no JSON object in it.
var ErrNoJSON = errors.New("no JSON object in model response")

type analysisPayload struct {
	IsFinancialData looseString       `json:"isFinancialData"`
	Account         *accountPayload   `json:"account"`
	Transactions    []json.RawMessage `json:"transactions"`
	Summary         json.RawMessage   `json:"summary"`
	Analysis        json.RawMessage   `json:"analysis"`
}

type accountPayload struct {
	AccountNumber looseString `json:"accountNumber"`
	AccountName   looseString `json:"accountName"`
	AccountType   looseString `json:"accountType"`
	Currency      looseString `json:"currency"`
}

// transactionEntry is decoded row by row; amount and confidence stay raw until
// they are parsed on their own.
type transactionEntry struct {
	ID           looseString     `json:"id"`
	Date         looseString     `json:"date"`
	Description  looseString     `json:"description"`
	Amount       json.RawMessage `json:"amount"`
	Type         looseString     `json:"type"`
	CategoryCode looseString     `json:"categoryCode"`
	Confidence   json.RawMessage `json:"confidence"`
	Counterparty looseString     `json:"counterparty"`
	Reasoning    looseString     `json:"reasoning"`
}

// looseString accepts a JSON string, number, bool or null.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	*s = looseString(b)
	return nil
}

func (s looseString) trimmed() string {
	return strings.TrimSpace(string(s))
}

// ParseResponse turns a raw model reply into a StatementAnalysis. The reply is
// cleaned of code fences and, if it does not parse as is, cut down to its
// outermost object and closed. Rows that cannot be used are reported in
// Rejected; the remaining rows are kept.
func ParseResponse(raw string) (*domain.StatementAnalysis, error) {
	cleaned := stripFences(raw)

	var payload analysisPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		repaired, ok := repairJSON(cleaned)
		if !ok {
			return nil, ErrNoJSON
		}
		payload = analysisPayload{}
		if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
			return nil, fmt.Errorf("parse model response: %w", err)
		}
	}
	return payload.toDomain(), nil
}

func (p analysisPayload) toDomain() *domain.StatementAnalysis {
	out := &domain.StatementAnalysis{
		IsFinancialData: strings.EqualFold(p.IsFinancialData.trimmed(), "true"),
		Summary:         summaryText(p.Summary),
		Analysis:        summaryText(p.Analysis),
		Transactions:    make([]domain.RawTransaction, 0, len(p.Transactions)),
	}
	if p.Account != nil && (p.Account.AccountNumber.trimmed() != "" || p.Account.AccountName.trimmed() != "") {
		out.Account = &domain.AccountInfo{
			AccountNumber: p.Account.AccountNumber.trimmed(),
			AccountName:   p.Account.AccountName.trimmed(),
			AccountType:   p.Account.AccountType.trimmed(),
			Currency:      p.Account.Currency.trimmed(),
		}
	}
	for i, raw := range p.Transactions {
		txn, err := parseRow(raw)
		if err != nil {
			out.Rejected = append(out.Rejected, domain.RowError{
				Index:   i,
				Stage:   domain.StageExtract,
				Message: err.Error(),
			})
			continue
		}
		out.Transactions = append(out.Transactions, txn)
	}
	return out
}

func parseRow(raw json.RawMessage) (domain.RawTransaction, error) {
	var t transactionEntry
	if err := json.Unmarshal(raw, &t); err != nil {
		return domain.RawTransaction{}, fmt.Errorf("row is not an object: %s", truncate(string(raw), 80))
	}
	amount, err := parseAmount(t.Amount)
	if err != nil {
		return domain.RawTransaction{}, err
	}
	return domain.RawTransaction{
		ExternalID:   t.ID.trimmed(),
		Date:         t.Date.trimmed(),
		Description:  string(t.Description),
		Amount:       amount,
		Type:         strings.ToUpper(t.Type.trimmed()),
		CategoryCode: t.CategoryCode.trimmed(),
		Confidence:   parseConfidence(t.Confidence),
		Counterparty: t.Counterparty.trimmed(),
		Reasoning:    t.Reasoning.trimmed(),
	}, nil
}

var currencyMarks = strings.NewReplacer("€", "", "$", "", "£", "", "EUR", "", "USD", "", "GBP", "", " ", "", "\u00a0", "")

// parseAmount reads a JSON number or a formatted string such as "1.234,56",
// "-40" or "€ 12.00". A comma after the last dot is taken as the decimal mark.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, errors.New("missing amount")
	}
	if raw[0] != '"' {
		d, err := decimal.NewFromString(string(raw))
		if err != nil {
			return decimal.Zero, fmt.Errorf("unusable amount %s", truncate(string(raw), 40))
		}
		return d, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return decimal.Zero, fmt.Errorf("unusable amount %s", truncate(string(raw), 40))
	}
	s := currencyMarks.Replace(strings.TrimSpace(text))
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot > comma:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0 && strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unusable amount %q", truncate(text, 40))
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// parseConfidence returns nil for anything that is not a finite number, so the
// store falls back to its default score. "85%" reads as 0.85.
func parseConfidence(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var text looseString
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil
	}
	s := text.trimmed()
	scale := 1.0
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		scale = 100
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f /= scale
	return &f
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// summaryText accepts a plain string or any JSON value and returns it as text.
func summaryText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// repairJSON keeps the text from the first '{' up to the last '}' and appends
// whatever closers are still open. A truncated reply loses its partial tail.
func repairJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}
	s = s[start:]
	if end := strings.LastIndex(s, "}"); end != -1 {
		s = s[:end+1]
	}

	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(s)
	if inString {
		b.WriteByte('"')
	}
	if len(stack) > 0 {
		trimmed := strings.TrimRight(b.String(), " \t\r\n,")
		b.Reset()
		b.WriteString(trimmed)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String(), true
}
