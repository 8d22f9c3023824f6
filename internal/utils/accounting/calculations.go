package accounting

import (
	"fmt"

	"github.com/SscSPs/smart_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount returns the balance effect of a movement: CREDIT adds, DEBIT subtracts.
// The magnitude is always taken, so a negative amount never flips the direction twice.
func SignedAmount(entryType domain.TransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	abs := amount.Abs()
	switch entryType {
	case domain.Credit:
		return abs, nil
	case domain.Debit:
		return abs.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown entry type '%s'", entryType)
	}
}

// NextRunningBalance computes the balance after applying one movement to previous.
func NextRunningBalance(previous decimal.Decimal, entryType domain.TransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	signed, err := SignedAmount(entryType, amount)
	if err != nil {
		return decimal.Zero, err
	}
	return previous.Add(signed), nil
}

// RunningBalances returns the prefix sums of entries seeded at opening.
// entries must already be in (entry_date, created_at) order.
func RunningBalances(opening decimal.Decimal, entries []domain.LedgerEntry) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(entries))
	balance := opening
	for i, e := range entries {
		next, err := NextRunningBalance(balance, e.EntryType, e.Amount)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.EntryID, err)
		}
		out[i] = next
		balance = next
	}
	return out, nil
}

// CurrentBalance is opening plus the sum of every signed entry.
func CurrentBalance(opening decimal.Decimal, entries []domain.LedgerEntry) (decimal.Decimal, error) {
	balance := opening
	for _, e := range entries {
		signed, err := SignedAmount(e.EntryType, e.Amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("entry %s: %w", e.EntryID, err)
		}
		balance = balance.Add(signed)
	}
	return balance, nil
}

// VerifyLedger checks the stored running balances of ordered entries against
// their prefix sums and returns the index of the first mismatch, or -1.
func VerifyLedger(opening decimal.Decimal, entries []domain.LedgerEntry) (int, error) {
	expected, err := RunningBalances(opening, entries)
	if err != nil {
		return -1, err
	}
	for i, e := range entries {
		if !e.RunningBalance.Equal(expected[i]) {
			return i, nil
		}
	}
	return -1, nil
}

// SummarizeEntries aggregates ordered entries. finalBalance is the running balance
// of the last entry, or fallback when there are none.
func SummarizeEntries(accountID string, entries []domain.LedgerEntry, fallback decimal.Decimal) domain.AccountSummary {
	summary := domain.AccountSummary{
		AccountID:    accountID,
		TotalCredits: decimal.Zero,
		TotalDebits:  decimal.Zero,
		FinalBalance: fallback,
	}
	for _, e := range entries {
		switch e.EntryType {
		case domain.Credit:
			summary.TotalCredits = summary.TotalCredits.Add(e.Amount.Abs())
		case domain.Debit:
			summary.TotalDebits = summary.TotalDebits.Add(e.Amount.Abs())
		}
		if e.Reconciled {
			summary.ReconciledEntries++
		}
	}
	summary.TotalEntries = len(entries)
	summary.NetFlow = summary.TotalCredits.Sub(summary.TotalDebits)
	if len(entries) > 0 {
		summary.FinalBalance = entries[len(entries)-1].RunningBalance
	}
	return summary
}
