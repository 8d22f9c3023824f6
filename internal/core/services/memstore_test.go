package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/smart_ledger/internal/apperrors"
	"github.com/SscSPs/smart_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/smart_ledger/internal/utils/accounting"
	"github.com/SscSPs/smart_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the Postgres account, transaction,
// ledger and upload tables, with the same posting semantics.
type memStore struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	txns     map[string]*domain.Transaction
	txnOrder []string
	entries  []domain.LedgerEntry
	uploads  map[string]*domain.Upload
	// failPost makes posting fail for entries with the given description.
	failPost map[string]error
	// annotationWrites counts UpdateTransactionAnnotations calls.
	annotationWrites int
}

var (
	_ portsrepo.AccountRepositoryFacade     = (*memStore)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*memStore)(nil)
	_ portsrepo.LedgerRepositoryFacade      = (*memStore)(nil)
	_ portsrepo.UploadRepository            = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{
		accounts: map[string]*domain.Account{},
		txns:     map[string]*domain.Transaction{},
		uploads:  map[string]*domain.Upload{},
		failPost: map[string]error{},
	}
}

func (m *memStore) failPostingOf(description string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failPost, description)
		return
	}
	m.failPost[description] = err
}

func (m *memStore) addAccount(a domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.AccountID] = &a
}

// --- accounts ---

func (m *memStore) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (m *memStore) FindAccountByNumber(_ context.Context, accountNumber string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.AccountNumber == accountNumber {
			c := *a
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) ListAccounts(_ context.Context, activeOnly bool) ([]domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Account
	for _, a := range m.accounts {
		if !activeOnly || a.IsActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) SaveAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if account.AccountNumber != "" && a.AccountNumber == account.AccountNumber {
			return apperrors.ErrDuplicate
		}
	}
	m.accounts[account.AccountID] = &account
	return nil
}

func (m *memStore) EnsureAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.AccountID]; !ok {
		m.accounts[account.AccountID] = &account
	}
	return nil
}

func (m *memStore) UpdateAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.AccountID]; !ok {
		return apperrors.ErrNotFound
	}
	m.accounts[account.AccountID] = &account
	return nil
}

// --- transactions ---

func (m *memStore) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.txns[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (m *memStore) QueryTransactions(_ context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transaction
	for _, id := range m.txnOrder {
		t := m.txns[id]
		if filter.AccountID != nil && t.AccountID != *filter.AccountID {
			continue
		}
		out = append(out, *t)
	}
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memStore) FindUnpostedByAccount(_ context.Context, accountID string) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transaction
	for _, id := range m.txnOrder {
		t := m.txns[id]
		if t.AccountID == accountID && !t.IsPosted() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) InsertBatch(_ context.Context, transactions []domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range transactions {
		if _, ok := m.accounts[t.AccountID]; !ok {
			return apperrors.ErrValidation
		}
	}
	for _, t := range transactions {
		c := t
		m.txns[t.TransactionID] = &c
		m.txnOrder = append(m.txnOrder, t.TransactionID)
	}
	return nil
}

func (m *memStore) UpdateTransactionAnnotations(_ context.Context, transactionID string, patch domain.TransactionUpdate, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.annotationWrites++
	t, ok := m.txns[transactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if patch.CategoryCode != nil {
		t.CategoryCode = *patch.CategoryCode
	}
	if patch.Notes != nil {
		t.Notes = *patch.Notes
	}
	t.IsManual = true
	t.UpdatedAt = now
	return nil
}

func (m *memStore) SetPostingError(_ context.Context, transactionID string, message string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.txns[transactionID]; ok && !t.IsPosted() {
		t.PostingError = message
		t.UpdatedAt = now
	}
	return nil
}

// --- ledger ---

func (m *memStore) accountEntries(accountID string) []domain.LedgerEntry {
	var out []domain.LedgerEntry
	for _, e := range m.entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return entryLess(out[i], out[j]) })
	return out
}

func entryLess(a, b domain.LedgerEntry) bool {
	if !a.EntryDate.Equal(b.EntryDate) {
		return a.EntryDate.Before(b.EntryDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.EntryID < b.EntryID
}

func (m *memStore) FindEntryByID(_ context.Context, entryID string) (*domain.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.EntryID == entryID {
			c := e
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) FindEntriesByAccount(ctx context.Context, accountID string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	return m.ListEntriesPage(ctx, accountID, from, to, 0, nil)
}

func (m *memStore) ListEntriesPage(_ context.Context, accountID string, from, to *time.Time, limit int, after *pagination.Cursor) ([]domain.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range m.accountEntries(accountID) {
		if from != nil && e.EntryDate.Before(*from) {
			continue
		}
		if to != nil && e.EntryDate.After(*to) {
			continue
		}
		if after != nil && !entryLess(domain.LedgerEntry{EntryDate: after.Date, CreatedAt: after.CreatedAt, EntryID: after.ID}, e) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) FindLastEntryOnOrBefore(_ context.Context, accountID string, at *time.Time) (*domain.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var last *domain.LedgerEntry
	for _, e := range m.accountEntries(accountID) {
		if at != nil && e.EntryDate.After(*at) {
			break
		}
		c := e
		last = &c
	}
	if last == nil {
		return nil, apperrors.ErrNotFound
	}
	return last, nil
}

func (m *memStore) PostEntry(_ context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failPost[entry.Description]; err != nil {
		return nil, false, err
	}
	account, ok := m.accounts[entry.AccountID]
	if !ok {
		return nil, false, apperrors.ErrNotFound
	}
	txn, ok := m.txns[entry.TransactionID]
	if !ok {
		return nil, false, apperrors.ErrNotFound
	}
	if txn.IsPosted() {
		for _, e := range m.entries {
			if e.EntryID == *txn.LedgerEntryID {
				c := e
				return &c, false, nil
			}
		}
	}

	existing := m.accountEntries(entry.AccountID)
	for _, e := range existing {
		if !entry.CreatedAt.After(e.CreatedAt) {
			entry.CreatedAt = e.CreatedAt.Add(time.Microsecond)
		}
	}

	previous := account.OpeningBalance
	for _, e := range existing {
		if !e.EntryDate.After(entry.EntryDate) {
			previous = e.RunningBalance
		}
	}

	entry.Amount = entry.Amount.Abs()
	signed, err := accounting.SignedAmount(entry.EntryType, entry.Amount)
	if err != nil {
		return nil, false, err
	}
	entry.RunningBalance = previous.Add(signed)

	for i := range m.entries {
		e := &m.entries[i]
		if e.AccountID == entry.AccountID && e.EntryDate.After(entry.EntryDate) {
			e.RunningBalance = e.RunningBalance.Add(signed)
		}
	}
	m.entries = append(m.entries, entry)

	id := entry.EntryID
	txn.LedgerEntryID = &id
	txn.PostingError = ""

	balance, err := accounting.CurrentBalance(account.OpeningBalance, m.accountEntries(entry.AccountID))
	if err != nil {
		return nil, false, err
	}
	account.CurrentBalance = balance
	return &entry, true, nil
}

func (m *memStore) RecomputeBalance(_ context.Context, accountID string, now time.Time) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[accountID]
	if !ok {
		return decimal.Zero, apperrors.ErrNotFound
	}
	balance, err := accounting.CurrentBalance(account.OpeningBalance, m.accountEntries(accountID))
	if err != nil {
		return decimal.Zero, err
	}
	account.CurrentBalance = balance
	account.UpdatedAt = now
	return balance, nil
}

func (m *memStore) ReconcileEntry(_ context.Context, entryID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		e := &m.entries[i]
		if e.EntryID != entryID {
			continue
		}
		if e.Reconciled {
			return false, nil
		}
		e.Reconciled = true
		e.ReconciliationDate = &at
		if t, ok := m.txns[e.TransactionID]; ok {
			t.Reconciled = true
		}
		return true, nil
	}
	return false, apperrors.ErrNotFound
}

// --- uploads ---

func (m *memStore) CreateUpload(_ context.Context, upload domain.Upload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.uploads[upload.UploadID]; ok {
		return apperrors.ErrDuplicate
	}
	m.uploads[upload.UploadID] = &upload
	return nil
}

func (m *memStore) FindUploadByID(_ context.Context, uploadID string) (*domain.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.uploads[uploadID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *memStore) ListUploads(_ context.Context, limit int, offset int) ([]domain.Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Upload
	for _, u := range m.uploads {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memStore) AttachAccount(_ context.Context, uploadID string, accountID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.uploads[uploadID]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.AccountID = &accountID
	u.UpdatedAt = now
	return nil
}

func (m *memStore) SetArchiveURI(_ context.Context, uploadID string, uri string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.uploads[uploadID]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.ArchiveURI = uri
	return nil
}

func (m *memStore) MarkCompleted(_ context.Context, uploadID string, transactionCount int, postedCount int, now time.Time) error {
	return m.transition(uploadID, func(u *domain.Upload) {
		u.Status = domain.UploadCompleted
		u.TransactionCount = transactionCount
		u.PostedCount = postedCount
		u.UpdatedAt = now
	})
}

func (m *memStore) MarkFailed(_ context.Context, uploadID string, message string, now time.Time) error {
	return m.transition(uploadID, func(u *domain.Upload) {
		u.Status = domain.UploadFailed
		u.ErrorMessage = message
		u.UpdatedAt = now
	})
}

func (m *memStore) transition(uploadID string, apply func(*domain.Upload)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.uploads[uploadID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if u.Status != domain.UploadProcessing {
		return apperrors.ErrConflict
	}
	apply(u)
	return nil
}

// countingLocker is a per-account mutex that records how often each account was locked.
type countingLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	count map[string]int
}

func newCountingLocker() *countingLocker {
	return &countingLocker{locks: map[string]*sync.Mutex{}, count: map[string]int{}}
}

func (l *countingLocker) Lock(ctx context.Context, accountID string) (func(), error) {
	l.mu.Lock()
	mu, ok := l.locks[accountID]
	if !ok {
		mu = &sync.Mutex{}
		l.locks[accountID] = mu
	}
	l.count[accountID]++
	l.mu.Unlock()
	mu.Lock()
	return mu.Unlock, nil
}

func (l *countingLocker) locked(accountID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count[accountID]
}
