package domain

import "strings"

// Category is an entry of the fixed category catalog.
type Category struct {
	Code   string          `json:"code"`
	Type   TransactionType `json:"type"`
	NameEN string          `json:"nameEN"`
	NameEL string          `json:"nameEL"`
}

const (
	UncategorizedIn  = "UNCATEGORIZED_IN"
	UncategorizedOut = "UNCATEGORIZED_OUT"
)

var categoryCatalog = []Category{
	{Code: "INVOICE_PAYMENT_FULL", Type: Credit, NameEN: "Invoice payment (full)", NameEL: "Είσπραξη τιμολογίου (πλήρης)"},
	{Code: "INVOICE_PAYMENT_PARTIAL", Type: Credit, NameEN: "Invoice payment (partial)", NameEL: "Είσπραξη τιμολογίου (μερική)"},
	{Code: "CAPITAL_RAISE", Type: Credit, NameEN: "Capital raise", NameEL: "Αύξηση κεφαλαίου"},
	{Code: "INTEREST_INCOME", Type: Credit, NameEN: "Interest income", NameEL: "Έσοδα τόκων"},
	{Code: "EXPENSE_REFUND", Type: Credit, NameEN: "Expense refund", NameEL: "Επιστροφή εξόδων"},
	{Code: "LOAN_RECEIVED", Type: Credit, NameEN: "Loan received", NameEL: "Λήψη δανείου"},
	{Code: "INTERCOMPANY_IN", Type: Credit, NameEN: "Intercompany transfer in", NameEL: "Ενδοεταιρική μεταφορά (εισερχόμενη)"},
	{Code: "ATM_DEPOSIT", Type: Credit, NameEN: "ATM deposit", NameEL: "Κατάθεση ATM"},
	{Code: UncategorizedIn, Type: Credit, NameEN: "Uncategorized income", NameEL: "Μη κατηγοριοποιημένα έσοδα"},
	{Code: "SUPPLIER_PAYMENT", Type: Debit, NameEN: "Supplier payment", NameEL: "Πληρωμή προμηθευτή"},
	{Code: "LOAN_REPAYMENT", Type: Debit, NameEN: "Loan repayment", NameEL: "Αποπληρωμή δανείου"},
	{Code: "BANK_FEES", Type: Debit, NameEN: "Bank fees", NameEL: "Τραπεζικά έξοδα"},
	{Code: "TAX_PAYMENT", Type: Debit, NameEN: "Tax payment", NameEL: "Πληρωμή φόρου"},
	{Code: "PAYROLL", Type: Debit, NameEN: "Payroll", NameEL: "Μισθοδοσία"},
	{Code: "RENT", Type: Debit, NameEN: "Rent", NameEL: "Ενοίκιο"},
	{Code: "UTILITIES", Type: Debit, NameEN: "Utilities", NameEL: "Λογαριασμοί κοινής ωφέλειας"},
	{Code: "ADMIN_EXPENSES", Type: Debit, NameEN: "Administrative expenses", NameEL: "Διοικητικά έξοδα"},
	{Code: "ATM_WITHDRAWAL", Type: Debit, NameEN: "ATM withdrawal", NameEL: "Ανάληψη ATM"},
	{Code: UncategorizedOut, Type: Debit, NameEN: "Uncategorized expense", NameEL: "Μη κατηγοριοποιημένα έξοδα"},
}

var categoriesByCode = func() map[string]Category {
	m := make(map[string]Category, len(categoryCatalog))
	for _, c := range categoryCatalog {
		m[c.Code] = c
	}
	return m
}()

// Categories returns a copy of the catalog.
func Categories() []Category {
	out := make([]Category, len(categoryCatalog))
	copy(out, categoryCatalog)
	return out
}

// LookupCategory finds a category by code, ignoring case and surrounding space.
func LookupCategory(code string) (Category, bool) {
	c, ok := categoriesByCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// UncategorizedFor returns the sentinel code matching the direction of a transaction.
func UncategorizedFor(t TransactionType) string {
	if t == Credit {
		return UncategorizedIn
	}
	return UncategorizedOut
}
