package pgsql

import (
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		LedgerRepo:      newPgxLedgerRepository(dbPool),
		UploadRepo:      newPgxUploadRepository(dbPool),
		ReportingRepo:   newReportingRepository(dbPool),
	}
}
