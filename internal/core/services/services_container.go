package services

import (
	portsrepo "github.com/SscSPs/smart_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/smart_ledger/internal/core/ports/services"
	"github.com/SscSPs/smart_ledger/internal/platform/config"
)

// Collaborators are the adapters the services talk to besides the database.
type Collaborators struct {
	Locker      portssvc.AccountLocker
	Decoder     portssvc.StatementDecoder
	Categorizer portssvc.Categorizer
	Archive     portssvc.FileArchive    // optional
	Events      portssvc.EventPublisher // optional
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Collaborators, opts ...Option) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, opts...)
	container.Transaction = NewTransactionService(repos.TransactionRepo, opts...)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.TransactionRepo, repos.AccountRepo, deps.Locker, opts...)

	// Ingestion depends on the account, transaction and ledger services above.
	container.Ingestion = NewIngestionService(
		repos.UploadRepo,
		repos.TransactionRepo,
		container.Account,
		container.Transaction,
		container.Ledger,
		deps.Events,
		opts...,
	)
	container.Upload = NewUploadService(
		repos.UploadRepo,
		deps.Decoder,
		deps.Categorizer,
		deps.Archive,
		container.Ingestion,
		deps.Events,
		cfg.MaxUploadBytes,
		opts...,
	)

	container.Reporting = NewReportingService(repos.ReportingRepo, repos.TransactionRepo, opts...)
	container.Auth = NewAuthService(cfg, opts...)

	return container
}
