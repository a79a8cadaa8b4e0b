package app

import (
	"fmt"

	auditRepository "github.com/allisson/vaultd/internal/audit/repository"
	auditUsecase "github.com/allisson/vaultd/internal/audit/usecase"
	"github.com/allisson/vaultd/internal/database"
)

// AuditRepository returns the audit repository for the configured driver.
func (c *Container) AuditRepository() (auditUsecase.AuditRepository, error) {
	if c.auditRepo != nil {
		return c.auditRepo, nil
	}
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}
	switch c.config.DBDriver {
	case "postgres":
		c.auditRepo = auditRepository.NewPostgreSQLAuditRepository(db)
	case "mysql":
		c.auditRepo = auditRepository.NewMySQLAuditRepository(db)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
	return c.auditRepo, nil
}

// AuditUseCase returns the audit use case. Its TxManager always opens a
// fresh transaction off the process-wide pool (database.sqlTxManager.WithTx
// always calls db.BeginTx, regardless of any transaction already stashed in
// ctx), so Record's write is independent of whatever transaction the
// caller it is auditing may currently hold open (SPEC_FULL.md §4.7).
func (c *Container) AuditUseCase() (auditUsecase.AuditUseCase, error) {
	var err error
	c.auditUseCaseInit.Do(func() {
		c.auditUseCase, err = c.initAuditUseCase()
		if err != nil {
			c.initErrors["auditUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, ok := c.initErrors["auditUseCase"]; ok {
		return nil, storedErr
	}
	return c.auditUseCase, nil
}

func (c *Container) initAuditUseCase() (auditUsecase.AuditUseCase, error) {
	repo, err := c.AuditRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for audit use case: %w", err)
	}
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit use case: %w", err)
	}
	cryptoSvc, err := c.CryptoService()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto service for audit use case: %w", err)
	}
	return auditUsecase.NewAuditUseCase(repo, database.NewTxManager(db), cryptoSvc, c.Logger()), nil
}
