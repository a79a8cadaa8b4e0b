package app

import (
	"fmt"

	rotationRepository "github.com/allisson/vaultd/internal/rotation/repository"
	rotationUsecase "github.com/allisson/vaultd/internal/rotation/usecase"
)

func (c *Container) rotationRepos() (rotationUsecase.RotationPolicyRepository, rotationUsecase.RotationHistoryRepository, error) {
	if c.rotationPolicyRepo != nil {
		return c.rotationPolicyRepo, c.rotationHistoryRepo, nil
	}
	db, err := c.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database for rotation repositories: %w", err)
	}
	switch c.config.DBDriver {
	case "postgres":
		c.rotationPolicyRepo = rotationRepository.NewPostgreSQLRotationPolicyRepository(db)
		c.rotationHistoryRepo = rotationRepository.NewPostgreSQLRotationHistoryRepository(db)
	case "mysql":
		c.rotationPolicyRepo = rotationRepository.NewMySQLRotationPolicyRepository(db)
		c.rotationHistoryRepo = rotationRepository.NewMySQLRotationHistoryRepository(db)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
	return c.rotationPolicyRepo, c.rotationHistoryRepo, nil
}

// RotationUseCase returns the fully decorated rotation use case. It depends
// on the top-level (also decorated) SecretUseCase for the metadata
// lookup/value update it needs — going through the secrets domain's own
// seal gate and audit trail a second time is harmless (an idempotent read
// of already-gated state) and keeps rotation from needing a private,
// ungated path into the secret store.
func (c *Container) RotationUseCase() (rotationUsecase.RotationUseCase, error) {
	var err error
	c.rotationUCInit.Do(func() {
		c.rotationUC, err = c.initRotationUseCase()
		if err != nil {
			c.initErrors["rotationUC"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, ok := c.initErrors["rotationUC"]; ok {
		return nil, storedErr
	}
	return c.rotationUC, nil
}

func (c *Container) initRotationUseCase() (rotationUsecase.RotationUseCase, error) {
	policyRepo, historyRepo, err := c.rotationRepos()
	if err != nil {
		return nil, err
	}
	secretUC, err := c.SecretUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret use case for rotation use case: %w", err)
	}
	cryptoSvc, err := c.CryptoService()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto service for rotation use case: %w", err)
	}
	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for rotation use case: %w", err)
	}

	base := rotationUsecase.NewRotationUseCase(
		policyRepo,
		historyRepo,
		secretUC,
		cryptoSvc,
		c.config.RotationHTTPTimeout,
		c.Logger(),
	)
	withAudit := rotationUsecase.NewRotationUseCaseWithAudit(base, auditUC)
	withMetrics := rotationUsecase.NewRotationUseCaseWithMetrics(withAudit, c.BusinessMetrics())
	return rotationUsecase.NewRotationUseCaseWithSealGate(withMetrics, c.SealService()), nil
}

// RotationScheduler returns the ticker loop driving RotationUseCase.Tick.
func (c *Container) RotationScheduler() (*rotationUsecase.Scheduler, error) {
	var err error
	c.rotationSchedInit.Do(func() {
		var uc rotationUsecase.RotationUseCase
		uc, err = c.RotationUseCase()
		if err != nil {
			c.initErrors["rotationScheduler"] = err
			return
		}
		c.rotationScheduler = rotationUsecase.NewScheduler(uc, c.config.RotationTickInterval, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, ok := c.initErrors["rotationScheduler"]; ok {
		return nil, storedErr
	}
	return c.rotationScheduler, nil
}
