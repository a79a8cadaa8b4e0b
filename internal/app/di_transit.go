package app

import (
	"fmt"

	transitRepository "github.com/allisson/vaultd/internal/transit/repository"
	transitUsecase "github.com/allisson/vaultd/internal/transit/usecase"
)

// TransitKeyRepository returns the transit key repository for the
// configured driver.
func (c *Container) TransitKeyRepository() (transitUsecase.TransitKeyRepository, error) {
	if c.transitRepo != nil {
		return c.transitRepo, nil
	}
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for transit key repository: %w", err)
	}
	switch c.config.DBDriver {
	case "postgres":
		c.transitRepo = transitRepository.NewPostgreSQLTransitKeyRepository(db)
	case "mysql":
		c.transitRepo = transitRepository.NewMySQLTransitKeyRepository(db)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
	return c.transitRepo, nil
}

// TransitKeyUseCase returns the fully decorated transit key use case.
func (c *Container) TransitKeyUseCase() (transitUsecase.TransitKeyUseCase, error) {
	var err error
	c.transitUCInit.Do(func() {
		c.transitUC, err = c.initTransitKeyUseCase()
		if err != nil {
			c.initErrors["transitUC"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, ok := c.initErrors["transitUC"]; ok {
		return nil, storedErr
	}
	return c.transitUC, nil
}

func (c *Container) initTransitKeyUseCase() (transitUsecase.TransitKeyUseCase, error) {
	repo, err := c.TransitKeyRepository()
	if err != nil {
		return nil, err
	}
	cryptoSvc, err := c.CryptoService()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto service for transit use case: %w", err)
	}
	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for transit use case: %w", err)
	}

	base := transitUsecase.NewTransitKeyUseCase(repo, cryptoSvc)
	withAudit := transitUsecase.NewTransitKeyUseCaseWithAudit(base, auditUC)
	withMetrics := transitUsecase.NewTransitKeyUseCaseWithMetrics(withAudit, c.BusinessMetrics())
	return transitUsecase.NewTransitKeyUseCaseWithSealGate(withMetrics, c.SealService()), nil
}
