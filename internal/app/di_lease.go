package app

import (
	"fmt"

	leaseDomain "github.com/allisson/vaultd/internal/lease/domain"
	leaseRepository "github.com/allisson/vaultd/internal/lease/repository"
	leaseUsecase "github.com/allisson/vaultd/internal/lease/usecase"
)

func (c *Container) LeaseRepository() (leaseUsecase.LeaseRepository, error) {
	if c.leaseRepo != nil {
		return c.leaseRepo, nil
	}
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for lease repository: %w", err)
	}
	switch c.config.DBDriver {
	case "postgres":
		c.leaseRepo = leaseRepository.NewPostgreSQLLeaseRepository(db)
	case "mysql":
		c.leaseRepo = leaseRepository.NewMySQLLeaseRepository(db)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
	return c.leaseRepo, nil
}

// LeaseUseCase returns the fully decorated lease use case, with both
// supported backend drivers registered (provisioning targets a lease's own
// BackendType, independent of the control-plane DBDriver).
func (c *Container) LeaseUseCase() (leaseUsecase.LeaseUseCase, error) {
	var err error
	c.leaseUCInit.Do(func() {
		c.leaseUC, err = c.initLeaseUseCase()
		if err != nil {
			c.initErrors["leaseUC"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, ok := c.initErrors["leaseUC"]; ok {
		return nil, storedErr
	}
	return c.leaseUC, nil
}

func (c *Container) initLeaseUseCase() (leaseUsecase.LeaseUseCase, error) {
	repo, err := c.LeaseRepository()
	if err != nil {
		return nil, err
	}
	secretUC, err := c.SecretUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret use case for lease use case: %w", err)
	}
	cryptoSvc, err := c.CryptoService()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto service for lease use case: %w", err)
	}
	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for lease use case: %w", err)
	}

	connectTimeoutSeconds := int(c.config.LeaseBackendTimeout.Seconds())
	drivers := map[leaseDomain.BackendType]leaseUsecase.BackendDriver{
		leaseDomain.BackendTypePostgreSQL: leaseUsecase.NewPostgreSQLBackendDriver(connectTimeoutSeconds),
		leaseDomain.BackendTypeMySQL:      leaseUsecase.NewMySQLBackendDriver(connectTimeoutSeconds),
	}

	leaseConfig := leaseUsecase.Config{
		ExecuteSQL:     c.config.DynamicExecuteSQL,
		DefaultTTL:     c.config.DynamicDefaultTTL,
		MaxTTL:         c.config.DynamicMaxTTL,
		PasswordLength: c.config.DynamicPasswordLength,
		UsernamePrefix: c.config.DynamicUsernamePrefix,
		BackendTimeout: c.config.LeaseBackendTimeout,
	}

	base := leaseUsecase.NewLeaseUseCase(leaseConfig, repo, secretUC, cryptoSvc, drivers, c.Logger())
	withAudit := leaseUsecase.NewLeaseUseCaseWithAudit(base, auditUC)
	withMetrics := leaseUsecase.NewLeaseUseCaseWithMetrics(withAudit, c.BusinessMetrics())
	return leaseUsecase.NewLeaseUseCaseWithSealGate(withMetrics, c.SealService()), nil
}

// LeaseScheduler returns the ticker loop driving LeaseUseCase.Tick.
func (c *Container) LeaseScheduler() (*leaseUsecase.Scheduler, error) {
	var err error
	c.leaseSchedInit.Do(func() {
		var uc leaseUsecase.LeaseUseCase
		uc, err = c.LeaseUseCase()
		if err != nil {
			c.initErrors["leaseScheduler"] = err
			return
		}
		c.leaseScheduler = leaseUsecase.NewScheduler(uc, c.config.LeaseExpiryTickInterval, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, ok := c.initErrors["leaseScheduler"]; ok {
		return nil, storedErr
	}
	return c.leaseScheduler, nil
}
