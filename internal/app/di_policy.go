package app

import (
	"fmt"

	policyRepository "github.com/allisson/vaultd/internal/policy/repository"
	policyUsecase "github.com/allisson/vaultd/internal/policy/usecase"
)

func (c *Container) policyRepos() (policyUsecase.PolicyRepository, policyUsecase.PolicyBindingRepository, error) {
	if c.policyRepo != nil {
		return c.policyRepo, c.bindingRepo, nil
	}
	db, err := c.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database for policy repositories: %w", err)
	}
	switch c.config.DBDriver {
	case "postgres":
		c.policyRepo = policyRepository.NewPostgreSQLPolicyRepository(db)
		c.bindingRepo = policyRepository.NewPostgreSQLPolicyBindingRepository(db)
	case "mysql":
		c.policyRepo = policyRepository.NewMySQLPolicyRepository(db)
		c.bindingRepo = policyRepository.NewMySQLPolicyBindingRepository(db)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
	return c.policyRepo, c.bindingRepo, nil
}

// PolicyUseCase returns the fully decorated policy use case.
func (c *Container) PolicyUseCase() (policyUsecase.PolicyUseCase, error) {
	var err error
	c.policyUCInit.Do(func() {
		c.policyUC, err = c.initPolicyUseCase()
		if err != nil {
			c.initErrors["policyUC"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, ok := c.initErrors["policyUC"]; ok {
		return nil, storedErr
	}
	return c.policyUC, nil
}

func (c *Container) initPolicyUseCase() (policyUsecase.PolicyUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for policy use case: %w", err)
	}
	policyRepo, bindingRepo, err := c.policyRepos()
	if err != nil {
		return nil, err
	}
	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for policy use case: %w", err)
	}

	base := policyUsecase.NewPolicyUseCase(txManager, policyRepo, bindingRepo)
	withAudit := policyUsecase.NewPolicyUseCaseWithAudit(base, auditUC)
	withMetrics := policyUsecase.NewPolicyUseCaseWithMetrics(withAudit, c.BusinessMetrics())
	return policyUsecase.NewPolicyUseCaseWithSealGate(withMetrics, c.SealService()), nil
}
