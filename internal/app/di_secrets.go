package app

import (
	"fmt"

	secretsRepository "github.com/allisson/vaultd/internal/secrets/repository"
	secretsUsecase "github.com/allisson/vaultd/internal/secrets/usecase"
)

// SecretRepository, SecretVersionRepository and SecretMetadataRepository
// are built together since the driver switch is identical for all three.
func (c *Container) secretRepos() (secretsUsecase.SecretRepository, secretsUsecase.SecretVersionRepository, secretsUsecase.SecretMetadataRepository, error) {
	if c.secretRepo != nil {
		return c.secretRepo, c.versionRepo, c.metadataRepo, nil
	}
	db, err := c.DB()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get database for secret repositories: %w", err)
	}
	switch c.config.DBDriver {
	case "postgres":
		c.secretRepo = secretsRepository.NewPostgreSQLSecretRepository(db)
		c.versionRepo = secretsRepository.NewPostgreSQLSecretVersionRepository(db)
		c.metadataRepo = secretsRepository.NewPostgreSQLSecretMetadataRepository(db)
	case "mysql":
		c.secretRepo = secretsRepository.NewMySQLSecretRepository(db)
		c.versionRepo = secretsRepository.NewMySQLSecretVersionRepository(db)
		c.metadataRepo = secretsRepository.NewMySQLSecretMetadataRepository(db)
	default:
		return nil, nil, nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
	return c.secretRepo, c.versionRepo, c.metadataRepo, nil
}

// SecretUseCase returns the fully decorated secret use case: seal gate
// (outermost) -> metrics -> audit -> the concrete orchestration, matching
// the order every other domain's use case is assembled in (see
// di_transit.go, di_policy.go, di_rotation.go, di_lease.go).
func (c *Container) SecretUseCase() (secretsUsecase.SecretUseCase, error) {
	var err error
	c.secretUCInit.Do(func() {
		c.secretUC, err = c.initSecretUseCase()
		if err != nil {
			c.initErrors["secretUC"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, ok := c.initErrors["secretUC"]; ok {
		return nil, storedErr
	}
	return c.secretUC, nil
}

func (c *Container) initSecretUseCase() (secretsUsecase.SecretUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for secret use case: %w", err)
	}
	secretRepo, versionRepo, metadataRepo, err := c.secretRepos()
	if err != nil {
		return nil, err
	}
	cryptoSvc, err := c.CryptoService()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto service for secret use case: %w", err)
	}
	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for secret use case: %w", err)
	}

	base := secretsUsecase.NewSecretUseCase(txManager, secretRepo, versionRepo, metadataRepo, cryptoSvc)
	withAudit := secretsUsecase.NewSecretUseCaseWithAudit(base, auditUC)
	withMetrics := secretsUsecase.NewSecretUseCaseWithMetrics(withAudit, c.BusinessMetrics())
	return secretsUsecase.NewSecretUseCaseWithSealGate(withMetrics, c.SealService()), nil
}
