package usecase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/allisson/vaultd/internal/crypto"
	apperrors "github.com/allisson/vaultd/internal/errors"
	rotationDomain "github.com/allisson/vaultd/internal/rotation/domain"
	secretsUsecase "github.com/allisson/vaultd/internal/secrets/usecase"
)

const defaultRandomLength = 32

const defaultRandomCharset = crypto.CharsetAlphanumeric

// externalAPIRateLimit bounds outbound EXTERNAL_API rotation calls so a
// burst of due policies pointed at the same endpoint cannot hammer it.
const externalAPIRateLimit = 5 // requests per second

// rotationUseCase implements RotationUseCase, orchestrating value generation,
// the secrets service, and the append-only history log.
type rotationUseCase struct {
	policyRepo  RotationPolicyRepository
	historyRepo RotationHistoryRepository
	secretsSvc  SecretsClient
	cryptoSvc   *crypto.Service
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// NewRotationUseCase builds a RotationUseCase. httpTimeout bounds every
// EXTERNAL_API rotation call (spec §9: default 10s, configurable via
// ROTATION_HTTP_TIMEOUT).
func NewRotationUseCase(
	policyRepo RotationPolicyRepository,
	historyRepo RotationHistoryRepository,
	secretsSvc SecretsClient,
	cryptoSvc *crypto.Service,
	httpTimeout time.Duration,
	logger *slog.Logger,
) RotationUseCase {
	return &rotationUseCase{
		policyRepo:  policyRepo,
		historyRepo: historyRepo,
		secretsSvc:  secretsSvc,
		cryptoSvc:   cryptoSvc,
		httpClient:  &http.Client{Timeout: httpTimeout},
		limiter:     rate.NewLimiter(rate.Limit(externalAPIRateLimit), externalAPIRateLimit),
		logger:      logger,
	}
}

// CreatePolicy stores a new RotationPolicy for secretID. Returns
// ErrPolicyAlreadyExists if one already exists.
func (uc *rotationUseCase) CreatePolicy(
	ctx context.Context,
	input CreatePolicyInput,
) (*rotationDomain.RotationPolicy, error) {
	if _, err := uc.policyRepo.GetBySecretID(ctx, input.SecretID); err == nil {
		return nil, rotationDomain.ErrPolicyAlreadyExists
	} else if !apperrors.Is(err, rotationDomain.ErrPolicyNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	next := now.Add(time.Duration(input.RotationIntervalHours) * time.Hour)
	policy := &rotationDomain.RotationPolicy{
		SecretID:               input.SecretID,
		Strategy:               input.Strategy,
		RotationIntervalHours:  input.RotationIntervalHours,
		RandomLength:           input.RandomLength,
		RandomCharset:          input.RandomCharset,
		ExternalAPIURL:         input.ExternalAPIURL,
		ExternalAPIHeadersJSON: input.ExternalAPIHeadersJSON,
		ScriptCommand:          input.ScriptCommand,
		IsActive:               true,
		MaxFailures:            input.MaxFailures,
		NextRotationAt:         &next,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := uc.policyRepo.Create(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// UpdatePolicy applies a partial update to a RotationPolicy.
func (uc *rotationUseCase) UpdatePolicy(
	ctx context.Context,
	input UpdatePolicyInput,
) (*rotationDomain.RotationPolicy, error) {
	policy, err := uc.policyRepo.GetBySecretID(ctx, input.SecretID)
	if err != nil {
		return nil, err
	}
	if input.RotationIntervalHours.Set {
		policy.RotationIntervalHours = *input.RotationIntervalHours.Value
	}
	if input.IsActive.Set {
		policy.IsActive = input.IsActive.Value
	}
	if input.MaxFailures.Set {
		policy.MaxFailures = input.MaxFailures.Value
	}
	policy.UpdatedAt = time.Now().UTC()
	if err := uc.policyRepo.Update(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// GetPolicy returns the RotationPolicy for secretID.
func (uc *rotationUseCase) GetPolicy(ctx context.Context, secretID string) (*rotationDomain.RotationPolicy, error) {
	return uc.policyRepo.GetBySecretID(ctx, secretID)
}

// DeletePolicy removes the RotationPolicy for secretID.
func (uc *rotationUseCase) DeletePolicy(ctx context.Context, secretID string) error {
	return uc.policyRepo.Delete(ctx, secretID)
}

// ListHistory returns the most recent RotationHistory rows for secretID.
func (uc *rotationUseCase) ListHistory(
	ctx context.Context,
	secretID string,
	limit int,
) ([]*rotationDomain.RotationHistory, error) {
	return uc.historyRepo.ListBySecretID(ctx, secretID, limit)
}

// RotateOne runs the rotate flow for a single policy: generate a new value
// per strategy, write it through the secrets service, and record the
// outcome. It never returns an error for a value-generation or update
// failure — those are recorded to RotationHistory and reflected in the
// policy's failureCount instead, matching spec §4.6's "failures must not
// stop the tick" requirement at the call-site level. It does return an
// error for a failure to persist the history/policy rows themselves, since
// those indicate a broken repository rather than a rotation-domain failure.
func (uc *rotationUseCase) RotateOne(ctx context.Context, policy *rotationDomain.RotationPolicy) error {
	start := time.Now()

	secret, err := uc.secretsSvc.GetMetadataUnscoped(ctx, policy.SecretID)
	if err != nil {
		return uc.recordFailure(ctx, policy, "", policy.Strategy, 0, err, start)
	}
	previousVersion := secret.CurrentVersion

	value, genErr := uc.generateValue(ctx, policy)
	if genErr != nil {
		return uc.recordFailure(ctx, policy, secret.Path, policy.Strategy, previousVersion, genErr, start)
	}

	updated, err := uc.secretsSvc.Update(ctx, secretsUsecase.UpdateSecretInput{
		TeamID:            secret.TeamID,
		ID:                secret.ID,
		Value:             value,
		ChangeDescription: "automatic rotation",
	})
	if err != nil {
		return uc.recordFailure(ctx, policy, secret.Path, policy.Strategy, previousVersion, err, start)
	}

	newVersion := updated.CurrentVersion
	durationMs := time.Since(start).Milliseconds()
	if err := uc.historyRepo.Create(ctx, &rotationDomain.RotationHistory{
		SecretID:        policy.SecretID,
		PathSnapshot:    secret.Path,
		Strategy:        policy.Strategy,
		PreviousVersion: previousVersion,
		NewVersion:      &newVersion,
		Success:         true,
		DurationMs:      durationMs,
		CreatedAt:       time.Now().UTC(),
	}); err != nil {
		return err
	}

	now := time.Now().UTC()
	next := now.Add(time.Duration(policy.RotationIntervalHours) * time.Hour)
	policy.LastRotatedAt = &now
	policy.NextRotationAt = &next
	policy.FailureCount = 0
	policy.UpdatedAt = now
	return uc.policyRepo.Update(ctx, policy)
}

// recordFailure appends a failed RotationHistory row and advances the
// policy's scheduling fields regardless of outcome, per spec §4.6: a
// failure must not leave the policy eligible for immediate retry.
func (uc *rotationUseCase) recordFailure(
	ctx context.Context,
	policy *rotationDomain.RotationPolicy,
	pathSnapshot string,
	strategy rotationDomain.Strategy,
	previousVersion int,
	cause error,
	start time.Time,
) error {
	if uc.logger != nil {
		uc.logger.Warn("rotation attempt failed",
			slog.String("secret_id", policy.SecretID),
			slog.Any("error", cause),
		)
	}

	durationMs := time.Since(start).Milliseconds()
	if err := uc.historyRepo.Create(ctx, &rotationDomain.RotationHistory{
		SecretID:        policy.SecretID,
		PathSnapshot:    pathSnapshot,
		Strategy:        strategy,
		PreviousVersion: previousVersion,
		Success:         false,
		ErrorMessage:    cause.Error(),
		DurationMs:      durationMs,
		CreatedAt:       time.Now().UTC(),
	}); err != nil {
		return err
	}

	now := time.Now().UTC()
	next := now.Add(time.Duration(policy.RotationIntervalHours) * time.Hour)
	policy.FailureCount++
	policy.NextRotationAt = &next
	if policy.MaxFailures != nil && policy.FailureCount >= *policy.MaxFailures {
		policy.IsActive = false
	}
	policy.UpdatedAt = now
	return uc.policyRepo.Update(ctx, policy)
}

// generateValue dispatches value generation by strategy (spec §4.6).
func (uc *rotationUseCase) generateValue(ctx context.Context, policy *rotationDomain.RotationPolicy) ([]byte, error) {
	switch policy.Strategy {
	case rotationDomain.StrategyRandomGenerate:
		length := defaultRandomLength
		if policy.RandomLength != nil {
			length = *policy.RandomLength
		}
		charset := defaultRandomCharset
		if policy.RandomCharset != nil {
			charset = *policy.RandomCharset
		}
		value, err := uc.cryptoSvc.GenerateRandomString(length, charset)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrRotationFailed, err.Error())
		}
		return []byte(value), nil

	case rotationDomain.StrategyExternalAPI:
		return uc.callExternalAPI(ctx, policy)

	case rotationDomain.StrategyCustomScript:
		return nil, apperrors.Wrap(apperrors.ErrNotImplemented, "custom-script rotation strategy is not yet implemented")

	default:
		return nil, rotationDomain.ErrUnsupportedStrategy
	}
}

// callExternalAPI performs the EXTERNAL_API rotation strategy: an HTTP GET
// with headers parsed from policy.ExternalAPIHeadersJSON. 2xx with a
// non-blank body is a success; anything else is RotationFailed.
func (uc *rotationUseCase) callExternalAPI(ctx context.Context, policy *rotationDomain.RotationPolicy) ([]byte, error) {
	if err := uc.limiter.Wait(ctx); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRotationFailed, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, policy.ExternalAPIURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRotationFailed, err.Error())
	}

	if policy.ExternalAPIHeadersJSON != "" {
		headers := map[string]string{}
		if err := json.Unmarshal([]byte(policy.ExternalAPIHeadersJSON), &headers); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrRotationFailed, "malformed external api headers: "+err.Error())
		}
		for name, value := range headers {
			req.Header.Set(name, value)
		}
	}

	resp, err := uc.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRotationFailed, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRotationFailed, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || len(body) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrRotationFailed, "external rotation endpoint returned an empty or non-2xx response")
	}
	return body, nil
}

// Tick loads every due policy and rotates each in isolation via an
// errgroup, so one policy's failure never prevents the others from
// running (spec §4.6's due-rotation tick requirement).
func (uc *rotationUseCase) Tick(ctx context.Context) error {
	policies, err := uc.policyRepo.ListDue(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if len(policies) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, policy := range policies {
		policy := policy
		g.Go(func() error {
			if err := uc.RotateOne(gctx, policy); err != nil && uc.logger != nil {
				uc.logger.Error("rotation tick failed to persist outcome",
					slog.String("secret_id", policy.SecretID),
					slog.Any("error", err),
				)
			}
			return nil
		})
	}
	return g.Wait()
}
