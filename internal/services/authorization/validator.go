package authorization

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hayasaka/monban/internal/entities"
	"github.com/hayasaka/monban/internal/repositories"
	"github.com/hayasaka/monban/pkg/cache"
)

// ValidatorInterface defines the interface for API call validation
type ValidatorInterface interface {
	Validate(ctx context.Context, apiPath string, method string, userID string) Result
}

// Result is the boundary value adapters receive from Validate. Internal
// faults never cross the boundary as errors; they surface as a non-allowed
// result carrying a message.
type Result struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"errorMessage,omitempty"`
}

// Validator answers whether a user may call a given API path and method.
//
// Only the user's directly assigned resource permissions are scanned here —
// group and role inheritance is intentionally not expanded at call time.
// The full closure (Resolver) serves UI listing; this asymmetry is a
// documented design decision.
type Validator struct {
	holderRepo   repositories.HolderRepository
	resourceRepo repositories.ResourcePermissionRepository
	superAdmin   string // normalized username sentinel that bypasses all checks
	cache        cache.Cache
	cacheTTL     time.Duration
	logger       zerolog.Logger
}

// NewValidator creates a new Validator without decision caching
func NewValidator(
	holderRepo repositories.HolderRepository,
	resourceRepo repositories.ResourcePermissionRepository,
	superAdminUsername string,
	logger zerolog.Logger,
) *Validator {
	return &Validator{
		holderRepo:   holderRepo,
		resourceRepo: resourceRepo,
		superAdmin:   normalizeUsername(superAdminUsername),
		logger:       logger,
	}
}

// NewValidatorWithCache creates a new Validator with decision caching enabled
func NewValidatorWithCache(
	holderRepo repositories.HolderRepository,
	resourceRepo repositories.ResourcePermissionRepository,
	superAdminUsername string,
	logger zerolog.Logger,
	c cache.Cache,
	cacheTTL time.Duration,
) *Validator {
	v := NewValidator(holderRepo, resourceRepo, superAdminUsername, logger)
	v.cache = c
	v.cacheTTL = cacheTTL
	return v
}

// Validate determines whether the user may call the given API path with the
// given HTTP method. A missing user yields a denied result, not an error.
func (v *Validator) Validate(ctx context.Context, apiPath string, method string, userID string) Result {
	if apiPath == "" || method == "" || userID == "" {
		return Result{Message: "api path, method, and user id are required"}
	}

	holder, err := v.holderRepo.Get(ctx, userID, entities.HolderUser)
	if err != nil {
		v.logger.Error().Err(err).Str("user_id", userID).Msg("user lookup failed")
		return Result{Message: fmt.Sprintf("failed to get user: %v", err)}
	}
	if holder == nil {
		return Result{Message: fmt.Sprintf("user not found: %s", userID)}
	}
	user, ok := holder.(*entities.User)
	if !ok {
		return Result{Message: fmt.Sprintf("holder %s is not a user", userID)}
	}

	if v.superAdmin != "" && normalizeUsername(user.Username) == v.superAdmin {
		return Result{Allowed: true}
	}

	cacheKey := decisionKey(userID, method, apiPath)
	if v.cache != nil {
		if cached, found := v.cache.Get(ctx, cacheKey); found {
			if allowed, ok := cached.(bool); ok {
				return resultFor(allowed)
			}
		}
	}

	allowed := v.scanDirect(ctx, user.ResourcePermissionIDs, apiPath, method)

	if v.cache != nil {
		_ = v.cache.Set(ctx, cacheKey, allowed, v.cacheTTL)
	}
	return resultFor(allowed)
}

// scanDirect evaluates the user's directly assigned resource permissions
// concurrently. The first Allow-typed permission whose method and URL
// template match wins and cancels the sibling scans; the shared flag only
// ever transitions to true, so late-finishing siblings cannot overwrite the
// decision. A fetch fault or dangling permission ID counts as no match.
func (v *Validator) scanDirect(ctx context.Context, permissionIDs []string, apiPath string, method string) bool {
	if len(permissionIDs) == 0 {
		return false
	}

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var allowed atomic.Bool
	g, gctx := errgroup.WithContext(scanCtx)
	for _, id := range permissionIDs {
		id := id
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			perm, err := v.resourceRepo.GetByID(gctx, id)
			if err != nil {
				if gctx.Err() == nil {
					v.logger.Warn().Err(err).Str("permission_id", id).Msg("permission fetch failed during validation")
				}
				return nil
			}
			if perm == nil || perm.PermissionType != entities.PermissionAllow {
				return nil
			}
			if !strings.EqualFold(perm.NormalizedMethod, method) {
				return nil
			}
			if !SegmentsEqual(apiPath, perm.NormalizedURL) {
				return nil
			}
			allowed.Store(true)
			cancel()
			return nil
		})
	}
	_ = g.Wait()
	return allowed.Load()
}

func resultFor(allowed bool) Result {
	if allowed {
		return Result{Allowed: true}
	}
	return Result{Message: "access denied"}
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// decisionKey builds a short cache key from the validation parameters.
func decisionKey(userID, method, apiPath string) string {
	sum := sha256.Sum256([]byte(userID + ":" + method + ":" + apiPath))
	return hex.EncodeToString(sum[:])
}
