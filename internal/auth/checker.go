package auth

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// AdminLookup reports whether a user is registered as an admin in storage.
type AdminLookup interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// AdminChecker decides whether a user may operate the bot.
// Users from the static allow-list are admins without any I/O; everyone else is looked up in the repository.
type AdminChecker struct {
	static map[int64]struct{}
	repo   AdminLookup
}

// NewAdminChecker creates a new AdminChecker. repo may be nil, in which case only the static list is consulted.
func NewAdminChecker(staticIDs []int64, repo AdminLookup) *AdminChecker {
	static := make(map[int64]struct{}, len(staticIDs))
	for _, id := range staticIDs {
		static[id] = struct{}{}
	}
	return &AdminChecker{static: static, repo: repo}
}

// IsAdmin checks the static allow-list first and falls back to the repository.
func (ac *AdminChecker) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	if _, ok := ac.static[userID]; ok {
		return true, nil
	}
	if ac.repo == nil {
		return false, nil
	}
	ok, err := ac.repo.IsAdmin(ctx, userID)
	if err != nil {
		return false, errors.Wrapf(err, "failed to look up admin %d", userID)
	}
	return ok, nil
}

// Resolve computes the capability of a user. A lookup failure is logged and yields a non-admin capability.
func (ac *AdminChecker) Resolve(ctx context.Context, userID int64) Capability {
	admin, err := ac.IsAdmin(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("admin check failed, assuming non-admin")
	}
	return Capability{UserID: userID, Admin: admin}
}
