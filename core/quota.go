package core

import (
	"context"
	"errors"
	"fmt"

	"cityfix-be/models"
)

// FreeIssueLimit is the number of issues a non-premium citizen may file.
const FreeIssueLimit = 3

// QuotaPolicy decides whether a citizen may file a new issue. It only
// reads; the caller performs the actual insert after an allow.
type QuotaPolicy struct {
	users  UserStore
	issues IssueStore
	limit  int64
}

func NewQuotaPolicy(users UserStore, issues IssueStore) *QuotaPolicy {
	return &QuotaPolicy{users: users, issues: issues, limit: FreeIssueLimit}
}

// CanFile returns nil when email may file another issue, ErrBlocked for a
// blocked user and ErrQuotaExceeded when a free-tier user is at the cap.
// A user record that does not exist yet counts as a fresh citizen.
func (p *QuotaPolicy) CanFile(ctx context.Context, email string) error {
	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("load user %s: %w", email, err)
		}
		user = models.User{Email: email, Role: models.RoleCitizen}
	}

	if user.IsBlocked {
		return ErrBlocked
	}
	if user.IsPremium {
		return nil
	}

	count, err := p.issues.CountByReporter(ctx, email)
	if err != nil {
		return fmt.Errorf("count issues for %s: %w", email, err)
	}
	if count >= p.limit {
		return ErrQuotaExceeded
	}
	return nil
}
