package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/fedpoffa/cbt-api/model"
	"github.com/fedpoffa/cbt-api/utils/auth"
)

// PruneTokenBlacklist removes revocation entries whose tokens have
// expired on their own
func (m *CronManager) PruneTokenBlacklist() {
	blacklist := auth.NewBlacklistService(m.db)

	if err := blacklist.CleanupExpiredTokens(context.Background()); err != nil {
		m.logJobError("prune_token_blacklist", err)
		return
	}

	m.logJobComplete("prune_token_blacklist", "expired blacklist entries removed")
}

// CleanupPasswordResetTokens removes reset tokens past their expiry
func (m *CronManager) CleanupPasswordResetTokens() {
	result := m.db.Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&model.PasswordResetToken{})

	if result.Error != nil {
		m.logJobError("cleanup_password_reset_tokens", result.Error)
		return
	}

	m.logJobComplete("cleanup_password_reset_tokens",
		fmt.Sprintf("removed %d expired reset tokens", result.RowsAffected))
}

// CleanupVerificationTokens removes email verification tokens past their expiry
func (m *CronManager) CleanupVerificationTokens() {
	result := m.db.Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&model.EmailVerificationToken{})

	if result.Error != nil {
		m.logJobError("cleanup_verification_tokens", result.Error)
		return
	}

	m.logJobComplete("cleanup_verification_tokens",
		fmt.Sprintf("removed %d expired verification tokens", result.RowsAffected))
}

// TrimCronLogs deletes job log rows older than 30 days
func (m *CronManager) TrimCronLogs() {
	cutoff := time.Now().AddDate(0, 0, -30)
	result := m.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&model.CronJobLog{})

	if result.Error != nil {
		m.logJobError("trim_cron_logs", result.Error)
		return
	}

	m.logJobComplete("trim_cron_logs",
		fmt.Sprintf("removed %d old job logs", result.RowsAffected))
}
