package repository

import (
	"context"
	"fmt"

	"github.com/ishita-lives/schedulr/internal/model"
	"github.com/ishita-lives/schedulr/internal/repository/base"
)

// PgAccountRepository maps Telegram users to scheduler actors.
type PgAccountRepository struct {
	*base.Repository
}

func NewAccountRepository(q Querier) *PgAccountRepository {
	return &PgAccountRepository{Repository: base.NewRepository(q)}
}

// GetByTelegramID returns nil when the Telegram user has no account.
func (r *PgAccountRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Account, error) {
	query := `
		SELECT telegram_id, display_name, role, actor_id
		FROM accounts
		WHERE telegram_id = $1
	`

	var acc model.Account
	err := r.QueryRow(ctx, query, telegramID).Scan(
		&acc.TelegramID,
		&acc.DisplayName,
		&acc.Role,
		&acc.ActorID,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by telegram id: %w", err)
	}

	return &acc, nil
}
