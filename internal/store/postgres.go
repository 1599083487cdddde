package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carlelieser/avatarmon/internal/models"
)

// PostgresPersister stores each user's state as a JSONB row keyed by
// user id. The schema is managed by the database package's migrator.
type PostgresPersister struct {
	db *sql.DB
}

func NewPostgresPersister(db *sql.DB) *PostgresPersister {
	return &PostgresPersister{db: db}
}

func (p *PostgresPersister) Load(userID string) (models.UserState, bool, error) {
	var data []byte
	err := p.db.QueryRow(
		"SELECT state FROM avatar_user_state WHERE user_id = $1",
		userID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserState{}, false, nil
	}
	if err != nil {
		return models.UserState{}, false, fmt.Errorf("querying user state: %w", err)
	}
	var state models.UserState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.UserState{}, false, fmt.Errorf("decoding user state: %w", err)
	}
	return state, true, nil
}

func (p *PostgresPersister) Save(userID string, state models.UserState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding user state: %w", err)
	}
	_, err = p.db.Exec(`
		INSERT INTO avatar_user_state (user_id, state, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET state = $2, updated_at = NOW()
	`, userID, data)
	if err != nil {
		return fmt.Errorf("upserting user state: %w", err)
	}
	return nil
}
