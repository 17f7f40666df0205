package db

import (
	"context"
	"time"
)

const insertGame = `INSERT INTO games (
    id, duo_id, match_id, win, duration_seconds, points, remake_or_early,
    noob_final, carry_final, breakdown, played_at, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type InsertGameParams struct {
	ID              string
	DuoID           string
	MatchID         string
	Win             bool
	DurationSeconds int64
	Points          int64
	RemakeOrEarly   bool
	NoobFinal       int64
	CarryFinal      int64
	Breakdown       []byte
	PlayedAt        time.Time
	CreatedAt       time.Time
}

func (q *Queries) InsertGame(ctx context.Context, arg InsertGameParams) error {
	_, err := q.db.ExecContext(ctx, insertGame,
		arg.ID,
		arg.DuoID,
		arg.MatchID,
		arg.Win,
		arg.DurationSeconds,
		arg.Points,
		arg.RemakeOrEarly,
		arg.NoobFinal,
		arg.CarryFinal,
		arg.Breakdown,
		arg.PlayedAt,
		arg.CreatedAt,
	)
	return err
}

const gameExists = `SELECT EXISTS (SELECT 1 FROM games WHERE duo_id = ? AND match_id = ?)`

type GameExistsParams struct {
	DuoID   string
	MatchID string
}

func (q *Queries) GameExists(ctx context.Context, arg GameExistsParams) (bool, error) {
	row := q.db.QueryRowContext(ctx, gameExists, arg.DuoID, arg.MatchID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listGamesByDuo = `SELECT id, duo_id, match_id, win, duration_seconds, points, remake_or_early,
    noob_final, carry_final, breakdown, played_at, created_at
FROM games
WHERE duo_id = ?
ORDER BY played_at DESC, created_at DESC
LIMIT ?`

type ListGamesByDuoParams struct {
	DuoID string
	Limit int64
}

func (q *Queries) ListGamesByDuo(ctx context.Context, arg ListGamesByDuoParams) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx, listGamesByDuo, arg.DuoID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Game
	for rows.Next() {
		var i Game
		if err := rows.Scan(
			&i.ID,
			&i.DuoID,
			&i.MatchID,
			&i.Win,
			&i.DurationSeconds,
			&i.Points,
			&i.RemakeOrEarly,
			&i.NoobFinal,
			&i.CarryFinal,
			&i.Breakdown,
			&i.PlayedAt,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
