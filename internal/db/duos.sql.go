package db

import (
	"context"
	"time"
)

const duoColumns = `id, name, noob_puuid, carry_puuid, total_points, noob_streak, carry_streak, games_played, wins, losses, last_match_id, created_at, updated_at`

func scanDuo(row interface{ Scan(...interface{}) error }) (Duo, error) {
	var i Duo
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.NoobPuuid,
		&i.CarryPuuid,
		&i.TotalPoints,
		&i.NoobStreak,
		&i.CarryStreak,
		&i.GamesPlayed,
		&i.Wins,
		&i.Losses,
		&i.LastMatchID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createDuo = `INSERT INTO duos (id, name, noob_puuid, carry_puuid, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`

type CreateDuoParams struct {
	ID         string
	Name       string
	NoobPuuid  string
	CarryPuuid string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) CreateDuo(ctx context.Context, arg CreateDuoParams) error {
	_, err := q.db.ExecContext(ctx, createDuo,
		arg.ID,
		arg.Name,
		arg.NoobPuuid,
		arg.CarryPuuid,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const getDuo = `SELECT ` + duoColumns + ` FROM duos WHERE id = ?`

func (q *Queries) GetDuo(ctx context.Context, id string) (Duo, error) {
	return scanDuo(q.db.QueryRowContext(ctx, getDuo, id))
}

const listDuos = `SELECT ` + duoColumns + ` FROM duos
ORDER BY total_points DESC, games_played ASC, name ASC
LIMIT ?`

// ListDuos returns the ladder standings. A negative limit returns every duo.
func (q *Queries) ListDuos(ctx context.Context, limit int64) ([]Duo, error) {
	rows, err := q.db.QueryContext(ctx, listDuos, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Duo
	for rows.Next() {
		i, err := scanDuo(rows)
		if err != nil {
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

const updateDuoStats = `UPDATE duos SET
    total_points = ?,
    noob_streak = ?,
    carry_streak = ?,
    games_played = ?,
    wins = ?,
    losses = ?,
    last_match_id = ?,
    updated_at = ?
WHERE id = ?`

type UpdateDuoStatsParams struct {
	TotalPoints int64
	NoobStreak  int64
	CarryStreak int64
	GamesPlayed int64
	Wins        int64
	Losses      int64
	LastMatchID string
	UpdatedAt   time.Time
	ID          string
}

func (q *Queries) UpdateDuoStats(ctx context.Context, arg UpdateDuoStatsParams) error {
	_, err := q.db.ExecContext(ctx, updateDuoStats,
		arg.TotalPoints,
		arg.NoobStreak,
		arg.CarryStreak,
		arg.GamesPlayed,
		arg.Wins,
		arg.Losses,
		arg.LastMatchID,
		arg.UpdatedAt,
		arg.ID,
	)
	return err
}
