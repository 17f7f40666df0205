package db

import (
	"context"
	"time"
)

const playerColumns = `puuid, game_name, tag_line, main_role, main_champions, peak_elo, tier, division, league_points, created_at, updated_at`

func scanPlayer(row interface{ Scan(...interface{}) error }) (Player, error) {
	var i Player
	err := row.Scan(
		&i.Puuid,
		&i.GameName,
		&i.TagLine,
		&i.MainRole,
		&i.MainChampions,
		&i.PeakElo,
		&i.Tier,
		&i.Division,
		&i.LeaguePoints,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getPlayerByPuuid = `SELECT ` + playerColumns + ` FROM players WHERE puuid = ?`

func (q *Queries) GetPlayerByPuuid(ctx context.Context, puuid string) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayerByPuuid, puuid))
}

const getPlayerByRiotID = `SELECT ` + playerColumns + ` FROM players
WHERE game_name = ? COLLATE NOCASE AND tag_line = ? COLLATE NOCASE`

type GetPlayerByRiotIDParams struct {
	GameName string
	TagLine  string
}

func (q *Queries) GetPlayerByRiotID(ctx context.Context, arg GetPlayerByRiotIDParams) (Player, error) {
	return scanPlayer(q.db.QueryRowContext(ctx, getPlayerByRiotID, arg.GameName, arg.TagLine))
}

const listPlayers = `SELECT ` + playerColumns + ` FROM players ORDER BY game_name, tag_line`

func (q *Queries) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		i, err := scanPlayer(rows)
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

const upsertPlayer = `INSERT INTO players (` + playerColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (puuid) DO UPDATE SET
    game_name = excluded.game_name,
    tag_line = excluded.tag_line,
    main_role = excluded.main_role,
    main_champions = excluded.main_champions,
    peak_elo = excluded.peak_elo,
    tier = excluded.tier,
    division = excluded.division,
    league_points = excluded.league_points,
    updated_at = excluded.updated_at`

type UpsertPlayerParams struct {
	Puuid         string
	GameName      string
	TagLine       string
	MainRole      string
	MainChampions string
	PeakElo       string
	Tier          int64
	Division      int64
	LeaguePoints  int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q *Queries) UpsertPlayer(ctx context.Context, arg UpsertPlayerParams) error {
	_, err := q.db.ExecContext(ctx, upsertPlayer,
		arg.Puuid,
		arg.GameName,
		arg.TagLine,
		arg.MainRole,
		arg.MainChampions,
		arg.PeakElo,
		arg.Tier,
		arg.Division,
		arg.LeaguePoints,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const updatePlayerRank = `UPDATE players
SET tier = ?, division = ?, league_points = ?, updated_at = ?
WHERE puuid = ?`

type UpdatePlayerRankParams struct {
	Tier         int64
	Division     int64
	LeaguePoints int64
	UpdatedAt    time.Time
	Puuid        string
}

func (q *Queries) UpdatePlayerRank(ctx context.Context, arg UpdatePlayerRankParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePlayerRank,
		arg.Tier,
		arg.Division,
		arg.LeaguePoints,
		arg.UpdatedAt,
		arg.Puuid,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updatePlayerPeak = `UPDATE players SET peak_elo = ?, updated_at = ? WHERE puuid = ?`

type UpdatePlayerPeakParams struct {
	PeakElo   string
	UpdatedAt time.Time
	Puuid     string
}

func (q *Queries) UpdatePlayerPeak(ctx context.Context, arg UpdatePlayerPeakParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePlayerPeak, arg.PeakElo, arg.UpdatedAt, arg.Puuid)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
