package db

import (
	"context"
	"time"
)

const insertRankHistory = `INSERT INTO rank_history (
    id, puuid, match_id, tier, division, league_points, rank_value, recorded_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

type InsertRankHistoryParams struct {
	ID           string
	Puuid        string
	MatchID      string
	Tier         int64
	Division     int64
	LeaguePoints int64
	RankValue    int64
	RecordedAt   time.Time
}

func (q *Queries) InsertRankHistory(ctx context.Context, arg InsertRankHistoryParams) error {
	_, err := q.db.ExecContext(ctx, insertRankHistory,
		arg.ID,
		arg.Puuid,
		arg.MatchID,
		arg.Tier,
		arg.Division,
		arg.LeaguePoints,
		arg.RankValue,
		arg.RecordedAt,
	)
	return err
}

const getRankHistoryByPuuid = `SELECT id, puuid, match_id, tier, division, league_points, rank_value, recorded_at
FROM rank_history
WHERE puuid = ?
ORDER BY recorded_at DESC
LIMIT ?`

type GetRankHistoryByPuuidParams struct {
	Puuid string
	Limit int64
}

func (q *Queries) GetRankHistoryByPuuid(ctx context.Context, arg GetRankHistoryByPuuidParams) ([]RankHistory, error) {
	rows, err := q.db.QueryContext(ctx, getRankHistoryByPuuid, arg.Puuid, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RankHistory
	for rows.Next() {
		var i RankHistory
		if err := rows.Scan(
			&i.ID,
			&i.Puuid,
			&i.MatchID,
			&i.Tier,
			&i.Division,
			&i.LeaguePoints,
			&i.RankValue,
			&i.RecordedAt,
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
