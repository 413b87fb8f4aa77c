package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/drumbeatlabs/creatormatch/internal/scoring"
)

// SQLiteSource backs the catalog with a local SQLite database (spec §6:
// "Implementers may back this with a document store, a static file, or an
// HTTP endpoint"). Niche/value/tone sets are stored as JSON text columns.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLiteSource opens (or creates) the creators table at path.
func OpenSQLiteSource(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open sqlite: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS creators (
	id TEXT PRIMARY KEY,
	nickname TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	follower_count INTEGER NOT NULL DEFAULT 0,
	heart_count INTEGER NOT NULL DEFAULT 0,
	region TEXT NOT NULL DEFAULT '',
	primary_niches TEXT NOT NULL DEFAULT '[]',
	secondary_niches TEXT NOT NULL DEFAULT '[]',
	apparent_values TEXT NOT NULL DEFAULT '[]',
	audience_interests TEXT NOT NULL DEFAULT '[]',
	engagement_tone TEXT NOT NULL DEFAULT '[]',
	summary TEXT NOT NULL DEFAULT ''
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: create schema: %w", err)
	}

	return &SQLiteSource{db: db}, nil
}

// UpsertCreator writes one catalog entry, used by seeding tooling external
// to this package.
func (s *SQLiteSource) UpsertCreator(ctx context.Context, c scoring.Creator) error {
	primary, _ := json.Marshal(c.Analysis.PrimaryNiches)
	secondary, _ := json.Marshal(c.Analysis.SecondaryNiches)
	values, _ := json.Marshal(c.Analysis.ApparentValues)
	interests, _ := json.Marshal(c.Analysis.AudienceInterests)
	tone, _ := json.Marshal(c.Analysis.EngagementStyle.Tone)

	_, err := s.db.ExecContext(ctx, `
INSERT INTO creators (id, nickname, bio, follower_count, heart_count, region,
	primary_niches, secondary_niches, apparent_values, audience_interests, engagement_tone, summary)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	nickname=excluded.nickname, bio=excluded.bio, follower_count=excluded.follower_count,
	heart_count=excluded.heart_count, region=excluded.region, primary_niches=excluded.primary_niches,
	secondary_niches=excluded.secondary_niches, apparent_values=excluded.apparent_values,
	audience_interests=excluded.audience_interests, engagement_tone=excluded.engagement_tone,
	summary=excluded.summary`,
		c.ID, c.Nickname, c.Bio, c.FollowerCount, c.HeartCount, c.Region,
		string(primary), string(secondary), string(values), string(interests), string(tone), c.Analysis.Summary)
	return err
}

// ListAll implements Source.
func (s *SQLiteSource) ListAll(ctx context.Context) ([]scoring.Creator, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, nickname, bio, follower_count, heart_count, region,
	primary_niches, secondary_niches, apparent_values, audience_interests, engagement_tone, summary
FROM creators`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list creators: %w", err)
	}
	defer rows.Close()

	var out []scoring.Creator
	for rows.Next() {
		var (
			c                                                            scoring.Creator
			primary, secondary, values, interests, tone                  string
		)
		if err := rows.Scan(&c.ID, &c.Nickname, &c.Bio, &c.FollowerCount, &c.HeartCount, &c.Region,
			&primary, &secondary, &values, &interests, &tone, &c.Analysis.Summary); err != nil {
			return nil, fmt.Errorf("catalog: scan creator row: %w", err)
		}

		_ = json.Unmarshal([]byte(primary), &c.Analysis.PrimaryNiches)
		_ = json.Unmarshal([]byte(secondary), &c.Analysis.SecondaryNiches)
		_ = json.Unmarshal([]byte(values), &c.Analysis.ApparentValues)
		_ = json.Unmarshal([]byte(interests), &c.Analysis.AudienceInterests)
		_ = json.Unmarshal([]byte(tone), &c.Analysis.EngagementStyle.Tone)

		out = append(out, c)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}
