package persist

import (
	"context"
	"fmt"

	"github.com/l1jgo/simcore/internal/world"
)

// GuildRepo implements world.PersistencePort's guild/rating methods.
// Roster membership (who belongs to a guild) is an external collaborator's
// concern; the simulation core only persists what it computes itself —
// each guild's war-eligibility rating.
type GuildRepo struct {
	db *DB
}

func NewGuildRepo(db *DB) *GuildRepo {
	return &GuildRepo{db: db}
}

func (r *GuildRepo) LoadGuilds(ctx context.Context) ([]world.GuildRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT guild_id, name, rating FROM guilds`)
	if err != nil {
		return nil, fmt.Errorf("load guilds: %w", err)
	}
	defer rows.Close()

	var out []world.GuildRecord
	for rows.Next() {
		var rec world.GuildRecord
		if err := rows.Scan(&rec.GuildID, &rec.Name, &rec.Rating); err != nil {
			return nil, fmt.Errorf("scan guild row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *GuildRepo) SaveGuildRating(ctx context.Context, guildID string, rating int32) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE guilds SET rating = $2, updated_at = now() WHERE guild_id = $1`,
		guildID, rating,
	)
	if err != nil {
		return fmt.Errorf("save guild rating %s: %w", guildID, err)
	}
	return nil
}

// CreateGuild inserts a new guild at the default season rating.
func (r *GuildRepo) CreateGuild(ctx context.Context, guildID, name string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO guilds (guild_id, name, rating) VALUES ($1, $2, 1000)`,
		guildID, name,
	)
	if err != nil {
		return fmt.Errorf("create guild %q: %w", name, err)
	}
	return nil
}
