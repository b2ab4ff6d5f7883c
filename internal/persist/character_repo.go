package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/l1jgo/simcore/internal/world"
)

// CharacterRepo implements world.PersistencePort's character methods
// against the trimmed characters table (position, vitals, rating — item
// and gold state are an external collaborator's concern, per the
// teacher's own repo split between character/item/warehouse tables).
type CharacterRepo struct {
	db *DB
}

func NewCharacterRepo(db *DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

func (r *CharacterRepo) LoadCharacter(ctx context.Context, characterID int64) (*world.CharacterSnapshot, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT character_id, account_name, name, zone_id, pos_x, pos_y, pos_z,
		       level, current_hp, max_hp, current_mp, max_mp, rating, matches_played, guild_id
		FROM characters WHERE character_id = $1`, characterID)

	var snap world.CharacterSnapshot
	err := row.Scan(
		&snap.CharacterID, &snap.AccountName, &snap.Name, &snap.ZoneID,
		&snap.X, &snap.Y, &snap.Z,
		&snap.Level, &snap.CurrentHP, &snap.MaxHP, &snap.CurrentMP, &snap.MaxMP,
		&snap.Rating, &snap.MatchesPlayed, &snap.GuildID,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("character %d not found", characterID)
	}
	if err != nil {
		return nil, fmt.Errorf("load character %d: %w", characterID, err)
	}
	return &snap, nil
}

func (r *CharacterRepo) SaveCharacter(ctx context.Context, snap world.CharacterSnapshot) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE characters SET
			zone_id = $2, pos_x = $3, pos_y = $4, pos_z = $5,
			level = $6, current_hp = $7, max_hp = $8, current_mp = $9, max_mp = $10,
			rating = $11, matches_played = $12, guild_id = $13, updated_at = now()
		WHERE character_id = $1`,
		snap.CharacterID, snap.ZoneID, snap.X, snap.Y, snap.Z,
		snap.Level, snap.CurrentHP, snap.MaxHP, snap.CurrentMP, snap.MaxMP,
		snap.Rating, snap.MatchesPlayed, snap.GuildID,
	)
	if err != nil {
		return fmt.Errorf("save character %d: %w", snap.CharacterID, err)
	}
	return nil
}

// CreateCharacter inserts a brand new character row at the default spawn
// rating and position, returning its assigned ID.
func (r *CharacterRepo) CreateCharacter(ctx context.Context, accountName, name string, zoneID int32, x, y, z float32) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO characters (account_name, name, zone_id, pos_x, pos_y, pos_z, level, current_hp, max_hp, current_mp, max_mp)
		VALUES ($1, $2, $3, $4, $5, $6, 1, 100, 100, 50, 50)
		RETURNING character_id`,
		accountName, name, zoneID, x, y, z,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create character %q: %w", name, err)
	}
	return id, nil
}

// LoadByName resolves a character ID by its unique display name, the path
// a session's first Authenticate command uses before it has an ID to load.
func (r *CharacterRepo) LoadByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx, `SELECT character_id FROM characters WHERE name = $1`, name).Scan(&id)
	if err == pgx.ErrNoRows {
		return 0, fmt.Errorf("character %q not found", name)
	}
	if err != nil {
		return 0, fmt.Errorf("lookup character %q: %w", name, err)
	}
	return id, nil
}
