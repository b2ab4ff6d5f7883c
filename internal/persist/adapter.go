package persist

import "github.com/l1jgo/simcore/internal/world"

// Adapter composes CharacterRepo and GuildRepo into the single
// world.PersistencePort the simulation core is handed at boot. The core
// only ever sees the interface — composition root (cmd/simcore) is the
// only place that imports this package.
type Adapter struct {
	*CharacterRepo
	*GuildRepo
}

func NewAdapter(db *DB) *Adapter {
	return &Adapter{
		CharacterRepo: NewCharacterRepo(db),
		GuildRepo:     NewGuildRepo(db),
	}
}

var _ world.PersistencePort = (*Adapter)(nil)
