package components

import (
	"tutorhive/internal/infra/cache"
	"tutorhive/internal/infra/db"
	"tutorhive/internal/infra/readstore"
	"tutorhive/internal/infra/uow"
	"tutorhive/internal/pkg/config"
	"tutorhive/internal/usecase/queries"
	"tutorhive/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		NewUnitOfWork,
		fx.Annotate(
			readstore.NewSlotReadStore,
			fx.As(new(queries.SlotReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		readstore.NewTutorDirectory,
		NewTutorDirectory,
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewUnitOfWork(pool *pgxpool.Pool, cfg config.Config) shared.UnitOfWork {
	return uow.NewPostgresUoW(pool, cfg.DB)
}

// NewTutorDirectory layers the Redis cache over the database-backed
// directory; with no Redis configured the decorator passes through.
func NewTutorDirectory(client *redis.Client, base *readstore.TutorDirectory, cfg config.Config) queries.TutorDirectory {
	return cache.NewCachedTutorDirectory(client, base, cfg.Redis)
}
