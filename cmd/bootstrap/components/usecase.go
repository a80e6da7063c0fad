package components

import (
	"tutorhive/internal/pkg/clock"
	"tutorhive/internal/usecase"
	"tutorhive/internal/usecase/commands"
	"tutorhive/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		usecase.NewTokenValidator,
		commands.NewAuthCommands,
		commands.NewSlotUseCase,
		queries.NewSlotQueries,
		queries.NewTutorQueries,
	),
)
