package components

import (
	"marketplace-core/internal/pkg/clock"
	"marketplace-core/internal/pkg/config"
	"marketplace-core/internal/usecase"
	"marketplace-core/internal/usecase/commands"
	"marketplace-core/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.OrderConfig { return cfg.Order },
	func(cfg config.Config) config.SchedulerConfig { return cfg.Scheduler },
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewItemCommands,
		commands.NewCartCommands,
		commands.NewCheckoutCommands,
		commands.NewOrderCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewItemQueries,
		queries.NewCartQueries,
		queries.NewOrderQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
