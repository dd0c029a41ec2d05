package components

import (
	"clubops/internal/domain/payment"
	"clubops/internal/pkg/clock"
	"clubops/internal/usecase/commands"
	"clubops/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		payment.NewDefaultPricer,
		fx.As(new(payment.Pricer)),
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewSessionQueries,
		queries.NewInventoryQueries,
		queries.NewWaitlistQueries,
		queries.NewCheckoutQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewLaneCommands,
		commands.NewPaymentCommands,
		commands.NewAssignmentCommands,
		commands.NewWaitlistCommands,
		commands.NewCheckoutCommands,
	),
)
