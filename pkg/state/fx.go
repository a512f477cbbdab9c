package state

import "go.uber.org/fx"

// Module provides the state store to the application graph.
var Module = fx.Module("state",
	fx.Provide(NewStore),
)
