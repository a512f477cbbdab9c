package updates

import "go.uber.org/fx"

// Module provides the release checker to the application graph.
var Module = fx.Module("updates",
	fx.Provide(NewChecker),
)
