package communication

import (
	"github.com/smallbiznis/kolekta/internal/communication/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("communication.service",
	fx.Provide(repository.Provide),
)
