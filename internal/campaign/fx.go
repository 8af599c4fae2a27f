package campaign

import (
	"github.com/smallbiznis/kolekta/internal/campaign/service"
	"go.uber.org/fx"
)

var Module = fx.Module("campaign.service",
	fx.Provide(service.NewService),
)
