package messagetemplate

import (
	"github.com/smallbiznis/kolekta/internal/messagetemplate/repository"
	"github.com/smallbiznis/kolekta/internal/messagetemplate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("messagetemplate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
