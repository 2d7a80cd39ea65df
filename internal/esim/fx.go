package esim

import (
	"github.com/smallbiznis/telesim/internal/esim/repository"
	"github.com/smallbiznis/telesim/internal/esim/service"
	"go.uber.org/fx"
)

var Module = fx.Module("esim.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
