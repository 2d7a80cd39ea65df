package syncjob

import (
	"github.com/smallbiznis/telesim/internal/syncjob/repository"
	"github.com/smallbiznis/telesim/internal/syncjob/service"
	"go.uber.org/fx"
)

var Module = fx.Module("syncjob.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
