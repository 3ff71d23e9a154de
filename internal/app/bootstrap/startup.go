// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/morteam/server/internal/app/system/notify"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// runtimeState holds process-lifetime objects created in BuildHandler
// that Shutdown must tear down.
var runtimeState struct {
	dispatcher *notify.Dispatcher
}

// Startup runs one-time application initialization after DB connection
// and schema setup, before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("morteam starting",
		zap.String("env", coreCfg.Env),
		zap.String("database", appCfg.MongoDatabase))
	return nil
}
