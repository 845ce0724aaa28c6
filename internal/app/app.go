package app

import (
	"github.com/carousell/ct-go/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/portalbase/portal-api/internal/config"
	"github.com/portalbase/portal-api/internal/kafka"
	"github.com/portalbase/portal-api/internal/mailer"
	"github.com/portalbase/portal-api/internal/notify"
	"github.com/portalbase/portal-api/internal/repo/mongodb"
	"github.com/portalbase/portal-api/internal/server"
	"github.com/portalbase/portal-api/internal/usecase"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,
			newTransactor,
			newOtpNotifier,
			newConsumer,

			mailer.New,
			notify.NewDispatcher,

			server.NewAuthController,
			server.NewAccountController,
			server.NewHealthController,

			usecase.NewSessionUsecase,
			usecase.NewProfileResolver,
			usecase.NewAuthUsecase,
			usecase.NewAccountUsecase,
			usecase.NewMergeUsecase,

			mongodb.NewUserRepository,
			mongodb.NewTenantRepository,
			mongodb.NewClientRepository,
			mongodb.NewOtpRepository,
			mongodb.NewTenantClientMappingRepository,
			mongodb.NewUserProfileMappingRepository,
			mongodb.NewProjectRepository,
			mongodb.NewEmailTemplateRepository,
			mongodb.NewNotificationLogRepository,
		),
		fx.Supply(conf),
		fx.Invoke(EnsureIndexes),
		fx.Invoke(funcs...),
	)
}

func newTransactor(db *mongodb.DB) usecase.Transactor {
	return db
}

func newOtpNotifier(d *notify.Dispatcher) usecase.OtpNotifier {
	return d
}

func newConsumer(conf *config.Config, d *notify.Dispatcher) (kafka.Consumer, error) {
	return kafka.NewConsumer(conf.Kafka, d)
}
