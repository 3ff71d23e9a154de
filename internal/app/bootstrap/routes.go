// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	announcementsfeature "github.com/morteam/server/internal/app/features/announcements"
	chatsfeature "github.com/morteam/server/internal/app/features/chats"
	eventsfeature "github.com/morteam/server/internal/app/features/events"
	groupsfeature "github.com/morteam/server/internal/app/features/groups"
	healthfeature "github.com/morteam/server/internal/app/features/health"
	loginfeature "github.com/morteam/server/internal/app/features/login"
	"github.com/morteam/server/internal/app/system/auth"
	"github.com/morteam/server/internal/app/system/mailer"
	"github.com/morteam/server/internal/app/system/notify"
	"github.com/morteam/server/internal/app/system/push"
	"github.com/morteam/server/internal/app/system/socket"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connection, schema setup,
// and Startup have completed. The notification dispatcher and socket
// hub are built here and retained for Shutdown.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)

	hub := socket.NewHub(logger)
	dispatcher := notify.NewDispatcher(
		mailer.New(mailer.Config{
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			User:     appCfg.MailSMTPUser,
			Pass:     appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
			FromName: appCfg.MailFromName,
		}, logger),
		push.New(push.Config{
			Endpoint:  appCfg.PushEndpoint,
			ServerKey: appCfg.PushServerKey,
		}, logger),
		hub,
		logger,
	)
	dispatcher.Start()
	runtimeState.dispatcher = dispatcher

	db := deps.MongoDatabase
	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged
	// in, making auth.CurrentUser(r) work everywhere below.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	// Authentication
	r.Mount("/", loginfeature.Routes(loginfeature.NewHandler(db, sessionMgr, logger)))

	// Realtime socket; upgraded connections receive frames the
	// dispatcher fans out through the hub.
	r.Get("/ws", socket.ServeWS(hub, logger))

	// Feature routers
	r.Mount("/announcements", announcementsfeature.Routes(announcementsfeature.NewHandler(db, dispatcher, logger)))
	r.Mount("/chats", chatsfeature.Routes(chatsfeature.NewHandler(db, dispatcher, logger)))
	r.Mount("/events", eventsfeature.Routes(eventsfeature.NewHandler(db, dispatcher, logger)))
	r.Mount("/groups", groupsfeature.Routes(groupsfeature.NewHandler(db, logger)))

	return r, nil
}
