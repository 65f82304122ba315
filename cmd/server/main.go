package main

//	@title			TaskDeck API
//	@version		1.0
//	@description	Role-based project management API.
//	@schemes		http https
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token (e.g., "Bearer eyJhbGciOi...")

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/taskdeck-io/taskdeck/internal/bootstrap"
	"github.com/taskdeck-io/taskdeck/internal/config"
	"github.com/taskdeck-io/taskdeck/internal/infra/mq"
	"github.com/taskdeck-io/taskdeck/internal/modules/handler"
	"github.com/taskdeck-io/taskdeck/internal/modules/repo"
	"github.com/taskdeck-io/taskdeck/internal/pkg/auth"
	"github.com/taskdeck-io/taskdeck/internal/router"
)

func main() {
	// build dependency injection container
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)

	// init gin
	gin.SetMode(cfg.App.Env)

	engine := router.NewRouter(router.RouterDeps{
		Log:      log,
		Tokens:   do.MustInvoke[*auth.TokenService](inj),
		Accounts: do.MustInvoke[repo.AccountRepo](inj),

		AuthHandler:         do.MustInvoke[*handler.AuthHandler](inj),
		ProjectHandler:      do.MustInvoke[*handler.ProjectHandler](inj),
		TaskHandler:         do.MustInvoke[*handler.TaskHandler](inj),
		DocumentHandler:     do.MustInvoke[*handler.DocumentHandler](inj),
		CommentHandler:      do.MustInvoke[*handler.CommentHandler](inj),
		TimelineHandler:     do.MustInvoke[*handler.TimelineHandler](inj),
		NotificationHandler: do.MustInvoke[*handler.NotificationHandler](inj),
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	srv := &http.Server{Addr: addr, Handler: engine}

	go func() {
		log.Sugar().Infow("starting http server", "addr", addr)
		log.Sugar().Infow("swagger url", "url", addr+"/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Sugar().Fatalw("listen error", "err", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Sugar().Errorw("server shutdown", "err", err)
	}
	if pub, err := do.Invoke[*mq.Publisher](inj); err == nil {
		_ = pub.Close()
	}
	log.Sugar().Info("server exited")
}
