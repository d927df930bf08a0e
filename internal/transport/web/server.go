package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/config"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1/auth"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1/food"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1/health"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1/pantry"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1/shopping"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1/user"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, rep Repos, ad AuthDeps, cd CacheDeps, db health.Pinger, storage domain.BlobStorage) *Server {
	sub := func(name string) *log.Logger {
		return log.New(logger.Writer(), logger.Prefix()+"["+name+"] ", logger.Flags())
	}

	h := handlers{
		health: &health.Handler{Log: sub("health"), DB: db, Storage: storage, Cache: cd.Service},
		register: &auth.HandlerRegister{
			Log: sub("auth"), Users: rep.Users, Hasher: ad.Hasher, AdminToken: ad.AdminToken,
		},
		login:  &auth.HandlerLogin{Log: sub("auth"), Users: rep.Users, Hasher: ad.Hasher, Tokens: ad.Tokens},
		logout: &auth.HandlerLogout{Log: sub("auth"), Tokens: ad.Tokens, Blacklist: ad.Blacklist},
		foods: &food.Handler{
			Log: sub("foods"), Foods: rep.Foods, Storage: storage,
			Cache: cd.Service, EntityTTL: cd.EntityTTL,
		},
		pantry: &pantry.Handler{Log: sub("pantry"), Pantry: rep.Pantry},
		shopping: &shopping.Handler{
			Log: sub("shopping"), Shopping: rep.Shopping, Pantry: rep.Pantry, Invalidator: cd.Invalidator,
		},
		users: &user.Handler{
			Log: sub("users"), Users: rep.Users,
			Cache: cd.Service, Invalidator: cd.Invalidator, ProfileTTL: cd.EntityTTL,
		},
	}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(h, mw.AuthDeps{Tokens: ad.Tokens, Blacklist: ad.Blacklist}, cd, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
