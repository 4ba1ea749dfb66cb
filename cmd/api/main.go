package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/squareupapp/squareup-server/internal/auth"
	authStore "github.com/squareupapp/squareup-server/internal/auth/store"
	"github.com/squareupapp/squareup-server/internal/config"
	"github.com/squareupapp/squareup-server/internal/contribution"
	contributionStore "github.com/squareupapp/squareup-server/internal/contribution/store"
	"github.com/squareupapp/squareup-server/internal/database"
	"github.com/squareupapp/squareup-server/internal/email"
	"github.com/squareupapp/squareup-server/internal/friend"
	friendStore "github.com/squareupapp/squareup-server/internal/friend/store"
	"github.com/squareupapp/squareup-server/internal/group"
	groupStore "github.com/squareupapp/squareup-server/internal/group/store"
	squareupHttp "github.com/squareupapp/squareup-server/internal/http"
	authHandler "github.com/squareupapp/squareup-server/internal/http/auth"
	contributionsHandler "github.com/squareupapp/squareup-server/internal/http/contributions"
	friendsHandler "github.com/squareupapp/squareup-server/internal/http/friends"
	groupsHandler "github.com/squareupapp/squareup-server/internal/http/groups"
	"github.com/squareupapp/squareup-server/internal/http/middleware"
	usersHandler "github.com/squareupapp/squareup-server/internal/http/users"
	"github.com/squareupapp/squareup-server/internal/logging"
	"github.com/squareupapp/squareup-server/internal/user"
	userStore "github.com/squareupapp/squareup-server/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.IsDevelopment())

	if err := database.Migrate(cfg.ConnectionString()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var providers []email.Provider
	if cfg.Email.ResendKey != "" {
		providers = append(providers, email.NewResendProvider(cfg.Email.ResendKey, cfg.Email.From))
	}
	if cfg.Email.MailerSendKey != "" {
		providers = append(providers, email.NewMailerSendProvider(cfg.Email.MailerSendKey, cfg.Email.From, cfg.Email.FromName))
	}

	var (
		userService         = user.NewService(userStore.New(db))
		friendService       = friend.NewService(friendStore.New(db), userService)
		contributionService = contribution.NewService(contributionStore.New(db))
		groupService        = group.NewService(groupStore.New(db), userService, friendService, contributionService)
		jwtManager          = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		otpService          = auth.NewOTPService(authStore.New(db), userService, email.NewSender(providers...), cfg.Auth.OTPTTL)
	)

	var (
		authH          = authHandler.NewHandler(userService, jwtManager, otpService)
		usersH         = usersHandler.NewHandler(userService)
		friendsH       = friendsHandler.NewHandler(friendService, userService)
		groupsH        = groupsHandler.NewHandler(groupService, userService)
		contributionsH = contributionsHandler.NewHandler(contributionService, userService)
	)

	router := squareupHttp.New(
		authH,
		usersH,
		friendsH,
		groupsH,
		contributionsH,
		middleware.RequireAuth(jwtManager),
		middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "addr", server.Addr, "env", cfg.App.Env)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
