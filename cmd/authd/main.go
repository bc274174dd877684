// Command authd serves the authentication API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/authcore/handler"
	"github.com/dmitrymomot/authcore/modules/account"
	"github.com/dmitrymomot/authcore/pkg/async"
	"github.com/dmitrymomot/authcore/pkg/auth"
	"github.com/dmitrymomot/authcore/pkg/auth/pgstore"
	"github.com/dmitrymomot/authcore/pkg/clientip"
	"github.com/dmitrymomot/authcore/pkg/config"
	"github.com/dmitrymomot/authcore/pkg/cookie"
	"github.com/dmitrymomot/authcore/pkg/device"
	"github.com/dmitrymomot/authcore/pkg/email"
	"github.com/dmitrymomot/authcore/pkg/environment"
	"github.com/dmitrymomot/authcore/pkg/geoip"
	"github.com/dmitrymomot/authcore/pkg/httpserver"
	"github.com/dmitrymomot/authcore/pkg/logger"
	"github.com/dmitrymomot/authcore/pkg/metrics"
	"github.com/dmitrymomot/authcore/pkg/pg"
	"github.com/dmitrymomot/authcore/pkg/ratelimiter"
	"github.com/dmitrymomot/authcore/pkg/redis"
	"github.com/dmitrymomot/authcore/pkg/requestid"
)

type appConfig struct {
	Env         string        `env:"APP_ENV" envDefault:"development"`
	TaskTimeout time.Duration `env:"BACKGROUND_TASK_TIMEOUT" envDefault:"30s"`

	Auth          auth.Config
	Confirmations auth.ConfirmationConfig
	Charges       auth.ChargeConfig
	Cookie        cookie.Config
	HTTP          httpserver.Config
	Postgres      pg.Config
	Redis         redis.Config
	RateLimit     ratelimiter.Config
	Email         email.Config
	GeoIP         geoip.Config
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	env := environment.Parse(cfg.Env)

	log := logger.New(
		logger.WithEnvironment(string(env), "authd"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg.Postgres, log); err != nil {
		return err
	}
	store := pgstore.New(pool)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	checks := map[string]httpserver.Check{"postgres": pg.Healthcheck(pool)}

	var limiterStore ratelimiter.Store
	if cfg.RateLimit.InMemory {
		mem := ratelimiter.NewMemoryStore()
		defer mem.Close()
		limiterStore = mem
	} else {
		rdb, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiterStore = ratelimiter.NewRedisStore(rdb)
		checks["redis"] = redis.Healthcheck(rdb)
	}
	bucket, err := ratelimiter.NewBucket(limiterStore, cfg.RateLimit)
	if err != nil {
		return err
	}
	charger := ratelimiter.NewCharger(bucket,
		ratelimiter.WithChargerLogger(log),
		ratelimiter.WithChargeHook(collector.RateLimitCharge),
	)

	sender, err := newEmailSender(cfg.Email, env, log)
	if err != nil {
		return err
	}

	providers, err := loadProviders(cfg.Auth.OAuthRedirectURI)
	if err != nil {
		return err
	}

	var cookieOpts []cookie.Option
	if !env.Deployed() {
		cookieOpts = append(cookieOpts, cookie.WithSecure(false))
	}
	cookies, err := cookie.NewFromConfig(cfg.Cookie, cookieOpts...)
	if err != nil {
		return err
	}

	tasks := async.NewGroup(async.WithLogger(log), async.WithTimeout(cfg.TaskTimeout))
	defer tasks.Wait()

	opts := []auth.Option{
		auth.WithLogger(log),
		auth.WithCharger(charger),
		auth.WithChargeConfig(cfg.Charges),
		auth.WithMetrics(collector),
		auth.WithNotifier(auth.NewEmailNotifier(sender, cfg.Auth.FrontendURL)),
		auth.WithHasher(auth.NewArgon2Hasher()),
		auth.WithTaskGroup(tasks),
	}
	sessions := auth.NewSessionManager(store, cfg.Auth.SessionValidity, opts...)
	transport := auth.NewCookieTransport(cookies, sessions, cfg.Auth, opts...)
	devices := device.NewResolver(
		device.WithLocator(geoip.New(cfg.GeoIP, geoip.WithLogger(log))),
		device.WithLogger(log),
	)

	accountOpts := []account.Option{
		account.WithLogger(log),
		account.WithCharger(charger, cfg.Charges),
	}
	api := account.Router(account.RouterOptions{
		Auth: account.NewAuthService(
			transport,
			sessions,
			auth.NewOAuthController(store, sessions, providers, opts...),
			auth.NewCredentialController(store, sessions, opts...),
			devices,
			accountOpts...,
		),
		User: account.NewUserService(
			transport,
			sessions,
			auth.NewAccountService(store, opts...),
			auth.NewConfirmationEngine(store, cfg.Confirmations, opts...),
			accountOpts...,
		),
	})

	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware)
	r.Get("/healthz", httpserver.HealthHandler(log, checks))
	r.Handle("/metrics", metrics.Handler(reg))
	r.Group(func(r chi.Router) {
		r.Use(
			collector.Middleware,
			ratelimiter.Middleware(bucket, ratelimiter.ClientIPKey,
				ratelimiter.WithLimitHandler(rateLimited),
				ratelimiter.WithMiddlewareLogger(log),
			),
			transport.Authenticate,
		)
		r.Mount("/", api)
	})

	log.InfoContext(ctx, "starting authd",
		slog.Any("providers", providers.Names()),
		slog.String("addr", cfg.HTTP.Addr),
	)
	return httpserver.New(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, r)
}

// loadProviders registers every OAuth provider whose credentials are set,
// each read from its own prefix (GITHUB_ID, GITHUB_SECRET and so on).
func loadProviders(redirectBase string) (*auth.ProviderRegistry, error) {
	constructors := []struct {
		prefix string
		build  func(auth.ProviderConfig, string, ...auth.ProviderOption) auth.ProviderClient
	}{
		{"GITHUB_", auth.NewGitHubClient},
		{"GITLAB_", auth.NewGitLabClient},
		{"DISCORD_", auth.NewDiscordClient},
		{"GOOGLE_", auth.NewGoogleClient},
	}

	var clients []auth.ProviderClient
	for _, c := range constructors {
		var pc auth.ProviderConfig
		if err := config.LoadWithPrefix(&pc, c.prefix); err != nil {
			return nil, err
		}
		if pc.Enabled() {
			clients = append(clients, c.build(pc, redirectBase))
		}
	}
	if len(clients) == 0 {
		return nil, errors.New("no oauth provider configured")
	}
	return auth.NewProviderRegistry(clients...), nil
}

// newEmailSender uses Postmark when a server token is set. Outside deployed
// environments it falls back to writing emails to disk.
func newEmailSender(cfg email.Config, env environment.Environment, log *slog.Logger) (email.EmailSender, error) {
	if cfg.PostmarkServerToken == "" && !env.Deployed() {
		return email.NewDevSender(cfg.DevOutputDir, log), nil
	}
	return email.NewPostmarkClient(cfg)
}

func rateLimited(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result) {
	_ = handler.JSONError(http.StatusTooManyRequests, auth.MsgRateLimited).Render(w, r)
}
