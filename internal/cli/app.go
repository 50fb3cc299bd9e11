package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-redis/redis/v8"

	"github.com/swipesavvy/location-tracking-go/internal/backend"
	"github.com/swipesavvy/location-tracking-go/internal/config"
	"github.com/swipesavvy/location-tracking-go/internal/location"
	"github.com/swipesavvy/location-tracking-go/internal/repository"
	"github.com/swipesavvy/location-tracking-go/internal/service"
	"github.com/swipesavvy/location-tracking-go/internal/store"
	"github.com/swipesavvy/location-tracking-go/pkg/logger"
)

// defaultRoute is the loop the replay provider walks when no real platform
// capability is available. Roughly a city-block circuit; at walking speed it
// clears the 50 meter distance threshold every normal-frequency interval.
var defaultRoute = []location.Coordinates{
	{Latitude: 30.2672, Longitude: -97.7431, Accuracy: 15},
	{Latitude: 30.2690, Longitude: -97.7431, Accuracy: 15},
	{Latitude: 30.2690, Longitude: -97.7410, Accuracy: 15},
	{Latitude: 30.2672, Longitude: -97.7410, Accuracy: 15},
}

const defaultSpeedMPS = 1.4

// app holds the wired agent components shared by the CLI commands.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      store.Store
	queue      *repository.QueueRepository
	prefs      *repository.PreferenceRepository
	identity   *repository.IdentityRepository
	registry   *location.Registry
	provider   *location.ReplayProvider
	svc        *service.Service
	controller *service.Controller
	client     backend.Client
	close      func()
}

// newApp loads configuration and wires the full component graph.
func newApp() (*app, error) {
	cfg := config.Load()
	logr := logger.New(cfg.LogLevel)

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	queueRepo := repository.NewQueueRepository(st)
	prefsRepo := repository.NewPreferenceRepository(st)
	identityRepo := repository.NewIdentityRepository(st)

	registry := location.NewRegistry()
	provider := location.NewReplayProvider(registry, defaultRoute, defaultSpeedMPS, logr)

	svc := service.NewService(provider, prefsRepo, queueRepo, identityRepo, logr)
	service.RegisterBackgroundTask(registry, svc, identityRepo, cfg.AppVersion, logr)

	controller := service.NewController(svc, identityRepo, prefsRepo, logr)
	client := backend.NewHTTPClient(cfg.APIBaseURL, cfg.APIKey, logr)

	return &app{
		cfg:        cfg,
		logger:     logr,
		store:      st,
		queue:      queueRepo,
		prefs:      prefsRepo,
		identity:   identityRepo,
		registry:   registry,
		provider:   provider,
		svc:        svc,
		controller: controller,
		client:     client,
		close:      closeStore,
	}, nil
}

func openStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		st, err := store.OpenSQLite(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { st.Close() }, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		return store.NewRedisStore(client, "location-agent"), func() { client.Close() }, nil
	case "memory":
		return store.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
