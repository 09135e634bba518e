package container

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"charaforge-backend/internal/config"
	"charaforge-backend/internal/domains/character"
	characterHandler "charaforge-backend/internal/domains/character/handler"
	characterRepo "charaforge-backend/internal/domains/character/repository"
	characterService "charaforge-backend/internal/domains/character/service"
	"charaforge-backend/internal/domains/datapack"
	datapackHandler "charaforge-backend/internal/domains/datapack/handler"
	datapackRepo "charaforge-backend/internal/domains/datapack/repository"
	datapackService "charaforge-backend/internal/domains/datapack/service"
	"charaforge-backend/internal/domains/generation"
	generationHandler "charaforge-backend/internal/domains/generation/handler"
	"charaforge-backend/internal/domains/generation/gateway/forge"
	generationService "charaforge-backend/internal/domains/generation/service"
	"charaforge-backend/internal/domains/user"
	userHandler "charaforge-backend/internal/domains/user/handler"
	userRepo "charaforge-backend/internal/domains/user/repository"
	userService "charaforge-backend/internal/domains/user/service"
	infraCache "charaforge-backend/internal/infrastructure/cache"
	"charaforge-backend/internal/infrastructure/database"
	"charaforge-backend/internal/infrastructure/queue"
	"charaforge-backend/internal/infrastructure/storage"
	"charaforge-backend/pkg/jwt"
	"charaforge-backend/pkg/logger"
)

// Container wires every layer together in dependency order:
// config, infrastructure, repositories, services, handlers.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB          *database.PostgresDB
	Cache       *infraCache.RedisCache
	ObjectStore *storage.MinIOStorage
	Portraits   *storage.PortraitStore
	Queue       *queue.Client
	JWTManager  *jwt.Manager

	// Repositories
	CharacterRepo character.Repository
	UserRepo      user.Repository
	DatapackRepo  datapack.Repository

	// Services
	CharacterService  character.Service
	UserService       user.Service
	DatapackService   datapack.Service
	GenerationService generation.Service

	// Handlers
	CharacterHandler  *characterHandler.CharacterHandler
	UserHandler       *userHandler.UserHandler
	DatapackHandler   *datapackHandler.DatapackHandler
	GenerationHandler *generationHandler.GenerationHandler
}

func New(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("Container initialized", map[string]interface{}{
		"store_backend": cfg.Store.Backend,
	})

	return c, nil
}

func (c *Container) initInfrastructure() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	c.DB = database.NewPostgresDB(dbConfig)
	if err := c.DB.Connect(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	c.Cache = infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := c.Cache.Connect(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	c.ObjectStore, err = storage.NewMinIOStorage(c.Config.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Portraits = storage.NewPortraitStore(c.ObjectStore, storage.NewPortraitProcessor())

	c.Queue = queue.NewClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	c.JWTManager = jwt.NewManager(
		c.Config.JWT.Secret,
		c.Config.JWT.AccessTokenExpiry,
		c.Config.JWT.RefreshTokenExpiry,
	)

	return nil
}

func (c *Container) initRepositories() {
	switch c.Config.Store.Backend {
	case "redisdoc":
		c.CharacterRepo = characterRepo.NewRedisDocRepository(c.Cache.Client)
	default:
		c.CharacterRepo = characterRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
	}

	c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool)
	c.DatapackRepo = datapackRepo.NewPostgresRepository(c.DB.Pool, c.Cache)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.DatapackService = datapackService.NewDatapackService(c.DatapackRepo, c.UserRepo)

	c.CharacterService = characterService.NewCharacterService(
		c.CharacterRepo,
		c.Portraits,
		&packDirectory{packs: c.DatapackService},
		c.Queue,
	)

	forgeClient := forge.NewClient(forge.Config{
		APIURL:  c.Config.Forge.APIURL,
		APIKey:  c.Config.Forge.APIKey,
		Model:   c.Config.Forge.Model,
		Timeout: time.Duration(c.Config.Forge.Timeout) * time.Second,
	})
	c.GenerationService = generationService.NewGenerationService(forgeClient, c.DatapackService)
}

func (c *Container) initHandlers() {
	c.CharacterHandler = characterHandler.NewCharacterHandler(c.CharacterService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.DatapackHandler = datapackHandler.NewDatapackHandler(c.DatapackService)
	c.GenerationHandler = generationHandler.NewGenerationHandler(c.GenerationService)
}

// Close releases infrastructure resources in reverse init order.
func (c *Container) Close() {
	if c.Queue != nil {
		if err := c.Queue.Close(); err != nil {
			logger.Error("Failed to close queue client", err)
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("Failed to close redis client", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}

// packDirectory adapts the pack service to the character domain's
// hydration contract.
type packDirectory struct {
	packs datapack.Service
}

func (d *packDirectory) Summary(ctx context.Context, packID uuid.UUID) (*character.PackSummary, error) {
	summary, err := d.packs.GetSummary(ctx, packID)
	if err != nil {
		return nil, err
	}
	return &character.PackSummary{
		ID:   summary.ID,
		Name: summary.Name,
		Tags: summary.Tags,
	}, nil
}
