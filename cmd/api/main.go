package main

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"github.com/schiefeling-archiv/archiv-backend/config"
	"github.com/schiefeling-archiv/archiv-backend/internal/auth"
	"github.com/schiefeling-archiv/archiv-backend/internal/bootstrap"
	docrepo "github.com/schiefeling-archiv/archiv-backend/internal/documents/repository"
	"github.com/schiefeling-archiv/archiv-backend/internal/filestore"
	"github.com/schiefeling-archiv/archiv-backend/internal/maintenance"
)

const serviceName = "archiv-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	app, err := auth.InitializeFirebase(&cfg.Firebase)
	if err != nil {
		log.Fatalf("initialize firebase: %v", err)
	}
	authClient, err := auth.NewAuthClient(app)
	if err != nil {
		log.Fatalf("create auth client: %v", err)
	}

	store, err := newFirestoreClient(ctx, cfg)
	if err != nil {
		log.Fatalf("create firestore client: %v", err)
	}
	defer store.Close()

	files, err := filestore.NewGCS(ctx, cfg.Storage.Bucket, cfg.Firebase.CredentialsPath)
	if err != nil {
		log.Fatalf("create file store: %v", err)
	}
	defer files.Close()

	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(ctx).Err(); err != nil {
			log.Printf("redis unreachable, menu cache disabled: %v", err)
			cache = nil
		}
	}

	if cfg.App.OrphanSweepSchedule != "" {
		sweeper := maintenance.NewOrphanSweeper(files, docrepo.NewFirestoreRepo(store))
		if _, err := sweeper.Schedule(cfg.App.OrphanSweepSchedule); err != nil {
			log.Printf("orphan sweep not scheduled: %v", err)
		}
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Store:          store,
		Files:          files,
		Verifier:       authClient,
		Cache:          cache,
	})

	log.Printf("%s listening on :%s", serviceName, cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newFirestoreClient(ctx context.Context, cfg *config.Config) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.Firebase.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsPath))
	}
	return firestore.NewClient(ctx, cfg.Firebase.ProjectID, opts...)
}
