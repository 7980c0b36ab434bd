package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"my-social/config"
	"my-social/database"
	"my-social/handler"
	natsClient "my-social/nats"
	"my-social/pkg/jwt"
	"my-social/publisher"
	"my-social/repository"
	"my-social/slotstore"
	"my-social/storage"
	"my-social/subscriber"
)

const healthCheckInterval = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using environment")
	}

	appCfg, err := config.LoadAppConfig()
	if err != nil {
		log.Fatalf("Failed to load app config: %v", err)
	}

	dbCfg, err := config.LoadDatabaseConfig("")
	if err != nil {
		log.Fatalf("Failed to load database config: %v", err)
	}

	dbConn, err := database.NewConnection(database.Config{
		Driver:       dbCfg.Driver,
		DSN:          dbCfg.DSN(),
		MaxOpenConns: dbCfg.MaxOpenConns,
		MaxIdleConns: dbCfg.MaxIdleConns,
		MaxLifetime:  dbCfg.MaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := dbConn.HealthCheck(ctx); err != nil {
		cancel()
		log.Fatalf("Database health check failed: %v", err)
	}
	cancel()
	log.Println("Database health check passed")

	if appCfg.RunMigrations {
		version, err := dbConn.Migrate(context.Background())
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.Printf("Database schema at version %d", version)
	}

	store, closeStore, err := openSlotStore(appCfg.SlotBackend, config.LoadRedisConfig())
	if err != nil {
		log.Fatalf("Failed to open slot store: %v", err)
	}
	defer closeStore()
	slots := slotstore.New(store, slotstore.NewMonotonicClock())

	bus, err := openBus(config.LoadNatsConfig())
	if err != nil {
		log.Fatalf("Failed to initialize event bus: %v", err)
	}
	defer bus.Close()

	bucket, err := storage.NewDiskBucket(appCfg.MediaDir, appCfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("Failed to open media bucket: %v", err)
	}

	localUsers := repository.NewLocalUserRepository(slots)
	localPosts := repository.NewLocalPostRepository(slots)
	bookmarks := repository.NewBookmarkRepository(slots, localPosts)
	follows := repository.NewFollowRepository(slots)
	notifications := repository.NewNotificationRepository(slots)
	posts := repository.NewPostRepository(dbConn.DB)

	notificationSubscriber := subscriber.NewNotificationSubscriber(context.Background(), bus, notifications, posts, localUsers)
	if err := notificationSubscriber.Start(); err != nil {
		log.Fatalf("Failed to start notification subscriber: %v", err)
	}
	defer notificationSubscriber.Stop()

	h := handler.NewHandler(handler.Dependencies{
		Users:         repository.NewUserRepository(dbConn.DB),
		Posts:         posts,
		Comments:      repository.NewCommentRepository(dbConn.DB),
		PostLikes:     repository.NewPostLikeRepository(dbConn.DB),
		Guestbook:     repository.NewGuestbookRepository(dbConn.DB),
		Projects:      repository.NewProjectRepository(dbConn.DB),
		LocalUsers:    localUsers,
		LocalPosts:    localPosts,
		Messages:      repository.NewMessageRepository(slots),
		Follows:       follows,
		Likes:         repository.NewLikeRepository(slots),
		Bookmarks:     bookmarks,
		Searches:      repository.NewSearchRepository(slots),
		Profiles:      repository.NewProfileRepository(localUsers, localPosts, follows, bookmarks),
		Notifications: notifications,
		Bucket:        bucket,
		Publisher:     publisher.NewEventPublisher(bus),
		Bus:           bus,
		JWT:           jwt.NewManager(appCfg.JWTSecret),
		AccessExpiry:  appCfg.AccessExpiry,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", appCfg.HTTPPort),
		Handler: h.Routes(handler.RouterOptions{
			AllowedOrigins: appCfg.AllowedOrigins,
			Media:          bucket.Handler(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Enable reflection for debugging tools like grpcurl
	reflection.Register(grpcServer)

	stopHealth := make(chan struct{})
	go watchDatabase(dbConn, healthServer, stopHealth)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", appCfg.GRPCPort))
	if err != nil {
		log.Fatalf("Failed to listen on port %s: %v", appCfg.GRPCPort, err)
	}

	go func() {
		log.Printf("gRPC health server listening on port %s", appCfg.GRPCPort)
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()

	go func() {
		log.Printf("HTTP server listening on port %s", appCfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")
	close(stopHealth)
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	grpcServer.GracefulStop()

	log.Println("Server stopped")
}

// openSlotStore returns the configured slot backend and its cleanup.
func openSlotStore(backend string, redisCfg *config.RedisConfig) (slotstore.Store, func(), error) {
	if backend != "redis" {
		log.Println("Using in-memory slot store")
		return slotstore.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", redisCfg.Addr, err)
	}

	log.Printf("Using redis slot store at %s", redisCfg.Addr)
	return slotstore.NewRedisStore(client, redisCfg.KeyPrefix), func() {
		if err := client.Close(); err != nil {
			log.Printf("Failed to close redis client: %v", err)
		}
	}, nil
}

// openBus connects to NATS when a URL is configured and falls back to an
// in-process bus otherwise.
func openBus(cfg *config.NatsConfig) (natsClient.Bus, error) {
	if cfg.URL == "" {
		log.Println("NATS_URL not set, delivering events in-process")
		return natsClient.NewLocalBus(), nil
	}

	client, err := natsClient.NewClient(natsClient.Config{
		URL:           cfg.URL,
		ClientName:    cfg.Name,
		MaxReconnects: cfg.MaxReconnects,
		ReconnectWait: cfg.ReconnectWait,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func watchDatabase(db *database.DB, healthServer *health.Server, stop <-chan struct{}) {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := db.HealthCheck(ctx)
			cancel()

			status := healthpb.HealthCheckResponse_SERVING
			if err != nil {
				log.Printf("Database health check failed: %v", err)
				status = healthpb.HealthCheckResponse_NOT_SERVING
			}
			healthServer.SetServingStatus("", status)
		}
	}
}
