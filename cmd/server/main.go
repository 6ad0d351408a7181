package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mateonavarro/rag-qa-api/internal/chunker"
	"github.com/mateonavarro/rag-qa-api/internal/config"
	"github.com/mateonavarro/rag-qa-api/internal/embedding"
	"github.com/mateonavarro/rag-qa-api/internal/generator"
	"github.com/mateonavarro/rag-qa-api/internal/handlers"
	"github.com/mateonavarro/rag-qa-api/internal/processor"
	"github.com/mateonavarro/rag-qa-api/internal/rag"
	"github.com/mateonavarro/rag-qa-api/internal/registry"
	"github.com/mateonavarro/rag-qa-api/internal/router"
	"github.com/mateonavarro/rag-qa-api/internal/services"
	"github.com/mateonavarro/rag-qa-api/internal/storage"
	"github.com/mateonavarro/rag-qa-api/internal/utils"
	"github.com/mateonavarro/rag-qa-api/internal/vectorstore"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting RAG Q&A System...")

	// Collaborator clients
	embedder := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.EmbeddingEndpoint,
		APIKey:    cfg.EmbeddingAPIKey,
		Model:     cfg.EmbeddingModel,
		BatchSize: cfg.EmbeddingBatchSize,
	})

	vectors := vectorstore.NewQdrantStore(vectorstore.Config{
		Endpoint:   cfg.VectorDBEndpoint,
		APIKey:     cfg.VectorDBAPIKey,
		Collection: cfg.VectorDBCollection,
		Dimension:  cfg.EmbeddingDimension,
	}, chunker.New(cfg.ChunkSize, cfg.ChunkOverlap), embedder)

	// The vector store must be reachable before accepting any traffic.
	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := vectors.Initialize(initCtx); err != nil {
		cancel()
		logger.Fatal("Failed to initialize vector store", "error", err)
	}
	cancel()
	logger.Info("Vector store initialized successfully")

	gen := generator.NewOpenAIGenerator(cfg.LLMEndpoint, cfg.LLMAPIKey, cfg.LLMModel, logger)
	pipeline := rag.NewPipeline(embedder, vectors, gen, logger)

	uploadStore, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal("Failed to prepare upload directory", "error", err)
	}

	var archive storage.Archiver
	if cfg.S3ArchiveEnabled {
		archive, err = storage.NewS3Archive(storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			BucketName:      cfg.S3BucketName,
			UseSSL:          cfg.S3UseSSL,
		})
		if err != nil {
			logger.Fatal("Failed to initialize S3 archive", "error", err)
		}
	}

	docService := services.NewService(
		registry.New(),
		uploadStore,
		archive,
		processor.New(),
		vectors,
		pipeline,
		logger,
	)

	docHandler := handlers.NewDocumentHandler(docService, logger, cfg.MaxFileSize)
	handler := router.NewRouter(docHandler, cfg, logger)

	srv := &http.Server{
		Addr:         cfg.Host + ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "host", cfg.Host, "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
