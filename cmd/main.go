package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pdf-qa/internal/config"
	"pdf-qa/internal/db"
	"pdf-qa/internal/embedding"
	"pdf-qa/internal/ingest"
	"pdf-qa/internal/llmservice"
	"pdf-qa/internal/memstore"
	"pdf-qa/internal/rag"
	"pdf-qa/internal/server"
)

const shutdownTimeout = 15 * time.Second

// chunkStore is everything the pipeline needs from a store implementation.
type chunkStore interface {
	rag.Store
	ingest.Store
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", "./configs/config.yaml", "Path to the config file")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()
	store, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing store")
	}
	defer cleanup()

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	completer, err := llmservice.NewClient(&cfg.ChatLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing completion client")
	}

	pipeline := rag.NewRAG(store, embedder, completer, &cfg.RAG)
	ingestor := ingest.NewIngestor(store, embedder, &cfg.RAG)
	srv := server.NewServer(pipeline, ingestor, store, cfg, log.Logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}

// newStore picks the Postgres store when a DSN is configured, otherwise the
// in-memory chromem store.
func newStore(ctx context.Context, cfg *config.Config) (chunkStore, func(), error) {
	if cfg.Database.DSN == "" {
		log.Info().Msg("No database DSN configured, using in-memory store")
		store, err := memstore.NewStore()
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	sqldb, err := db.ConnectDB(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	bunDB := db.NewDB(sqldb, cfg.Database.Debug)
	store := db.NewStore(bunDB, cfg.RAG.InsertBatchSize)
	if err := store.Init(ctx); err != nil {
		bunDB.Close()
		return nil, nil, err
	}
	return store, func() { bunDB.Close() }, nil
}
