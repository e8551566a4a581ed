package main

import (
	"aperturelab/internal/catalog"
	"aperturelab/internal/config"
	"aperturelab/internal/platform/logger"
	"aperturelab/internal/repository"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// seed writes the lesson topics into MongoDB, where the server picks them
// up as an override of the built-in catalog.
func main() {
	file := flag.String("file", "", "catalog YAML to seed from (default: built-in catalog)")
	prune := flag.Bool("prune", false, "delete topics that are not in the catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI is required to seed topics")
	}

	cat, err := loadCatalog(*file)
	if err != nil {
		log.Fatal("failed to load catalog", "file", *file, "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", "error", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Warn("failed to ensure indexes", "error", err)
	}
	repo := repository.NewTopicRepo(db)

	ids := make([]string, 0, len(cat.Topics))
	for i := range cat.Topics {
		topic := cat.Topics[i]
		if err := repo.Upsert(ctx, &topic); err != nil {
			log.Fatal("failed to upsert topic", "topic", topic.ID, "error", err)
		}
		ids = append(ids, topic.ID)
		log.Info("seeded topic", "topic", topic.ID, "order", topic.Order)
	}

	if *prune {
		n, err := repo.DeleteMissing(ctx, ids)
		if err != nil {
			log.Fatal("failed to prune topics", "error", err)
		}
		log.Info("pruned topics", "deleted", n)
	}

	log.Info("seed complete", "db", cfg.MongoDB, "topics", len(ids))
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return catalog.Load(data)
}
