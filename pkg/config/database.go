package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB bundles both stores: Mongo holds the entity collections, Postgres
// the connection edges.
type DB struct {
	Mongo    *mongo.Database
	Postgres *gorm.DB

	client *mongo.Client
}

// InitDB loads .env when present, then opens both stores.
func InitDB(cfg *Config) (*DB, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresConnStr), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	return &DB{
		Mongo:    client.Database("motorhub"),
		Postgres: db,
		client:   client,
	}, nil
}

// CloseDB closes both stores. Safe to defer right after InitDB.
func (d *DB) CloseDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.client.Disconnect(ctx); err != nil {
		log.Printf("disconnecting mongo: %v", err)
	}
	if sqlDB, err := d.Postgres.DB(); err == nil {
		sqlDB.Close()
	}
}
