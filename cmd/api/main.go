package main

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/surveyclub/survey-services/api/internal/config"
	"github.com/surveyclub/survey-services/api/internal/server"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		cfg.ServerLog.Fatalf("failed to connect to MongoDB: %v", err)
	}

	app, err := server.New(cfg, client)
	if err != nil {
		cfg.ServerLog.Fatalf("failed to assemble server: %v", err)
	}
	if err := app.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
