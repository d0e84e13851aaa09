// Package app assembles the application's dependencies. The wiring is
// manual constructor injection: config -> store -> repository -> service.
package app

import (
	"context"
	"fmt"

	appConfig "tabman-backend/internal/config"
	"tabman-backend/internal/repository"
	"tabman-backend/internal/service/tabs"
	"tabman-backend/internal/store/dynamo"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// Container holds the constructed application dependencies.
type Container struct {
	Config     *appConfig.Config
	Logger     *zap.Logger
	Store      *dynamo.Store
	Repository repository.Repository
	TabService *tabs.Service
}

// NewContainer builds the full dependency graph against DynamoDB.
func NewContainer(ctx context.Context, cfg *appConfig.Config) (*Container, error) {
	logger, err := newLogger(cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	dynamoStore := dynamo.New(dynamodb.NewFromConfig(awsCfg), dynamo.Config{
		TableName:          cfg.TableName,
		CreatedAtIndexName: cfg.CreatedAtIndexName,
		TagIndexName:       cfg.TagIndexName,
		OperationTimeout:   cfg.StoreTimeout,
	})

	repo := repository.New(dynamoStore)
	service := tabs.NewService(repo, logger)

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Store:      dynamoStore,
		Repository: repo,
		TabService: service,
	}, nil
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
