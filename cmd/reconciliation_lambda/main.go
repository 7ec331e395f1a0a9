package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/settlement-console/pkg/config"
	"github.com/chris/settlement-console/pkg/notifier"
	"github.com/chris/settlement-console/pkg/storage/dynamodb"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("unable to load configuration, %v", err)
	}
	if cfg.EventsQueueURL == "" {
		log.Fatal("SQS_EVENTS_QUEUE_URL environment variable not set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	h := &Handler{
		Store: dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), dynamodb.Tables{
			Requests: cfg.RequestsTable,
			Wallets:  cfg.WalletsTable,
			Audit:    cfg.AuditTable,
			Users:    cfg.UsersTable,
		}),
		Notifier:  notifier.NewSQSNotifier(sqs.NewFromConfig(awsCfg), cfg.EventsQueueURL),
		Threshold: cfg.StaleApprovalThreshold,
		Now:       time.Now,
	}
	lambda.Start(h.HandleRequest)
}
