package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/settlement-console/pkg/config"
	"github.com/chris/settlement-console/pkg/metrics"
	"github.com/chris/settlement-console/pkg/notifier"
	"github.com/chris/settlement-console/pkg/settlement"
	"github.com/chris/settlement-console/pkg/storage/dynamodb"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("unable to load configuration, %v", err)
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	store := dynamodb.New(awsdynamodb.NewFromConfig(awsCfg), dynamodb.Tables{
		Requests: cfg.RequestsTable,
		Wallets:  cfg.WalletsTable,
		Audit:    cfg.AuditTable,
		Users:    cfg.UsersTable,
	})
	store.MaxAttempts = cfg.TxMaxAttempts

	opts := []settlement.Option{settlement.WithMetrics(metrics.NewSettlement(prometheus.NewRegistry()))}
	if cfg.EventsQueueURL != "" {
		opts = append(opts, settlement.WithNotifier(notifier.NewSQSNotifier(sqs.NewFromConfig(awsCfg), cfg.EventsQueueURL)))
	}

	h := &Handler{Ops: settlement.New(store, opts...)}
	lambda.Start(h.HandleRequest)
}
