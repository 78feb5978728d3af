// Command reconcile walks every account and heals drifted aggregates
// against the entry log. Intended to run as a periodic job.
//
// Usage:
//
//	reconcile
//
// Requires DATABASE_DSN environment variable to be set.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/victorylog-backend/internal/adapter/postgres"
	aggregaterepo "github.com/heartmarshall/victorylog-backend/internal/adapter/postgres/aggregate"
	entryrepo "github.com/heartmarshall/victorylog-backend/internal/adapter/postgres/entry"
	userrepo "github.com/heartmarshall/victorylog-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/victorylog-backend/internal/app"
	"github.com/heartmarshall/victorylog-backend/internal/config"
	"github.com/heartmarshall/victorylog-backend/internal/service/activity"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	svc := activity.NewService(
		logger,
		entryrepo.New(pool),
		aggregaterepo.New(pool),
		userrepo.New(pool),
		postgres.NewTxManager(pool),
		cfg.Activity,
	)

	rows, err := pool.Query(ctx, "SELECT id FROM users ORDER BY created_at")
	if err != nil {
		log.Fatalf("list users: %v", err)
	}
	defer rows.Close()

	var userIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			log.Fatalf("scan user id: %v", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("list users: %v", err)
	}

	var healed, failed int
	for _, id := range userIDs {
		if err := svc.ReconcileOwner(ctx, id); err != nil {
			logger.Error("reconcile failed", "user_id", id, "error", err)
			failed++
			continue
		}
		healed++
	}

	fmt.Printf("Reconciled %d accounts (%d failed).\n", healed, failed)
}
