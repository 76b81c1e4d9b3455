// Package automation runs background maintenance jobs.
package automation

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"hl-ecommerce/utils"
)

const unverifiedAccountTTL = 2 * time.Minute

// RemoveUnverifiedAccounts schedules a recurring sweep that deletes accounts
// that never completed email verification. Returns the started scheduler so
// the caller can stop it on shutdown.
func RemoveUnverifiedAccounts(client *mongo.Client) *cron.Cron {
	users := client.Database("ecommerce").Collection("users")
	logger := utils.NewLogger("automation")

	c := cron.New()
	c.AddFunc("*/2 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cutoff := time.Now().UTC().Add(-unverifiedAccountTTL)
		result, err := users.DeleteMany(ctx, bson.M{
			"verified":   false,
			"created_at": bson.M{"$lt": cutoff},
		})
		if err != nil {
			logger.Error("unverified account sweep failed", "error", err)
			return
		}
		if result.DeletedCount > 0 {
			logger.Info("removed unverified accounts", "count", result.DeletedCount)
		}
	})
	c.Start()
	return c
}
