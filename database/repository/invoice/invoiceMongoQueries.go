package invoiceRepo

import (
	"context"
	"fmt"
	"time"

	"gclient/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// PaidByTrack sums amountPaid per track for one learner, skipping tracks with nothing paid.
func (r *MongoInvoiceRepo) PaidByTrack(ctx context.Context, learnerID string) ([]models.TrackPayment, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"learner":    learnerID,
			"amountPaid": bson.M{"$gt": 0},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":  "$track",
			"paid": bson.M{"$sum": "$amountPaid"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payments for learner %s: %w", learnerID, err)
	}
	defer cursor.Close(ctx)

	var out []models.TrackPayment
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode track payments: %w", err)
	}
	return out, nil
}
