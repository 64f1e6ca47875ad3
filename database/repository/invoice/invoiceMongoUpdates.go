package invoiceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gclient/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ApplyPayment credits one gateway transaction in a single conditional update.
//
// The filter only matches an invoice that is not yet paid and has not seen transactionID,
// so a webhook and a verification poll racing on the same reference credit it once.
// amountPaid is capped at amount; status becomes paid when the cap is reached, partial otherwise.
func (r *MongoInvoiceRepo) ApplyPayment(ctx context.Context, reference, transactionID string, credit float64, at time.Time) (*models.Invoice, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"reference":    reference,
		"status":       bson.M{"$ne": models.InvoiceStatusPaid},
		"transactions": bson.M{"$ne": transactionID},
	}

	credited := bson.M{"$min": bson.A{
		bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$amountPaid", 0}}, credit}},
		"$amount",
	}}
	settled := bson.M{"$gte": bson.A{"$amountPaid", "$amount"}}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"amountPaid": credited}}},
		{{Key: "$set", Value: bson.M{
			"status":    bson.M{"$cond": bson.A{settled, models.InvoiceStatusPaid, models.InvoiceStatusPartial}},
			"paidAt":    bson.M{"$cond": bson.A{settled, at, "$$REMOVE"}},
			"updatedAt": at,
			"transactions": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$transactions", bson.A{}}},
				bson.A{transactionID},
			}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var inv models.Invoice
	if err := r.coll.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPaymentNotApplied
		}
		return nil, fmt.Errorf("failed to apply payment for reference %s: %w", reference, err)
	}
	return &inv, nil
}

// UpdateGuarded sets fields on an invoice only while it is still in the expected status.
func (r *MongoInvoiceRepo) UpdateGuarded(ctx context.Context, id string, expected models.InvoiceStatus, set map[string]any) (*models.Invoice, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	doc := bson.M{}
	for k, v := range set {
		doc[k] = v
	}
	doc["updatedAt"] = time.Now()

	filter := bson.M{"id": id, "status": expected}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var inv models.Invoice
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": doc}, opts).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStaleInvoice
		}
		return nil, fmt.Errorf("failed to update invoice with id %s: %w", id, err)
	}
	return &inv, nil
}
