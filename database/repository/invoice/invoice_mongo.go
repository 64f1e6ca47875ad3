package invoiceRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gclient/models"
	"gclient/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoInvoiceRepo implements InvoiceRepository using MongoDB.
type MongoInvoiceRepo struct {
	coll *mongo.Collection
}

// NewMongoInvoiceRepo creates the repository and makes sure its indexes exist.
func NewMongoInvoiceRepo(db *mongo.Database) InvoiceRepository {
	repo := &MongoInvoiceRepo{coll: db.Collection("invoices")}

	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("invoiceRepo: failed to create indexes", zap.Error(err))
	}
	return repo
}

// newContext creates a context with the given timeout, bounded by the parent.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

// Create inserts a new invoice document.
func (r *MongoInvoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, inv); err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// GetByID retrieves an invoice by its id.
func (r *MongoInvoiceRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByReference retrieves an invoice by its gateway reference.
func (r *MongoInvoiceRepo) GetByReference(ctx context.Context, reference string) (*models.Invoice, error) {
	return r.findOne(ctx, bson.M{"reference": reference})
}

func (r *MongoInvoiceRepo) findOne(ctx context.Context, filter bson.M) (*models.Invoice, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var inv models.Invoice
	if err := r.coll.FindOne(ctx, filter).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	return &inv, nil
}

// List returns invoices matching the filter, newest first.
func (r *MongoInvoiceRepo) List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Learner != "" {
		query["learner"] = filter.Learner
	}
	if filter.Track != "" {
		query["track"] = filter.Track
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	if filter.Skip > 0 {
		opts.SetSkip(filter.Skip)
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}
	defer cursor.Close(ctx)

	invoices := []models.Invoice{}
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}
	return invoices, nil
}

// Delete removes an invoice document by its id.
func (r *MongoInvoiceRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete invoice with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}
