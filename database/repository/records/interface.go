package recordsRepo

import (
	"context"
	"errors"

	"gclient/models"
	"gclient/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrDuplicateRecord is returned when a transaction was already recorded for an invoice.
var ErrDuplicateRecord = errors.New("payment record already exists")

type PaymentRecordRepository interface {
	Create(ctx context.Context, record *models.PaymentRecord) error
	ListByInvoice(ctx context.Context, invoiceID string) ([]models.PaymentRecord, error)
}

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a PaymentRecordRepository backed by the payment_records collection.
func NewMongoRecordRepo(db *mongo.Database) PaymentRecordRepository {
	repo := &mongoRecordRepo{
		coll: db.Collection("payment_records"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("recordsRepo: failed to create indexes", zap.Error(err))
	}
	return repo
}
