package invoice

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	invoiceRepo "gclient/database/repository/invoice"
	recordsRepo "gclient/database/repository/records"
	trackRepo "gclient/database/repository/track"
	userRepo "gclient/database/repository/user"
	"gclient/models"

	"go.mongodb.org/mongo-driver/bson"
)

// memInvoiceRepo mirrors the conditional update semantics of the Mongo repository.
type memInvoiceRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.Invoice
	seq     int
	deleted []string
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{byID: map[string]*models.Invoice{}}
}

func clone(inv *models.Invoice) *models.Invoice {
	c := *inv
	c.Transactions = append([]string(nil), inv.Transactions...)
	if inv.PaidAt != nil {
		t := *inv.PaidAt
		c.PaidAt = &t
	}
	return &c
}

func (r *memInvoiceRepo) Create(ctx context.Context, inv *models.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if inv.ID == "" {
		inv.ID = fmt.Sprintf("inv_%d", r.seq)
	}
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	r.byID[inv.ID] = clone(inv)
	return nil
}

func (r *memInvoiceRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byID[id]
	if !ok {
		return nil, invoiceRepo.ErrInvoiceNotFound
	}
	return clone(inv), nil
}

func (r *memInvoiceRepo) findRef(reference string) *models.Invoice {
	for _, inv := range r.byID {
		if inv.Reference == reference {
			return inv
		}
	}
	return nil
}

func (r *memInvoiceRepo) GetByReference(ctx context.Context, reference string) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv := r.findRef(reference)
	if inv == nil {
		return nil, invoiceRepo.ErrInvoiceNotFound
	}
	return clone(inv), nil
}

func (r *memInvoiceRepo) List(ctx context.Context, filter models.InvoiceFilter) ([]models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Invoice{}
	for _, inv := range r.byID {
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.Learner != "" && inv.Learner != filter.Learner {
			continue
		}
		if filter.Track != "" && inv.Track != filter.Track {
			continue
		}
		out = append(out, *clone(inv))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memInvoiceRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return invoiceRepo.ErrInvoiceNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *memInvoiceRepo) ApplyPayment(ctx context.Context, reference, transactionID string, credit float64, at time.Time) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv := r.findRef(reference)
	if inv == nil || inv.Status == models.InvoiceStatusPaid {
		return nil, invoiceRepo.ErrPaymentNotApplied
	}
	for _, tx := range inv.Transactions {
		if tx == transactionID {
			return nil, invoiceRepo.ErrPaymentNotApplied
		}
	}
	inv.AmountPaid += credit
	if inv.AmountPaid > inv.Amount {
		inv.AmountPaid = inv.Amount
	}
	if inv.AmountPaid >= inv.Amount {
		inv.Status = models.InvoiceStatusPaid
		paidAt := at
		inv.PaidAt = &paidAt
	} else {
		inv.Status = models.InvoiceStatusPartial
	}
	inv.Transactions = append(inv.Transactions, transactionID)
	inv.UpdatedAt = at
	return clone(inv), nil
}

func (r *memInvoiceRepo) UpdateGuarded(ctx context.Context, id string, expected models.InvoiceStatus, set map[string]any) (*models.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.byID[id]
	if !ok || inv.Status != expected {
		return nil, invoiceRepo.ErrStaleInvoice
	}
	for k, v := range set {
		switch k {
		case "status":
			inv.Status = v.(models.InvoiceStatus)
		case "amountPaid":
			inv.AmountPaid = v.(float64)
		case "paidAt":
			t := v.(time.Time)
			inv.PaidAt = &t
		case "dueDate":
			inv.DueDate = v.(time.Time)
		case "paymentDetails":
			inv.PaymentDetails = v.(string)
		}
	}
	return clone(inv), nil
}

func (r *memInvoiceRepo) PaidByTrack(ctx context.Context, learnerID string) ([]models.TrackPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := map[string]float64{}
	for _, inv := range r.byID {
		if inv.Learner == learnerID && inv.AmountPaid > 0 {
			sums[inv.Track] += inv.AmountPaid
		}
	}
	out := []models.TrackPayment{}
	for track, paid := range sums {
		out = append(out, models.TrackPayment{Track: track, Paid: paid})
	}
	return out, nil
}

func (r *memInvoiceRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// seedPaid stores an already settled invoice for a learner and track.
func (r *memInvoiceRepo) seedPaid(learner, track string, amount float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := fmt.Sprintf("seed_%d", r.seq)
	r.byID[id] = &models.Invoice{
		ID: id, Learner: learner, Track: track, Amount: amount, AmountPaid: amount,
		Status: models.InvoiceStatusPaid, PaymentType: models.PaymentTypeFull, Reference: "ref_" + id,
	}
}

type memUserRepo struct {
	users map[string]*models.User
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetAllWithProjection(ctx context.Context, role string, projection bson.M) ([]models.User, error) {
	return nil, nil
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) UpdateSetDocument(ctx context.Context, id string, updateDoc bson.M) error {
	return nil
}

type memTrackRepo struct {
	tracks map[string]*models.Track
}

func (r *memTrackRepo) Create(ctx context.Context, track *models.Track) error {
	r.tracks[track.ID] = track
	return nil
}

func (r *memTrackRepo) GetByID(ctx context.Context, id string) (*models.Track, error) {
	t, ok := r.tracks[id]
	if !ok {
		return nil, trackRepo.ErrTrackNotFound
	}
	c := *t
	return &c, nil
}

func (r *memTrackRepo) GetAll(ctx context.Context) ([]models.Track, error) {
	out := []models.Track{}
	for _, t := range r.tracks {
		out = append(out, *t)
	}
	return out, nil
}

type MockGateway struct {
	mu             sync.Mutex
	InitializeFunc func(ctx context.Context, req models.PaymentInitRequest) (*models.PaymentSession, error)
	VerifyFunc     func(ctx context.Context, reference string) (*models.PaymentVerification, error)
	Initialized    []models.PaymentInitRequest
	refs           int
}

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) Initialize(ctx context.Context, req models.PaymentInitRequest) (*models.PaymentSession, error) {
	m.mu.Lock()
	m.Initialized = append(m.Initialized, req)
	m.refs++
	ref := fmt.Sprintf("ref_%d", m.refs)
	m.mu.Unlock()
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx, req)
	}
	return &models.PaymentSession{Provider: "mock", PaymentLink: "https://pay.example.com/" + ref, Reference: ref}, nil
}

func (m *MockGateway) Verify(ctx context.Context, reference string) (*models.PaymentVerification, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, reference)
	}
	return nil, fmt.Errorf("unexpected verify for %s", reference)
}

type MockNotifier struct {
	mu                sync.Mutex
	InvoiceErr        error
	ConfirmationErr   error
	InvoicesSent      []string
	ConfirmationsSent []string
	RemindersSent     []string
}

func (m *MockNotifier) SendVerificationCode(ctx context.Context, user *models.User, code string) error {
	return nil
}

func (m *MockNotifier) SendInvoiceIssued(ctx context.Context, learner *models.User, track *models.Track, inv *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InvoicesSent = append(m.InvoicesSent, inv.ID)
	return m.InvoiceErr
}

func (m *MockNotifier) SendPaymentConfirmation(ctx context.Context, learner *models.User, track *models.Track, inv *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConfirmationsSent = append(m.ConfirmationsSent, inv.ID)
	return m.ConfirmationErr
}

func (m *MockNotifier) SendPaymentReminder(ctx context.Context, learner *models.User, track *models.Track, inv *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemindersSent = append(m.RemindersSent, inv.ID)
	return nil
}

func (m *MockNotifier) SendUserPushNotification(ctx context.Context, user *models.User, title, body string, data map[string]string) error {
	return nil
}

func (m *MockNotifier) confirmations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ConfirmationsSent)
}

type MockReminders struct {
	Payloads []models.ReminderPayload
	FireAt   []time.Time
}

func (m *MockReminders) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	m.Payloads = append(m.Payloads, payload)
	m.FireAt = append(m.FireAt, fireAt)
	return nil
}

type MockWebhookParser struct {
	ParseFunc func(payload []byte, headers http.Header) (*models.PaymentEvent, error)
}

func (m *MockWebhookParser) ParseWebhook(payload []byte, headers http.Header) (*models.PaymentEvent, error) {
	return m.ParseFunc(payload, headers)
}

type memRecordRepo struct {
	mu      sync.Mutex
	records []models.PaymentRecord
}

func (r *memRecordRepo) Create(ctx context.Context, rec *models.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.InvoiceID == rec.InvoiceID && existing.TransactionID == rec.TransactionID {
			return recordsRepo.ErrDuplicateRecord
		}
	}
	r.records = append(r.records, *rec)
	return nil
}

func (r *memRecordRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]models.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.PaymentRecord{}
	for _, rec := range r.records {
		if rec.InvoiceID == invoiceID {
			out = append(out, rec)
		}
	}
	return out, nil
}
