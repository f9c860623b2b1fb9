package handler_test

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"civicgo/backend/internal/api/handler"
	"civicgo/backend/internal/dialogue"
	"civicgo/backend/internal/models"
	"civicgo/backend/internal/store"
)

const testJWTSecret = "test-secret"

// MockStorage is a testify/mock implementation of the storage.Storage
// interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveReports(ctx context.Context, reports []models.Report) error {
	args := m.Called(ctx, reports)
	return args.Error(0)
}

func (m *MockStorage) LoadReports(ctx context.Context) ([]models.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockStorage) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) SaveSessionSnapshot(snap dialogue.SessionSnapshot) error {
	args := m.Called(snap)
	return args.Error(0)
}

func (m *MockStorage) PublishReportUpdate(msg models.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) SubscribeReportUpdates() *redis.PubSub {
	args := m.Called()
	return args.Get(0).(*redis.PubSub)
}

// memPersister backs the report store without a database.
type memPersister struct {
	saved []models.Report
}

func (p *memPersister) SaveReports(_ context.Context, reports []models.Report) error {
	p.saved = append([]models.Report(nil), reports...)
	return nil
}

func (p *memPersister) LoadReports(_ context.Context) ([]models.Report, error) {
	return p.saved, nil
}

// newTestHandler wires a handler over an in-memory store and the given
// storage mock.
func newTestHandler(storageMock *MockStorage) (*handler.Handler, *store.ReportStore) {
	st := store.New(&memPersister{}, zap.NewNop())
	engine := dialogue.New(st, dialogue.NewSequencer(), zap.NewNop())
	metrics := handler.NewMetrics(prometheus.NewRegistry())
	h := handler.NewHandler(nil, engine, st, storageMock, metrics, zap.NewNop(), testJWTSecret)
	return h, st
}
