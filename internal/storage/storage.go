// Package storage provides the persistence service backing the report store
// and the user accounts: PostgreSQL (via GORM) as the system of record and
// Redis for session snapshots and the report-update channel.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"civicgo/backend/internal/config"
	"civicgo/backend/internal/dialogue"
	"civicgo/backend/internal/models"
)

// Storage is the persistence surface consumed by the handlers, the hub and
// the admin tool.
type Storage interface {
	SaveReports(ctx context.Context, reports []models.Report) error
	LoadReports(ctx context.Context) ([]models.Report, error)

	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)

	SaveSessionSnapshot(snap dialogue.SessionSnapshot) error

	PublishReportUpdate(msg models.ChatMessage) error
	SubscribeReportUpdates() *redis.PubSub
}

// Service implements Storage over GORM and Redis. Redis may be nil (the
// admin CLI runs without it); Redis-backed operations then degrade to no-ops.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewService constructs the storage service.
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveReports upserts the full report list in one transaction. The store
// mirrors every report in memory, so writing the whole list keeps Postgres
// an exact replica of it.
func (s *Service) SaveReports(ctx context.Context, reports []models.Report) error {
	if len(reports) == 0 {
		return nil
	}
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&reports).Error
	if err != nil {
		return fmt.Errorf("failed to save reports: %w", err)
	}
	return nil
}

// LoadReports returns all persisted reports, oldest first. No rows is an
// empty list, not an error.
func (s *Service) LoadReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := s.DB.WithContext(ctx).
		Order("date_submitted asc").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	return reports, nil
}

// CreateUser inserts a new user account.
func (s *Service) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

// GetUserByEmail finds a user by email. A missing user returns nil without
// an error.
func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID finds a user by id. A missing user returns nil without an
// error.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveSessionSnapshot writes the session state to Redis with a TTL. The
// snapshots are write-only: nothing reads them back. The key layout is kept
// from the old portal's localStorage mirror.
func (s *Service) SaveSessionSnapshot(snap dialogue.SessionSnapshot) error {
	if s.Redis == nil {
		return nil
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	key := config.SessionSnapshotPrefix + snap.ID
	return s.Redis.Set(s.Ctx, key, b, config.SessionSnapshotTTL).Err()
}

// PublishReportUpdate broadcasts a report update over Redis Pub/Sub so every
// server instance can notify its connected widgets.
func (s *Service) PublishReportUpdate(msg models.ChatMessage) error {
	if s.Redis == nil {
		return nil
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, config.ReportUpdatesChannel, b).Err()
}

// SubscribeReportUpdates subscribes to the report update channel.
func (s *Service) SubscribeReportUpdates() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.ReportUpdatesChannel)
}
