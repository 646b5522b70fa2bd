package repositories

import (
	"fmt"
	"time"

	"github.com/gearworks/motorhub/backend/internal/models"
	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for social-graph edge operations
type ConnectionRepository interface {
	CreateConnection(conn *models.Connection) error
	DeleteConnection(connType, requestorID, receiverID string) error
	IsConnected(connType, requestorID, receiverID string) (bool, error)
	CountByReceivers(connType string, receiverIDs []string, since time.Time) (int64, error)
	FindByReceivers(connType string, receiverIDs []string, since time.Time) ([]models.Connection, error)
	ReceiverIDsByRequestor(connType, requestorID, receiverType string) ([]string, error)
	RequestorIDsByReceiver(connType, receiverID string) ([]string, error)
}

// PostgresConnectionRepository implements ConnectionRepository for PostgreSQL
type PostgresConnectionRepository struct {
	db *gorm.DB
}

// NewPostgresConnectionRepository creates a new PostgresConnectionRepository
func NewPostgresConnectionRepository(db *gorm.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

func (r *PostgresConnectionRepository) CreateConnection(conn *models.Connection) error {
	return r.db.Create(conn).Error
}

func (r *PostgresConnectionRepository) DeleteConnection(connType, requestorID, receiverID string) error {
	res := r.db.Where("type = ? AND requestor_id = ? AND receiver_id = ?", connType, requestorID, receiverID).
		Delete(&models.Connection{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("connection not found")
	}
	return nil
}

func (r *PostgresConnectionRepository) IsConnected(connType, requestorID, receiverID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Connection{}).
		Where("type = ? AND requestor_id = ? AND receiver_id = ?", connType, requestorID, receiverID).
		Count(&count).Error
	return count > 0, err
}

// CountByReceivers counts edges of a type pointing at any of the receivers,
// optionally restricted to edges created at or after since.
func (r *PostgresConnectionRepository) CountByReceivers(connType string, receiverIDs []string, since time.Time) (int64, error) {
	if len(receiverIDs) == 0 {
		return 0, nil
	}
	q := r.db.Model(&models.Connection{}).
		Where("type = ? AND receiver_id IN ?", connType, receiverIDs)
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

// FindByReceivers returns edges of a type pointing at any of the receivers,
// newest first.
func (r *PostgresConnectionRepository) FindByReceivers(connType string, receiverIDs []string, since time.Time) ([]models.Connection, error) {
	if len(receiverIDs) == 0 {
		return nil, nil
	}
	q := r.db.Where("type = ? AND receiver_id IN ?", connType, receiverIDs)
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	var conns []models.Connection
	err := q.Order("created_at DESC").Find(&conns).Error
	return conns, err
}

// ReceiverIDsByRequestor lists ids of entities of receiverType the requestor
// has an edge of connType to (e.g. vehicles a user follows).
func (r *PostgresConnectionRepository) ReceiverIDsByRequestor(connType, requestorID, receiverType string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Connection{}).
		Where("type = ? AND requestor_id = ? AND receiver_type = ?", connType, requestorID, receiverType).
		Pluck("receiver_id", &ids).Error
	return ids, err
}

// RequestorIDsByReceiver lists ids of users holding an edge of connType to
// the receiver (e.g. followers of a vehicle).
func (r *PostgresConnectionRepository) RequestorIDsByReceiver(connType, receiverID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Connection{}).
		Where("type = ? AND receiver_id = ?", connType, receiverID).
		Pluck("requestor_id", &ids).Error
	return ids, err
}
