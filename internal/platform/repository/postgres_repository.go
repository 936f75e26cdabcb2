package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"b2y-backend/internal/platform/domain"
)

// connectionRow is one (user, platform) credential pair. Keeping a row per
// platform makes UpsertPlatform and DeletePlatform naturally field-scoped:
// writes for one platform can never clobber another's.
type connectionRow struct {
	UserID           string `gorm:"primaryKey;size:128"`
	Platform         string `gorm:"primaryKey;size:32"`
	AccessToken      string
	RefreshToken     string
	ExpiryDate       int64
	ExternalUserID   string
	ExternalUserName string
	ConnectedAt      time.Time
	UpdatedAt        time.Time
}

func (connectionRow) TableName() string {
	return "platform_connections"
}

// postgresStore is the Postgres-backed alternative to the Firestore store,
// for deployments that already run a relational database.
type postgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) CredentialStore {
	return &postgresStore{
		db: db,
	}
}

// Migrate creates the platform_connections table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&connectionRow{})
}

func (s *postgresStore) Get(ctx context.Context, userID string) (*domain.ConnectionRecord, error) {
	var rows []connectionRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, &domain.StorageError{Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	record := &domain.ConnectionRecord{
		UserID:      userID,
		Connections: make(map[domain.Platform]domain.PlatformConnection, len(rows)),
	}
	for _, row := range rows {
		record.Connections[domain.Platform(row.Platform)] = domain.PlatformConnection{
			AccessToken:      row.AccessToken,
			RefreshToken:     row.RefreshToken,
			ExpiryDate:       row.ExpiryDate,
			ExternalUserID:   row.ExternalUserID,
			ExternalUserName: row.ExternalUserName,
			ConnectedAt:      row.ConnectedAt,
		}
	}
	return record, nil
}

func (s *postgresStore) UpsertPlatform(ctx context.Context, userID string, platform domain.Platform, conn domain.PlatformConnection) error {
	row := connectionRow{
		UserID:           userID,
		Platform:         string(platform),
		AccessToken:      conn.AccessToken,
		RefreshToken:     conn.RefreshToken,
		ExpiryDate:       conn.ExpiryDate,
		ExternalUserID:   conn.ExternalUserID,
		ExternalUserName: conn.ExternalUserName,
		ConnectedAt:      conn.ConnectedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return &domain.StorageError{Err: err}
	}
	return nil
}

func (s *postgresStore) DeletePlatform(ctx context.Context, userID string, platform domain.Platform) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND platform = ?", userID, string(platform)).
		Delete(&connectionRow{}).Error
	if err != nil {
		return &domain.StorageError{Err: err}
	}
	return nil
}

func (s *postgresStore) ListConnections(ctx context.Context, userID string) (domain.StatusMap, error) {
	var platforms []string
	err := s.db.WithContext(ctx).
		Model(&connectionRow{}).
		Where("user_id = ?", userID).
		Pluck("platform", &platforms).Error
	if err != nil {
		return nil, &domain.StorageError{Err: err}
	}

	statusMap := make(domain.StatusMap, len(domain.Platforms))
	for _, p := range domain.Platforms {
		statusMap[p] = false
	}
	for _, name := range platforms {
		statusMap[domain.Platform(name)] = true
	}
	return statusMap, nil
}
