package downloads

import (
	"context"

	"github.com/codewithtechdev/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines download grant persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, grant *models.DownloadGrant) (*models.DownloadGrant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]models.DownloadGrant, error)
	FindByToken(ctx context.Context, token string) (*models.DownloadGrant, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a download grants repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, grant *models.DownloadGrant) (*models.DownloadGrant, error) {
	if err := r.db.WithContext(ctx).Create(grant).Error; err != nil {
		return nil, err
	}
	return grant, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.DownloadGrant{}).Error
}

func (r *repository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]models.DownloadGrant, error) {
	var grants []models.DownloadGrant
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *repository) FindByToken(ctx context.Context, token string) (*models.DownloadGrant, error) {
	var grant models.DownloadGrant
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&grant).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}
