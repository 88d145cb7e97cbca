package repository

import (
	"time"

	"shop_order_payment/internal/domain/catalog/model"

	"gorm.io/gorm"
)

// CatalogRepository 目录读模型
type CatalogRepository interface {
	GetProduct(id string) (*model.Product, error)
	GetBranch(id string) (*model.Branch, error)
	GetActivePromotions(productIDs []string, now time.Time) (map[string][]model.Promotion, error)
	ListActiveProducts(offset, limit int) ([]model.Product, int64, error)
	ListEnabledBranches() ([]model.Branch, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetProduct(id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *catalogRepository) GetBranch(id string) (*model.Branch, error) {
	var branch model.Branch
	if err := r.db.Where("id = ?", id).First(&branch).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *catalogRepository) ListActiveProducts(offset, limit int) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	if err := r.db.Model(&model.Product{}).
		Where("active = ?", true).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Where("active = ?", true).
		Order("name").
		Offset(offset).Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *catalogRepository) ListEnabledBranches() ([]model.Branch, error) {
	var branches []model.Branch
	err := r.db.Where("enabled = ?", true).Order("name").Find(&branches).Error
	return branches, err
}

// GetActivePromotions 批量查询商品当前生效的促销，按商品分组
func (r *catalogRepository) GetActivePromotions(productIDs []string, now time.Time) (map[string][]model.Promotion, error) {
	var promos []model.Promotion
	err := r.db.
		Where("product_id IN ?", productIDs).
		Where("active = ?", true).
		Where("starts_at <= ? AND ends_at > ?", now, now).
		Find(&promos).Error
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]model.Promotion, len(productIDs))
	for _, p := range promos {
		grouped[p.ProductID] = append(grouped[p.ProductID], p)
	}
	return grouped, nil
}
