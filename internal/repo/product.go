package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openmart/shop_backend/internal/models"
)

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	if prod.ID == "" {
		prod.ID = uuid.NewString()
	}
	for i := range prod.Images {
		if prod.Images[i].ID == "" {
			prod.Images[i].ID = uuid.NewString()
		}
		prod.Images[i].ProductID = prod.ID
	}
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).Preload("Images").Where("id = ?", id).First(&prod).Error; err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) GetProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Preload("Images").Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(prod).Error
}

// ImagesByIDs returns only images that belong to the given product; ids of
// other products' images are silently dropped.
func (r *GormRepo) ImagesByIDs(ctx context.Context, productID string, ids []string) ([]models.ProductImage, error) {
	var images []models.ProductImage
	if err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Where("id IN ?", ids).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *GormRepo) DeleteImages(ctx context.Context, productID string, ids []string) error {
	return r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Where("id IN ?", ids).
		Delete(&models.ProductImage{}).Error
}

func (r *GormRepo) CountImages(ctx context.Context, productID string) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRepo) CreateImages(ctx context.Context, images []models.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		if images[i].ID == "" {
			images[i].ID = uuid.NewString()
		}
	}
	return r.DB.WithContext(ctx).Create(&images).Error
}

// DeleteProduct removes the image rows first, then the product itself.
func (r *GormRepo) DeleteProduct(ctx context.Context, id string) error {
	if err := r.DB.WithContext(ctx).
		Where("product_id = ?", id).
		Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}

	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
