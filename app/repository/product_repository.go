package repository

import (
	"gorm.io/gorm"

	"github.com/chidihq/chidi/app/models"
)

// productRepository implements the ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product in the database
func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// CreateBatch inserts several products at once (CSV bulk import)
func (r *productRepository) CreateBatch(products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.Create(&products).Error
}

// GetByID retrieves a product by its ID
func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Variants").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetAll retrieves all products ordered by name
func (r *productRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Variants").Order("name ASC").Find(&products).Error
	return products, err
}

// GetByCategory retrieves all products in a category
func (r *productRepository) GetByCategory(category string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Variants").Where("category = ?", category).
		Order("name ASC").Find(&products).Error
	return products, err
}

// GetLowStock retrieves products at or below the low-stock threshold
func (r *productRepository) GetLowStock() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("stock <= ?", models.LowStockThreshold).
		Order("stock ASC").Find(&products).Error
	return products, err
}

// Search retrieves products whose name or description matches the query
func (r *productRepository) Search(query string) ([]models.Product, error) {
	var products []models.Product
	like := "%" + query + "%"
	err := r.db.Where("name LIKE ? OR description LIKE ?", like, like).
		Order("name ASC").Find(&products).Error
	return products, err
}

// Update updates an existing product in the database
func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// AdjustStock changes the stock level by delta (negative on sale)
func (r *productRepository) AdjustStock(id uint, delta int) error {
	return r.db.Model(&models.Product{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}

// Delete soft-deletes a product
func (r *productRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// Count returns the total number of products
func (r *productRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Count(&count).Error
	return count, err
}
