package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/supplybot/supplybot-backend/pkg/db"
	"github.com/supplybot/supplybot-backend/pkg/db/models"
)

// Repository wires catalog persistence: products and their synonym rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListProducts loads the full catalog ordered by name.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("name asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListSynonyms loads every synonym row.
func (r *Repository) ListSynonyms(ctx context.Context) ([]models.ProductSynonym, error) {
	var synonyms []models.ProductSynonym
	if err := r.db.WithContext(ctx).Order("product_name asc, term asc").Find(&synonyms).Error; err != nil {
		return nil, err
	}
	return synonyms, nil
}

// FindProductByID loads a single product.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductByName loads a product by exact canonical name.
func (r *Repository) FindProductByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a catalog entry.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// SaveSynonym upserts an explicit synonym row at the given weight.
func (r *Repository) SaveSynonym(ctx context.Context, productName, term string, weight float64) error {
	tx := r.db.WithContext(ctx)

	var existing models.ProductSynonym
	err := tx.First(&existing, "product_name = ? AND term = ?", productName, term).Error
	switch {
	case err == nil:
		return tx.Model(&existing).Update("weight", weight).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := models.ProductSynonym{ProductName: productName, Term: term, Weight: weight}
		if createErr := tx.Create(&row).Error; createErr != nil {
			if db.IsUniqueViolation(createErr) {
				// lost the insert race; fold into the winner's row
				return tx.Model(&models.ProductSynonym{}).
					Where("product_name = ? AND term = ?", productName, term).
					Update("weight", weight).Error
			}
			return createErr
		}
		return nil
	default:
		return err
	}
}

// ReinforceSynonym records a user-confirmed association. A first sighting is
// stored at weight 0.5; repeats add 0.1 up to 1.0 and count as one usage.
func (r *Repository) ReinforceSynonym(ctx context.Context, productName, term string) error {
	tx := r.db.WithContext(ctx)

	var existing models.ProductSynonym
	err := tx.First(&existing, "product_name = ? AND term = ?", productName, term).Error
	switch {
	case err == nil:
		return tx.Model(&existing).Updates(map[string]any{
			"weight":      reinforcedWeight(existing.Weight),
			"usage_count": gorm.Expr("usage_count + 1"),
		}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := models.ProductSynonym{ProductName: productName, Term: term, Weight: 0.5, UsageCount: 1}
		if createErr := tx.Create(&row).Error; createErr != nil {
			if db.IsUniqueViolation(createErr) {
				// lost the insert race; reinforce the winner's row instead
				return r.ReinforceSynonym(ctx, productName, term)
			}
			return createErr
		}
		return nil
	default:
		return err
	}
}

// IncrementSynonymUsage bumps the usage counter without touching the weight.
func (r *Repository) IncrementSynonymUsage(ctx context.Context, productName, term string) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductSynonym{}).
		Where("product_name = ? AND term = ?", productName, term).
		Update("usage_count", gorm.Expr("usage_count + 1")).Error
}

// SynonymsForProduct lists synonym rows for one canonical name, heaviest first.
func (r *Repository) SynonymsForProduct(ctx context.Context, productName string) ([]models.ProductSynonym, error) {
	var synonyms []models.ProductSynonym
	if err := r.db.WithContext(ctx).
		Where("product_name = ?", productName).
		Order("weight desc, term asc").
		Find(&synonyms).Error; err != nil {
		return nil, err
	}
	return synonyms, nil
}

func reinforcedWeight(current float64) float64 {
	next := current + 0.1
	if next > 1.0 {
		return 1.0
	}
	return next
}
