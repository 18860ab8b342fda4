package sqlite

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"invopos/backend/internal/domain"
	"invopos/backend/internal/store"
)

// productRecord mirrors the local products table:
//
//	products(id TEXT PRIMARY KEY, name TEXT, purchasePrice REAL, salePrice REAL,
//	         expiry TEXT, status TEXT CHECK IN ('active','inactive'), image TEXT NULL)
type productRecord struct {
	ID            string  `gorm:"column:id;primaryKey"`
	Name          string  `gorm:"column:name;not null"`
	PurchasePrice float64 `gorm:"column:purchasePrice;not null"`
	SalePrice     float64 `gorm:"column:salePrice;not null"`
	Expiry        string  `gorm:"column:expiry"`
	Status        string  `gorm:"column:status;not null;check:status IN ('active','inactive')"`
	Image         *string `gorm:"column:image"`
}

func (productRecord) TableName() string { return "products" }

type Store struct {
	db *gorm.DB
}

func New(path string) (*Store, error) {
	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&productRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := store.Validate(product); err != nil {
		return nil, err
	}

	record := toRecord(product)
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isConstraintViolation(err) {
			return nil, store.ErrDuplicateID
		}
		return nil, err
	}
	created := product
	return &created, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Product, error) {
	var records []productRecord
	err := s.db.WithContext(ctx).Order("name ASC, id ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(records))
	for _, r := range records {
		products = append(products, toDomain(r))
	}
	return products, nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Product, error) {
	var record productRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	product := toDomain(record)
	return &product, nil
}

func (s *Store) Update(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := store.Validate(product); err != nil {
		return nil, err
	}

	record := toRecord(product)
	result := s.db.WithContext(ctx).Model(&productRecord{}).
		Where("id = ?", record.ID).
		Select("name", "purchasePrice", "salePrice", "expiry", "status", "image").
		Updates(&record)
	if result.Error != nil {
		if isConstraintViolation(result.Error) {
			return nil, store.ErrInvalidProduct
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	updated := product
	return &updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func toRecord(p domain.Product) productRecord {
	record := productRecord{
		ID:            p.ID,
		Name:          p.Name,
		PurchasePrice: p.PurchasePrice.InexactFloat64(),
		SalePrice:     p.SalePrice.InexactFloat64(),
		Expiry:        p.Expiry,
		Status:        p.Status,
	}
	if p.Image != "" {
		image := p.Image
		record.Image = &image
	}
	return record
}

func toDomain(r productRecord) domain.Product {
	p := domain.Product{
		ID:            r.ID,
		Name:          r.Name,
		PurchasePrice: decimal.NewFromFloat(r.PurchasePrice),
		SalePrice:     decimal.NewFromFloat(r.SalePrice),
		Expiry:        r.Expiry,
		Status:        r.Status,
	}
	if r.Image != nil {
		p.Image = *r.Image
	}
	return p
}

func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "constraint")
}
