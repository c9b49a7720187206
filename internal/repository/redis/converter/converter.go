package converter

import (
	"github.com/DRSN-tech/medstore-backend/internal/domain"
)

// ProductConverter преобразует сущности Product между domain и Redis-моделью.
type ProductConverter struct{}

func (ProductConverter) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
		ID:           entity.ID,
		Name:         entity.Name,
		Description:  entity.Description,
		Category:     entity.Category,
		Price:        entity.PriceCents,
		Stock:        entity.Stock,
		Manufacturer: entity.Manufacturer,
		RackNo:       entity.RackNo,
		ExpiryDate:   entity.ExpiryDate,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}

func (ProductConverter) ToEntity(model *ProductRedisModel) *domain.Product {
	return &domain.Product{
		ID:           model.ID,
		Name:         model.Name,
		Description:  model.Description,
		Category:     model.Category,
		PriceCents:   model.Price,
		Stock:        model.Stock,
		Manufacturer: model.Manufacturer,
		RackNo:       model.RackNo,
		ExpiryDate:   model.ExpiryDate,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
