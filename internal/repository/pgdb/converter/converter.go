package converter

import (
	"github.com/DRSN-tech/medstore-backend/internal/domain"
	"github.com/DRSN-tech/medstore-backend/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter struct{}

func (ProductConverter) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
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

func (ProductConverter) ToEntity(model *ProductModel) *domain.Product {
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

// UserConverter преобразует сущности User между domain и моделью PostgreSQL.
type UserConverter struct{}

func (UserConverter) ToModel(entity *domain.User) *UserModel {
	return &UserModel{
		ID:           entity.ID,
		Username:     entity.Username,
		Email:        entity.Email,
		PasswordHash: entity.PasswordHash,
		Role:         string(entity.Role),
		PhoneNumber:  entity.PhoneNumber,
		Street:       entity.Address.Street,
		City:         entity.Address.City,
		State:        entity.Address.State,
		ZipCode:      entity.Address.ZipCode,
		Country:      entity.Address.Country,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}

func (UserConverter) ToEntity(model *UserModel) *domain.User {
	return &domain.User{
		ID:           model.ID,
		Username:     model.Username,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Role:         domain.Role(model.Role),
		PhoneNumber:  model.PhoneNumber,
		Address: domain.Address{
			Street:  model.Street,
			City:    model.City,
			State:   model.State,
			ZipCode: model.ZipCode,
			Country: model.Country,
		},
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// OrderConverter преобразует сущности Order между domain и моделью PostgreSQL.
// Строки заказа собираются отдельно и навешиваются вызывающей стороной.
type OrderConverter struct{}

func (OrderConverter) ToModel(entity *domain.Order) *OrderModel {
	return &OrderModel{
		ID:        entity.ID,
		UserID:    entity.UserID,
		Total:     entity.TotalCents,
		Status:    string(entity.Status),
		Street:    entity.ShippingAddress.Street,
		City:      entity.ShippingAddress.City,
		State:     entity.ShippingAddress.State,
		ZipCode:   entity.ShippingAddress.ZipCode,
		Country:   entity.ShippingAddress.Country,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func (OrderConverter) ToEntity(model *OrderModel) *domain.Order {
	return &domain.Order{
		ID:         model.ID,
		UserID:     model.UserID,
		TotalCents: model.Total,
		Status:     domain.OrderStatus(model.Status),
		ShippingAddress: domain.Address{
			Street:  model.Street,
			City:    model.City,
			State:   model.State,
			ZipCode: model.ZipCode,
			Country: model.Country,
		},
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func (OrderConverter) ItemToEntity(model *OrderItemModel) domain.OrderItem {
	return domain.OrderItem{
		ProductID:      model.ProductID,
		Quantity:       model.Quantity,
		UnitPriceCents: model.UnitPrice,
		ProductName:    model.ProductName,
	}
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   entity.EventType,
		OrderID:     entity.OrderID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   model.EventType,
		OrderID:     model.OrderID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}
	return result
}
