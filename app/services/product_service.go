package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/app/repositories"
)

// Actor identifies the authenticated user performing an operation, for
// ownership and audit attribution.
type Actor struct {
	ID   primitive.ObjectID
	Name string
}

// CreateProductInput is the validated create payload.
type CreateProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" validate:"required,in=Electronics,Clothing,Food,Books,Home,Sports,Other"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Status      string  `json:"status" validate:"nullable,in=active,inactive,out-of-stock"`
	ImageURL    string  `json:"imageUrl" validate:"nullable,url"`
}

// UpdateProductInput is the partial update payload. Strings apply when
// non-empty; numeric and imageUrl fields are pointers so zero is a valid
// provided value.
type UpdateProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"nullable,in=Electronics,Clothing,Food,Books,Home,Sports,Other"`
	Price       *float64 `json:"price" validate:"nullable,gte=0"`
	Stock       *int     `json:"stock" validate:"nullable,gte=0"`
	Status      string   `json:"status" validate:"nullable,in=active,inactive,out-of-stock"`
	ImageURL    *string  `json:"imageUrl"`
}

// ProductService implements the catalogue operations.
type ProductService struct {
	products repositories.ProductRepository
	recorder *ActivityRecorder
	onChange func() // invalidates the analytics cache
}

func NewProductService(products repositories.ProductRepository, recorder *ActivityRecorder, onChange func()) *ProductService {
	if onChange == nil {
		onChange = func() {}
	}
	return &ProductService{products: products, recorder: recorder, onChange: onChange}
}

func (s *ProductService) List(ctx context.Context, q repositories.ProductQuery) ([]models.Product, error) {
	return s.products.List(ctx, q)
}

func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, actor Actor, in CreateProductInput) (*models.Product, error) {
	status := in.Status
	if status == "" {
		status = models.StatusActive
	}
	p := &models.Product{
		UserID:      actor.ID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Stock:       in.Stock,
		Status:      status,
		ImageURL:    in.ImageURL,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	s.recorder.Record(models.Activity{
		UserID:      actor.ID,
		UserName:    actor.Name,
		EntityType:  models.EntityProduct,
		EntityID:    p.ID,
		EntityName:  p.Name,
		Action:      models.ActionCreated,
		Description: fmt.Sprintf("Created product %q in %s", p.Name, p.Category),
	})
	s.onChange()
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, actor Actor, id primitive.ObjectID, in UpdateProductInput) (*models.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Status != "" {
		p.Status = in.Status
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}

	s.recorder.Record(models.Activity{
		UserID:      actor.ID,
		UserName:    actor.Name,
		EntityType:  models.EntityProduct,
		EntityID:    p.ID,
		EntityName:  p.Name,
		Action:      models.ActionUpdated,
		Description: fmt.Sprintf("Updated product %q", p.Name),
	})
	s.onChange()
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	// Fetch first so the audit record carries the name of what was removed.
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(models.Activity{
		UserID:      actor.ID,
		UserName:    actor.Name,
		EntityType:  models.EntityProduct,
		EntityID:    id,
		EntityName:  p.Name,
		Action:      models.ActionDeleted,
		Description: fmt.Sprintf("Deleted product %q", p.Name),
	})
	s.onChange()
	return nil
}
