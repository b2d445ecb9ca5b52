package service

import (
	"context"
	"errors"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/model"
	"github.com/bausingcode/bausing-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductService manages products, their variants/options, stock and images.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.ProductResponse, error)
	// GetForLocality resolves each option's price for the locality; options
	// without a price in that locality come back without one.
	GetForLocality(ctx context.Context, id, localityID uuid.UUID) (dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddVariant(ctx context.Context, productID uuid.UUID, req dto.CreateVariantRequest) (dto.VariantResponse, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error
	AddVariantOption(ctx context.Context, variantID uuid.UUID, req dto.CreateVariantOptionRequest) (dto.VariantOptionResponse, error)
	DeleteVariantOption(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, optionID uuid.UUID, delta int) error

	AddImage(ctx context.Context, productID uuid.UUID, url string, position int) error
}

type productService struct {
	repo    repository.ProductRepository
	pricing PricingService
}

func NewProductService(repo repository.ProductRepository, pricing PricingService) ProductService {
	return &productService{repo: repo, pricing: pricing}
}

func mapProduct(p model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		CategoryID:  p.CategoryID,
		IsActive:    p.IsActive,
	}
	if len(p.Images) > 0 {
		resp.MainImage = &p.Images[0].ImageURL
	}
	for _, v := range p.Variants {
		vr := dto.VariantResponse{
			ID:         v.ID,
			Name:       v.Name,
			Attributes: v.Attributes,
			Options:    make([]dto.VariantOptionResponse, 0, len(v.Options)),
		}
		for _, o := range v.Options {
			vr.Options = append(vr.Options, dto.VariantOptionResponse{
				ID:    o.ID,
				Name:  o.Name,
				Stock: o.Stock,
			})
		}
		resp.Variants = append(resp.Variants, vr)
	}
	return resp
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (dto.ProductResponse, error) {
	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		IsActive:    true,
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return dto.ProductResponse{}, apierror.E(apierror.KindValidation, "category_id inválido")
		}
		p.CategoryID = &cid
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return dto.ProductResponse{}, err
	}
	return mapProduct(*p), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProductResponse{}, apierror.NotFound("Producto no encontrado")
		}
		return dto.ProductResponse{}, err
	}
	return mapProduct(*p), nil
}

func (s *productService) GetForLocality(ctx context.Context, id, localityID uuid.UUID) (dto.ProductResponse, error) {
	resp, err := s.Get(ctx, id)
	if err != nil {
		return dto.ProductResponse{}, err
	}

	for vi := range resp.Variants {
		for oi := range resp.Variants[vi].Options {
			opt := &resp.Variants[vi].Options[oi]
			price, err := s.pricing.ResolvePrice(ctx, opt.ID, localityID)
			if err != nil {
				if apierror.KindOf(err) == apierror.KindPriceNotFound {
					continue
				}
				return dto.ProductResponse{}, err
			}
			p := price
			opt.Price = &p
		}
	}
	return resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ProductListResponse{}, err
	}

	resp := dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, 0, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for _, p := range products {
		resp.Data = append(resp.Data, mapProduct(p))
	}
	return resp, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProductResponse{}, apierror.NotFound("Producto no encontrado")
		}
		return dto.ProductResponse{}, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.SKU != nil {
		p.SKU = req.SKU
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			p.CategoryID = nil
		} else {
			cid, err := uuid.Parse(*req.CategoryID)
			if err != nil {
				return dto.ProductResponse{}, apierror.E(apierror.KindValidation, "category_id inválido")
			}
			p.CategoryID = &cid
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return dto.ProductResponse{}, err
	}
	return mapProduct(*p), nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Producto no encontrado")
		}
		return err
	}
	// Variants, options, prices, images and subcategory links go with it;
	// homepage slots keep the row with product_id nulled.
	return s.repo.Delete(ctx, id)
}

func (s *productService) AddVariant(ctx context.Context, productID uuid.UUID, req dto.CreateVariantRequest) (dto.VariantResponse, error) {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.VariantResponse{}, apierror.NotFound("Producto no encontrado")
		}
		return dto.VariantResponse{}, err
	}

	v := &model.ProductVariant{
		ProductID:  productID,
		Name:       req.Name,
		Attributes: req.Attributes,
	}
	if err := s.repo.CreateVariant(ctx, v); err != nil {
		return dto.VariantResponse{}, err
	}
	return dto.VariantResponse{
		ID:         v.ID,
		Name:       v.Name,
		Attributes: v.Attributes,
		Options:    []dto.VariantOptionResponse{},
	}, nil
}

func (s *productService) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteVariant(ctx, id)
}

func (s *productService) AddVariantOption(ctx context.Context, variantID uuid.UUID, req dto.CreateVariantOptionRequest) (dto.VariantOptionResponse, error) {
	o := &model.ProductVariantOption{
		VariantID: variantID,
		Name:      req.Name,
		Stock:     req.Stock,
	}
	if err := s.repo.CreateOption(ctx, o); err != nil {
		return dto.VariantOptionResponse{}, err
	}
	return dto.VariantOptionResponse{ID: o.ID, Name: o.Name, Stock: o.Stock}, nil
}

func (s *productService) DeleteVariantOption(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOption(ctx, id)
}

func (s *productService) AdjustStock(ctx context.Context, optionID uuid.UUID, delta int) error {
	if _, err := s.repo.FindOptionByID(ctx, optionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Opción de producto no encontrada")
		}
		return err
	}
	return s.repo.AdjustStock(ctx, optionID, delta)
}

func (s *productService) AddImage(ctx context.Context, productID uuid.UUID, url string, position int) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Producto no encontrado")
		}
		return err
	}
	return s.repo.CreateImage(ctx, &model.ProductImage{
		ProductID: productID,
		ImageURL:  url,
		Position:  position,
	})
}
