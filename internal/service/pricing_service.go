package service

import (
	"context"
	"errors"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/model"
	"github.com/bausingcode/bausing-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PricingService resolves the price of a variant option for a locality and
// manages catalogs (pricing tiers) and their locality memberships.
type PricingService interface {
	// ResolvePrice picks the single applicable price for (option, locality).
	// Resolution order:
	//   1. every catalog the locality belongs to → catalog-keyed prices,
	//      lowest price id wins when more than one catalog matches;
	//   2. a legacy locality-keyed price (partially migrated data);
	//   3. PriceNotFound — the option is not purchasable in that locality.
	ResolvePrice(ctx context.Context, optionID, localityID uuid.UUID) (decimal.Decimal, error)

	CreateCatalog(ctx context.Context, req dto.CreateCatalogRequest) (dto.CatalogResponse, error)
	ListCatalogs(ctx context.Context) ([]dto.CatalogResponse, error)
	UpdateCatalog(ctx context.Context, id uuid.UUID, req dto.UpdateCatalogRequest) (dto.CatalogResponse, error)
	DeleteCatalog(ctx context.Context, id uuid.UUID) error

	LinkLocality(ctx context.Context, catalogID, localityID uuid.UUID) error
	UnlinkLocality(ctx context.Context, catalogID, localityID uuid.UUID) error

	SetPrice(ctx context.Context, req dto.SetPriceRequest) (dto.PriceResponse, error)
	ListOptionPrices(ctx context.Context, optionID uuid.UUID) ([]dto.PriceResponse, error)
}

type pricingService struct {
	repo         repository.PricingRepository
	productRepo  repository.ProductRepository
	localityRepo repository.LocalityRepository
}

func NewPricingService(
	repo repository.PricingRepository,
	productRepo repository.ProductRepository,
	localityRepo repository.LocalityRepository,
) PricingService {
	return &pricingService{repo: repo, productRepo: productRepo, localityRepo: localityRepo}
}

func (s *pricingService) ResolvePrice(ctx context.Context, optionID, localityID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.productRepo.FindOptionByID(ctx, optionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, apierror.NotFound("Opción de producto no encontrada")
		}
		return decimal.Zero, err
	}

	catalogIDs, err := s.repo.CatalogIDsByLocality(ctx, localityID)
	if err != nil {
		return decimal.Zero, err
	}

	if len(catalogIDs) > 0 {
		prices, err := s.repo.PricesByOptionAndCatalogs(ctx, optionID, catalogIDs)
		if err != nil {
			return decimal.Zero, err
		}
		// A locality may belong to multiple catalogs, so duplicates are
		// possible. Rows come back ordered by id ascending; the first one is
		// the deterministic winner.
		if len(prices) > 0 {
			return prices[0].Price, nil
		}
	}

	// Legacy path: prices keyed directly by locality, from before the catalog
	// migration.
	legacy, err := s.repo.LegacyLocalityPrice(ctx, optionID, localityID)
	if err == nil {
		return legacy.Price, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}

	return decimal.Zero, apierror.PriceNotFound("El producto no tiene precio en esta localidad")
}

func mapCatalog(c model.Catalog) dto.CatalogResponse {
	return dto.CatalogResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

func (s *pricingService) CreateCatalog(ctx context.Context, req dto.CreateCatalogRequest) (dto.CatalogResponse, error) {
	existing, err := s.repo.FindCatalogByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CatalogResponse{}, err
	}
	if existing != nil {
		return dto.CatalogResponse{}, apierror.Conflict("Ya existe un catálogo con ese nombre")
	}

	c := &model.Catalog{Name: req.Name, Description: req.Description}
	if err := s.repo.CreateCatalog(ctx, c); err != nil {
		return dto.CatalogResponse{}, err
	}
	return mapCatalog(*c), nil
}

func (s *pricingService) ListCatalogs(ctx context.Context) ([]dto.CatalogResponse, error) {
	list, err := s.repo.ListCatalogs(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CatalogResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCatalog(c))
	}
	return result, nil
}

func (s *pricingService) UpdateCatalog(ctx context.Context, id uuid.UUID, req dto.UpdateCatalogRequest) (dto.CatalogResponse, error) {
	c, err := s.repo.FindCatalogByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CatalogResponse{}, apierror.NotFound("Catálogo no encontrado")
		}
		return dto.CatalogResponse{}, err
	}

	if req.Name != nil && *req.Name != c.Name {
		existing, err := s.repo.FindCatalogByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CatalogResponse{}, err
		}
		if existing != nil && existing.ID != id {
			return dto.CatalogResponse{}, apierror.Conflict("Ya existe un catálogo con ese nombre")
		}
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}

	if err := s.repo.UpdateCatalog(ctx, c); err != nil {
		return dto.CatalogResponse{}, err
	}
	return mapCatalog(*c), nil
}

// DeleteCatalog removes the catalog with its locality links and prices.
// Options priced only under this catalog become unpurchasable in the affected
// localities (resolvePrice → PriceNotFound), which is the intended contract.
func (s *pricingService) DeleteCatalog(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCatalogByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Catálogo no encontrado")
		}
		return err
	}
	return s.repo.DeleteCatalog(ctx, id)
}

func (s *pricingService) LinkLocality(ctx context.Context, catalogID, localityID uuid.UUID) error {
	if _, err := s.repo.FindCatalogByID(ctx, catalogID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Catálogo no encontrado")
		}
		return err
	}
	if _, err := s.localityRepo.FindLocalityByID(ctx, localityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.ForeignKey("La localidad no existe")
		}
		return err
	}

	err := s.repo.LinkLocality(ctx, &model.LocalityCatalog{CatalogID: catalogID, LocalityID: localityID})
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// Already linked — idempotent
		return nil
	}
	return err
}

func (s *pricingService) UnlinkLocality(ctx context.Context, catalogID, localityID uuid.UUID) error {
	return s.repo.UnlinkLocality(ctx, catalogID, localityID)
}

func (s *pricingService) SetPrice(ctx context.Context, req dto.SetPriceRequest) (dto.PriceResponse, error) {
	optionID, err := uuid.Parse(req.ProductVariantOptionID)
	if err != nil {
		return dto.PriceResponse{}, apierror.New("product_variant_option_id inválido")
	}
	catalogID, err := uuid.Parse(req.CatalogID)
	if err != nil {
		return dto.PriceResponse{}, apierror.New("catalog_id inválido")
	}
	if req.Price.IsNegative() {
		return dto.PriceResponse{}, apierror.E(apierror.KindValidation, "El precio no puede ser negativo")
	}

	if _, err := s.productRepo.FindOptionByID(ctx, optionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PriceResponse{}, apierror.NotFound("Opción de producto no encontrada")
		}
		return dto.PriceResponse{}, err
	}
	if _, err := s.repo.FindCatalogByID(ctx, catalogID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PriceResponse{}, apierror.ForeignKey("El catálogo no existe")
		}
		return dto.PriceResponse{}, err
	}

	p := &model.ProductPrice{
		ProductVariantOptionID: optionID,
		CatalogID:              &catalogID,
		Price:                  req.Price,
	}
	if err := s.repo.UpsertPrice(ctx, p); err != nil {
		return dto.PriceResponse{}, err
	}
	return dto.PriceResponse{
		ID:                     p.ID,
		ProductVariantOptionID: p.ProductVariantOptionID,
		CatalogID:              p.CatalogID,
		Price:                  p.Price,
	}, nil
}

func (s *pricingService) ListOptionPrices(ctx context.Context, optionID uuid.UUID) ([]dto.PriceResponse, error) {
	prices, err := s.repo.ListPricesByOption(ctx, optionID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.PriceResponse, 0, len(prices))
	for _, p := range prices {
		result = append(result, dto.PriceResponse{
			ID:                     p.ID,
			ProductVariantOptionID: p.ProductVariantOptionID,
			CatalogID:              p.CatalogID,
			LocalityID:             p.LocalityID,
			Price:                  p.Price,
		})
	}
	return result, nil
}
