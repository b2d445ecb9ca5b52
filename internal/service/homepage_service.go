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

// HomepageService manages the curated product grid shown on the storefront
// home, one slot per (section, position).
type HomepageService interface {
	Get(ctx context.Context) (dto.HomepageResponse, error)
	// SetSlot assigns a product to a slot. An existing slot is updated in
	// place; a concurrent create for the same slot surfaces as Conflict.
	SetSlot(ctx context.Context, req dto.SetHomepageSlotRequest) (dto.HomepageSlotResponse, error)
	ClearSlot(ctx context.Context, section string, position int) error
}

type homepageService struct {
	repo        repository.HomepageRepository
	productRepo repository.ProductRepository
}

func NewHomepageService(repo repository.HomepageRepository, productRepo repository.ProductRepository) HomepageService {
	return &homepageService{repo: repo, productRepo: productRepo}
}

func mapSlot(s model.HomepageDistribution) dto.HomepageSlotResponse {
	resp := dto.HomepageSlotResponse{
		ID:        s.ID,
		Section:   s.Section,
		Position:  s.Position,
		ProductID: s.ProductID,
	}
	if s.Product != nil {
		p := mapProduct(*s.Product)
		resp.Product = &p
	}
	return resp
}

func (s *homepageService) Get(ctx context.Context) (dto.HomepageResponse, error) {
	slots, err := s.repo.ListSlots(ctx)
	if err != nil {
		return dto.HomepageResponse{}, err
	}

	resp := dto.HomepageResponse{Sections: map[string][]dto.HomepageSlotResponse{}}
	for _, slot := range slots {
		resp.Sections[slot.Section] = append(resp.Sections[slot.Section], mapSlot(slot))
	}
	return resp, nil
}

func (s *homepageService) SetSlot(ctx context.Context, req dto.SetHomepageSlotRequest) (dto.HomepageSlotResponse, error) {
	if !model.ValidSection(req.Section) {
		return dto.HomepageSlotResponse{}, apierror.E(apierror.KindValidation, "Sección desconocida")
	}

	var productID *uuid.UUID
	if req.ProductID != nil {
		pid, err := uuid.Parse(*req.ProductID)
		if err != nil {
			return dto.HomepageSlotResponse{}, apierror.E(apierror.KindValidation, "product_id inválido")
		}
		if _, err := s.productRepo.FindByID(ctx, pid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.HomepageSlotResponse{}, apierror.ForeignKey("El producto no existe")
			}
			return dto.HomepageSlotResponse{}, err
		}
		productID = &pid
	}

	existing, err := s.repo.FindSlot(ctx, req.Section, req.Position)
	if err == nil {
		if err := s.repo.UpdateSlotProduct(ctx, existing.ID, productID); err != nil {
			return dto.HomepageSlotResponse{}, err
		}
		existing.ProductID = productID
		existing.Product = nil
		return mapSlot(*existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.HomepageSlotResponse{}, err
	}

	slot := &model.HomepageDistribution{
		Section:   req.Section,
		Position:  req.Position,
		ProductID: productID,
	}
	if err := s.repo.CreateSlot(ctx, slot); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Someone created the same (section, position) in between.
			return dto.HomepageSlotResponse{}, apierror.Conflict("La posición ya está ocupada")
		}
		return dto.HomepageSlotResponse{}, err
	}
	return mapSlot(*slot), nil
}

func (s *homepageService) ClearSlot(ctx context.Context, section string, position int) error {
	slot, err := s.repo.FindSlot(ctx, section, position)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("La posición no existe")
		}
		return err
	}
	return s.repo.DeleteSlot(ctx, slot.ID)
}
