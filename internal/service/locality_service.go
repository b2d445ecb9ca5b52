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

// LocalityService manages provinces and the localities customers shop from.
type LocalityService interface {
	CreateProvince(ctx context.Context, req dto.CreateProvinceRequest) (dto.ProvinceResponse, error)
	ListProvinces(ctx context.Context) ([]dto.ProvinceResponse, error)
	DeleteProvince(ctx context.Context, id uuid.UUID) error

	CreateLocality(ctx context.Context, req dto.CreateLocalityRequest) (dto.LocalityResponse, error)
	ListLocalities(ctx context.Context) ([]dto.LocalityResponse, error)
	DeleteLocality(ctx context.Context, id uuid.UUID) error

	CreateAddress(ctx context.Context, req dto.CreateAddressRequest) (dto.AddressResponse, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]dto.AddressResponse, error)
}

type localityService struct {
	repo repository.LocalityRepository
}

func NewLocalityService(repo repository.LocalityRepository) LocalityService {
	return &localityService{repo: repo}
}

func mapLocality(l model.Locality) dto.LocalityResponse {
	resp := dto.LocalityResponse{
		ID:         l.ID,
		Name:       l.Name,
		ProvinceID: l.ProvinceID,
	}
	if l.Province != nil {
		resp.ProvinceName = l.Province.Name
	}
	return resp
}

func (s *localityService) CreateProvince(ctx context.Context, req dto.CreateProvinceRequest) (dto.ProvinceResponse, error) {
	p := &model.Province{
		Name: req.Name,
		Code: req.Code,
	}
	if req.CountryCode != "" {
		p.CountryCode = req.CountryCode
	}
	if err := s.repo.CreateProvince(ctx, p); err != nil {
		return dto.ProvinceResponse{}, err
	}
	return dto.ProvinceResponse{ID: p.ID, Name: p.Name, Code: p.Code, CountryCode: p.CountryCode}, nil
}

func (s *localityService) ListProvinces(ctx context.Context) ([]dto.ProvinceResponse, error) {
	list, err := s.repo.ListProvinces(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ProvinceResponse, 0, len(list))
	for _, p := range list {
		result = append(result, dto.ProvinceResponse{ID: p.ID, Name: p.Name, Code: p.Code, CountryCode: p.CountryCode})
	}
	return result, nil
}

// DeleteProvince fails with ForeignKeyViolation while localities or addresses
// still reference the province.
func (s *localityService) DeleteProvince(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindProvinceByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Provincia no encontrada")
		}
		return err
	}
	return s.repo.DeleteProvince(ctx, id)
}

func (s *localityService) CreateLocality(ctx context.Context, req dto.CreateLocalityRequest) (dto.LocalityResponse, error) {
	provinceID, err := uuid.Parse(req.ProvinceID)
	if err != nil {
		return dto.LocalityResponse{}, apierror.E(apierror.KindValidation, "province_id inválido")
	}
	province, err := s.repo.FindProvinceByID(ctx, provinceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LocalityResponse{}, apierror.ForeignKey("La provincia no existe")
		}
		return dto.LocalityResponse{}, err
	}

	l := &model.Locality{Name: req.Name, ProvinceID: provinceID}
	if err := s.repo.CreateLocality(ctx, l); err != nil {
		return dto.LocalityResponse{}, err
	}
	l.Province = province
	return mapLocality(*l), nil
}

func (s *localityService) ListLocalities(ctx context.Context) ([]dto.LocalityResponse, error) {
	list, err := s.repo.ListLocalities(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.LocalityResponse, 0, len(list))
	for _, l := range list {
		result = append(result, mapLocality(l))
	}
	return result, nil
}

func mapAddress(a model.Address) dto.AddressResponse {
	return dto.AddressResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		Street:     a.Street,
		Number:     a.Number,
		City:       a.City,
		PostalCode: a.PostalCode,
		ProvinceID: a.ProvinceID,
	}
}

func (s *localityService) CreateAddress(ctx context.Context, req dto.CreateAddressRequest) (dto.AddressResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return dto.AddressResponse{}, apierror.E(apierror.KindValidation, "user_id inválido")
	}
	provinceID, err := uuid.Parse(req.ProvinceID)
	if err != nil {
		return dto.AddressResponse{}, apierror.E(apierror.KindValidation, "province_id inválido")
	}
	if _, err := s.repo.FindProvinceByID(ctx, provinceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AddressResponse{}, apierror.ForeignKey("La provincia no existe")
		}
		return dto.AddressResponse{}, err
	}

	a := &model.Address{
		UserID:     userID,
		Street:     req.Street,
		Number:     req.Number,
		City:       req.City,
		PostalCode: req.PostalCode,
		ProvinceID: provinceID,
	}
	if err := s.repo.CreateAddress(ctx, a); err != nil {
		return dto.AddressResponse{}, err
	}
	return mapAddress(*a), nil
}

func (s *localityService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]dto.AddressResponse, error) {
	list, err := s.repo.ListAddressesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.AddressResponse, 0, len(list))
	for _, a := range list {
		result = append(result, mapAddress(a))
	}
	return result, nil
}

func (s *localityService) DeleteLocality(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindLocalityByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Localidad no encontrada")
		}
		return err
	}
	return s.repo.DeleteLocality(ctx, id)
}
