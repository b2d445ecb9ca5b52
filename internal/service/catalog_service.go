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

// CatalogService manages the category tree (categories, subcategories, their
// options) and the product↔subcategory assignments that hang off it.
type CatalogService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error)
	GetCategory(ctx context.Context, id uuid.UUID) (dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// ResolveSubtree returns the category with all of its descendants. The
	// whole table is loaded once and the tree assembled in memory, so depth
	// is unbounded and no recursive SQL is needed.
	ResolveSubtree(ctx context.Context, rootID uuid.UUID) (dto.CategoryTreeNode, error)
	ListTree(ctx context.Context) ([]dto.CategoryTreeNode, error)

	CreateOption(ctx context.Context, categoryID uuid.UUID, req dto.CreateCategoryOptionRequest) (dto.CategoryOptionResponse, error)
	DeleteOption(ctx context.Context, id uuid.UUID) error

	// AssignSubcategories links a product to subcategories, optionally tagged
	// with a category option. Existing links are kept untouched (idempotent);
	// with Replace set, links absent from the request are removed. All of it
	// runs in one transaction.
	AssignSubcategories(ctx context.Context, productID uuid.UUID, req dto.AssignSubcategoriesRequest) ([]dto.SubcategoryLinkResponse, error)
	ListSubcategories(ctx context.Context, productID uuid.UUID) ([]dto.SubcategoryLinkResponse, error)
}

type catalogService struct {
	repo        repository.CategoryRepository
	productRepo repository.ProductRepository
}

func NewCatalogService(repo repository.CategoryRepository, productRepo repository.ProductRepository) CatalogService {
	return &catalogService{repo: repo, productRepo: productRepo}
}

func mapCategory(c model.Category) dto.CategoryResponse {
	resp := dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		Order:       c.Order,
	}
	for _, o := range c.Options {
		resp.Options = append(resp.Options, dto.CategoryOptionResponse{
			ID:       o.ID,
			Value:    o.Value,
			Position: o.Position,
		})
	}
	return resp
}

func (s *catalogService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (dto.CategoryResponse, error) {
	c := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
	}
	if req.ParentID != nil {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return dto.CategoryResponse{}, apierror.E(apierror.KindValidation, "parent_id inválido")
		}
		if _, err := s.repo.FindByID(ctx, parentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CategoryResponse{}, apierror.ForeignKey("La categoría padre no existe")
			}
			return dto.CategoryResponse{}, err
		}
		c.ParentID = &parentID
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c), nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryResponse{}, apierror.NotFound("Categoría no encontrada")
		}
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c), nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryResponse{}, apierror.NotFound("Categoría no encontrada")
		}
		return dto.CategoryResponse{}, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.Order != nil {
		c.Order = *req.Order
	}
	if req.ParentID != nil {
		if *req.ParentID == "" {
			c.ParentID = nil
		} else {
			parentID, err := uuid.Parse(*req.ParentID)
			if err != nil {
				return dto.CategoryResponse{}, apierror.E(apierror.KindValidation, "parent_id inválido")
			}
			if parentID == id {
				return dto.CategoryResponse{}, apierror.Conflict("Una categoría no puede ser su propio padre")
			}
			if err := s.checkNoCycle(ctx, id, parentID); err != nil {
				return dto.CategoryResponse{}, err
			}
			c.ParentID = &parentID
		}
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c), nil
}

// checkNoCycle rejects reparenting id under one of its own descendants.
// Walks parent pointers up from the candidate parent; hitting id means the
// candidate lives inside id's subtree.
func (s *catalogService) checkNoCycle(ctx context.Context, id, newParentID uuid.UUID) error {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	parents := make(map[uuid.UUID]*uuid.UUID, len(all))
	for _, c := range all {
		parents[c.ID] = c.ParentID
	}
	if _, ok := parents[newParentID]; !ok {
		return apierror.ForeignKey("La categoría padre no existe")
	}

	cur := &newParentID
	for steps := 0; cur != nil && steps <= len(all); steps++ {
		if *cur == id {
			return apierror.Conflict("La categoría no puede moverse dentro de su propio subárbol")
		}
		cur = parents[*cur]
	}
	return nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Categoría no encontrada")
		}
		return err
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, c := range all {
		if c.ParentID != nil && *c.ParentID == id {
			return apierror.ForeignKey("La categoría tiene subcategorías; elimínelas primero")
		}
	}
	return s.repo.Delete(ctx, id)
}

func (s *catalogService) ResolveSubtree(ctx context.Context, rootID uuid.UUID) (dto.CategoryTreeNode, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return dto.CategoryTreeNode{}, err
	}

	byID := make(map[uuid.UUID]model.Category, len(all))
	children := make(map[uuid.UUID][]uuid.UUID, len(all))
	for _, c := range all {
		byID[c.ID] = c
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	root, ok := byID[rootID]
	if !ok {
		return dto.CategoryTreeNode{}, apierror.NotFound("Categoría no encontrada")
	}
	return buildNode(root, byID, children), nil
}

func (s *catalogService) ListTree(ctx context.Context) ([]dto.CategoryTreeNode, error) {
	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]model.Category, len(all))
	children := make(map[uuid.UUID][]uuid.UUID, len(all))
	for _, c := range all {
		byID[c.ID] = c
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	// ListAll orders by (order, name); roots inherit that order.
	roots := make([]dto.CategoryTreeNode, 0)
	for _, c := range all {
		if c.ParentID == nil {
			roots = append(roots, buildNode(c, byID, children))
		}
	}
	return roots, nil
}

// buildNode assembles one subtree from the preloaded arena. Termination is
// guaranteed by the write-time cycle check.
func buildNode(c model.Category, byID map[uuid.UUID]model.Category, children map[uuid.UUID][]uuid.UUID) dto.CategoryTreeNode {
	node := dto.CategoryTreeNode{
		CategoryResponse: mapCategory(c),
		Children:         []dto.CategoryTreeNode{},
	}
	for _, childID := range children[c.ID] {
		node.Children = append(node.Children, buildNode(byID[childID], byID, children))
	}
	return node
}

func (s *catalogService) CreateOption(ctx context.Context, categoryID uuid.UUID, req dto.CreateCategoryOptionRequest) (dto.CategoryOptionResponse, error) {
	if _, err := s.repo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryOptionResponse{}, apierror.NotFound("Categoría no encontrada")
		}
		return dto.CategoryOptionResponse{}, err
	}

	o := &model.CategoryOption{
		CategoryID: categoryID,
		Value:      req.Value,
		Position:   req.Position,
	}
	if err := s.repo.CreateOption(ctx, o); err != nil {
		return dto.CategoryOptionResponse{}, err
	}
	return dto.CategoryOptionResponse{ID: o.ID, Value: o.Value, Position: o.Position}, nil
}

func (s *catalogService) DeleteOption(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindOptionByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Opción no encontrada")
		}
		return err
	}
	return s.repo.DeleteOption(ctx, id)
}

func (s *catalogService) AssignSubcategories(ctx context.Context, productID uuid.UUID, req dto.AssignSubcategoriesRequest) ([]dto.SubcategoryLinkResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Producto no encontrado")
		}
		return nil, err
	}

	type resolved struct {
		subcategoryID uuid.UUID
		optionID      *uuid.UUID
	}
	assignments := make([]resolved, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		subID, err := uuid.Parse(a.SubcategoryID)
		if err != nil {
			return nil, apierror.E(apierror.KindValidation, "subcategory_id inválido")
		}
		sub, err := s.repo.FindByID(ctx, subID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.ForeignKey("La subcategoría no existe")
			}
			return nil, err
		}
		if sub.ParentID == nil {
			return nil, apierror.E(apierror.KindValidation, "Solo se puede asignar a subcategorías")
		}

		var optionID *uuid.UUID
		if a.CategoryOptionID != nil {
			oid, err := uuid.Parse(*a.CategoryOptionID)
			if err != nil {
				return nil, apierror.E(apierror.KindValidation, "category_option_id inválido")
			}
			opt, err := s.repo.FindOptionByID(ctx, oid)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apierror.ForeignKey("La opción de categoría no existe")
				}
				return nil, err
			}
			if opt.CategoryID != subID {
				return nil, apierror.E(apierror.KindValidation, "La opción no pertenece a la subcategoría")
			}
			optionID = &oid
		}
		assignments = append(assignments, resolved{subcategoryID: subID, optionID: optionID})
	}

	err := runTx(ctx, s.productRepo.DB(), func(tx *gorm.DB) error {
		keep := make([]uuid.UUID, 0, len(assignments))
		for _, a := range assignments {
			existing, err := s.productRepo.FindSubcategoryLinkTx(tx, productID, a.subcategoryID, a.optionID)
			if err == nil {
				// Same triple already linked — idempotent
				keep = append(keep, existing.ID)
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			link := &model.ProductSubcategory{
				ProductID:        productID,
				SubcategoryID:    a.subcategoryID,
				CategoryOptionID: a.optionID,
			}
			if err := s.productRepo.CreateSubcategoryLinkTx(tx, link); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Lost a concurrent race for the same triple
					return apierror.Conflict("La asignación ya existe")
				}
				return err
			}
			keep = append(keep, link.ID)
		}
		if req.Replace {
			return s.productRepo.DeleteSubcategoryLinksTx(tx, productID, keep)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.ListSubcategories(ctx, productID)
}

func (s *catalogService) ListSubcategories(ctx context.Context, productID uuid.UUID) ([]dto.SubcategoryLinkResponse, error) {
	links, err := s.productRepo.ListSubcategoryLinks(ctx, productID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.SubcategoryLinkResponse, 0, len(links))
	for _, l := range links {
		result = append(result, dto.SubcategoryLinkResponse{
			SubcategoryID:    l.SubcategoryID,
			CategoryOptionID: l.CategoryOptionID,
		})
	}
	return result, nil
}
