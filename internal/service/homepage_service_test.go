package service

import (
	"context"
	"testing"

	"github.com/bausingcode/bausing-backend/internal/apierror"
	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHomepageFixture(t *testing.T) (HomepageService, uuid.UUID) {
	t.Helper()
	productRepo := newStubProductRepo()
	p := &model.Product{Name: "Colchón Pro"}
	require.NoError(t, productRepo.Create(context.Background(), p))
	return NewHomepageService(newStubHomepageRepo(), productRepo), p.ID
}

func TestSetSlot_UnknownSectionRejected(t *testing.T) {
	svc, productID := newHomepageFixture(t)

	_, err := svc.SetSlot(context.Background(), dto.SetHomepageSlotRequest{
		Section:   "no_such_section",
		Position:  0,
		ProductID: strptr(productID.String()),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
}

func TestSetSlot_UnknownProductIsForeignKey(t *testing.T) {
	svc, _ := newHomepageFixture(t)

	_, err := svc.SetSlot(context.Background(), dto.SetHomepageSlotRequest{
		Section:   model.SectionFeatured,
		Position:  0,
		ProductID: strptr(uuid.NewString()),
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindForeignKey, apierror.KindOf(err))
}

func TestSetSlot_ExistingSlotUpdatedInPlace(t *testing.T) {
	svc, productID := newHomepageFixture(t)

	req := dto.SetHomepageSlotRequest{
		Section:   model.SectionFeatured,
		Position:  0,
		ProductID: strptr(productID.String()),
	}
	first, err := svc.SetSlot(context.Background(), req)
	require.NoError(t, err)

	// Re-setting the same (section, position) replaces the product, keeping
	// the slot row.
	second, err := svc.SetSlot(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Sections[model.SectionFeatured], 1)
}

func TestGet_GroupsSlotsBySection(t *testing.T) {
	svc, productID := newHomepageFixture(t)

	for _, section := range []string{model.SectionFeatured, model.SectionDiscounts} {
		for pos := 0; pos < 2; pos++ {
			_, err := svc.SetSlot(context.Background(), dto.SetHomepageSlotRequest{
				Section:   section,
				Position:  pos,
				ProductID: strptr(productID.String()),
			})
			require.NoError(t, err)
		}
	}

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Sections[model.SectionFeatured], 2)
	assert.Len(t, resp.Sections[model.SectionDiscounts], 2)
}

func TestClearSlot_MissingSlotNotFound(t *testing.T) {
	svc, _ := newHomepageFixture(t)

	err := svc.ClearSlot(context.Background(), model.SectionFeatured, 3)
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestClearSlot_RemovesSlot(t *testing.T) {
	svc, productID := newHomepageFixture(t)

	_, err := svc.SetSlot(context.Background(), dto.SetHomepageSlotRequest{
		Section:   model.SectionMattresses,
		Position:  1,
		ProductID: strptr(productID.String()),
	})
	require.NoError(t, err)

	require.NoError(t, svc.ClearSlot(context.Background(), model.SectionMattresses, 1))

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.Sections[model.SectionMattresses])
}
