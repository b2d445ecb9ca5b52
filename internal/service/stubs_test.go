package service

import (
	"context"
	"sort"
	"time"

	"github.com/bausingcode/bausing-backend/internal/dto"
	"github.com/bausingcode/bausing-backend/internal/model"
	"github.com/bausingcode/bausing-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubWalletRepo is an in-memory WalletRepository. Balance components are
// computed the same way the SQL does: expiration is evaluated against asOf.
type stubWalletRepo struct {
	wallets   map[uuid.UUID]*model.Wallet // keyed by user id
	movements []model.WalletMovement
}

func newStubWalletRepo() *stubWalletRepo {
	return &stubWalletRepo{wallets: make(map[uuid.UUID]*model.Wallet)}
}

func (r *stubWalletRepo) GetOrCreateByUserID(_ context.Context, userID uuid.UUID) (*model.Wallet, error) {
	if w, ok := r.wallets[userID]; ok {
		return w, nil
	}
	w := &model.Wallet{ID: uuid.New(), UserID: userID}
	r.wallets[userID] = w
	return w, nil
}

func (r *stubWalletRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Wallet, error) {
	for _, w := range r.wallets {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubWalletRepo) SetBlocked(_ context.Context, id uuid.UUID, blocked bool) error {
	for _, w := range r.wallets {
		if w.ID == id {
			w.IsBlocked = blocked
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubWalletRepo) CreateMovement(_ context.Context, m *model.WalletMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubWalletRepo) CreateMovementTx(_ *gorm.DB, m *model.WalletMovement) error {
	return r.CreateMovement(context.Background(), m)
}

func (r *stubWalletRepo) ListMovements(_ context.Context, walletID uuid.UUID) ([]model.WalletMovement, error) {
	var out []model.WalletMovement
	for _, m := range r.movements {
		if m.WalletID == walletID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubWalletRepo) BalanceComponents(_ context.Context, walletID uuid.UUID, asOf time.Time) (repository.BalanceComponents, error) {
	var comp repository.BalanceComponents
	for _, m := range r.movements {
		if m.WalletID != walletID {
			continue
		}
		if m.Amount.IsPositive() {
			if m.ExpiresAt == nil || m.ExpiresAt.After(asOf) {
				comp.ValidCredits = comp.ValidCredits.Add(m.Amount)
			}
		} else {
			comp.Debits = comp.Debits.Add(m.Amount)
		}
	}
	return comp, nil
}

func (r *stubWalletRepo) ExpiringCredits(_ context.Context, walletID uuid.UUID, now, until time.Time) ([]model.WalletMovement, error) {
	var out []model.WalletMovement
	for _, m := range r.movements {
		if m.WalletID != walletID || !m.Amount.IsPositive() || m.ExpiresAt == nil {
			continue
		}
		if m.ExpiresAt.After(now) && !m.ExpiresAt.After(until) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(*out[j].ExpiresAt) })
	return out, nil
}

func (r *stubWalletRepo) DB() *gorm.DB { return nil }

var _ repository.WalletRepository = (*stubWalletRepo)(nil)

// stubPricingRepo keeps prices in insertion order; PricesByOptionAndCatalogs
// preserves that order, standing in for the repository's id-ascending sort.
type stubPricingRepo struct {
	catalogs map[uuid.UUID]*model.Catalog
	links    []model.LocalityCatalog
	prices   []model.ProductPrice
}

func newStubPricingRepo() *stubPricingRepo {
	return &stubPricingRepo{catalogs: make(map[uuid.UUID]*model.Catalog)}
}

func (r *stubPricingRepo) CreateCatalog(_ context.Context, c *model.Catalog) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.catalogs[c.ID] = c
	return nil
}

func (r *stubPricingRepo) FindCatalogByID(_ context.Context, id uuid.UUID) (*model.Catalog, error) {
	c, ok := r.catalogs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubPricingRepo) FindCatalogByName(_ context.Context, name string) (*model.Catalog, error) {
	for _, c := range r.catalogs {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPricingRepo) ListCatalogs(_ context.Context) ([]model.Catalog, error) {
	out := make([]model.Catalog, 0, len(r.catalogs))
	for _, c := range r.catalogs {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubPricingRepo) UpdateCatalog(_ context.Context, c *model.Catalog) error {
	r.catalogs[c.ID] = c
	return nil
}

func (r *stubPricingRepo) DeleteCatalog(_ context.Context, id uuid.UUID) error {
	delete(r.catalogs, id)
	// Cascade: links and prices go with the catalog.
	links := r.links[:0]
	for _, l := range r.links {
		if l.CatalogID != id {
			links = append(links, l)
		}
	}
	r.links = links
	prices := r.prices[:0]
	for _, p := range r.prices {
		if p.CatalogID == nil || *p.CatalogID != id {
			prices = append(prices, p)
		}
	}
	r.prices = prices
	return nil
}

func (r *stubPricingRepo) LinkLocality(_ context.Context, link *model.LocalityCatalog) error {
	for _, l := range r.links {
		if l.CatalogID == link.CatalogID && l.LocalityID == link.LocalityID {
			return gorm.ErrDuplicatedKey
		}
	}
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	r.links = append(r.links, *link)
	return nil
}

func (r *stubPricingRepo) UnlinkLocality(_ context.Context, catalogID, localityID uuid.UUID) error {
	for i, l := range r.links {
		if l.CatalogID == catalogID && l.LocalityID == localityID {
			r.links = append(r.links[:i], r.links[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPricingRepo) ListLocalityLinks(_ context.Context, catalogID uuid.UUID) ([]model.LocalityCatalog, error) {
	var out []model.LocalityCatalog
	for _, l := range r.links {
		if l.CatalogID == catalogID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubPricingRepo) CatalogIDsByLocality(_ context.Context, localityID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, l := range r.links {
		if l.LocalityID == localityID {
			out = append(out, l.CatalogID)
		}
	}
	return out, nil
}

func (r *stubPricingRepo) UpsertPrice(_ context.Context, p *model.ProductPrice) error {
	for i, ex := range r.prices {
		if ex.ProductVariantOptionID == p.ProductVariantOptionID &&
			ex.CatalogID != nil && p.CatalogID != nil && *ex.CatalogID == *p.CatalogID {
			p.ID = ex.ID
			r.prices[i] = *p
			return nil
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.prices = append(r.prices, *p)
	return nil
}

func (r *stubPricingRepo) PricesByOptionAndCatalogs(_ context.Context, optionID uuid.UUID, catalogIDs []uuid.UUID) ([]model.ProductPrice, error) {
	wanted := make(map[uuid.UUID]bool, len(catalogIDs))
	for _, id := range catalogIDs {
		wanted[id] = true
	}
	var out []model.ProductPrice
	for _, p := range r.prices {
		if p.ProductVariantOptionID == optionID && p.CatalogID != nil && wanted[*p.CatalogID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPricingRepo) LegacyLocalityPrice(_ context.Context, optionID, localityID uuid.UUID) (*model.ProductPrice, error) {
	for _, p := range r.prices {
		if p.ProductVariantOptionID == optionID && p.LocalityID != nil && *p.LocalityID == localityID {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPricingRepo) ListPricesByOption(_ context.Context, optionID uuid.UUID) ([]model.ProductPrice, error) {
	var out []model.ProductPrice
	for _, p := range r.prices {
		if p.ProductVariantOptionID == optionID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPricingRepo) DeletePrice(_ context.Context, id uuid.UUID) error {
	for i, p := range r.prices {
		if p.ID == id {
			r.prices = append(r.prices[:i], r.prices[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.PricingRepository = (*stubPricingRepo)(nil)

// stubProductRepo backs products, variants, options with stock, subcategory
// links and images.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	options  map[uuid.UUID]*model.ProductVariantOption
	links    []model.ProductSubcategory
	images   []model.ProductImage
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		products: make(map[uuid.UUID]*model.Product),
		options:  make(map[uuid.UUID]*model.ProductVariantOption),
	}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) CreateVariant(_ context.Context, v *model.ProductVariant) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (r *stubProductRepo) DeleteVariant(_ context.Context, _ uuid.UUID) error { return nil }

func (r *stubProductRepo) CreateOption(_ context.Context, o *model.ProductVariantOption) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.options[o.ID] = o
	return nil
}

func (r *stubProductRepo) FindOptionByID(_ context.Context, id uuid.UUID) (*model.ProductVariantOption, error) {
	o, ok := r.options[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubProductRepo) DeleteOption(_ context.Context, id uuid.UUID) error {
	delete(r.options, id)
	return nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, optionID uuid.UUID, qty int) (int64, error) {
	o, ok := r.options[optionID]
	if !ok || o.Stock < qty {
		return 0, nil
	}
	o.Stock -= qty
	return 1, nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, optionID uuid.UUID, delta int) error {
	o, ok := r.options[optionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Stock += delta
	return nil
}

func (r *stubProductRepo) ListSubcategoryLinks(_ context.Context, productID uuid.UUID) ([]model.ProductSubcategory, error) {
	var out []model.ProductSubcategory
	for _, l := range r.links {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindSubcategoryLinkTx(_ *gorm.DB, productID, subcategoryID uuid.UUID, optionID *uuid.UUID) (*model.ProductSubcategory, error) {
	for _, l := range r.links {
		if l.ProductID != productID || l.SubcategoryID != subcategoryID {
			continue
		}
		switch {
		case l.CategoryOptionID == nil && optionID == nil:
			cp := l
			return &cp, nil
		case l.CategoryOptionID != nil && optionID != nil && *l.CategoryOptionID == *optionID:
			cp := l
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) CreateSubcategoryLinkTx(_ *gorm.DB, link *model.ProductSubcategory) error {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	r.links = append(r.links, *link)
	return nil
}

func (r *stubProductRepo) DeleteSubcategoryLinksTx(_ *gorm.DB, productID uuid.UUID, keep []uuid.UUID) error {
	keepSet := make(map[uuid.UUID]bool, len(keep))
	for _, id := range keep {
		keepSet[id] = true
	}
	links := r.links[:0]
	for _, l := range r.links {
		if l.ProductID != productID || keepSet[l.ID] {
			links = append(links, l)
		}
	}
	r.links = links
	return nil
}

func (r *stubProductRepo) CreateImage(_ context.Context, img *model.ProductImage) error {
	if img.ID == uuid.Nil {
		img.ID = uuid.New()
	}
	r.images = append(r.images, *img)
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

type stubLocalityRepo struct {
	provinces  map[uuid.UUID]*model.Province
	localities map[uuid.UUID]*model.Locality
	addresses  []model.Address
}

func newStubLocalityRepo() *stubLocalityRepo {
	return &stubLocalityRepo{
		provinces:  make(map[uuid.UUID]*model.Province),
		localities: make(map[uuid.UUID]*model.Locality),
	}
}

func (r *stubLocalityRepo) addLocality() uuid.UUID {
	l := &model.Locality{ID: uuid.New(), Name: "Villa Carlos Paz"}
	r.localities[l.ID] = l
	return l.ID
}

func (r *stubLocalityRepo) CreateProvince(_ context.Context, p *model.Province) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.provinces[p.ID] = p
	return nil
}

func (r *stubLocalityRepo) FindProvinceByID(_ context.Context, id uuid.UUID) (*model.Province, error) {
	p, ok := r.provinces[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubLocalityRepo) ListProvinces(_ context.Context) ([]model.Province, error) {
	out := make([]model.Province, 0, len(r.provinces))
	for _, p := range r.provinces {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubLocalityRepo) DeleteProvince(_ context.Context, id uuid.UUID) error {
	delete(r.provinces, id)
	return nil
}

func (r *stubLocalityRepo) CreateLocality(_ context.Context, l *model.Locality) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.localities[l.ID] = l
	return nil
}

func (r *stubLocalityRepo) FindLocalityByID(_ context.Context, id uuid.UUID) (*model.Locality, error) {
	l, ok := r.localities[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubLocalityRepo) ListLocalities(_ context.Context) ([]model.Locality, error) {
	out := make([]model.Locality, 0, len(r.localities))
	for _, l := range r.localities {
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubLocalityRepo) DeleteLocality(_ context.Context, id uuid.UUID) error {
	delete(r.localities, id)
	return nil
}

func (r *stubLocalityRepo) CreateAddress(_ context.Context, a *model.Address) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.addresses = append(r.addresses, *a)
	return nil
}

func (r *stubLocalityRepo) ListAddressesByUser(_ context.Context, userID uuid.UUID) ([]model.Address, error) {
	var out []model.Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

var _ repository.LocalityRepository = (*stubLocalityRepo)(nil)

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	carts  map[uuid.UUID]*model.Cart
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders: make(map[uuid.UUID]*model.Order),
		carts:  make(map[uuid.UUID]*model.Cart),
	}
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) List(_ context.Context, _ dto.OrderFilter) ([]model.Order, int64, error) {
	out := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) SetPreferenceID(_ context.Context, id uuid.UUID, preferenceID string) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.PreferenceID = &preferenceID
	return nil
}

func (r *stubOrderRepo) MarkPaid(_ context.Context, id uuid.UUID, paidAt time.Time) (int64, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != model.OrderPending {
		return 0, nil
	}
	o.Status = model.OrderPaid
	o.PaidAt = &paidAt
	return 1, nil
}

func (r *stubOrderRepo) MarkRejected(_ context.Context, id uuid.UUID) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = model.OrderRejected
	return nil
}

func (r *stubOrderRepo) GetOrCreateCart(_ context.Context, userID uuid.UUID) (*model.Cart, error) {
	if c, ok := r.carts[userID]; ok {
		return c, nil
	}
	c := &model.Cart{ID: uuid.New(), UserID: userID}
	r.carts[userID] = c
	return c, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
	options    map[uuid.UUID]*model.CategoryOption
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{
		categories: make(map[uuid.UUID]*model.Category),
		options:    make(map[uuid.UUID]*model.CategoryOption),
	}
}

func (r *stubCategoryRepo) add(name string, parentID *uuid.UUID) uuid.UUID {
	c := &model.Category{ID: uuid.New(), Name: name, ParentID: parentID}
	r.categories[c.ID] = c
	return c.ID
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoryRepo) ListAll(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *stubCategoryRepo) CreateOption(_ context.Context, o *model.CategoryOption) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.options[o.ID] = o
	return nil
}

func (r *stubCategoryRepo) FindOptionByID(_ context.Context, id uuid.UUID) (*model.CategoryOption, error) {
	o, ok := r.options[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubCategoryRepo) ListOptions(_ context.Context, categoryID uuid.UUID) ([]model.CategoryOption, error) {
	var out []model.CategoryOption
	for _, o := range r.options {
		if o.CategoryID == categoryID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubCategoryRepo) DeleteOption(_ context.Context, id uuid.UUID) error {
	delete(r.options, id)
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

type slotKey struct {
	section  string
	position int
}

type stubHomepageRepo struct {
	slots map[slotKey]*model.HomepageDistribution
}

func newStubHomepageRepo() *stubHomepageRepo {
	return &stubHomepageRepo{slots: make(map[slotKey]*model.HomepageDistribution)}
}

func (r *stubHomepageRepo) ListSlots(_ context.Context) ([]model.HomepageDistribution, error) {
	out := make([]model.HomepageDistribution, 0, len(r.slots))
	for _, s := range r.slots {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubHomepageRepo) FindSlot(_ context.Context, section string, position int) (*model.HomepageDistribution, error) {
	s, ok := r.slots[slotKey{section, position}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubHomepageRepo) CreateSlot(_ context.Context, slot *model.HomepageDistribution) error {
	key := slotKey{slot.Section, slot.Position}
	if _, ok := r.slots[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	r.slots[key] = slot
	return nil
}

func (r *stubHomepageRepo) UpdateSlotProduct(_ context.Context, id uuid.UUID, productID *uuid.UUID) error {
	for _, s := range r.slots {
		if s.ID == id {
			s.ProductID = productID
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubHomepageRepo) DeleteSlot(_ context.Context, id uuid.UUID) error {
	for k, s := range r.slots {
		if s.ID == id {
			delete(r.slots, k)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.HomepageRepository = (*stubHomepageRepo)(nil)

type stubUserRepo struct {
	users    map[uuid.UUID]*model.User
	docTypes map[uuid.UUID]*model.DocType
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:    make(map[uuid.UUID]*model.User),
		docTypes: make(map[uuid.UUID]*model.DocType),
	}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindDocTypeByID(_ context.Context, id uuid.UUID) (*model.DocType, error) {
	dt, ok := r.docTypes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return dt, nil
}

func (r *stubUserRepo) ListDocTypes(_ context.Context) ([]model.DocType, error) {
	out := make([]model.DocType, 0, len(r.docTypes))
	for _, dt := range r.docTypes {
		out = append(out, *dt)
	}
	return out, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

type stubSaleRetryRepo struct {
	retries []model.SaleRetry
}

func (r *stubSaleRetryRepo) Create(_ context.Context, s *model.SaleRetry) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.retries = append(r.retries, *s)
	return nil
}

func (r *stubSaleRetryRepo) ListDue(_ context.Context, now time.Time, limit int) ([]model.SaleRetry, error) {
	var out []model.SaleRetry
	for _, s := range r.retries {
		if s.Status == model.SaleRetryPending && (s.NextRetryAt == nil || !s.NextRetryAt.After(now)) {
			out = append(out, s)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubSaleRetryRepo) MarkDelivered(_ context.Context, id uuid.UUID) error {
	for i := range r.retries {
		if r.retries[i].ID == id {
			r.retries[i].Status = model.SaleRetryDelivered
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubSaleRetryRepo) Reschedule(_ context.Context, id uuid.UUID, attempts int, nextRetryAt time.Time, lastError string) error {
	for i := range r.retries {
		if r.retries[i].ID == id {
			r.retries[i].Attempts = attempts
			r.retries[i].NextRetryAt = &nextRetryAt
			r.retries[i].LastError = &lastError
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubSaleRetryRepo) MarkFailed(_ context.Context, id uuid.UUID, lastError string) error {
	for i := range r.retries {
		if r.retries[i].ID == id {
			r.retries[i].Status = model.SaleRetryFailed
			r.retries[i].LastError = &lastError
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.SaleRetryRepository = (*stubSaleRetryRepo)(nil)

// stubGateway captures preference creation; fail makes it error out.
type stubGateway struct {
	fail    bool
	created []uuid.UUID
}

func (g *stubGateway) CreatePreference(_ context.Context, o *model.Order) (string, string, error) {
	if g.fail {
		return "", "", context.DeadlineExceeded
	}
	g.created = append(g.created, o.ID)
	return "pref-123", "https://mp.example/init/pref-123", nil
}

var _ PaymentGateway = (*stubGateway)(nil)

// stubNotifier records queued post-payment jobs.
type stubNotifier struct {
	crmSales []uuid.UUID
	emails   []uuid.UUID
}

func (n *stubNotifier) QueueCRMSale(orderID uuid.UUID)   { n.crmSales = append(n.crmSales, orderID) }
func (n *stubNotifier) QueueOrderEmail(orderID uuid.UUID) { n.emails = append(n.emails, orderID) }

var _ PostPaymentNotifier = (*stubNotifier)(nil)

// stubCRMClient records sent payloads; fail simulates a transport error.
type stubCRMClient struct {
	fail bool
	sent []dto.CRMSalePayload
}

func (c *stubCRMClient) SendSale(_ context.Context, payload dto.CRMSalePayload) error {
	if c.fail {
		return context.DeadlineExceeded
	}
	c.sent = append(c.sent, payload)
	return nil
}

var _ CRMClient = (*stubCRMClient)(nil)
