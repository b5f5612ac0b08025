package lineitem

import (
	"errors"
	"math"

	"perde-backend/internal/catalog"
	"perde-backend/internal/pricing"
)

var (
	ErrDrawerClosed     = errors.New("çekmece kapalı")
	ErrNotEditing       = errors.New("sadece mevcut satır silinebilir")
	ErrCategoryRequired = errors.New("kategori seçilmeli")
	ErrVariantRequired  = errors.New("ürün seçilmeli")
	ErrManualPriceOff   = errors.New("elle fiyat kapalıyken birim fiyat değiştirilemez")
	ErrInvalidPrice     = errors.New("birim fiyat geçerli bir sayı olmalı")
	ErrInvalidStatus    = errors.New("geçersiz satır durumu")
)

// Katalog fiyatı ile kayıtlı fiyat arasındaki fark bundan büyükse satır
// elle fiyatlı kabul edilir.
const priceTolerance = 0.0001

const defaultDensity = 1.0

type State int

const (
	StateComposing State = iota
	StateCommitted
	StateEditing
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateComposing:
		return "composing"
	case StateCommitted:
		return "committed"
	case StateEditing:
		return "editing"
	case StateRemoved:
		return "removed"
	}
	return "unknown"
}

// Form çekmecedeki düzenlenebilir alanlar.
type Form struct {
	CategoryID uint
	VariantID  uint
	Qty        int
	Width      int
	Height     int
	Density    float64
	UnitPrice  float64
	Note       string
	Status     Status
}

// Drawer tek bir satırın ekle/düzenle akışı:
// Composing -> Committed, Editing -> Committed | Removed.
type Drawer struct {
	state       State
	catalog     catalog.Catalog
	original    *Line
	quick       bool
	slotIndex   *int
	manualPrice bool
	form        Form
}

// OpenAdd bir slot ya da bölümden yeni satır çekmecesi açar. slotIndex nil
// ise satır ilk boş slota yerleşir.
func OpenAdd(cat catalog.Catalog, categoryID uint, slotIndex *int, status Status) *Drawer {
	d := &Drawer{
		state:   StateComposing,
		catalog: cat,
		form: Form{
			Qty:     1,
			Density: defaultDensity,
			Status:  status,
		},
	}
	if slotIndex != nil {
		d.slotIndex = intPtr(*slotIndex)
	}
	d.selectCategory(categoryID)
	return d
}

// OpenQuickAdd kutusuz (hızlı giriş) kategoriler için.
func OpenQuickAdd(cat catalog.Catalog, categoryID uint, status Status) *Drawer {
	d := OpenAdd(cat, categoryID, nil, status)
	d.quick = true
	return d
}

// OpenEdit mevcut satır üzerine çekmeceyi açar. Kayıtlı birim fiyat katalog
// fiyatından farklıysa elle fiyat açık gelir.
func OpenEdit(cat catalog.Catalog, line Line) *Drawer {
	orig := line
	if line.SlotIndex != nil {
		orig.SlotIndex = intPtr(*line.SlotIndex)
	}
	d := &Drawer{
		state:    StateEditing,
		catalog:  cat,
		original: &orig,
		form: Form{
			CategoryID: line.CategoryID,
			VariantID:  line.VariantID,
			Qty:        pricing.ClampQty(float64(line.Qty)),
			Width:      pricing.ClampDimension(float64(line.Width)),
			Height:     pricing.ClampDimension(float64(line.Height)),
			Density:    sanitizeDensity(line.Density),
			UnitPrice:  line.UnitPrice,
			Note:       line.Note,
			Status:     line.Status,
		},
	}
	if v, ok := cat.Variant(line.CategoryID, line.VariantID); !ok || math.Abs(v.UnitPrice-line.UnitPrice) > priceTolerance {
		d.manualPrice = true
	}
	return d
}

func (d *Drawer) State() State { return d.state }

func (d *Drawer) Form() Form { return d.form }

func (d *Drawer) ManualPrice() bool { return d.manualPrice }

func (d *Drawer) IsQuick() bool { return d.quick }

// RequestedSlot kullanıcının açtığı slot numarası (varsa).
func (d *Drawer) RequestedSlot() *int {
	if d.slotIndex == nil {
		return nil
	}
	return intPtr(*d.slotIndex)
}

func (d *Drawer) Original() (Line, bool) {
	if d.original == nil {
		return Line{}, false
	}
	return *d.original, true
}

func (d *Drawer) open() bool {
	return d.state == StateComposing || d.state == StateEditing
}

// UpdateCatalog yeni ürün eklendikten sonra güncel kataloğu çekmeceye verir.
func (d *Drawer) UpdateCatalog(cat catalog.Catalog) {
	d.catalog = cat
}

// SelectCategory kategoriyi değiştirir ve ürünü kategorinin ilk ürününe sıfırlar.
func (d *Drawer) SelectCategory(categoryID uint) error {
	if !d.open() {
		return ErrDrawerClosed
	}
	if _, ok := d.catalog.Category(categoryID); !ok {
		return catalog.ErrCategoryNotFound
	}
	d.selectCategory(categoryID)
	return nil
}

func (d *Drawer) selectCategory(categoryID uint) {
	d.form.CategoryID = categoryID
	d.form.VariantID = 0
	if v, ok := d.catalog.FirstVariant(categoryID); ok {
		d.form.VariantID = v.ID
		if !d.manualPrice {
			d.form.UnitPrice = v.UnitPrice
		}
	} else if !d.manualPrice {
		d.form.UnitPrice = 0
	}
}

func (d *Drawer) SelectVariant(variantID uint) error {
	if !d.open() {
		return ErrDrawerClosed
	}
	v, ok := d.catalog.Variant(d.form.CategoryID, variantID)
	if !ok {
		return catalog.ErrVariantNotFound
	}
	d.form.VariantID = v.ID
	if !d.manualPrice {
		d.form.UnitPrice = v.UnitPrice
	}
	return nil
}

// SetManualPrice açıldığında birim fiyat ürün seçiminden bağımsız kalır;
// kapatıldığında ürünün katalog fiyatına döner.
func (d *Drawer) SetManualPrice(on bool) error {
	if !d.open() {
		return ErrDrawerClosed
	}
	d.manualPrice = on
	if !on {
		if v, ok := d.catalog.Variant(d.form.CategoryID, d.form.VariantID); ok {
			d.form.UnitPrice = v.UnitPrice
		} else {
			d.form.UnitPrice = 0
		}
	}
	return nil
}

func (d *Drawer) SetUnitPrice(price float64) error {
	if !d.open() {
		return ErrDrawerClosed
	}
	if !d.manualPrice {
		return ErrManualPriceOff
	}
	d.form.UnitPrice = price
	return nil
}

// Sayısal alanlar geçersiz girdide reddedilmez, güvenli varsayılana çekilir.

func (d *Drawer) SetQty(v float64) error {
	if !d.open() {
		return ErrDrawerClosed
	}
	d.form.Qty = pricing.ClampQty(v)
	return nil
}

func (d *Drawer) SetWidth(v float64) error {
	if !d.open() {
		return ErrDrawerClosed
	}
	d.form.Width = pricing.ClampDimension(v)
	return nil
}

func (d *Drawer) SetHeight(v float64) error {
	if !d.open() {
		return ErrDrawerClosed
	}
	d.form.Height = pricing.ClampDimension(v)
	return nil
}

func (d *Drawer) SetDensity(v float64) error {
	if !d.open() {
		return ErrDrawerClosed
	}
	d.form.Density = sanitizeDensity(v)
	return nil
}

func (d *Drawer) SetNote(note string) error {
	if !d.open() {
		return ErrDrawerClosed
	}
	d.form.Note = note
	return nil
}

func (d *Drawer) SetStatus(s Status) error {
	if !d.open() {
		return ErrDrawerClosed
	}
	if !s.Valid() {
		return ErrInvalidStatus
	}
	d.form.Status = s
	return nil
}

// Preview kaydetmeden önceki canlı ara toplam.
func (d *Drawer) Preview() float64 {
	cat, _ := d.catalog.Category(d.form.CategoryID)
	return pricing.ComputeSubtotal(cat.Name, d.form.UnitPrice,
		float64(d.form.Qty), float64(d.form.Width), float64(d.form.Height), d.form.Density)
}

// Commit formu doğrular ve satırı üretir. Slot yerleşimi çağıranın işidir;
// düzenlemede satırın mevcut slotu korunur.
func (d *Drawer) Commit() (Line, error) {
	if !d.open() {
		return Line{}, ErrDrawerClosed
	}
	cat, ok := d.catalog.Category(d.form.CategoryID)
	if d.form.CategoryID == 0 || !ok {
		return Line{}, ErrCategoryRequired
	}
	v, ok := d.catalog.Variant(cat.ID, d.form.VariantID)
	if d.form.VariantID == 0 || !ok {
		return Line{}, ErrVariantRequired
	}
	if math.IsNaN(d.form.UnitPrice) || math.IsInf(d.form.UnitPrice, 0) || d.form.UnitPrice < 0 {
		return Line{}, ErrInvalidPrice
	}
	if !d.form.Status.Valid() {
		return Line{}, ErrInvalidStatus
	}

	line := Line{
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		VariantID:    v.ID,
		VariantName:  v.Name,
		Qty:          d.form.Qty,
		Width:        d.form.Width,
		Height:       d.form.Height,
		UnitPrice:    d.form.UnitPrice,
		Density:      d.form.Density,
		Note:         d.form.Note,
		Status:       d.form.Status,
		Subtotal:     d.Preview(),
	}
	if d.original != nil {
		line.Key = d.original.Key
		line.ID = d.original.ID
		if d.original.SlotIndex != nil {
			line.SlotIndex = intPtr(*d.original.SlotIndex)
		}
	}

	d.state = StateCommitted
	return line, nil
}

// Delete düzenleme çekmecesinden satırı siler ve çekmeceyi kapatır.
func (d *Drawer) Delete() (Line, error) {
	if d.state != StateEditing || d.original == nil {
		return Line{}, ErrNotEditing
	}
	d.state = StateRemoved
	return *d.original, nil
}

// Reopen kaydedilmiş bir satır için çekmeceyi yeniden düzenleme moduna alır.
func (d *Drawer) Reopen(line Line) {
	*d = *OpenEdit(d.catalog, line)
}

func sanitizeDensity(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return defaultDensity
	}
	return v
}
