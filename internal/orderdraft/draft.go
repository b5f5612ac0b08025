// Package orderdraft bellek içindeki siparişi tutar: kalemler, kutulu
// kategorilerin slot tabloları, toplamlar ve kayıt yükünün üretimi.
//
// Yüklenen siparişin kalem ID'leri saklanır; kayıt sırasında bu kümede olup
// artık listede olmayan her ID için açık bir silme işareti üretilir.
package orderdraft

import (
	"fmt"
	"slices"
	"strings"

	"perde-backend/internal/catalog"
	"perde-backend/internal/dto"
	"perde-backend/internal/lineitem"
	"perde-backend/internal/ordercalc"
	"perde-backend/internal/pricing"
	"perde-backend/internal/slots"

	"github.com/google/uuid"
)

const defaultOrderStatus = "pending"

type Draft struct {
	ID            uint
	Version       int
	BranchID      *uint
	CustomerName  string
	CustomerPhone string
	Note          string
	Status        string
	DeliveryDate  string
	Discount      ordercalc.Discount
	Paid          float64
	PaymentMethod string

	flow        lineitem.Flow
	defaults    lineitem.Defaults
	catalog     catalog.Catalog
	lines       []lineitem.Line
	alloc       *slots.Allocator
	originalIDs map[uint]struct{}
	newKey      func() string
}

type Option func(*Draft)

// WithDefaults yeni satırların varsayılan durumlarını değiştirir.
func WithDefaults(d lineitem.Defaults) Option {
	return func(dr *Draft) { dr.defaults = d }
}

// WithKeyFunc bellek içi satır anahtarı üreticisi (testler için).
func WithKeyFunc(fn func() string) Option {
	return func(dr *Draft) { dr.newKey = fn }
}

func newDraft(cat catalog.Catalog, flow lineitem.Flow, opts []Option) *Draft {
	d := &Draft{
		Status:      defaultOrderStatus,
		flow:        flow,
		defaults:    lineitem.DefaultStatuses,
		catalog:     cat,
		alloc:       slots.New(),
		originalIDs: make(map[uint]struct{}),
		newKey:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// New "yeni sipariş" ekranı için boş taslak.
func New(cat catalog.Catalog, opts ...Option) *Draft {
	return newDraft(cat, lineitem.FlowNewOrder, opts)
}

// Load sunucudan gelen siparişi "sipariş düzenle" taslağına çevirir.
func Load(cat catalog.Catalog, order dto.OrderResponse, opts ...Option) (*Draft, error) {
	d := newDraft(cat, lineitem.FlowEditOrder, opts)
	if err := d.reset(order); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Draft) reset(order dto.OrderResponse) error {
	delivery, err := dto.NormalizeDate(order.DeliveryDate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	d.ID = order.ID
	d.Version = order.Version
	d.BranchID = order.BranchID
	d.CustomerName = order.CustomerName
	d.CustomerPhone = order.CustomerPhone
	d.Note = order.Note
	d.Status = order.Status
	d.DeliveryDate = delivery
	d.Discount = order.Discount.Calc()
	d.PaymentMethod = order.PaymentMethod

	amounts := make([]float64, 0, len(order.Payments))
	for _, p := range order.Payments {
		amounts = append(amounts, p.Amount)
	}
	d.Paid = ordercalc.SumPayments(amounts)

	d.lines = d.lines[:0]
	d.alloc = slots.New()
	d.originalIDs = make(map[uint]struct{}, len(order.Items))

	requested := make([]*int, 0, len(order.Items))
	for _, item := range order.Items {
		line := d.lineFromDTO(item)
		if line.ID != 0 {
			d.originalIDs[line.ID] = struct{}{}
		}
		d.lines = append(d.lines, line)
		requested = append(requested, item.SlotIndex)
	}
	d.placeLoaded(requested)
	return nil
}

// placeLoaded yüklenen satırları iki turda yerleştirir: önce slot index'i
// olanlar kendi hücrelerine, sonra index'siz ya da hücresi tutmayanlar ilk
// boş slota. Böylece taşan bir satır, sonra gelen satırın açıkça seçtiği
// hücreyi almaz.
func (d *Draft) placeLoaded(requested []*int) {
	var rest []int
	for i := range d.lines {
		line := &d.lines[i]
		line.SlotIndex = nil
		if !d.kindOf(*line).Boxed {
			continue
		}
		if r := requested[i]; r != nil && d.alloc.PlaceAt(line.CategoryName, *r, line.Key) {
			idx := *r
			line.SlotIndex = &idx
			continue
		}
		rest = append(rest, i)
	}
	for _, i := range rest {
		d.place(&d.lines[i], nil, true)
	}
}

func (d *Draft) kindOf(line lineitem.Line) catalog.Kind {
	if cat, ok := d.catalog.Category(line.CategoryID); ok {
		return cat.Kind
	}
	return catalog.ResolveKind(line.CategoryName)
}

// MarkSaved kayıt başarılı olduktan sonra taslağı sunucu cevabıyla eşitler.
// Başarısız kayıtta çağrılmaz; bellek içi durum aynen kalır.
func (d *Draft) MarkSaved(order dto.OrderResponse) error {
	d.flow = lineitem.FlowEditOrder
	return d.reset(order)
}

func (d *Draft) Flow() lineitem.Flow { return d.flow }

func (d *Draft) Catalog() catalog.Catalog { return d.catalog }

// SetCatalog ürün ekleme sonrası güncel kataloğu verir.
func (d *Draft) SetCatalog(cat catalog.Catalog) { d.catalog = cat }

func (d *Draft) IsNew() bool { return d.ID == 0 }

// OriginalIDs yüklenen siparişteki kalem ID'leri (sıralı).
func (d *Draft) OriginalIDs() []uint {
	ids := make([]uint, 0, len(d.originalIDs))
	for id := range d.originalIDs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Lines kalemlerin ekleme sırasındaki kopyası.
func (d *Draft) Lines() []lineitem.Line {
	out := make([]lineitem.Line, len(d.lines))
	for i, l := range d.lines {
		out[i] = copyLine(l)
	}
	return out
}

func (d *Draft) Line(key string) (lineitem.Line, bool) {
	if i := d.indexOf(key); i >= 0 {
		return copyLine(d.lines[i]), true
	}
	return lineitem.Line{}, false
}

func (d *Draft) indexOf(key string) int {
	for i, l := range d.lines {
		if l.Key == key {
			return i
		}
	}
	return -1
}

// OpenAdd kategori bölümünden (kutulu ise slot numarasıyla) ekleme çekmecesi açar.
func (d *Draft) OpenAdd(categoryID uint, slotIndex *int) (*lineitem.Drawer, error) {
	cat, ok := d.catalog.Category(categoryID)
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", catalog.ErrCategoryNotFound, categoryID)
	}
	if !cat.Kind.Boxed {
		return d.OpenQuickAdd(categoryID)
	}
	return lineitem.OpenAdd(d.catalog, categoryID, slotIndex, d.defaults.For(d.flow, false)), nil
}

// OpenQuickAdd kutusuz kategoriler için hızlı giriş çekmecesi.
func (d *Draft) OpenQuickAdd(categoryID uint) (*lineitem.Drawer, error) {
	if _, ok := d.catalog.Category(categoryID); !ok {
		return nil, fmt.Errorf("%w: id=%d", catalog.ErrCategoryNotFound, categoryID)
	}
	return lineitem.OpenQuickAdd(d.catalog, categoryID, d.defaults.For(d.flow, true)), nil
}

func (d *Draft) OpenEdit(key string) (*lineitem.Drawer, error) {
	i := d.indexOf(key)
	if i < 0 {
		return nil, ErrLineNotFound
	}
	return lineitem.OpenEdit(d.catalog, d.lines[i]), nil
}

// Commit çekmeceyi kaydeder: yeni satırı ekler ya da mevcut satırı yerinde
// günceller, ardından slot yerleşimini yapar.
func (d *Draft) Commit(dr *lineitem.Drawer) (lineitem.Line, error) {
	line, err := dr.Commit()
	if err != nil {
		return lineitem.Line{}, err
	}

	if line.Key == "" {
		line.Key = d.newKey()
		d.place(&line, dr.RequestedSlot(), false)
		d.lines = append(d.lines, line)
		return copyLine(line), nil
	}

	i := d.indexOf(line.Key)
	if i < 0 {
		return lineitem.Line{}, ErrLineNotFound
	}
	d.place(&line, nil, false)
	d.lines[i] = line
	return copyLine(line), nil
}

// Delete düzenleme çekmecesinden silme: satır kaldırılır, çekmece kapanır.
func (d *Draft) Delete(dr *lineitem.Drawer) error {
	line, err := dr.Delete()
	if err != nil {
		return err
	}
	return d.RemoveLine(line.Key)
}

func (d *Draft) RemoveLine(key string) error {
	i := d.indexOf(key)
	if i < 0 {
		return ErrLineNotFound
	}
	d.alloc.Remove(key)
	d.lines = append(d.lines[:i], d.lines[i+1:]...)
	return nil
}

// place kutulu kategoride satırı slota yerleştirir; tercih edilen index aralık
// dışı ya da doluysa ilk boş slota, o da yoksa yerleşmemiş kalır.
func (d *Draft) place(line *lineitem.Line, requested *int, loading bool) {
	if !d.kindOf(*line).Boxed {
		d.alloc.Remove(line.Key)
		line.SlotIndex = nil
		return
	}

	preferred := requested
	if preferred == nil && !loading {
		// Düzenlemede aynı kategoride kalan satır slotunu korur.
		if pos, ok := d.alloc.Lookup(line.Key); ok && catalog.SameName(pos.Category, line.CategoryName) {
			idx := pos.Index
			preferred = &idx
		}
	}

	idx, ok := d.alloc.Place(line.CategoryName, preferred, line.Key)
	if !ok {
		line.SlotIndex = nil
		return
	}
	line.SlotIndex = &idx
}

// Swap sürükle-bırak ile iki slotun içeriğini değiştirir.
func (d *Draft) Swap(category string, i, j int) bool {
	if !d.alloc.Swap(category, i, j) {
		return false
	}
	for _, idx := range []int{i, j} {
		key := d.alloc.At(category, idx)
		if key == "" {
			continue
		}
		if k := d.indexOf(key); k >= 0 {
			v := idx
			d.lines[k].SlotIndex = &v
		}
	}
	return true
}

// SlotCell slot tablosundaki tek hücre.
type SlotCell struct {
	Index int
	Line  *lineitem.Line
}

// SlotTable kutulu kategorinin sabit uzunluktaki tablosu.
func (d *Draft) SlotTable(category string) []SlotCell {
	keys := d.alloc.Table(category)
	cells := make([]SlotCell, len(keys))
	for i, key := range keys {
		cells[i] = SlotCell{Index: i}
		if key == "" {
			continue
		}
		if k := d.indexOf(key); k >= 0 {
			l := copyLine(d.lines[k])
			cells[i].Line = &l
		}
	}
	return cells
}

// Overflow kutulu kategoride slot bulamamış satırlar. Toplama dahildirler.
func (d *Draft) Overflow(category string) []lineitem.Line {
	var out []lineitem.Line
	for _, l := range d.lines {
		if l.SlotIndex == nil && catalog.SameName(l.CategoryName, category) && catalog.ResolveKind(l.CategoryName).Boxed {
			out = append(out, copyLine(l))
		}
	}
	return out
}

// QuickLines kutusuz kategorinin satırlarını ekran sırasıyla döner.
func (d *Draft) QuickLines(categoryID uint) []lineitem.Line {
	var list []lineitem.Line
	for _, l := range d.lines {
		if l.CategoryID == categoryID && l.SlotIndex == nil {
			list = append(list, copyLine(l))
		}
	}
	out := make([]lineitem.Line, 0, len(list))
	for _, idx := range slots.DisplayOrder(len(list)) {
		out = append(out, list[idx])
	}
	return out
}

// Totals her çağrıda satırlardan yeniden hesaplanır.
func (d *Draft) Totals() ordercalc.Totals {
	subtotals := make([]float64, 0, len(d.lines))
	for _, l := range d.lines {
		subtotals = append(subtotals, l.Subtotal)
	}
	return ordercalc.Compute(subtotals, d.Discount, d.Paid)
}

func (d *Draft) lineFromDTO(item dto.LineItemDTO) lineitem.Line {
	line := lineitem.Line{
		Key:          d.newKey(),
		CategoryID:   item.CategoryID,
		CategoryName: item.CategoryName,
		VariantID:    item.VariantID,
		VariantName:  item.VariantName,
		Qty:          pricing.ClampQty(float64(item.Qty)),
		Width:        pricing.ClampDimension(float64(item.Width)),
		Height:       pricing.ClampDimension(float64(item.Height)),
		UnitPrice:    item.UnitPrice,
		Density:      item.FileDensity,
		Note:         item.Note,
		Status:       lineitem.Status(item.LineStatus),
	}
	if item.ID != nil {
		line.ID = *item.ID
	}
	if cat, ok := d.catalog.Category(item.CategoryID); ok {
		line.CategoryName = cat.Name
	}
	if v, ok := d.catalog.Variant(item.CategoryID, item.VariantID); ok {
		line.VariantName = v.Name
	}
	if !line.Status.Valid() {
		line.Status = lineitem.StatusPending
	}
	line.Subtotal = pricing.ComputeSubtotal(line.CategoryName, line.UnitPrice,
		float64(line.Qty), float64(line.Width), float64(line.Height), line.Density)
	return line
}

// LineToDTO kalemi kayıt sözleşmesine çevirir. withID false ise id gönderilmez.
func LineToDTO(l lineitem.Line, withID bool) dto.LineItemDTO {
	item := dto.LineItemDTO{
		CategoryID:   l.CategoryID,
		VariantID:    l.VariantID,
		Qty:          l.Qty,
		Width:        l.Width,
		Height:       l.Height,
		UnitPrice:    l.UnitPrice,
		FileDensity:  l.Density,
		Note:         l.Note,
		LineStatus:   string(l.Status),
		CategoryName: l.CategoryName,
		VariantName:  l.VariantName,
		Subtotal:     l.Subtotal,
	}
	if withID && l.ID != 0 {
		id := l.ID
		item.ID = &id
	}
	if l.SlotIndex != nil {
		idx := *l.SlotIndex
		item.SlotIndex = &idx
	}
	return item
}

func copyLine(l lineitem.Line) lineitem.Line {
	if l.SlotIndex != nil {
		idx := *l.SlotIndex
		l.SlotIndex = &idx
	}
	return l
}

func trimmed(s string) string { return strings.TrimSpace(s) }
