package orders

import (
	"fmt"
	"math"

	"perde-backend/internal/catalog"
	"perde-backend/internal/dto"
	"perde-backend/internal/lineitem"
	"perde-backend/internal/models"
	"perde-backend/internal/pricing"
	"perde-backend/internal/slots"

	"github.com/gofiber/fiber/v2"
)

// itemPlan PATCH isteğinin veritabanına uygulanacak hali.
type itemPlan struct {
	Deletes []uint
	Updates []models.OrderItem
	Creates []models.OrderItem
}

func (p itemPlan) touchedIDs() []uint {
	ids := make([]uint, 0, len(p.Deletes)+len(p.Updates))
	ids = append(ids, p.Deletes...)
	for _, u := range p.Updates {
		ids = append(ids, u.ID)
	}
	return ids
}

func badItem(i int, msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%d. kalem: %s", i+1, msg))
}

// buildItem kalemi katalogla doğrular ve ara toplamı sunucuda yeniden
// hesaplar. İstemcinin gönderdiği subtotal dikkate alınmaz. Slot atanmaz.
func buildItem(cat catalog.Catalog, i int, in dto.LineItemDTO, status lineitem.Status) (models.OrderItem, catalog.Category, error) {
	category, ok := cat.Category(in.CategoryID)
	if !ok {
		return models.OrderItem{}, catalog.Category{}, badItem(i, "kategori bulunamadı")
	}
	if _, ok := cat.Variant(in.CategoryID, in.VariantID); !ok {
		return models.OrderItem{}, catalog.Category{}, badItem(i, "ürün bu kategoride bulunamadı")
	}
	if math.IsNaN(in.UnitPrice) || math.IsInf(in.UnitPrice, 0) || in.UnitPrice < 0 {
		return models.OrderItem{}, catalog.Category{}, badItem(i, "birim fiyat geçersiz")
	}

	if in.LineStatus != "" {
		st, err := lineitem.ParseStatus(in.LineStatus)
		if err != nil {
			return models.OrderItem{}, catalog.Category{}, badItem(i, err.Error())
		}
		status = st
	}

	density := in.FileDensity
	if math.IsNaN(density) || math.IsInf(density, 0) || density <= 0 {
		density = 1
	}

	item := models.OrderItem{
		CategoryID:  category.ID,
		VariantID:   in.VariantID,
		Qty:         pricing.ClampQty(float64(in.Qty)),
		Width:       pricing.ClampDimension(float64(in.Width)),
		Height:      pricing.ClampDimension(float64(in.Height)),
		UnitPrice:   in.UnitPrice,
		FileDensity: density,
		Note:        in.Note,
		LineStatus:  string(status),
	}
	item.Subtotal = pricing.ComputeSubtotal(category.Name, item.UnitPrice,
		float64(item.Qty), float64(item.Width), float64(item.Height), item.FileDensity)
	return item, category, nil
}

// slotEntry slot dağıtımına giren tek kalem.
type slotEntry struct {
	Key      string
	Category string
	Slot     *int
}

// allocateSlots önce yerinde kalan kalemleri mevcut slotlarına oturtur.
// Ardından gelen kalemlerden slot isteyenler istedikleri hücreye yerleşir;
// en son slot istemeyenler ve istediği hücre dolu ya da aralık dışı olanlar
// istek sırasıyla ilk boş slota düşer. Yer kalmazsa slot nil kalır.
// Kutusuz kategorilerde slot her zaman nil'dir.
func allocateSlots(fixed, incoming []slotEntry) []*int {
	alloc := slots.New()
	for _, f := range fixed {
		if f.Slot != nil {
			alloc.PlaceAt(f.Category, *f.Slot, f.Key)
		}
	}

	out := make([]*int, len(incoming))
	var rest []int
	for i, in := range incoming {
		if !catalog.ResolveKind(in.Category).Boxed {
			continue
		}
		if in.Slot != nil && alloc.PlaceAt(in.Category, *in.Slot, in.Key) {
			v := *in.Slot
			out[i] = &v
			continue
		}
		rest = append(rest, i)
	}
	for _, i := range rest {
		in := incoming[i]
		if idx, ok := alloc.PlaceFirstEmpty(in.Category, in.Key); ok {
			v := idx
			out[i] = &v
		}
	}
	return out
}

func entryKey(prefix string, n uint) string {
	return fmt.Sprintf("%s:%d", prefix, n)
}

// planCreate yeni sipariş kalemleri. İstemcinin geçici id'leri yok sayılır.
func planCreate(cat catalog.Catalog, items []dto.LineItemDTO, defaults lineitem.Defaults) ([]models.OrderItem, error) {
	patch := make([]dto.PatchItem, 0, len(items))
	for _, it := range items {
		it.ID = nil
		patch = append(patch, dto.Upsert(it))
	}
	plan, err := planPatch(cat, nil, patch, defaults, lineitem.FlowNewOrder)
	if err != nil {
		return nil, err
	}
	return plan.Creates, nil
}

// planPatch PATCH kalemlerini mevcut kalemlere göre ayırır:
// id'siz kalem oluşturulur, id'li kalem güncellenir, silme işareti soft
// delete olur. Bahsedilmeyen kalemlere dokunulmaz.
func planPatch(cat catalog.Catalog, existing []models.OrderItem, items []dto.PatchItem, defaults lineitem.Defaults, flow lineitem.Flow) (itemPlan, error) {
	byID := make(map[uint]models.OrderItem, len(existing))
	for _, e := range existing {
		byID[e.ID] = e
	}

	var plan itemPlan
	seen := make(map[uint]bool)

	type pending struct {
		item     models.OrderItem
		category string
		slot     *int
		update   bool
	}
	var queue []pending

	for i, p := range items {
		if p.Line.ID != nil {
			id := *p.Line.ID
			prev, ok := byID[id]
			if !ok {
				return itemPlan{}, badItem(i, fmt.Sprintf("kalem bulunamadı (id=%d)", id))
			}
			if seen[id] {
				return itemPlan{}, badItem(i, fmt.Sprintf("kalem birden fazla kez gönderildi (id=%d)", id))
			}
			seen[id] = true

			if p.Delete {
				plan.Deletes = append(plan.Deletes, id)
				continue
			}

			status := lineitem.Status(prev.LineStatus)
			item, category, err := buildItem(cat, i, p.Line, status)
			if err != nil {
				return itemPlan{}, err
			}
			item.ID = id
			item.OrderID = prev.OrderID
			item.CreatedAt = prev.CreatedAt
			queue = append(queue, pending{item: item, category: category.Name, slot: p.Line.SlotIndex, update: true})
			continue
		}

		if p.Delete {
			return itemPlan{}, badItem(i, "silme işaretinde id zorunlu")
		}

		category, ok := cat.Category(p.Line.CategoryID)
		if !ok {
			return itemPlan{}, badItem(i, "kategori bulunamadı")
		}
		status := defaults.For(flow, !category.Kind.Boxed)
		item, _, err := buildItem(cat, i, p.Line, status)
		if err != nil {
			return itemPlan{}, err
		}
		queue = append(queue, pending{item: item, category: category.Name, slot: p.Line.SlotIndex})
	}

	var fixed []slotEntry
	for _, e := range existing {
		if seen[e.ID] {
			continue
		}
		name := ""
		if c, ok := cat.Category(e.CategoryID); ok {
			name = c.Name
		}
		fixed = append(fixed, slotEntry{Key: entryKey("id", e.ID), Category: name, Slot: e.SlotIndex})
	}

	incoming := make([]slotEntry, len(queue))
	for i, q := range queue {
		incoming[i] = slotEntry{Key: entryKey("in", uint(i)), Category: q.category, Slot: q.slot}
	}
	assigned := allocateSlots(fixed, incoming)

	for i, q := range queue {
		q.item.SlotIndex = assigned[i]
		if q.update {
			plan.Updates = append(plan.Updates, q.item)
		} else {
			plan.Creates = append(plan.Creates, q.item)
		}
	}
	return plan, nil
}
