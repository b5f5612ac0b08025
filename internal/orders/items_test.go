package orders

import (
	"errors"
	"testing"

	"perde-backend/internal/catalog"
	"perde-backend/internal/dto"
	"perde-backend/internal/lineitem"
	"perde-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() catalog.Catalog {
	return catalog.New([]catalog.Category{
		{ID: 1, Name: "TÜL PERDE", Variants: []catalog.Variant{{ID: 11, Name: "Keten Tül", UnitPrice: 50}}},
		{ID: 2, Name: "FON PERDE", Variants: []catalog.Variant{{ID: 21, Name: "Kadife", UnitPrice: 80}}},
		{ID: 3, Name: "STOR PERDE", Variants: []catalog.Variant{{ID: 31, Name: "Blackout", UnitPrice: 100}}},
		{ID: 4, Name: "AKSESUAR", Variants: []catalog.Variant{{ID: 41, Name: "Korniş", UnitPrice: 30}}},
	})
}

func intp(v int) *int    { return &v }
func uintp(v uint) *uint { return &v }

func statusCode(t *testing.T, err error) int {
	t.Helper()
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe), "fiber.Error bekleniyordu: %v", err)
	return fe.Code
}

func TestBuildItem_RecomputesSubtotal(t *testing.T) {
	item, cat, err := buildItem(testCatalog(), 0, dto.LineItemDTO{
		CategoryID: 3, VariantID: 31, Qty: 2, Width: 200, Height: 150, UnitPrice: 100, Subtotal: 1,
	}, lineitem.StatusPending)
	require.NoError(t, err)

	assert.Equal(t, "STOR PERDE", cat.Name)
	assert.Equal(t, 600.0, item.Subtotal)
	assert.Equal(t, 1.0, item.FileDensity)
	assert.Equal(t, "pending", item.LineStatus)
}

func TestBuildItem_Rejects(t *testing.T) {
	cat := testCatalog()
	cases := []struct {
		name string
		in   dto.LineItemDTO
	}{
		{"bilinmeyen kategori", dto.LineItemDTO{CategoryID: 99, VariantID: 11}},
		{"başka kategorinin ürünü", dto.LineItemDTO{CategoryID: 1, VariantID: 21}},
		{"negatif fiyat", dto.LineItemDTO{CategoryID: 1, VariantID: 11, UnitPrice: -1}},
		{"geçersiz durum", dto.LineItemDTO{CategoryID: 1, VariantID: 11, LineStatus: "done"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := buildItem(cat, 2, tc.in, lineitem.StatusPending)
			require.Error(t, err)
			assert.Equal(t, fiber.StatusBadRequest, statusCode(t, err))
			assert.Contains(t, err.Error(), "3. kalem")
		})
	}
}

func TestAllocateSlots(t *testing.T) {
	fixed := []slotEntry{
		{Key: "id:1", Category: "TÜL PERDE", Slot: intp(0)},
		{Key: "id:2", Category: "TÜL PERDE", Slot: intp(2)},
	}
	incoming := []slotEntry{
		{Key: "in:0", Category: "TÜL PERDE", Slot: intp(2)},
		{Key: "in:1", Category: "TÜL PERDE", Slot: intp(7)},
		{Key: "in:2", Category: "AKSESUAR", Slot: intp(1)},
		{Key: "in:3", Category: "TÜL PERDE", Slot: intp(42)},
	}

	got := allocateSlots(fixed, incoming)
	require.Len(t, got, 4)
	assert.Equal(t, 1, *got[0])
	assert.Equal(t, 7, *got[1])
	assert.Nil(t, got[2])
	assert.Equal(t, 3, *got[3])
}

func TestAllocateSlots_Overflow(t *testing.T) {
	var incoming []slotEntry
	for i := 0; i < 6; i++ {
		incoming = append(incoming, slotEntry{Key: entryKey("in", uint(i)), Category: "FON PERDE"})
	}
	got := allocateSlots(nil, incoming)
	for i := 0; i < 5; i++ {
		require.NotNil(t, got[i])
		assert.Equal(t, i, *got[i])
	}
	assert.Nil(t, got[5])
}

func TestAllocateSlots_RequestedBeforeFirstEmpty(t *testing.T) {
	incoming := []slotEntry{
		{Key: "in:0", Category: "TÜL PERDE"},
		{Key: "in:1", Category: "TÜL PERDE", Slot: intp(0)},
	}
	got := allocateSlots(nil, incoming)
	require.NotNil(t, got[0])
	require.NotNil(t, got[1])
	assert.Equal(t, 1, *got[0])
	assert.Equal(t, 0, *got[1])
}

func TestPlanCreate_KeepsRequestedSlotOverOverflow(t *testing.T) {
	line := func(slot *int) dto.LineItemDTO {
		return dto.LineItemDTO{CategoryID: 1, VariantID: 11, Qty: 1, Width: 100, UnitPrice: 50, SlotIndex: slot}
	}
	// Slot 1..9 dolu, taşan kalem (nil) slot 0 isteyen kalemden önce geliyor
	var items []dto.LineItemDTO
	for i := 1; i < 10; i++ {
		items = append(items, line(intp(i)))
	}
	items = append(items, line(nil), line(intp(0)))

	got, err := planCreate(testCatalog(), items, lineitem.DefaultStatuses)
	require.NoError(t, err)
	require.Len(t, got, 11)

	for i := 0; i < 9; i++ {
		assert.Equal(t, i+1, *got[i].SlotIndex)
	}
	assert.Nil(t, got[9].SlotIndex)
	require.NotNil(t, got[10].SlotIndex)
	assert.Equal(t, 0, *got[10].SlotIndex)
}

func TestPlanCreate(t *testing.T) {
	items := []dto.LineItemDTO{
		{ID: uintp(55), CategoryID: 1, VariantID: 11, Qty: 1, Width: 100, UnitPrice: 50, SlotIndex: intp(4)},
		{CategoryID: 1, VariantID: 11, Qty: 1, Width: 100, UnitPrice: 50, SlotIndex: intp(4)},
		{CategoryID: 4, VariantID: 41, Qty: 3, UnitPrice: 30, SlotIndex: intp(0)},
	}
	got, err := planCreate(testCatalog(), items, lineitem.DefaultStatuses)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Zero(t, got[0].ID)
	assert.Equal(t, 4, *got[0].SlotIndex)
	assert.Equal(t, 0, *got[1].SlotIndex)
	assert.Nil(t, got[2].SlotIndex)

	assert.Equal(t, "processing", got[0].LineStatus)
	assert.Equal(t, "pending", got[2].LineStatus)
	assert.Equal(t, 90.0, got[2].Subtotal)
}

func existingItems() []models.OrderItem {
	return []models.OrderItem{
		{ID: 101, OrderID: 7, CategoryID: 1, VariantID: 11, Qty: 1, Width: 100, UnitPrice: 50, FileDensity: 1, Subtotal: 50, SlotIndex: intp(0), LineStatus: "workshop"},
		{ID: 102, OrderID: 7, CategoryID: 1, VariantID: 11, Qty: 1, Width: 100, UnitPrice: 50, FileDensity: 1, Subtotal: 50, SlotIndex: intp(1), LineStatus: "pending"},
		{ID: 103, OrderID: 7, CategoryID: 4, VariantID: 41, Qty: 1, UnitPrice: 30, FileDensity: 1, Subtotal: 30, LineStatus: "pending"},
	}
}

func TestPlanPatch(t *testing.T) {
	items := []dto.PatchItem{
		dto.Upsert(dto.LineItemDTO{ID: uintp(101), CategoryID: 1, VariantID: 11, Qty: 2, Width: 100, UnitPrice: 50, SlotIndex: intp(0)}),
		dto.DeleteMarker(103),
		dto.Upsert(dto.LineItemDTO{CategoryID: 1, VariantID: 11, Qty: 1, Width: 100, UnitPrice: 50, SlotIndex: intp(1)}),
	}

	plan, err := planPatch(testCatalog(), existingItems(), items, lineitem.DefaultStatuses, lineitem.FlowEditOrder)
	require.NoError(t, err)

	assert.Equal(t, []uint{103}, plan.Deletes)

	require.Len(t, plan.Updates, 1)
	up := plan.Updates[0]
	assert.Equal(t, uint(101), up.ID)
	assert.Equal(t, uint(7), up.OrderID)
	assert.Equal(t, "workshop", up.LineStatus)
	assert.Equal(t, 100.0, up.Subtotal)
	assert.Equal(t, 0, *up.SlotIndex)

	// 102 bahsedilmedi, slot 1'de kalır; yeni kalem ilk boş slota düşer
	require.Len(t, plan.Creates, 1)
	assert.Equal(t, 2, *plan.Creates[0].SlotIndex)
	assert.Equal(t, "pending", plan.Creates[0].LineStatus)

	assert.ElementsMatch(t, []uint{103, 101}, plan.touchedIDs())
}

func TestPlanPatch_SwapSlots(t *testing.T) {
	items := []dto.PatchItem{
		dto.Upsert(dto.LineItemDTO{ID: uintp(101), CategoryID: 1, VariantID: 11, Qty: 1, Width: 100, UnitPrice: 50, SlotIndex: intp(1)}),
		dto.Upsert(dto.LineItemDTO{ID: uintp(102), CategoryID: 1, VariantID: 11, Qty: 1, Width: 100, UnitPrice: 50, SlotIndex: intp(0)}),
	}
	plan, err := planPatch(testCatalog(), existingItems(), items, lineitem.DefaultStatuses, lineitem.FlowEditOrder)
	require.NoError(t, err)
	require.Len(t, plan.Updates, 2)
	assert.Equal(t, 1, *plan.Updates[0].SlotIndex)
	assert.Equal(t, 0, *plan.Updates[1].SlotIndex)
}

func TestPlanPatch_Errors(t *testing.T) {
	line := dto.LineItemDTO{CategoryID: 1, VariantID: 11, Qty: 1, Width: 100, UnitPrice: 50}
	withID := func(id uint) dto.LineItemDTO {
		l := line
		l.ID = uintp(id)
		return l
	}

	cases := []struct {
		name  string
		items []dto.PatchItem
	}{
		{"bilinmeyen id", []dto.PatchItem{dto.Upsert(withID(999))}},
		{"tekrarlanan id", []dto.PatchItem{dto.Upsert(withID(101)), dto.DeleteMarker(101)}},
		{"id'siz silme", []dto.PatchItem{{Line: line, Delete: true}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := planPatch(testCatalog(), existingItems(), tc.items, lineitem.DefaultStatuses, lineitem.FlowEditOrder)
			require.Error(t, err)
			assert.Equal(t, fiber.StatusBadRequest, statusCode(t, err))
		})
	}
}

func TestPlanPatch_KeepsStatusWhenOmitted(t *testing.T) {
	items := []dto.PatchItem{
		dto.Upsert(dto.LineItemDTO{ID: uintp(101), CategoryID: 1, VariantID: 11, Qty: 1, Width: 100, UnitPrice: 50}),
		dto.Upsert(dto.LineItemDTO{ID: uintp(102), CategoryID: 1, VariantID: 11, Qty: 1, Width: 100, UnitPrice: 50, LineStatus: "completed"}),
	}
	plan, err := planPatch(testCatalog(), existingItems(), items, lineitem.DefaultStatuses, lineitem.FlowEditOrder)
	require.NoError(t, err)
	assert.Equal(t, "workshop", plan.Updates[0].LineStatus)
	assert.Equal(t, "completed", plan.Updates[1].LineStatus)
}
