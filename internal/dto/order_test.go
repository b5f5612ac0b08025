package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchItem_MarshalDeleteMarker(t *testing.T) {
	b, err := json.Marshal(DeleteMarker(42))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":42,"_action":"delete"}`, string(b))
}

func TestPatchItem_MarshalUpsertWithoutID(t *testing.T) {
	slot := 3
	item := Upsert(LineItemDTO{
		CategoryID: 1, VariantID: 11, Qty: 1, Width: 150, UnitPrice: 50,
		FileDensity: 3, SlotIndex: &slot, LineStatus: "processing",
	})
	b, err := json.Marshal(item)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	_, hasID := raw["id"]
	assert.False(t, hasID)
	_, hasAction := raw["_action"]
	assert.False(t, hasAction)
	assert.Equal(t, 3.0, raw["slotIndex"])
	assert.Equal(t, 3.0, raw["fileDensity"])
}

func TestPatchItem_MarshalNullSlot(t *testing.T) {
	b, err := json.Marshal(Upsert(LineItemDTO{CategoryID: 2, VariantID: 21}))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	v, ok := raw["slotIndex"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestPatchItem_Unmarshal(t *testing.T) {
	var items []PatchItem
	body := `[{"id":5,"_action":"delete"},{"id":6,"categoryId":1,"variantId":11,"qty":2},{"categoryId":2,"variantId":21}]`
	require.NoError(t, json.Unmarshal([]byte(body), &items))
	require.Len(t, items, 3)

	assert.True(t, items[0].Delete)
	assert.Equal(t, uint(5), *items[0].Line.ID)

	assert.False(t, items[1].Delete)
	assert.Equal(t, uint(6), *items[1].Line.ID)
	assert.Equal(t, 2, items[1].Line.Qty)

	assert.Nil(t, items[2].Line.ID)
}

func TestPatchItem_UnmarshalErrors(t *testing.T) {
	var p PatchItem
	assert.Error(t, json.Unmarshal([]byte(`{"_action":"delete"}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"id":1,"_action":"archive"}`), &p))
}

func TestPatchItem_DeleteWithoutIDFailsToMarshal(t *testing.T) {
	_, err := json.Marshal(PatchItem{Delete: true})
	assert.Error(t, err)
}

func TestUpdateOrderRequest_OmitsUnsetFields(t *testing.T) {
	name := "Ayşe"
	b, err := json.Marshal(UpdateOrderRequest{CustomerName: &name, Items: []PatchItem{DeleteMarker(9)}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"customerName":"Ayşe","items":[{"id":9,"_action":"delete"}]}`, string(b))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod("CASH"))
	assert.True(t, ValidPaymentMethod("TRANSFER"))
	assert.True(t, ValidPaymentMethod("CARD"))
	assert.False(t, ValidPaymentMethod("cash"))
	assert.False(t, ValidPaymentMethod(""))
}
