package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCategories() []Category {
	return []Category{
		{ID: 1, Name: "TÜL PERDE", Variants: []Variant{{ID: 11, Name: "Keten Tül", UnitPrice: 120}}},
		{ID: 2, Name: "stor perde", Variants: []Variant{{ID: 21, Name: "Blackout", UnitPrice: 100}}},
		{ID: 3, Name: "AKSESUAR"},
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "TÜL PERDE", NormalizeName("  tül   perde "))
	assert.Equal(t, "GÜNEŞLİK", NormalizeName("güneşlik"))
}

func TestResolveKind(t *testing.T) {
	assert.Equal(t, Boxed(10), ResolveKind("TÜL PERDE"))
	assert.Equal(t, Boxed(5), ResolveKind("fon perde"))
	assert.Equal(t, Boxed(5), ResolveKind("GUNESLIK"))
	assert.Equal(t, Unboxed(), ResolveKind("STOR PERDE"))
	assert.Equal(t, Unboxed(), ResolveKind("AKSESUAR"))
}

func TestIsAreaPriced(t *testing.T) {
	assert.True(t, IsAreaPriced("STOR PERDE"))
	assert.True(t, IsAreaPriced("stor perde"))
	assert.False(t, IsAreaPriced("TÜL PERDE"))
	assert.False(t, IsAreaPriced("STOR"))
}

func TestCanonicalName(t *testing.T) {
	assert.Equal(t, "GÜNEŞLİK", CanonicalName("gunesLik"))
	assert.Equal(t, "AKSESUAR", CanonicalName(" aksesuar"))
}

func TestNew_ResolvesKinds(t *testing.T) {
	cat := New(testCategories())

	tul, ok := cat.Category(1)
	require.True(t, ok)
	assert.True(t, tul.Kind.Boxed)
	assert.Equal(t, 10, tul.Kind.Slots)

	stor, ok := cat.CategoryByName("STOR PERDE")
	require.True(t, ok)
	assert.False(t, stor.Kind.Boxed)
	assert.True(t, stor.IsAreaPriced())

	_, ok = cat.Category(99)
	assert.False(t, ok)
}

func TestFirstVariant(t *testing.T) {
	cat := New(testCategories())

	v, ok := cat.FirstVariant(1)
	require.True(t, ok)
	assert.Equal(t, uint(11), v.ID)

	_, ok = cat.FirstVariant(3)
	assert.False(t, ok)
}

func TestAppendVariant_ReturnsNewCatalog(t *testing.T) {
	cat := New(testCategories())

	next, err := cat.AppendVariant(1, Variant{ID: 12, Name: "Şifon", UnitPrice: 90})
	require.NoError(t, err)

	_, ok := next.Variant(1, 12)
	assert.True(t, ok)

	_, ok = cat.Variant(1, 12)
	assert.False(t, ok, "önceki katalog değişmemeli")
}

func TestAppendVariant_Errors(t *testing.T) {
	cat := New(testCategories())

	_, err := cat.AppendVariant(99, Variant{ID: 1})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = cat.AppendVariant(1, Variant{ID: 11})
	assert.ErrorIs(t, err, ErrDuplicateVariant)
}

func TestCategories_ReturnsCopy(t *testing.T) {
	cat := New(testCategories())

	list := cat.Categories()
	list[0].Variants[0].UnitPrice = 0

	v, _ := cat.Variant(1, 11)
	assert.Equal(t, 120.0, v.UnitPrice)
}
