package catalog

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrCategoryNotFound = errors.New("kategori bulunamadı")
	ErrVariantNotFound  = errors.New("ürün bulunamadı")
	ErrDuplicateVariant = errors.New("bu ürün kategoride zaten var")
)

// Kutulu kategoriler ve slot sayıları. Katalogdan türetilmez, sabittir.
var boxedCategories = []struct {
	Name  string
	Slots int
}{
	{Name: "TÜL PERDE", Slots: 10},
	{Name: "FON PERDE", Slots: 5},
	{Name: "GÜNEŞLİK", Slots: 5},
}

// m² bazlı fiyatlanan kategori
const areaPricedName = "STOR PERDE"

// Kind kategorinin yerleşim tipi: Boxed ise sabit sayıda numaralı slotu vardır,
// değilse hızlı giriş (liste) kategorisidir.
type Kind struct {
	Boxed bool `json:"boxed"`
	Slots int  `json:"slots"`
}

func Unboxed() Kind { return Kind{} }

func Boxed(slots int) Kind { return Kind{Boxed: true, Slots: slots} }

type Variant struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
}

type Category struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Kind     Kind      `json:"kind"`
	Variants []Variant `json:"variants"`
}

// IsAreaPriced: kategori m² (en x boy) üzerinden mi fiyatlanıyor
func (c Category) IsAreaPriced() bool {
	return IsAreaPriced(c.Name)
}

// NormalizeName kategori adını Türkçe kurallarla büyük harfe çevirir ve
// boşlukları sadeleştirir. Örn: "  tül   perde" -> "TÜL PERDE"
func NormalizeName(name string) string {
	upper := cases.Upper(language.Turkish).String(name)
	return strings.Join(strings.Fields(upper), " ")
}

// matchKey: NormalizeName + Türkçe karakterleri ASCII karşılığına indirger.
// "GUNESLIK" ile "GÜNEŞLİK" aynı anahtara düşer.
func matchKey(name string) string {
	replacer := strings.NewReplacer(
		"Ç", "C", "Ğ", "G", "İ", "I", "Ö", "O", "Ş", "S", "Ü", "U",
	)
	return replacer.Replace(NormalizeName(name))
}

// SameName kategori adlarını büyük/küçük harf ve Türkçe karakter duyarsız karşılaştırır.
func SameName(a, b string) bool {
	return matchKey(a) == matchKey(b)
}

// ResolveKind kategori adından yerleşim tipini çözer.
func ResolveKind(name string) Kind {
	key := matchKey(name)
	for _, bc := range boxedCategories {
		if matchKey(bc.Name) == key {
			return Boxed(bc.Slots)
		}
	}
	return Unboxed()
}

func IsAreaPriced(name string) bool {
	return matchKey(name) == matchKey(areaPricedName)
}

// BoxedCategoryNames kutulu kategorilerin kanonik adlarını ekrandaki sırasıyla döner.
func BoxedCategoryNames() []string {
	names := make([]string, 0, len(boxedCategories))
	for _, bc := range boxedCategories {
		names = append(names, bc.Name)
	}
	return names
}

// CanonicalName adı kutulu kategorilerden birine denk geliyorsa kanonik adı,
// değilse normalize edilmiş halini döner.
func CanonicalName(name string) string {
	key := matchKey(name)
	for _, bc := range boxedCategories {
		if matchKey(bc.Name) == key {
			return bc.Name
		}
	}
	return NormalizeName(name)
}

// Catalog ekran açılışında bir kez yüklenen kategori listesi. Değer olarak
// taşınır; tek değişiklik yolu yeni bir Catalog döndüren AppendVariant'tır.
type Catalog struct {
	categories []Category
}

// New kategorilerin Kind bilgisini isimden bir kez çözerek katalog oluşturur.
func New(categories []Category) Catalog {
	cats := make([]Category, 0, len(categories))
	for _, c := range categories {
		c.Kind = ResolveKind(c.Name)
		c.Variants = append([]Variant(nil), c.Variants...)
		cats = append(cats, c)
	}
	return Catalog{categories: cats}
}

func (c Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		cat.Variants = append([]Variant(nil), cat.Variants...)
		out[i] = cat
	}
	return out
}

func (c Catalog) Category(id uint) (Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

func (c Catalog) CategoryByName(name string) (Category, bool) {
	for _, cat := range c.categories {
		if SameName(cat.Name, name) {
			return cat, true
		}
	}
	return Category{}, false
}

func (c Catalog) Variant(categoryID, variantID uint) (Variant, bool) {
	cat, ok := c.Category(categoryID)
	if !ok {
		return Variant{}, false
	}
	for _, v := range cat.Variants {
		if v.ID == variantID {
			return v, true
		}
	}
	return Variant{}, false
}

// FirstVariant kategori değiştiğinde varsayılan seçilecek ürün.
func (c Catalog) FirstVariant(categoryID uint) (Variant, bool) {
	cat, ok := c.Category(categoryID)
	if !ok || len(cat.Variants) == 0 {
		return Variant{}, false
	}
	return cat.Variants[0], true
}

// AppendVariant sunucu oluşturmayı onayladıktan sonra çağrılır. Alıcı
// değiştirilmez, güncel katalog döner.
func (c Catalog) AppendVariant(categoryID uint, v Variant) (Catalog, error) {
	idx := -1
	for i, cat := range c.categories {
		if cat.ID == categoryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c, fmt.Errorf("%w: id=%d", ErrCategoryNotFound, categoryID)
	}
	for _, existing := range c.categories[idx].Variants {
		if existing.ID == v.ID {
			return c, fmt.Errorf("%w: id=%d", ErrDuplicateVariant, v.ID)
		}
	}

	next := Catalog{categories: c.Categories()}
	next.categories[idx].Variants = append(next.categories[idx].Variants, v)
	return next, nil
}
