// Package slots kutulu kategorilerin numaralı slot tablolarını yönetir.
//
// Her kutulu kategori için sabit uzunlukta bir dizi tutulur; hücreler boş ya da
// bir satır anahtarı (line key) içerir. Bir slotta en fazla bir satır, bir satır
// en fazla bir slotta bulunur. Kutusuz kategoriler allocator'a hiç girmez.
package slots

import (
	"perde-backend/internal/catalog"
)

// Position bir satırın hangi kategori tablosunda, kaçıncı hücrede olduğu.
type Position struct {
	Category string
	Index    int
}

type Allocator struct {
	tables map[string][]string
	where  map[string]Position
}

// New sabit kutulu kategori tablosuna göre boş tablolar oluşturur.
func New() *Allocator {
	a := &Allocator{
		tables: make(map[string][]string),
		where:  make(map[string]Position),
	}
	for _, name := range catalog.BoxedCategoryNames() {
		kind := catalog.ResolveKind(name)
		a.tables[name] = make([]string, kind.Slots)
	}
	return a
}

func (a *Allocator) table(category string) ([]string, string, bool) {
	name := catalog.CanonicalName(category)
	t, ok := a.tables[name]
	return t, name, ok
}

// Size kategorinin slot sayısı; kutusuz kategori için 0.
func (a *Allocator) Size(category string) int {
	t, _, _ := a.table(category)
	return len(t)
}

// PlaceAt sadece index aralıkta ve hücre boşsa başarılı olur.
// Satır başka bir slottaysa oradan taşınır.
func (a *Allocator) PlaceAt(category string, index int, key string) bool {
	t, name, ok := a.table(category)
	if !ok || key == "" || index < 0 || index >= len(t) {
		return false
	}
	if t[index] != "" {
		return t[index] == key
	}
	a.Remove(key)
	t[index] = key
	a.where[key] = Position{Category: name, Index: index}
	return true
}

// PlaceFirstEmpty soldan sağa ilk boş hücreye yerleştirir. Boş hücre yoksa
// satır yerleşmemiş (taşan) kalır; bu bir hata değildir.
func (a *Allocator) PlaceFirstEmpty(category string, key string) (int, bool) {
	t, _, ok := a.table(category)
	if !ok || key == "" {
		return 0, false
	}
	if pos, placed := a.where[key]; placed && pos.Category == catalog.CanonicalName(category) {
		return pos.Index, true
	}
	for i, occupant := range t {
		if occupant == "" {
			a.PlaceAt(category, i, key)
			return i, true
		}
	}
	a.Remove(key)
	return 0, false
}

// Place tercih edilen index'i dener; aralık dışı ya da doluysa ilk boş hücreye düşer.
func (a *Allocator) Place(category string, preferred *int, key string) (int, bool) {
	if preferred != nil && a.PlaceAt(category, *preferred, key) {
		return *preferred, true
	}
	return a.PlaceFirstEmpty(category, key)
}

// Swap iki hücrenin içeriğini değiştirir (biri boş olabilir). Sadece index
// sınırları kontrol edilir.
func (a *Allocator) Swap(category string, i, j int) bool {
	t, name, ok := a.table(category)
	if !ok || i < 0 || j < 0 || i >= len(t) || j >= len(t) {
		return false
	}
	t[i], t[j] = t[j], t[i]
	if t[i] != "" {
		a.where[t[i]] = Position{Category: name, Index: i}
	}
	if t[j] != "" {
		a.where[t[j]] = Position{Category: name, Index: j}
	}
	return true
}

// Remove satırın tuttuğu hücreyi (varsa) boşaltır.
func (a *Allocator) Remove(key string) {
	pos, ok := a.where[key]
	if !ok {
		return
	}
	if t, exists := a.tables[pos.Category]; exists && pos.Index < len(t) && t[pos.Index] == key {
		t[pos.Index] = ""
	}
	delete(a.where, key)
}

// Lookup satırın slot konumu.
func (a *Allocator) Lookup(key string) (Position, bool) {
	pos, ok := a.where[key]
	return pos, ok
}

// At hücredeki satır anahtarı; boşsa "".
func (a *Allocator) At(category string, index int) string {
	t, _, ok := a.table(category)
	if !ok || index < 0 || index >= len(t) {
		return ""
	}
	return t[index]
}

// Table kategorinin tablosunun kopyası.
func (a *Allocator) Table(category string) []string {
	t, _, ok := a.table(category)
	if !ok {
		return nil
	}
	return append([]string(nil), t...)
}

// FreeCount kategoride kalan boş hücre sayısı.
func (a *Allocator) FreeCount(category string) int {
	t, _, _ := a.table(category)
	n := 0
	for _, occupant := range t {
		if occupant == "" {
			n++
		}
	}
	return n
}
