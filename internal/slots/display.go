package slots

// Kutusuz kategorilerin hızlı giriş ızgarası 2 satır x 3 sütun bloklar halinde
// çizilir; liste sırası sütun sütun okunacak şekilde dizilir.
var displayPermutation = [6]int{0, 3, 1, 4, 2, 5}

// DisplayOrder n elemanlı bir listenin ekranda gösterim sırasını döner.
// Permütasyon 6'lık bloklara uygulanır, n dışındaki pozisyonlar atlanır.
// Sadece görünüm içindir; satır kimliğini değiştirmez.
func DisplayOrder(n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, 0, n)
	for base := 0; base < n; base += len(displayPermutation) {
		for _, p := range displayPermutation {
			if idx := base + p; idx < n {
				out = append(out, idx)
			}
		}
	}
	return out
}
