package lineitem

// Flow satırın hangi ekrandan eklendiği.
type Flow int

const (
	FlowNewOrder Flow = iota
	FlowEditOrder
)

// Defaults yeni eklenen satırın varsayılan durumu. Yeni sipariş ekranı
// "processing", sipariş düzenleme ekranı "pending" ile başlar; hızlı giriş
// satırları her iki akışta da "pending" başlar.
type Defaults struct {
	NewOrder   Status
	EditOrder  Status
	QuickEntry Status
}

var DefaultStatuses = Defaults{
	NewOrder:   StatusProcessing,
	EditOrder:  StatusPending,
	QuickEntry: StatusPending,
}

func (d Defaults) For(flow Flow, quick bool) Status {
	var s Status
	switch {
	case quick:
		s = d.QuickEntry
	case flow == FlowEditOrder:
		s = d.EditOrder
	default:
		s = d.NewOrder
	}
	if !s.Valid() {
		return StatusPending
	}
	return s
}
