package orderdraft_test

import (
	"fmt"
	"testing"

	"perde-backend/internal/catalog"
	"perde-backend/internal/dto"
	"perde-backend/internal/lineitem"
	"perde-backend/internal/orderdraft"

	"github.com/cucumber/godog"
)

type compositionContext struct {
	cat   catalog.Catalog
	draft *orderdraft.Draft
	last  lineitem.Line
}

func featureCatalog() catalog.Catalog {
	return catalog.New([]catalog.Category{
		{ID: 1, Name: "TÜL PERDE", Variants: []catalog.Variant{{ID: 11, Name: "Keten Tül", UnitPrice: 50}}},
		{ID: 2, Name: "FON PERDE", Variants: []catalog.Variant{{ID: 21, Name: "Kadife", UnitPrice: 80}}},
		{ID: 3, Name: "STOR PERDE", Variants: []catalog.Variant{{ID: 31, Name: "Blackout", UnitPrice: 100}}},
	})
}

func (c *compositionContext) emptyOrder() error {
	c.cat = featureCatalog()
	c.draft = orderdraft.New(c.cat)
	return nil
}

func (c *compositionContext) persistedOrder(n int) error {
	c.cat = featureCatalog()
	order := dto.OrderResponse{ID: 1, Version: 1, CustomerName: "Ayşe", CustomerPhone: "0532"}
	for i := 0; i < n; i++ {
		id := uint(100 + i)
		order.Items = append(order.Items, dto.LineItemDTO{
			ID: &id, CategoryID: 1, VariantID: 11, Qty: 1, Width: 100, UnitPrice: 50, FileDensity: 1, LineStatus: "pending",
		})
	}
	d, err := orderdraft.Load(c.cat, order)
	if err != nil {
		return err
	}
	c.draft = d
	return nil
}

func (c *compositionContext) categoryID(name string) (uint, error) {
	cat, ok := c.cat.CategoryByName(name)
	if !ok {
		return 0, fmt.Errorf("kategori yok: %s", name)
	}
	return cat.ID, nil
}

func (c *compositionContext) commit(name string, set func(*lineitem.Drawer) error) error {
	id, err := c.categoryID(name)
	if err != nil {
		return err
	}
	dr, err := c.draft.OpenAdd(id, nil)
	if err != nil {
		return err
	}
	if err := set(dr); err != nil {
		return err
	}
	c.last, err = c.draft.Commit(dr)
	return err
}

func (c *compositionContext) addArea(name string, qty, width, height int) error {
	return c.commit(name, func(dr *lineitem.Drawer) error {
		_ = dr.SetQty(float64(qty))
		_ = dr.SetWidth(float64(width))
		return dr.SetHeight(float64(height))
	})
}

func (c *compositionContext) addDensity(name string, width int, density float64) error {
	return c.commit(name, func(dr *lineitem.Drawer) error {
		_ = dr.SetWidth(float64(width))
		return dr.SetDensity(density)
	})
}

func (c *compositionContext) addMany(name string, n int) error {
	for i := 0; i < n; i++ {
		if err := c.commit(name, func(*lineitem.Drawer) error { return nil }); err != nil {
			return err
		}
	}
	return nil
}

func (c *compositionContext) percentDiscount(p float64) error {
	c.draft.Discount.Percent = p
	return nil
}

func (c *compositionContext) fixedDiscount(v float64) error {
	c.draft.Discount.FixedAmount = v
	return nil
}

func (c *compositionContext) payment(v float64) error {
	c.draft.Paid += v
	return nil
}

func (c *compositionContext) removePersisted(n int) error {
	removed := 0
	for _, l := range c.draft.Lines() {
		if removed == n {
			break
		}
		if l.Persisted() {
			if err := c.draft.RemoveLine(l.Key); err != nil {
				return err
			}
			removed++
		}
	}
	if removed != n {
		return fmt.Errorf("%d kalem silinebildi", removed)
	}
	return nil
}

func expectFloat(label string, got, want float64) error {
	if got != want {
		return fmt.Errorf("%s: beklenen %v, gelen %v", label, want, got)
	}
	return nil
}

func (c *compositionContext) lastSubtotal(want float64) error {
	return expectFloat("ara toplam", c.last.Subtotal, want)
}

func (c *compositionContext) lastSlot(want int) error {
	if c.last.SlotIndex == nil || *c.last.SlotIndex != want {
		return fmt.Errorf("slot beklenen %d, gelen %v", want, c.last.SlotIndex)
	}
	return nil
}

func (c *compositionContext) netTotal(want float64) error {
	return expectFloat("net toplam", c.draft.Totals().NetTotal, want)
}

func (c *compositionContext) balance(want float64) error {
	return expectFloat("bakiye", c.draft.Totals().Balance, want)
}

func (c *compositionContext) overflow(name string, want int) error {
	if got := len(c.draft.Overflow(name)); got != want {
		return fmt.Errorf("taşan kalem beklenen %d, gelen %d", want, got)
	}
	return nil
}

func (c *compositionContext) patchCounts() (deletes, updates int, err error) {
	p, err := c.draft.PatchPayload()
	if err != nil {
		return 0, 0, err
	}
	for _, it := range p.Items {
		switch {
		case it.Delete:
			deletes++
		case it.Line.ID != nil:
			updates++
		}
	}
	return deletes, updates, nil
}

func (c *compositionContext) deleteMarkers(want int) error {
	got, _, err := c.patchCounts()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("silme işareti beklenen %d, gelen %d", want, got)
	}
	return nil
}

func (c *compositionContext) updates(want int) error {
	_, got, err := c.patchCounts()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("güncelleme beklenen %d, gelen %d", want, got)
	}
	return nil
}

func initializeScenario(sc *godog.ScenarioContext) {
	c := &compositionContext{}

	sc.Step(`^boş bir yeni sipariş$`, c.emptyOrder)
	sc.Step(`^(\d+) kalemli kayıtlı bir sipariş$`, c.persistedOrder)
	sc.Step(`^"([^"]*)" kategorisine (\d+) adet (\d+) x (\d+) cm kalem eklenirse$`, c.addArea)
	sc.Step(`^"([^"]*)" kategorisine (\d+) cm genişliğinde ([\d.]+) sıklıkla kalem eklenirse$`, c.addDensity)
	sc.Step(`^"([^"]*)" kategorisine (\d+) kalem eklenirse$`, c.addMany)
	sc.Step(`^yüzde ([\d.]+) indirim uygulanırsa$`, c.percentDiscount)
	sc.Step(`^([\d.]+) sabit indirim uygulanırsa$`, c.fixedDiscount)
	sc.Step(`^([\d.]+) ödeme alınırsa$`, c.payment)
	sc.Step(`^kayıtlı (\d+) kalem silinirse$`, c.removePersisted)
	sc.Step(`^son kalemin ara toplamı ([\d.]+) olmalı$`, c.lastSubtotal)
	sc.Step(`^son kalem (\d+) numaralı slotta olmalı$`, c.lastSlot)
	sc.Step(`^net toplam ([\d.]+) olmalı$`, c.netTotal)
	sc.Step(`^kalan bakiye ([\d.]+) olmalı$`, c.balance)
	sc.Step(`^"([^"]*)" kategorisinde (\d+) kalem taşmış olmalı$`, c.overflow)
	sc.Step(`^kayıt yükünde (\d+) silme işareti olmalı$`, c.deleteMarkers)
	sc.Step(`^kayıt yükünde (\d+) güncelleme olmalı$`, c.updates)
}

func TestCompositionFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "composition",
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/composition.feature"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
