package models

import "testing"

func TestEffectivePriceUsesSalePriceWhenOnSale(t *testing.T) {
	p := Product{Price: 100, SaleEnabled: true, SalePrice: 75}
	if got := p.EffectivePrice(); got != 75 {
		t.Fatalf("expected sale price 75, got %v", got)
	}

	p.SaleEnabled = false
	if got := p.EffectivePrice(); got != 100 {
		t.Fatalf("expected regular price 100 when sale disabled, got %v", got)
	}
}

func TestOnSaleRequiresValidSalePrice(t *testing.T) {
	cases := []struct {
		name string
		p    Product
		want bool
	}{
		{"sale below price", Product{Price: 100, SaleEnabled: true, SalePrice: 80}, true},
		{"sale equals price", Product{Price: 100, SaleEnabled: true, SalePrice: 100}, false},
		{"sale above price", Product{Price: 100, SaleEnabled: true, SalePrice: 120}, false},
		{"zero sale price", Product{Price: 100, SaleEnabled: true, SalePrice: 0}, false},
		{"sale disabled", Product{Price: 100, SaleEnabled: false, SalePrice: 80}, false},
	}
	for _, tc := range cases {
		if got := tc.p.OnSale(); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
