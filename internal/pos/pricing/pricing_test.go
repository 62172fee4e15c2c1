package pricing

import "testing"

func TestResolveUnitPriceTiers(t *testing.T) {
	cases := []struct {
		qty  int
		want Money
	}{
		{1, 1150},
		{5, 1150},
		{9, 1150},
		{10, 1130},
		{15, 1130},
		{99, 1130},
		{100, 1110},
		{120, 1110},
	}
	for _, tc := range cases {
		got := ResolveUnitPrice(1000, tc.qty, nil)
		if got != tc.want {
			t.Fatalf("qty %d: expected %d got %d", tc.qty, tc.want, got)
		}
	}
}

func TestResolveUnitPriceMonotonicAcrossTiers(t *testing.T) {
	base := Money(7777)
	prev := ResolveUnitPrice(base, 1, nil)
	for _, qty := range []int{9, 10, 99, 100, 500} {
		p := ResolveUnitPrice(base, qty, nil)
		if p > prev {
			t.Fatalf("price increased crossing tier boundary at qty %d: %d > %d", qty, p, prev)
		}
		prev = p
	}
}

func TestResolveUnitPriceCustomMarkup(t *testing.T) {
	pct := 20.0
	if got := ResolveUnitPrice(1000, 150, &pct); got != 1200 {
		t.Fatalf("custom markup should override tier, got %d", got)
	}
	half := 12.5
	if got := ResolveUnitPrice(1000, 1, &half); got != 1125 {
		t.Fatalf("fractional markup should round to nearest unit, got %d", got)
	}
}

func TestResolveUnitPriceDefensiveDefaults(t *testing.T) {
	if got := ResolveUnitPrice(0, 5, nil); got != 0 {
		t.Fatalf("zero base price should yield 0, got %d", got)
	}
	if got := ResolveUnitPrice(-100, 5, nil); got != 0 {
		t.Fatalf("negative base price should yield 0, got %d", got)
	}
	if got := ResolveUnitPrice(1000, 0, nil); got != 0 {
		t.Fatalf("zero quantity should yield 0, got %d", got)
	}
}

func TestTierFor(t *testing.T) {
	if tier := TierFor(5, nil); tier.Name != "base" || tier.MarkupPercent != 15 || tier.IsDiscounted || tier.IsCustom {
		t.Fatalf("unexpected base tier: %+v", tier)
	}
	if tier := TierFor(10, nil); tier.Name != "medium" || tier.MarkupPercent != 13 || !tier.IsDiscounted {
		t.Fatalf("unexpected medium tier: %+v", tier)
	}
	if tier := TierFor(100, nil); tier.Name != "bulk" || tier.MarkupPercent != 11 || !tier.IsDiscounted {
		t.Fatalf("unexpected bulk tier: %+v", tier)
	}
	pct := 8.0
	if tier := TierFor(1, &pct); !tier.IsCustom || !tier.IsDiscounted || tier.MarkupPercent != 8 {
		t.Fatalf("unexpected custom tier: %+v", tier)
	}
	high := 25.0
	if tier := TierFor(1, &high); tier.IsDiscounted {
		t.Fatalf("markup above base should not be flagged as discounted: %+v", tier)
	}
}
