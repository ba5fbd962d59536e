package model

import "sort"

// PackageOffer maps a purchasable minute count to the provider price reference.
// The catalog is static configuration; it is never mutated at runtime.
type PackageOffer struct {
	Minutes int    `json:"minutes"`
	PriceID string `json:"-"`
}

// Catalog is the set of purchasable packages keyed by minute count.
type Catalog map[int]PackageOffer

// NewCatalog builds a Catalog from a minutes-to-price-reference map.
func NewCatalog(priceIDs map[int]string) Catalog {
	c := make(Catalog, len(priceIDs))
	for minutes, priceID := range priceIDs {
		c[minutes] = PackageOffer{Minutes: minutes, PriceID: priceID}
	}
	return c
}

// Lookup returns the offer for the requested minute count.
func (c Catalog) Lookup(minutes int) (PackageOffer, bool) {
	offer, ok := c[minutes]
	return offer, ok
}

// Minutes returns the available package sizes in ascending order.
func (c Catalog) Minutes() []int {
	sizes := make([]int, 0, len(c))
	for m := range c {
		sizes = append(sizes, m)
	}
	sort.Ints(sizes)
	return sizes
}
