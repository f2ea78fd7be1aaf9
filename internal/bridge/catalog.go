package bridge

import "github.com/xtding233/ability-miner/internal/ability"

type AbilityInfo struct {
	Ordinal uint8  `json:"ordinal"`
	Name    string `json:"name"`
	Legacy  string `json:"legacy"`
	Display string `json:"display"`
}

type BrandInfo struct {
	Ordinal uint8            `json:"ordinal"`
	Name    string           `json:"name"`
	Unusual *ability.Ability `json:"unusual,omitempty"`
	Usual   *ability.Ability `json:"usual,omitempty"`
	Weights []uint32         `json:"weights"`
	Total   uint32           `json:"total"`
}

// CatalogInfo lists every ability and brand with its roll weights.
type CatalogInfo struct {
	Abilities []AbilityInfo `json:"abilities"`
	Brands    []BrandInfo   `json:"brands"`
}

func Catalog() CatalogInfo {
	var c CatalogInfo
	for _, a := range ability.Abilities() {
		c.Abilities = append(c.Abilities, AbilityInfo{
			Ordinal: uint8(a),
			Name:    a.String(),
			Legacy:  a.LegacyName(),
			Display: a.DisplayName(),
		})
	}
	for _, b := range ability.Brands() {
		w := ability.Weights(b)
		info := BrandInfo{
			Ordinal: uint8(b),
			Name:    b.String(),
			Weights: w[:],
			Total:   ability.TotalWeight(b),
		}
		if a, ok := b.Unusual(); ok {
			info.Unusual = &a
		}
		if a, ok := b.Usual(); ok {
			info.Usual = &a
		}
		c.Brands = append(c.Brands, info)
	}
	return c
}
