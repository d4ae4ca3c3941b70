// Package outfit defines the structured fitcheck result and the
// extraction, normalization, and sanitization passes that produce it
// from raw model output.
//
// A Report always has the same shape: exactly three "what works"
// entries, two "what needs work" entries, two suggestions, and a flag
// for each of the six garment categories. Normalize enforces the shape;
// Sanitize additionally strips claims about garments the vision stage
// could not see.
package outfit

// Flag marks whether a garment category was confirmed in the image.
// It is a closed two-value enum; constructors map anything that is not
// exactly "visible" to FlagNotDetected.
type Flag string

const (
	FlagVisible     Flag = "visible"
	FlagNotDetected Flag = "not_detected"
)

// ItemKey identifies one of the six garment categories.
type ItemKey string

const (
	ItemDress       ItemKey = "dress"
	ItemTop         ItemKey = "top"
	ItemBottom      ItemKey = "bottom"
	ItemShoes       ItemKey = "shoes"
	ItemBag         ItemKey = "bag"
	ItemAccessories ItemKey = "accessories"
)

// ItemKeys lists the garment categories in serialization order.
var ItemKeys = []ItemKey{
	ItemDress,
	ItemTop,
	ItemBottom,
	ItemShoes,
	ItemBag,
	ItemAccessories,
}

// Target lengths for the three list fields.
const (
	WhatWorksLen     = 3
	WhatNeedsWorkLen = 2
	SuggestionsLen   = 2
)

// OverallVibe is the one-line impression of the outfit.
type OverallVibe struct {
	Summary  string `json:"summary"`
	Category string `json:"category"`
}

// ItemFlags records detection state per garment category. Using a
// struct rather than a map fixes both the key set and the JSON key
// order.
type ItemFlags struct {
	Dress       Flag `json:"dress"`
	Top         Flag `json:"top"`
	Bottom      Flag `json:"bottom"`
	Shoes       Flag `json:"shoes"`
	Bag         Flag `json:"bag"`
	Accessories Flag `json:"accessories"`
}

// Get returns the flag for a garment category.
func (f *ItemFlags) Get(k ItemKey) Flag {
	switch k {
	case ItemDress:
		return f.Dress
	case ItemTop:
		return f.Top
	case ItemBottom:
		return f.Bottom
	case ItemShoes:
		return f.Shoes
	case ItemBag:
		return f.Bag
	case ItemAccessories:
		return f.Accessories
	}
	return FlagNotDetected
}

// Set stores the flag for a garment category.
func (f *ItemFlags) Set(k ItemKey, v Flag) {
	switch k {
	case ItemDress:
		f.Dress = v
	case ItemTop:
		f.Top = v
	case ItemBottom:
		f.Bottom = v
	case ItemShoes:
		f.Shoes = v
	case ItemBag:
		f.Bag = v
	case ItemAccessories:
		f.Accessories = v
	}
}

// Report is the canonical fitcheck analysis result.
type Report struct {
	OverallVibe   OverallVibe `json:"overall_vibe"`
	WhatWorks     []string    `json:"what_works"`
	WhatNeedsWork []string    `json:"what_needs_work"`
	Suggestions   []string    `json:"suggestions"`
	ItemFlags     ItemFlags   `json:"item_flags"`
}

// coerceFlag collapses arbitrary input onto the closed enum. Only the
// exact string "visible" survives; everything else, including the zero
// value, becomes not_detected.
func coerceFlag(v string) Flag {
	if v == string(FlagVisible) {
		return FlagVisible
	}
	return FlagNotDetected
}
