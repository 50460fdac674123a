package enums

// SortKey orders catalog listings. Unknown input falls back to newest.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price_low"
	SortPriceHigh SortKey = "price_high"
	SortName      SortKey = "name"
)

var validSortKeys = []SortKey{
	SortNewest,
	SortPriceLow,
	SortPriceHigh,
	SortName,
}

// String implements fmt.Stringer.
func (s SortKey) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortKey.
func (s SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortKey normalizes raw input, defaulting to newest for unknown values.
func ParseSortKey(value string) SortKey {
	for _, candidate := range validSortKeys {
		if string(candidate) == value {
			return candidate
		}
	}
	return SortNewest
}
