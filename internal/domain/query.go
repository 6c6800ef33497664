package domain

// Price bounds applied by the list endpoint when the caller omits them.
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 10000
)

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min float64
	Max float64
}

// Contains reports whether price lies within the range.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// ProductQuery is a store-agnostic product filter. Zero-valued fields do not
// constrain the result.
type ProductQuery struct {
	// Name matches products whose name contains it, ignoring case.
	Name           string
	Price          *PriceRange
	CategoryID     string
	Slug           string
	ExcludeDeleted bool
}

// NewListQuery builds the filter used by the product listing. The name filter
// is only set when name is non-empty; the price range is always set, with
// each missing bound replaced by its default.
func NewListQuery(name string, minPrice, maxPrice *float64) ProductQuery {
	r := PriceRange{Min: DefaultMinPrice, Max: DefaultMaxPrice}
	if minPrice != nil {
		r.Min = *minPrice
	}
	if maxPrice != nil {
		r.Max = *maxPrice
	}

	return ProductQuery{
		Name:  name,
		Price: &r,
	}
}

// NewCategoryQuery builds the filter for the non-deleted products of a
// category, optionally narrowed to a single slug.
func NewCategoryQuery(categoryID, slug string) ProductQuery {
	return ProductQuery{
		CategoryID:     categoryID,
		Slug:           slug,
		ExcludeDeleted: true,
	}
}
