// Package category defines the closed set of spending categories shared by
// expenses, budgets and reports.
package category

type Category string

const (
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Housing        Category = "Housing"
	Utilities      Category = "Utilities"
	Entertainment  Category = "Entertainment"
	Healthcare     Category = "Healthcare"
	Shopping       Category = "Shopping"
	Education      Category = "Education"
	PersonalCare   Category = "Personal Care"
	Other          Category = "Other"
)

// all holds the canonical declaration order. Report top-category ties are
// broken by this order, so it must stay stable.
var all = []Category{
	Food,
	Transportation,
	Housing,
	Utilities,
	Entertainment,
	Healthcare,
	Shopping,
	Education,
	PersonalCare,
	Other,
}

// All returns the categories in canonical order.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

func IsValid(name string) bool {
	for _, c := range all {
		if string(c) == name {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
