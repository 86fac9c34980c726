package domain

// Category labels a transaction for grouping and analytics. The set is a
// closed enumeration derived from the app's category groups; OtherCategory
// is the custom/extensible variant. CategoryTransfer is reserved for the
// postings generated by the transfer poster.
type Category string

const (
	Education        Category = "Education"
	Food             Category = "Food"
	Transportation   Category = "Transportation"
	Healthcare       Category = "Healthcare"
	Entertainment    Category = "Entertainment"
	Beauty           Category = "Beauty"
	Social           Category = "Social"
	Salary           Category = "Salary"
	Business         Category = "Business"
	Investment       Category = "Investment"
	CategoryTransfer Category = "Transfer"
	OtherCategory    Category = "Other"
)

// Categories lists every known category, in presentation order.
func Categories() []Category {
	return []Category{
		Education, Food, Transportation, Healthcare, Entertainment,
		Beauty, Social, Salary, Business, Investment, CategoryTransfer,
		OtherCategory,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}
