package domain

import "strings"

// ExpenseCategory is the stored identifier of an expense category
type ExpenseCategory string

const (
	CategoryFoodDining     ExpenseCategory = "FOOD_DINING"
	CategoryTransportation ExpenseCategory = "TRANSPORTATION"
	CategoryEntertainment  ExpenseCategory = "ENTERTAINMENT"
	CategoryShopping       ExpenseCategory = "SHOPPING"
	CategoryBillsUtilities ExpenseCategory = "BILLS_UTILITIES"
	CategoryHealthcare     ExpenseCategory = "HEALTHCARE"
	CategoryTravel         ExpenseCategory = "TRAVEL"
	CategoryEducation      ExpenseCategory = "EDUCATION"
	CategoryOther          ExpenseCategory = "OTHER"
)

// DefaultCategoryColor is used for identifiers outside the catalog
const DefaultCategoryColor = "#95a5a6"

// DefaultCategoryIcon is used for identifiers outside the catalog
const DefaultCategoryIcon = "📦"

// CategoryInfo holds the display attributes of a category
type CategoryInfo struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// categoryOrder fixes the listing order of the catalog
var categoryOrder = []ExpenseCategory{
	CategoryFoodDining,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryShopping,
	CategoryBillsUtilities,
	CategoryHealthcare,
	CategoryTravel,
	CategoryEducation,
	CategoryOther,
}

var categoryCatalog = map[ExpenseCategory]CategoryInfo{
	CategoryFoodDining:     {Label: "Food & Dining", Icon: "🍕", Color: "#ff6b6b"},
	CategoryTransportation: {Label: "Transportation", Icon: "🚗", Color: "#4ecdc4"},
	CategoryEntertainment:  {Label: "Entertainment", Icon: "🎬", Color: "#45b7d1"},
	CategoryShopping:       {Label: "Shopping", Icon: "🛍️", Color: "#f39c12"},
	CategoryBillsUtilities: {Label: "Bills & Utilities", Icon: "💡", Color: "#e74c3c"},
	CategoryHealthcare:     {Label: "Healthcare", Icon: "🏥", Color: "#27ae60"},
	CategoryTravel:         {Label: "Travel", Icon: "✈️", Color: "#9b59b6"},
	CategoryEducation:      {Label: "Education", Icon: "📚", Color: "#3498db"},
	CategoryOther:          {Label: "Other", Icon: DefaultCategoryIcon, Color: DefaultCategoryColor},
}

// LookupCategory returns the display attributes for a category identifier.
// Unknown identifiers keep their raw text as label and get the default icon and color.
func LookupCategory(id string) CategoryInfo {
	if info, ok := categoryCatalog[ExpenseCategory(id)]; ok {
		return info
	}
	return CategoryInfo{Label: id, Icon: DefaultCategoryIcon, Color: DefaultCategoryColor}
}

// Info returns the display attributes of the category
func (c ExpenseCategory) Info() CategoryInfo {
	return LookupCategory(string(c))
}

// IsValid reports whether the category belongs to the catalog
func (c ExpenseCategory) IsValid() bool {
	_, ok := categoryCatalog[c]
	return ok
}

// ParseExpenseCategory maps free text to a category, accepting either the
// identifier or the display label, case-insensitively. Unknown text yields nil.
func ParseExpenseCategory(text string) *ExpenseCategory {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	for _, c := range categoryOrder {
		if strings.EqualFold(text, string(c)) || strings.EqualFold(text, categoryCatalog[c].Label) {
			category := c
			return &category
		}
	}
	return nil
}

// CatalogEntry is one row of the category listing
type CatalogEntry struct {
	ID ExpenseCategory `json:"id"`
	CategoryInfo
}

// Categories lists the catalog in display order
func Categories() []CatalogEntry {
	entries := make([]CatalogEntry, len(categoryOrder))
	for i, c := range categoryOrder {
		entries[i] = CatalogEntry{ID: c, CategoryInfo: categoryCatalog[c]}
	}
	return entries
}
