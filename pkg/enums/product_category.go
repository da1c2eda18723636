package enums

// ProductCategory buckets the digital goods catalog.
type ProductCategory string

const (
	CategoryHTMLCSSJS  ProductCategory = "html-css-js"
	CategoryPython     ProductCategory = "python"
	CategoryOpenSource ProductCategory = "open-source"
)

func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryHTMLCSSJS, CategoryPython, CategoryOpenSource:
		return true
	}
	return false
}

// AllProductCategories lists every known category for catalog filters.
func AllProductCategories() []ProductCategory {
	return []ProductCategory{CategoryHTMLCSSJS, CategoryPython, CategoryOpenSource}
}
