package extractor

// The two known listing layouts: the canonical subcategories container, and
// an older variant that carries the same group/list shape under a class
// instead of an id.
const (
	selectorSubcategories    = "div#mw-subcategories"
	selectorCategoryFallback = "div.mw-category"
	selectorGroupAnchors     = "div.mw-category-group ul li a"
	selectorPageItems        = "div#mw-pages li"
	selectorAllAnchors       = "a[href]"
)
