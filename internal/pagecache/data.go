package pagecache

// Category namespaces cache entries by the role a page plays in the descent.
// Two identical URLs fetched under different categories are distinct entries,
// so a collision across levels can never serve the wrong payload.
type Category string

const (
	CategoryCountry  Category = "country"
	CategoryGenre    Category = "genre"
	CategoryFilm     Category = "film"
	CategorySubgenre Category = "subgenre"
)
