package ingest

// Tables holds the keyword lists driving heuristic attribute detection.
// They are configuration, not logic: extending to a new locale or domain
// means swapping tables, not editing the index builder.
type Tables struct {
	Colors []string
	Sizes  []string
}

// DefaultTables returns the built-in English color and size keywords.
func DefaultTables() Tables {
	return Tables{
		Colors: []string{
			"black", "white", "red", "blue", "green", "yellow", "orange",
			"purple", "pink", "brown", "grey", "gray", "navy", "beige",
			"cream", "gold", "silver", "maroon", "teal", "olive",
		},
		Sizes: []string{
			"xxs", "xs", "s", "m", "l", "xl", "xxl", "xxxl",
			"small", "medium", "large",
			"extra small", "extra large",
		},
	}
}
