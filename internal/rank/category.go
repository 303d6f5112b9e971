package rank

// Category buckets a score for display.
type Category string

const (
	CategoryHigh    Category = "high"
	CategoryMedium  Category = "medium"
	CategoryNeutral Category = "neutral"
	CategoryLow     Category = "low"
)

func CategoryOf(score int) Category {
	switch {
	case score >= 80:
		return CategoryHigh
	case score >= 60:
		return CategoryMedium
	case score >= 40:
		return CategoryNeutral
	default:
		return CategoryLow
	}
}
