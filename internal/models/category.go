package models

import "strings"

// Fixed category tags. The frontend localizes the labels; the backend only
// stores the tag.
const (
	CategoryScience    = "visindi"
	CategoryAnimals    = "dyr"
	CategoryHistory    = "saga"
	CategoryTechnology = "taekni"
	CategoryNature     = "natturan"
	CategorySpace      = "geimurinn"
	CategoryPeople     = "folk"
	CategoryOddities   = "furdur"
)

// Categories lists every valid tag in display order.
var Categories = []string{
	CategoryScience,
	CategoryAnimals,
	CategoryHistory,
	CategoryTechnology,
	CategoryNature,
	CategorySpace,
	CategoryPeople,
	CategoryOddities,
}

// ValidCategory reports whether tag is one of the fixed categories.
// The empty tag is valid: category is optional.
func ValidCategory(tag string) bool {
	if tag == "" {
		return true
	}
	for _, c := range Categories {
		if c == tag {
			return true
		}
	}
	return false
}

// specialKeywords trigger the cosmetic easter-egg highlight when they show
// up in a question's title or content.
var specialKeywords = []string{
	"jólasveinn",
	"álfur",
	"tröll",
	"huldufólk",
}

// IsSpecial reports whether a question should carry the easter-egg flag:
// either its category is the oddities tag or a trigger keyword appears in
// the title or content.
func IsSpecial(title, content, category string) bool {
	if category == CategoryOddities {
		return true
	}
	haystack := strings.ToLower(title + " " + content)
	for _, kw := range specialKeywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
