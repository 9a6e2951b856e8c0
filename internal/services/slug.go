package services

import (
	"strconv"

	"github.com/gosimple/slug"
)

// slugify turns s into a lowercase, hyphen separated ASCII slug using German
// transliteration ("Straßenfest München" → "strassenfest-muenchen").
func slugify(s string) string {
	return slug.MakeLang(s, "de")
}

// reservedSlugs collide with fixed routes below /api/events/.
var reservedSlugs = []string{"list"}

// nextFreeSlug returns base when unused, otherwise base-N with the smallest
// N >= 2 that is neither in taken nor reserved.
func nextFreeSlug(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken)+len(reservedSlugs))
	for _, r := range reservedSlugs {
		used[r] = struct{}{}
	}
	for _, t := range taken {
		used[t] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}
