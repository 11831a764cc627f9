package classify

import "regexp"

// imageURLPattern matches direct links to common raster image formats. The
// non-greedy body stops at the first recognized extension, and the character
// class excludes whitespace, quotes, and closing parens so markdown image
// syntax does not bleed into the captured URL.
var imageURLPattern = regexp.MustCompile(`(?i)https?://[^\s")]+?\.(?:png|jpg|jpeg|gif|webp)`)

// ExtractImageURLs returns every image URL found in text, in order of
// appearance. Duplicates are preserved; callers that need a set dedupe
// themselves. The result is never nil.
func ExtractImageURLs(text string) []string {
	matches := imageURLPattern.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}
