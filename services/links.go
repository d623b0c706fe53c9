package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/MarginallyHarmless/MovieBot/models"
)

// Recognized URL shapes. Plain pattern matching, not URL parsing, so partial
// or oddly-pasted links still match as long as the identifying segment is
// intact.
var (
	// imdb.com/title/tt1234567, www.imdb.com/..., m.imdb.com/...
	imdbPattern = regexp.MustCompile(`(?i)https?://(?:www\.|m\.)?imdb\.com/title/(tt\d+)`)

	// netflix.com/title/81234567 and netflix.com/watch/81234567, with
	// optional locale prefixes like /ro-en/ or /en/.
	netflixPattern = regexp.MustCompile(`(?i)https?://(?:www\.)?netflix\.com/(?:[a-z]{2}(?:-[a-z]{2})?/)?(?:title|watch)/(\d+)`)

	// rottentomatoes.com/m/movie_name
	rottenTomatoesPattern = regexp.MustCompile(`(?i)https?://(?:www\.)?rottentomatoes\.com/m/([a-zA-Z0-9_]+)`)

	rtSlugYearPattern = regexp.MustCompile(`_(\d{4})$`)
)

// ExtractRefs finds all recognizable movie links in a chat message. It never
// fails: text with no known link shapes yields an empty slice. Results follow
// first occurrence per pattern, and duplicates within one message are kept;
// de-duplication happens at insert time.
func ExtractRefs(text string) []models.ExternalRef {
	var refs []models.ExternalRef

	for _, m := range imdbPattern.FindAllStringSubmatch(text, -1) {
		refs = append(refs, models.ExternalRef{
			Service: models.ServiceIMDb,
			ID:      m[1],
			URL:     m[0],
		})
	}

	for _, m := range netflixPattern.FindAllStringSubmatch(text, -1) {
		refs = append(refs, models.ExternalRef{
			Service: models.ServiceNetflix,
			ID:      m[1],
			URL:     m[0],
		})
	}

	for _, m := range rottenTomatoesPattern.FindAllStringSubmatch(text, -1) {
		refs = append(refs, models.ExternalRef{
			Service: models.ServiceRottenTomatoes,
			ID:      m[1],
			URL:     m[0],
		})
	}

	return refs
}

// ContainsMovieLink reports whether the text has at least one recognizable
// movie link, without allocating the ref slice.
func ContainsMovieLink(text string) bool {
	return imdbPattern.MatchString(text) ||
		netflixPattern.MatchString(text) ||
		rottenTomatoesPattern.MatchString(text)
}

// ParseRottenTomatoesSlug turns a RT slug into a search title plus an
// optional year hint when the slug ends in _YYYY (e.g. "the_thing_2011").
func ParseRottenTomatoesSlug(slug string) (title string, year int) {
	if m := rtSlugYearPattern.FindStringSubmatch(slug); m != nil {
		year, _ = strconv.Atoi(m[1])
		slug = slug[:len(slug)-len(m[0])]
	}
	return strings.ReplaceAll(slug, "_", " "), year
}
