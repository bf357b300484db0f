package metadata

import (
	"strconv"
	"strings"

	"watchnext/internal/tmdb"
)

// Sentinel values substituted when real metadata is unavailable.
const (
	PlaceholderPosterURL = "https://via.placeholder.com/450x650?text=No+Poster"
	YearUnknown          = "Unknown"
	RatingNA             = "N/A"
)

// MovieMetadata is the display record for a single title. Fields always hold
// a renderable value; sentinels stand in for anything TMDB could not supply.
type MovieMetadata struct {
	Title     string `json:"title"`
	PosterURL string `json:"poster_url"`
	Year      string `json:"year"`
	Rating    string `json:"rating"`
	Overview  string `json:"overview"`
}

// Images describes how poster paths become full URLs.
type Images struct {
	BaseURL    string
	PosterSize string
}

// PosterURL builds the full poster URL for a TMDB poster path.
func (i Images) PosterURL(posterPath string) string {
	if strings.TrimSpace(posterPath) == "" {
		return PlaceholderPosterURL
	}
	return strings.TrimRight(i.BaseURL, "/") + "/" + strings.Trim(i.PosterSize, "/") + posterPath
}

// Sentinel returns the full fallback record for a title.
func Sentinel(title string) MovieMetadata {
	return MovieMetadata{
		Title:     title,
		PosterURL: PlaceholderPosterURL,
		Year:      YearUnknown,
		Rating:    RatingNA,
		Overview:  "",
	}
}

// mapResult converts a TMDB result into display metadata, substituting
// sentinels for missing fields. requested is the title the caller asked for;
// it backs the record when TMDB returns an unnamed entry.
func mapResult(requested string, result tmdb.Result, images Images) MovieMetadata {
	title := strings.TrimSpace(result.Title)
	if title == "" {
		title = requested
	}

	year := YearUnknown
	if date := strings.TrimSpace(result.ReleaseDate); date != "" {
		year = strings.SplitN(date, "-", 2)[0]
	}

	// TMDB reports unrated movies as vote_average 0; both absent and zero
	// map to the sentinel.
	rating := RatingNA
	if result.VoteAverage > 0 {
		rating = strconv.FormatFloat(result.VoteAverage, 'f', 1, 64)
	}

	return MovieMetadata{
		Title:     title,
		PosterURL: images.PosterURL(result.PosterPath),
		Year:      year,
		Rating:    rating,
		Overview:  result.Overview,
	}
}
