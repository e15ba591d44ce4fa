package model

import "github.com/google/uuid"

const (
	// AllNotesGenre is the "show all" filter. Memos tagged with it appear
	// under every filter.
	AllNotesGenre = "AllNotesSentinel"

	// FallbackGenre receives memos whose requested genre is empty or the
	// placeholder.
	FallbackGenre = "Memo"

	// PlaceholderGenre is the name an editor sends for "no genre chosen".
	PlaceholderGenre = "Untitled"
)

// StarterGenres are created on first run next to the reserved genres.
var StarterGenres = []string{"Work", "Private", "Shopping"}

// Genre is a user-visible category for memos.
type Genre struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// NewGenre creates a genre with a fresh id.
func NewGenre(name string, isDefault bool) Genre {
	return Genre{ID: uuid.NewString(), Name: name, IsDefault: isDefault}
}

// DefaultGenreNames returns the names of the immutable genres in order.
func DefaultGenreNames() []string {
	names := []string{AllNotesGenre, FallbackGenre, ""}
	return append(names, StarterGenres...)
}

// DefaultGenres builds the genre list of a fresh store.
func DefaultGenres() []Genre {
	names := DefaultGenreNames()
	genres := make([]Genre, 0, len(names))
	for _, n := range names {
		genres = append(genres, NewGenre(n, true))
	}
	return genres
}

// IsBlankGenre reports whether name must fall back to FallbackGenre.
func IsBlankGenre(name string) bool {
	return name == "" || name == PlaceholderGenre
}
