package library

import (
	"github.com/desertthunder/tocata/internal/models"
)

// favoriteIdentity applies the same defaulting as [models.NormalizeTrack] so a missing
// artist or album matches the stored placeholder.
func favoriteIdentity(name, artist, album string) models.Identity {
	return models.NormalizeTrack(models.Track{Name: name, Artist: artist, Album: album}).Identity()
}

// AddFavorite stores track unless a favorite with the same identity exists.
//
// It reports whether the track was added.
func (l *Library) AddFavorite(track models.Track) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addFavorite(track)
}

func (l *Library) addFavorite(track models.Track) bool {
	t := models.NormalizeTrack(track)
	if l.favoriteIndex(t.Identity()) >= 0 {
		return false
	}
	l.favorites = append(l.favorites, models.NewFavorite(t, l.now()))
	l.saveFavorites()
	return true
}

// RemoveFavorite removes the favorite matching the identity of name, artist and album.
func (l *Library) RemoveFavorite(name, artist, album string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.removeFavorite(favoriteIdentity(name, artist, album))
}

func (l *Library) removeFavorite(id models.Identity) bool {
	i := l.favoriteIndex(id)
	if i < 0 {
		return false
	}
	l.favorites = append(l.favorites[:i], l.favorites[i+1:]...)
	l.saveFavorites()
	return true
}

// IsFavorite reports whether a favorite with the identity of name, artist and album exists.
func (l *Library) IsFavorite(name, artist, album string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.favoriteIndex(favoriteIdentity(name, artist, album)) >= 0
}

// ToggleFavorite adds or removes track and returns the resulting membership:
// true when the track is now a favorite.
func (l *Library) ToggleFavorite(track models.Track) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.removeFavorite(models.NormalizeTrack(track).Identity()) {
		return false
	}
	return l.addFavorite(track)
}

// Favorites returns every favorite in the order it was added.
func (l *Library) Favorites() []models.Favorite {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Favorite, len(l.favorites))
	copy(out, l.favorites)
	return out
}

// FavoriteTracks returns the favorites as plain track references.
func (l *Library) FavoriteTracks() []models.Track {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Track, len(l.favorites))
	for i, f := range l.favorites {
		out[i] = f.Track
	}
	return out
}

// ClearFavorites removes every favorite.
func (l *Library) ClearFavorites() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.favorites = nil
	l.saveFavorites()
}

// favoriteIndex matches on the identity tuple; the joined ID is not unique
// when a part contains "_".
func (l *Library) favoriteIndex(id models.Identity) int {
	for i, f := range l.favorites {
		if f.Identity() == id {
			return i
		}
	}
	return -1
}
