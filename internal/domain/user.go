package domain

// Preferences is a read-only snapshot of a user's relational preference data
// taken at scoring time.
type Preferences struct {
	UserID            int64
	FavoriteGenres    IDSet
	LikedMovies       IDSet
	FavoriteActors    IDSet
	FavoriteDirectors IDSet
	Following         IDSet
}

// EmptyPreferences returns a profile with every set empty but non-nil.
func EmptyPreferences(userID int64) *Preferences {
	return &Preferences{
		UserID:            userID,
		FavoriteGenres:    NewIDSet(),
		LikedMovies:       NewIDSet(),
		FavoriteActors:    NewIDSet(),
		FavoriteDirectors: NewIDSet(),
		Following:         NewIDSet(),
	}
}
