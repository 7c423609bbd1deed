package votes

import (
	"errors"

	"github.com/ross-mclain-br/decyde/pkg/decyde/models"
	"gorm.io/gorm"
)

// ErrUnknownMovie means the imdb id matches no stored movie and the caller
// supplied no metadata to create one from
var ErrUnknownMovie = errors.New("movie not found and no metadata supplied")

// MoviePayload carries caller-supplied metadata for lazy movie creation
type MoviePayload struct {
	Title     string
	Year      int
	PosterURL string
	Type      models.MovieType
}

// Upsert casts or changes a vote for the (user, movie, group-or-personal)
// scope, creating the movie record on first sight of its imdb id. Repeated
// calls for the same scope update the single existing row; the vote value
// is stored verbatim (0 is the retract convention).
//
// The lookup-then-write sequence runs in one transaction, and a duplicate
// insert that still slips through to the compound unique index is retried
// as an update of the winning row.
func Upsert(db *gorm.DB, userID uint, groupID *uint, imdbID string, vote int, payload *MoviePayload) (*models.MovieVote, error) {
	var row models.MovieVote
	err := db.Transaction(func(tx *gorm.DB) error {
		// Resolve or lazily create the movie
		var movie models.Movie
		err := tx.Where("imdb_id = ?", imdbID).First(&movie).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if payload == nil {
				return ErrUnknownMovie
			}
			movie = models.Movie{
				ImdbID:    imdbID,
				Title:     payload.Title,
				Year:      payload.Year,
				PosterURL: payload.PosterURL,
				Type:      payload.Type,
			}
			if movie.Type == "" {
				movie.Type = models.MovieTypeMovie
			}
			if createErr := tx.Create(&movie).Error; createErr != nil {
				// A racing voter created it first; reuse their row
				if lookupErr := tx.Where("imdb_id = ?", imdbID).First(&movie).Error; lookupErr != nil {
					return createErr
				}
			}
		} else if err != nil {
			return err
		}

		scoped := func(q *gorm.DB) *gorm.DB {
			q = q.Where("user_id = ? AND movie_id = ?", userID, movie.ID)
			if groupID != nil {
				return q.Where("group_id = ?", *groupID)
			}
			return q.Where("group_id IS NULL")
		}

		err = scoped(tx).First(&row).Error
		if err == nil {
			row.Vote = vote
			return tx.Save(&row).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		row = models.MovieVote{
			UserID:  userID,
			MovieID: movie.ID,
			GroupID: groupID,
			Vote:    vote,
		}
		if createErr := tx.Create(&row).Error; createErr != nil {
			// Lost the race against a concurrent upsert for the same
			// scope; the unique index rejected us, so update the winner
			var existing models.MovieVote
			if lookupErr := scoped(tx).First(&existing).Error; lookupErr != nil {
				return createErr
			}
			existing.Vote = vote
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			row = existing
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}
