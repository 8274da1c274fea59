package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/iliyamo/venue-directory/internal/model"
)

// ArtistForm is the create/edit payload of an artist.  Facebook and
// website links are optional.
type ArtistForm struct {
	Name               string   `json:"name" form:"name"`
	City               string   `json:"city" form:"city"`
	State              string   `json:"state" form:"state"`
	Phone              string   `json:"phone" form:"phone"`
	ImageLink          string   `json:"image_link" form:"image_link"`
	FacebookLink       string   `json:"facebook_link" form:"facebook_link"`
	WebsiteLink        string   `json:"website_link" form:"website_link"`
	SeekingVenues      bool     `json:"seeking_venues" form:"seeking_venues"`
	SeekingDescription string   `json:"seeking_description" form:"seeking_description"`
	Genres             []string `json:"genres" form:"genres"`
}

// ArtistFormFrom prefills an edit form from a stored artist.
func ArtistFormFrom(a *model.Artist) ArtistForm {
	return ArtistForm{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		ImageLink:          a.ImageLink,
		FacebookLink:       a.FacebookLink,
		WebsiteLink:        a.WebsiteLink,
		SeekingVenues:      a.SeekingVenues,
		SeekingDescription: a.SeekingDescription,
		Genres:             a.Genres,
	}
}

// Normalize trims text fields and de-duplicates genres.  An artist not
// seeking venues keeps no seeking description.
func (f *ArtistForm) Normalize() {
	trim(&f.Name, &f.City, &f.State, &f.Phone, &f.ImageLink,
		&f.FacebookLink, &f.WebsiteLink, &f.SeekingDescription)
	f.Genres = normalizeGenres(f.Genres)
	if !f.SeekingVenues {
		f.SeekingDescription = ""
	}
}

// Validate reports every invalid field at once.
func (f ArtistForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&f.City, validation.Required, validation.Length(1, 120)),
		validation.Field(&f.State, validation.Required, stateRule),
		validation.Field(&f.Phone, validation.Required, phoneRule),
		validation.Field(&f.ImageLink, validation.Required, is.URL, validation.Length(1, 500)),
		validation.Field(&f.FacebookLink, facebookRule, validation.Length(0, 120)),
		validation.Field(&f.WebsiteLink, is.URL, validation.Length(0, 120)),
		validation.Field(&f.SeekingDescription, validation.When(f.SeekingVenues, validation.Required), validation.Length(0, 120)),
		validation.Field(&f.Genres, validation.Required, validation.Each(genreRule)),
	)
}

// ToModel builds the artist record; id is zero for a create.
func (f ArtistForm) ToModel(id uint64) *model.Artist {
	return &model.Artist{
		ID:                 id,
		Name:               f.Name,
		City:               f.City,
		State:              f.State,
		Phone:              f.Phone,
		ImageLink:          f.ImageLink,
		FacebookLink:       f.FacebookLink,
		WebsiteLink:        f.WebsiteLink,
		SeekingVenues:      f.SeekingVenues,
		SeekingDescription: f.SeekingDescription,
		Genres:             f.Genres,
	}
}
