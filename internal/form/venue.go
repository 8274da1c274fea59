package form

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/iliyamo/venue-directory/internal/model"
)

// VenueForm is the create/edit payload of a venue.
type VenueForm struct {
	Name               string   `json:"name" form:"name"`
	City               string   `json:"city" form:"city"`
	State              string   `json:"state" form:"state"`
	Address            string   `json:"address" form:"address"`
	Phone              string   `json:"phone" form:"phone"`
	ImageLink          string   `json:"image_link" form:"image_link"`
	FacebookLink       string   `json:"facebook_link" form:"facebook_link"`
	WebsiteLink        string   `json:"website_link" form:"website_link"`
	SeekingTalent      bool     `json:"seeking_talent" form:"seeking_talent"`
	SeekingDescription string   `json:"seeking_description" form:"seeking_description"`
	Genres             []string `json:"genres" form:"genres"`
}

// VenueFormFrom prefills an edit form from a stored venue.
func VenueFormFrom(v *model.Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		ImageLink:          v.ImageLink,
		FacebookLink:       v.FacebookLink,
		WebsiteLink:        v.WebsiteLink,
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
		Genres:             v.Genres,
	}
}

// Normalize trims text fields and de-duplicates genres.  A venue that is
// not seeking talent keeps no seeking description.
func (f *VenueForm) Normalize() {
	trim(&f.Name, &f.City, &f.State, &f.Address, &f.Phone, &f.ImageLink,
		&f.FacebookLink, &f.WebsiteLink, &f.SeekingDescription)
	f.Genres = normalizeGenres(f.Genres)
	if !f.SeekingTalent {
		f.SeekingDescription = ""
	}
}

// Validate reports every invalid field at once.
func (f VenueForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&f.City, validation.Required, validation.Length(1, 120)),
		validation.Field(&f.State, validation.Required, stateRule),
		validation.Field(&f.Address, validation.Required, validation.Length(1, 120)),
		validation.Field(&f.Phone, validation.Required, phoneRule),
		validation.Field(&f.ImageLink, validation.Required, is.URL, validation.Length(1, 500)),
		validation.Field(&f.FacebookLink, validation.Required, facebookRule, validation.Length(1, 120)),
		validation.Field(&f.WebsiteLink, validation.Required, is.URL, validation.Length(1, 120)),
		validation.Field(&f.SeekingDescription, validation.When(f.SeekingTalent, validation.Required), validation.Length(0, 1200)),
		validation.Field(&f.Genres, validation.Required, validation.Each(genreRule)),
	)
}

// ToModel builds the venue record; id is zero for a create.
func (f VenueForm) ToModel(id uint64) *model.Venue {
	return &model.Venue{
		ID:                 id,
		Name:               f.Name,
		City:               f.City,
		State:              f.State,
		Address:            f.Address,
		Phone:              f.Phone,
		ImageLink:          f.ImageLink,
		FacebookLink:       f.FacebookLink,
		WebsiteLink:        f.WebsiteLink,
		SeekingTalent:      f.SeekingTalent,
		SeekingDescription: f.SeekingDescription,
		Genres:             f.Genres,
	}
}
