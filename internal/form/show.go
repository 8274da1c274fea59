package form

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/iliyamo/venue-directory/internal/model"
)

// ShowForm is the create payload of a show.  StartTime is optional; an
// empty value lets the store stamp the creation time.
type ShowForm struct {
	ArtistID  uint64 `json:"artist_id" form:"artist_id"`
	VenueID   uint64 `json:"venue_id" form:"venue_id"`
	StartTime string `json:"start_time" form:"start_time"`
}

// accepted start_time layouts; zone-less values are read as UTC
var startTimeLayouts = []string{time.RFC3339, model.StartTimeLayout}

func parseStartTime(s string) (time.Time, error) {
	for _, layout := range startTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("must be RFC3339 or YYYY-MM-DD HH:MM:SS")
}

func (f *ShowForm) Normalize() {
	f.StartTime = strings.TrimSpace(f.StartTime)
}

func (f ShowForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.ArtistID, validation.Required),
		validation.Field(&f.VenueID, validation.Required),
		validation.Field(&f.StartTime, validation.By(func(v interface{}) error {
			if s, _ := v.(string); s != "" {
				_, err := parseStartTime(s)
				return err
			}
			return nil
		})),
	)
}

// ToModel builds the show record.  It must only be called on a form that
// passed Validate.
func (f ShowForm) ToModel() *model.Show {
	s := &model.Show{ArtistID: f.ArtistID, VenueID: f.VenueID}
	if f.StartTime != "" {
		s.Date, _ = parseStartTime(f.StartTime)
	}
	return s
}
