// Package form binds and validates the payloads of the mutation routes.
// Every form is normalised and validated before anything reaches the
// store; a failed Validate returns validation.Errors keyed by JSON field.
package form

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/iliyamo/venue-directory/internal/model"
)

var (
	phonePattern    = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	facebookPattern = regexp.MustCompile(`^https://www\.facebook\.com/.*$`)

	phoneRule    = validation.Match(phonePattern).Error("must look like 123-456-7890")
	facebookRule = validation.Match(facebookPattern).Error("must be a https://www.facebook.com/ link")
	stateRule    = validation.By(func(v interface{}) error {
		if s, _ := v.(string); s != "" && !model.State(s).Valid() {
			return errors.New("must be a two-letter state code")
		}
		return nil
	})
	genreRule = validation.By(func(v interface{}) error {
		if g, _ := v.(string); !model.Genre(g).Valid() {
			return errors.New("must be one of the listed genres")
		}
		return nil
	})
)

// normalizeGenres trims every name and drops blanks and duplicates while
// keeping the submitted order.
func normalizeGenres(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, g := range in {
		g = strings.TrimSpace(g)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
