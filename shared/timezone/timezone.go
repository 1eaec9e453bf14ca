// Package timezone keeps every timestamp the shop stores or renders in the
// configured APP_TIMEZONE, America/Sao_Paulo in production. Names must be IANA
// zone names; anything that fails to load falls back to UTC.
package timezone

import (
	"time"

	"docemania/config"

	"github.com/rs/zerolog/log"
)

var location = load(config.Get().App.Timezone)

func load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("APP_TIMEZONE is empty, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown timezone, using UTC")

		return time.UTC
	}

	log.Debug().Str("timezone", loc.String()).Msg("Application timezone loaded")

	return loc
}

func GetLocation() *time.Location {
	return location
}

func Now() time.Time {
	return time.Now().In(location)
}

// ToAppTime returns t in the application timezone.
func ToAppTime(t time.Time) time.Time {
	return t.In(location)
}

// Parse reads value as wall-clock time in the application timezone unless the
// layout carries its own offset.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, location)
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
