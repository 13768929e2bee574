package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog"
)

// ErrUnavailable is returned when no database is loaded.
var ErrUnavailable = errors.New("geoip: resolver unavailable")

// CountryResolver resolves ISO country codes from IP addresses. It
// feeds the locale middleware and donation-origin logging.
type CountryResolver interface {
	CountryCode(ip string) (string, error)
}

// Resolver backs country lookups with a MaxMind GeoIP2 database.
type Resolver struct {
	reader *geoip2.Reader
	log    zerolog.Logger
}

// NewResolver opens the database at path. An empty path disables
// lookups entirely; callers get a nil resolver and carry on without
// country resolution.
func NewResolver(path string, log zerolog.Logger) (CountryResolver, error) {
	if strings.TrimSpace(path) == "" {
		log.Info().Msg("geoip lookups disabled")
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	log.Info().Str("path", path).Msg("geoip database loaded")
	return &Resolver{reader: reader, log: log}, nil
}

// CountryCode returns the ISO country code for the provided IP.
func (r *Resolver) CountryCode(ip string) (string, error) {
	if r == nil || r.reader == nil {
		return "", ErrUnavailable
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", fmt.Errorf("geoip: invalid ip %q", ip)
	}
	record, err := r.reader.Country(parsed)
	if err != nil {
		r.log.Debug().Err(err).Str("ip", ip).Msg("geoip lookup failed")
		return "", fmt.Errorf("geoip: lookup country: %w", err)
	}
	if record == nil || record.Country.IsoCode == "" {
		return "", nil
	}
	return record.Country.IsoCode, nil
}

// Close releases the database reader.
func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}
