package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type languageContextKey struct{}
type countryContextKey struct{}

var (
	LanguageKey = languageContextKey{}
	CountryKey  = countryContextKey{}
)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// supported is the set of lesson languages with a configured narration
// voice. Matching happens against this set; everything else falls back.
var supported = []language.Tag{
	language.English, // en, the fallback
	language.Spanish,
	language.French,
	language.Hindi,
}

var matcher = language.NewMatcher(supported)

// countryLanguages maps countries to a default lesson language for clients
// that send no language hints at all.
var countryLanguages = map[string]string{
	"ES": "es", "MX": "es", "AR": "es", "CO": "es",
	"FR": "fr", "BE": "fr", "SN": "fr",
	"IN": "hi",
}

// Language detects the default lesson language for the request and stores
// it in the context: explicit header first, then Accept-Language, then the
// GeoIP country, then the fallback.
func Language(fallback string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := resolveCountry(r, lookup)
			lang := detectLanguage(r, fallback, country)
			ctx := context.WithValue(r.Context(), LanguageKey, lang)
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, strings.ToUpper(country))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLanguage(r *http.Request, fallback, country string) string {
	if v := r.Header.Get("X-Language"); v != "" {
		return NormalizeLanguage(v)
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			tag, _, conf := matcher.Match(tags...)
			if conf > language.No {
				base, _ := tag.Base()
				return base.String()
			}
		}
	}
	if lang, ok := countryLanguages[strings.ToUpper(country)]; ok {
		return lang
	}
	if fallback != "" {
		return fallback
	}
	return "en"
}

// NormalizeLanguage reduces any BCP 47 tag to the base language of the
// closest supported voice; unparseable input maps to English.
func NormalizeLanguage(raw string) string {
	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "en"
	}
	matched, _, conf := matcher.Match(tag)
	if conf == language.No {
		return "en"
	}
	base, _ := matched.Base()
	return base.String()
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func resolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	for _, key := range []string{"X-Country-Code", "CF-IPCountry", "X-Appengine-Country"} {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

// LanguageFromContext returns the detected lesson language, defaulting to English.
func LanguageFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LanguageKey).(string); ok && v != "" {
		return v
	}
	return "en"
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}
