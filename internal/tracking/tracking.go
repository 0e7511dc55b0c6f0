// Package tracking recognises parcel tracking numbers in a search query and
// links them to the carrier's tracking page.
package tracking

import (
	"regexp"
	"strings"
	"unicode"
)

// Link points at a carrier tracking page.
type Link struct {
	Carrier string `json:"carrier" yaml:"carrier" toml:"carrier"`
	URL     string `json:"url" yaml:"url" toml:"url"`
}

// Label is the text shown for every tracking link.
const Label = "View Tracking Info"

type provider struct {
	carrier  string
	template string
	exprs    []*regexp.Regexp
}

// providers are checked in this order; each contributes at most one link.
var providers = []provider{
	{
		carrier:  "ups",
		template: "https://www.ups.com/track?tracknum=",
		exprs: []*regexp.Regexp{
			regexp.MustCompile(`\b(1Z ?[0-9A-Z]{3} ?[0-9A-Z]{3} ?[0-9A-Z]{2} ?[0-9A-Z]{4} ?[0-9A-Z]{3} ?[0-9A-Z]|[\dT]\d\d\d ?\d\d\d\d ?\d\d\d)\b`),
		},
	},
	{
		carrier:  "usps",
		template: "https://tools.usps.com/go/TrackConfirmAction?tLabels=",
		exprs: []*regexp.Regexp{
			regexp.MustCompile(`(\b\d{30}\b)|(\b91\d+\b)|(\b\d{20}\b)`),
			regexp.MustCompile(`^E\D{1}\d{9}\D{2}$|^9\d{15,21}$`),
			regexp.MustCompile(`^91[0-9]+$`),
			regexp.MustCompile(`^[A-Za-z]{2}[0-9]+US$`),
		},
	},
	{
		carrier:  "fedex",
		template: "https://www.fedex.com/apps/fedextrack/?tracknumbers=",
		exprs: []*regexp.Regexp{
			regexp.MustCompile(`(\b96\d{20}\b)|(\b\d{15}\b)|(\b\d{12}\b)`),
			regexp.MustCompile(`\b((98\d\d\d\d\d?\d\d\d\d|98\d\d) ?\d\d\d\d ?\d\d\d\d( ?\d\d\d)?)\b`),
			regexp.MustCompile(`^[0-9]{15}$`),
		},
	},
}

// Normalize removes all whitespace from query.
func Normalize(query string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, query)
}

// Detect returns one link per carrier whose patterns match the normalised
// query, in ups, usps, fedex order.
func Detect(query string) []Link {
	q := Normalize(query)
	if q == "" {
		return nil
	}
	var links []Link
	for _, p := range providers {
		for _, re := range p.exprs {
			if re.MatchString(q) {
				links = append(links, Link{Carrier: p.carrier, URL: p.template + q})
				break
			}
		}
	}
	return links
}

// Carriers lists the supported carrier names in detection order.
func Carriers() []string {
	out := make([]string, len(providers))
	for i, p := range providers {
		out[i] = p.carrier
	}
	return out
}
