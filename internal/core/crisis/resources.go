package crisis

import (
	"fmt"
	"strings"
)

// Hotline is a verified crisis service for one locale.
type Hotline struct {
	Name    string
	Numbers string
	URL     string
}

// locale associates location keywords with a verified hotline.
type locale struct {
	keywords []string
	hotline  Hotline
}

// Resolver maps a free-text location to a locale-specific hotline
// instruction. Only locales present in the table get a concrete
// number; everything else falls back to a generic instruction so the
// generator is never pushed toward inventing one.
type Resolver struct {
	locales []locale
}

func NewResolver() *Resolver {
	return &Resolver{
		locales: []locale{
			{
				keywords: []string{"india", "delhi", "mumbai", "bangalore", "pune", "chennai", "kolkata", "hyderabad"},
				hotline: Hotline{
					Name:    "Tele MANAS",
					Numbers: "14416 or 1-800-891-4416",
					URL:     "https://telemanas.mohfw.gov.in/home",
				},
			},
		},
	}
}

// Resolve returns the instruction block to embed in a crisis prompt.
func (r *Resolver) Resolve(location string) string {
	lower := strings.ToLower(location)
	if location != "" {
		for _, loc := range r.locales {
			for _, kw := range loc.keywords {
				if strings.Contains(lower, kw) {
					h := loc.hotline
					return fmt.Sprintf(
						"You MUST mention '%s', the verified 24/7 national mental health helpline. "+
							"The number is %s. Website: %s "+
							"Urge them to call this free service immediately. ",
						h.Name, h.Numbers, h.URL)
				}
			}
		}
	}
	return fmt.Sprintf(
		"Provide general crisis resources relevant to %s. "+
			"Do NOT invent or guess specific phone numbers; if you do not know a verified local number, "+
			"direct them to local emergency services and trusted people around them. ",
		displayLocation(location))
}

func displayLocation(location string) string {
	if strings.TrimSpace(location) == "" {
		return "their location"
	}
	return location
}
