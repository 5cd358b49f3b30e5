package noise

import "strings"

// Entry is one browser in a catalog page.
type Entry struct {
	DisplayName   string
	Dimension     int
	Endpoint      string
	NoiseFunction string
}

// Page groups related noise functions behind a shared description.
type Page struct {
	Key         string
	Title       string
	Collection  string
	Description string
	Generator   string
	Synthesizer string
	Transformer string
	Entries     []Entry
}

const (
	spectralDescription = "Spectral Noise is created from random sinusoids of various frequencies, " +
		"combined via a weighted sum, where the weights are related to the frequency"
	latticeDescription = "Lattice noise is created by starting with a base n dimensional grid (or lattice) " +
		"of noisy data, then interpolating values between grid points."
)

var spectralColors = []struct{ name, fn string }{
	{"Red Noise", "red"},
	{"Pink Noise", "pink"},
	{"White Noise", "white"},
	{"Blue Noise", "blue"},
	{"Violet Noise", "violet"},
}

// Catalog returns every page the browser can open, in display order.
func Catalog() []Page {
	spectral1D := make([]Entry, 0, len(spectralColors))
	spectral2D := make([]Entry, 0, len(spectralColors)+1)
	for _, c := range spectralColors {
		spectral1D = append(spectral1D, Entry{c.name, 1, "/noise", c.fn})
		spectral2D = append(spectral2D, Entry{c.name, 2, "/noise", c.fn})
	}
	perlin := Entry{"Raw Perlin Noise", 2, "/noise", "rawPerlin"}
	spectral2D = append(spectral2D, perlin)

	return []Page{
		{
			Key:         "spectral1d",
			Title:       "Spectral 1D",
			Collection:  "Spectral Noise",
			Description: spectralDescription,
			Generator:   "Random",
			Synthesizer: "Octave",
			Transformer: "Sinusoid",
			Entries:     spectral1D,
		},
		{
			Key:         "spectral2d",
			Title:       "Spectral 2D",
			Collection:  "Spectral Noise",
			Description: spectralDescription,
			Generator:   "Random",
			Synthesizer: "Octave",
			Transformer: "Sinusoid",
			Entries:     spectral2D,
		},
		{
			Key:         "lattice2d",
			Title:       "Lattice 2D",
			Collection:  "Lattice Noise",
			Description: latticeDescription,
			Generator:   "Perlin",
			Synthesizer: "N/A",
			Transformer: "N/A",
			Entries:     []Entry{perlin},
		},
	}
}

// FindPage looks a page up by key or title, ignoring case and spaces.
func FindPage(name string) (Page, bool) {
	norm := func(s string) string { return strings.ToLower(strings.ReplaceAll(s, " ", "")) }
	want := norm(name)
	for _, p := range Catalog() {
		if norm(p.Key) == want || norm(p.Title) == want {
			return p, true
		}
	}
	return Page{}, false
}

// FindEntry returns the entry of page p for a noise function.
func (p Page) FindEntry(noiseFunction string) (Entry, bool) {
	for _, e := range p.Entries {
		if e.NoiseFunction == noiseFunction {
			return e, true
		}
	}
	return Entry{}, false
}
