package masterlist

// Dataset enumerates the GDELT record families this client resolves file
// URLs for (spec's glossary: "one of the enumerated GDELT record families").
type Dataset string

const (
	Events   Dataset = "events"
	Mentions Dataset = "mentions"
	GKG      Dataset = "gkg"
	NGrams   Dataset = "ngrams"
)

// filenameSuffix is the inventory filename fragment that identifies each
// dataset, e.g. "20250101001500.export.CSV.zip" for Events.
var filenameSuffix = map[Dataset]string{
	Events:   ".export.CSV.zip",
	Mentions: ".mentions.CSV.zip",
	GKG:      ".gkg.csv.zip",
	NGrams:   ".gkgcounts.json.gz",
}

// translatedFilenameSuffix is the equivalent suffix in the translation
// inventory (spec §4.1: "Translation inventory is loaded only when
// include_translated is true").
var translatedFilenameSuffix = map[Dataset]string{
	Events:   ".translation.export.CSV.zip",
	Mentions: ".translation.mentions.CSV.zip",
	GKG:      ".translation.gkg.csv.zip",
}

func (d Dataset) Valid() bool {
	_, ok := filenameSuffix[d]
	return ok
}
