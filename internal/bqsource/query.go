package bqsource

import (
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/masterlist"
)

// tableFor names the public BigQuery table backing each dataset (spec §4.6:
// "partitioned table, partition pruning by date range"). These mirror
// GDELT's published BigQuery dataset layout.
var tableFor = map[masterlist.Dataset]string{
	masterlist.Events:   "gdelt-bq.gdeltv2.events_partitioned",
	masterlist.Mentions: "gdelt-bq.gdeltv2.eventmentions_partitioned",
	masterlist.GKG:      "gdelt-bq.gdeltv2.gkg_partitioned",
	masterlist.NGrams:   "gdelt-bq.gdeltv2.gdeltv2_gkgcounts_partitioned",
}

// columnsFor lists the BigQuery columns selected for each dataset, in the
// exact same order as the position constants internal/records' *_FromRaw
// functions index by (evGlobalEventID=0 ... evSourceURL=60, and so on) —
// the public BigQuery tables mirror the TSV archive's column layout
// one-to-one, so selecting them in this order lets the row mapper in
// fetch.go hand the result straight to the same FromRaw conversion the file
// source uses, instead of needing a separate BigQuery-only record mapper.
// NGrams has no position constants (its FromRaw reads a JSON object by key,
// not an index), so its list instead names the JSON keys directly.
var columnsFor = map[masterlist.Dataset][]string{
	masterlist.Events: {
		"GlobalEventID", "SQLDATE", "MonthYear", "Year", "FractionDate",
		"Actor1Code", "Actor1Name", "Actor1CountryCode", "Actor1KnownGroupCode", "Actor1EthnicCode",
		"Actor1Religion1Code", "Actor1Religion2Code", "Actor1Type1Code", "Actor1Type2Code", "Actor1Type3Code",
		"Actor2Code", "Actor2Name", "Actor2CountryCode", "Actor2KnownGroupCode", "Actor2EthnicCode",
		"Actor2Religion1Code", "Actor2Religion2Code", "Actor2Type1Code", "Actor2Type2Code", "Actor2Type3Code",
		"IsRootEvent", "EventCode", "EventBaseCode", "EventRootCode", "QuadClass",
		"GoldsteinScale", "NumMentions", "NumSources", "NumArticles", "AvgTone",
		"Actor1Geo_Type", "Actor1Geo_FullName", "Actor1Geo_CountryCode", "Actor1Geo_ADM1Code", "Actor1Geo_ADM2Code",
		"Actor1Geo_Lat", "Actor1Geo_Long", "Actor1Geo_FeatureID",
		"Actor2Geo_Type", "Actor2Geo_FullName", "Actor2Geo_CountryCode", "Actor2Geo_ADM1Code", "Actor2Geo_ADM2Code",
		"Actor2Geo_Lat", "Actor2Geo_Long", "Actor2Geo_FeatureID",
		"ActionGeo_Type", "ActionGeo_FullName", "ActionGeo_CountryCode", "ActionGeo_ADM1Code", "ActionGeo_ADM2Code",
		"ActionGeo_Lat", "ActionGeo_Long", "ActionGeo_FeatureID",
		"DATEADDED", "SOURCEURL",
	},
	masterlist.Mentions: {
		"GLOBALEVENTID", "EventTimeDate", "MentionTimeDate", "MentionType", "MentionSourceName",
		"MentionIdentifier", "SentenceID", "Actor1CharOffset", "Actor2CharOffset", "ActionCharOffset",
		"InRawText", "Confidence", "MentionDocLen", "MentionDocTone", "MentionDocTranslationInfo", "Extras",
	},
	masterlist.GKG: {
		"GKGRECORDID", "DATE", "SourceCollectionIdentifier", "SourceCommonName", "DocumentIdentifier",
		"Counts", "V2Counts", "Themes", "V2Themes", "Locations", "V2Locations",
		"Persons", "V2Persons", "Organizations", "V2Organizations", "V2Tone",
		"Dates", "GCAM", "SharingImage", "RelatedImages", "SocialImageEmbeds", "SocialVideoEmbeds",
		"Quotations", "AllNames", "Amounts", "TranslationInfo", "Extras",
	},
	masterlist.NGrams: {
		"date", "ngram", "lang", "position", "doc_url", "count",
	},
}

// BuildQuery compiles f into a parameterized query per spec §4.6: "parameter
// binding for all values (no string interpolation of user input), LOWER()
// applied to text columns for case-insensitive matching, REGEXP_CONTAINS for
// themes/persons/organizations".
func BuildQuery(dataset masterlist.Dataset, f gfilter.Filter) (sql string, params []bigquery.QueryParameter, err error) {
	table, ok := tableFor[dataset]
	if !ok {
		return "", nil, gdelterrors.New(gdelterrors.KindValidation, "bqsource: unsupported dataset")
	}
	cols, ok := columnsFor[dataset]
	if !ok {
		return "", nil, gdelterrors.New(gdelterrors.KindValidation, "bqsource: no column mapping for dataset")
	}
	if err := f.Validate(); err != nil {
		return "", nil, err
	}

	rng := f.Range()
	params = []bigquery.QueryParameter{
		{Name: "start_date", Value: rng.Start},
		{Name: "end_date", Value: rng.End},
	}

	var where []string
	// Partition pruning: the partitioned tables above are sharded by a DATE
	// column literally named _PARTITIONDATE in GDELT's public dataset.
	where = append(where, "_PARTITIONDATE BETWEEN DATE(@start_date) AND DATE(@end_date)")

	switch v := f.(type) {
	case *gfilter.MentionFilter:
		if v.MentionSourceName != "" {
			where = append(where, "LOWER(MentionSourceName) = LOWER(@mention_source_name)")
			params = append(params, bigquery.QueryParameter{Name: "mention_source_name", Value: v.MentionSourceName})
		}
		if v.Station != "" {
			where = append(where, "LOWER(MentionSourceName) = LOWER(@station)")
			params = append(params, bigquery.QueryParameter{Name: "station", Value: v.Station})
		}
	case *gfilter.EventFilter:
		if v.Actor1Country != "" {
			where = append(where, "Actor1CountryCode = @actor1_country")
			params = append(params, bigquery.QueryParameter{Name: "actor1_country", Value: v.Actor1Country})
		}
		if v.EventCode != "" {
			where = append(where, "EventCode = @event_code")
			params = append(params, bigquery.QueryParameter{Name: "event_code", Value: v.EventCode})
		}
		if v.ToneMin != nil {
			where = append(where, "AvgTone >= @tone_min")
			params = append(params, bigquery.QueryParameter{Name: "tone_min", Value: *v.ToneMin})
		}
		if v.ToneMax != nil {
			where = append(where, "AvgTone <= @tone_max")
			params = append(params, bigquery.QueryParameter{Name: "tone_max", Value: *v.ToneMax})
		}
	case *gfilter.GKGFilter:
		for i, theme := range v.Themes {
			name := fmt.Sprintf("theme_%d", i)
			where = append(where, fmt.Sprintf("REGEXP_CONTAINS(V2Themes, @%s)", name))
			params = append(params, bigquery.QueryParameter{Name: name, Value: theme})
		}
		for i, person := range v.Persons {
			name := fmt.Sprintf("person_%d", i)
			where = append(where, fmt.Sprintf("REGEXP_CONTAINS(LOWER(V2Persons), LOWER(@%s))", name))
			params = append(params, bigquery.QueryParameter{Name: name, Value: person})
		}
		for i, org := range v.Organizations {
			name := fmt.Sprintf("org_%d", i)
			where = append(where, fmt.Sprintf("REGEXP_CONTAINS(LOWER(V2Organizations), LOWER(@%s))", name))
			params = append(params, bigquery.QueryParameter{Name: name, Value: org})
		}
	case *gfilter.NGramsFilter:
		if v.Language != "" {
			where = append(where, "lang = @language")
			params = append(params, bigquery.QueryParameter{Name: "language", Value: v.Language})
		}
		if v.NGram != "" {
			where = append(where, "LOWER(ngram) LIKE LOWER(CONCAT('%', @ngram, '%'))")
			params = append(params, bigquery.QueryParameter{Name: "ngram", Value: v.NGram})
		}
	}

	sql = fmt.Sprintf("SELECT %s FROM `%s` WHERE %s",
		strings.Join(cols, ", "), table, strings.Join(where, " AND "))
	return sql, params, nil
}
