// Command gdelt-example queries one GDELT dataset over a date range and
// prints a summary, as a minimal demonstration of the gdelt client library.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdeltgo/gdelt"
	"github.com/gdeltgo/gdelt/internal/gfilter"
)

func main() {
	dataset := flag.String("dataset", "events", "dataset to query: events|mentions|gkg|ngrams")
	days := flag.Int("days", 1, "how many days back from now to query")
	country := flag.String("actor1-country", "", "events: filter on Actor1's country code")
	theme := flag.String("theme", "", "gkg: filter on a single theme code")
	limit := flag.Int("limit", 20, "maximum records to print")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := gdelt.New(ctx)
	if err != nil {
		log.Fatalf("gdelt.New: %v", err)
	}
	defer client.Close()

	end := time.Now().UTC()
	start := end.Add(-time.Duration(*days) * 24 * time.Hour)
	dateRange := gfilter.DateRange{Start: start, End: end}

	if err := run(ctx, client, *dataset, dateRange, *country, *theme, *limit); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, client *gdelt.Client, dataset string, dateRange gfilter.DateRange, country, theme string, limit int) error {
	switch dataset {
	case "events":
		f := gfilter.NewEventFilter(dateRange)
		f.Actor1Country = country
		result, err := client.Events().Query(ctx, f)
		if err != nil {
			return err
		}
		for i, e := range cap2(result.Data, limit) {
			fmt.Printf("%d: %s %s actor1=%s actor2=%s tone=%.2f\n", i, e.GlobalEventID, e.CAMEOCode, e.Actor1.CountryCode, e.Actor2.CountryCode, e.AvgTone)
		}
		reportFailed(result.Failed)

	case "mentions":
		f := gfilter.NewMentionFilter(dateRange)
		result, err := client.Mentions().Query(ctx, f)
		if err != nil {
			return err
		}
		for i, m := range cap2(result.Data, limit) {
			fmt.Printf("%d: event=%s source=%s tone=%.2f\n", i, m.GlobalEventID, m.SourceName, m.DocTone)
		}
		reportFailed(result.Failed)

	case "gkg":
		f := gfilter.NewGKGFilter(dateRange)
		if theme != "" {
			f.Themes = []string{theme}
		}
		result, err := client.GKG().Query(ctx, f)
		if err != nil {
			return err
		}
		for i, g := range cap2(result.Data, limit) {
			fmt.Printf("%d: %s themes=%v tone=%.2f\n", i, g.RecordID, g.ThemeCodes, g.ToneScores.Tone)
		}
		reportFailed(result.Failed)

	case "ngrams":
		f := gfilter.NewNGramsFilter(dateRange)
		result, err := client.NGrams().Query(ctx, f)
		if err != nil {
			return err
		}
		for i, n := range cap2(result.Data, limit) {
			fmt.Printf("%d: %q lang=%s decile=%d\n", i, n.Text, n.Lang, n.Decile)
		}
		reportFailed(result.Failed)

	default:
		return fmt.Errorf("unknown dataset %q", dataset)
	}
	return nil
}

func reportFailed(failed []gdelt.FailedRequest) {
	for _, f := range failed {
		log.Printf("failed: %s", f.String())
	}
}

func cap2[T any](xs []T, n int) []T {
	if n <= 0 || n >= len(xs) {
		return xs
	}
	return xs[:n]
}
