package masterlist

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var bucketRe = regexp.MustCompile(`(\d{14})\.[A-Za-z.]+\.(?:zip|gz)$`)

// parseInventory reads "size checksum url" lines (spec §4.1's "size<SP>
// checksum<SP>url") and buckets each by the 15-minute timestamp embedded in
// its filename. Lines that don't parse are skipped and counted; the caller
// decides whether the bad-line fraction exceeds the configurable tolerance.
func parseInventory(r io.Reader, translated bool) (entries []Entry, badLines int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	suffixes := filenameSuffix
	if translated {
		suffixes = translatedFilenameSuffix
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			badLines++
			continue
		}
		size, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			badLines++
			continue
		}
		checksum := fields[1]
		url := fields[2]

		dataset, bucket, ok := classify(url, suffixes)
		if !ok {
			// Not an error: the inventory also lists datasets this client
			// doesn't model (e.g. raw graph files); skip quietly.
			continue
		}
		entries = append(entries, Entry{
			Size:     size,
			Checksum: checksum,
			URL:      url,
			Bucket:   bucket,
			Dataset:  dataset,
		})
	}
	if err := scanner.Err(); err != nil {
		return entries, badLines, fmt.Errorf("masterlist: scan inventory: %w", err)
	}
	return entries, badLines, nil
}

func classify(url string, suffixes map[Dataset]string) (Dataset, time.Time, bool) {
	m := bucketRe.FindStringSubmatch(url)
	if m == nil {
		return "", time.Time{}, false
	}
	ts, err := time.ParseInLocation("20060102150405", m[1], time.UTC)
	if err != nil {
		return "", time.Time{}, false
	}
	for ds, suffix := range suffixes {
		if strings.HasSuffix(url, suffix) {
			return ds, ts, true
		}
	}
	return "", time.Time{}, false
}
