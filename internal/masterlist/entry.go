package masterlist

import "time"

// Entry is one line of the GDELT master file list: "size checksum url".
type Entry struct {
	Size     int64
	Checksum string
	URL      string
	Bucket   time.Time // UTC, truncated to the 15-minute boundary encoded in URL
	Dataset  Dataset
}
