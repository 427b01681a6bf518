package status

import (
	"fmt"
	"strings"

	"dropzone/internal/logger"
	"dropzone/internal/model"
)

// BucketTransferring has no producer yet; it is kept so reports keep a stable
// shape if an intermediate transfer status is introduced.
const BucketTransferring = "Transferring"

// BucketOrder is the order buckets appear in a report.
var BucketOrder = []string{
	string(model.StatusChecking),
	string(model.StatusTransferred),
	BucketTransferring,
	string(model.StatusCopying),
	string(model.StatusCopied),
	string(model.StatusFailure),
}

type Bucket struct {
	Name    string                 `json:"name"`
	Records []model.TrackingRecord `json:"records"`
}

// Classify sorts records into report buckets by case-insensitive substring match
// against the status text. A failure reason that mentions another bucket's name
// also lands in that bucket.
func Classify(records []model.TrackingRecord) []Bucket {
	buckets := make([]Bucket, len(BucketOrder))
	for i, name := range BucketOrder {
		buckets[i].Name = name
		needle := strings.ToLower(name)

		for _, rec := range records {
			if strings.Contains(strings.ToLower(rec.Status.String()), needle) {
				buckets[i].Records = append(buckets[i].Records, rec)
			}
		}
	}
	return buckets
}

// Render produces the numbered report lines for every non-empty bucket.
func Render(buckets []Bucket) []string {
	var lines []string
	count := 0

	for _, b := range buckets {
		if len(b.Records) == 0 {
			continue
		}

		count++
		lines = append(lines, fmt.Sprintf("%d. %s", count, b.Name))

		for i, rec := range b.Records {
			folder := rec.TargetFolder
			if folder == "" {
				folder = rec.SourceFolder
			}

			line := fmt.Sprintf("(%d). %s", i+1, logger.HyperLink(folder))
			if b.Name == string(model.StatusFailure) {
				line += " - " + rec.Status.String()
			}
			lines = append(lines, line)
		}
	}

	return lines
}

// Counts maps each bucket name to its size.
func Counts(buckets []Bucket) map[string]int {
	counts := make(map[string]int, len(buckets))
	for _, b := range buckets {
		counts[b.Name] = len(b.Records)
	}
	return counts
}
