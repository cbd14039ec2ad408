// Package clips implements the clip request pipeline: validation, segment
// fetch/cut, stitching, and the streaming progress surface.
package clips

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clipstitch/backend/internal/timespec"
)

// SegmentRequest is one requested time window of one source video, as
// submitted by the client.
type SegmentRequest struct {
	URL   string `json:"url"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ProcessRequest is the POST /api/process body.
type ProcessRequest struct {
	Segments []SegmentRequest `json:"segments"`
}

// ParsedSegment is a validated segment. Batch order is significant and
// preserved: it determines the final stitch order.
type ParsedSegment struct {
	URL      string
	StartSec int
	EndSec   int
}

// ParseSegments validates a batch. Validation stops at the first invalid
// row; the error carries its 1-based index. An empty batch is an error.
func ParseSegments(reqs []SegmentRequest) ([]ParsedSegment, error) {
	if len(reqs) == 0 {
		return nil, errors.New("no segments provided")
	}
	segments := make([]ParsedSegment, 0, len(reqs))
	for i, r := range reqs {
		row := i + 1
		url := strings.TrimSpace(r.URL)
		if url == "" {
			return nil, fmt.Errorf("segment %d: missing url", row)
		}
		start, ok := timespec.Parse(r.Start)
		if !ok {
			return nil, fmt.Errorf("segment %d: invalid start time %q", row, r.Start)
		}
		end, ok := timespec.Parse(r.End)
		if !ok {
			return nil, fmt.Errorf("segment %d: invalid end time %q", row, r.End)
		}
		if start >= end {
			return nil, fmt.Errorf("segment %d: start must be before end", row)
		}
		segments = append(segments, ParsedSegment{URL: url, StartSec: start, EndSec: end})
	}
	return segments, nil
}
