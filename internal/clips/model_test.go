package clips

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSegments(t *testing.T) {
	segments, err := ParseSegments([]SegmentRequest{
		{URL: "https://example.com/a", Start: "0", End: "1:30"},
		{URL: "https://example.com/b", Start: "01:00:00", End: "01:00:05"},
	})
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, ParsedSegment{URL: "https://example.com/a", StartSec: 0, EndSec: 90}, segments[0])
	assert.Equal(t, ParsedSegment{URL: "https://example.com/b", StartSec: 3600, EndSec: 3605}, segments[1])
}

func TestParseSegmentsEmptyBatch(t *testing.T) {
	_, err := ParseSegments(nil)
	require.Error(t, err)
}

func TestParseSegmentsFirstFailureWins(t *testing.T) {
	_, err := ParseSegments([]SegmentRequest{
		{URL: "", Start: "0", End: "1"},
		{URL: "x", Start: "bad", End: "1"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "segment 1")
	assert.NotContains(t, err.Error(), "segment 2")
}

func TestParseSegmentsRowIndexIsOneBased(t *testing.T) {
	_, err := ParseSegments([]SegmentRequest{
		{URL: "x", Start: "0", End: "1"},
		{URL: "x", Start: "nope", End: "1"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "segment 2")
}

func TestParseSegmentsRejectsStartAfterEnd(t *testing.T) {
	_, err := ParseSegments([]SegmentRequest{{URL: "x", Start: "10", End: "5"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start must be before end")

	_, err = ParseSegments([]SegmentRequest{{URL: "x", Start: "5", End: "5"}})
	require.Error(t, err)
}

func TestParseSegmentsRejectsBadEnd(t *testing.T) {
	_, err := ParseSegments([]SegmentRequest{{URL: "x", Start: "0", End: ""}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid end time")
}
