package clips

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
)

// Event is one line of the newline-delimited JSON progress stream.
// Exactly one error or done event terminates a stream.
type Event struct {
	Type        string `json:"type"` // status, log, error, done
	Stage       string `json:"stage,omitempty"`
	Message     string `json:"message,omitempty"`
	Channel     string `json:"channel,omitempty"` // stdout, stderr
	Text        string `json:"text,omitempty"`
	JobID       string `json:"jobId,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// Pipeline stage tags carried by status events.
const (
	StageValidating  = "validating"
	StageResolving   = "resolving"
	StageDownloading = "downloading"
	StageDownloaded  = "downloaded"
	StageStitching   = "stitching"
)

// Stream writes progress events to an HTTP response, flushing per line.
// After Error or Done every further emit is a no-op, so a request can
// never produce a second terminal event. Safe for concurrent use.
type Stream struct {
	w      io.Writer
	flush  func()
	mu     sync.Mutex
	closed bool
}

// NewStream wraps a response writer. If w implements http.Flusher each
// event is flushed to the client as it is written.
func NewStream(w io.Writer) *Stream {
	s := &Stream{w: w, flush: func() {}}
	if f, ok := w.(http.Flusher); ok {
		s.flush = f.Flush
	}
	return s
}

// Status emits a stage-tagged progress message.
func (s *Stream) Status(stage, message string) {
	s.emit(Event{Type: "status", Stage: stage, Message: message}, false)
}

// Log forwards one line of external tool output.
func (s *Stream) Log(channel, text string) {
	s.emit(Event{Type: "log", Channel: channel, Text: text}, false)
}

// Error emits the terminal failure event and closes the stream.
func (s *Stream) Error(message string) {
	s.emit(Event{Type: "error", Message: message}, true)
}

// Done emits the terminal success event and closes the stream.
func (s *Stream) Done(jobID, downloadURL string) {
	s.emit(Event{Type: "done", JobID: jobID, DownloadURL: downloadURL}, true)
}

// Closed reports whether a terminal event has been emitted.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Stream) emit(ev Event, terminal bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if terminal {
		s.closed = true
	}
	line, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if _, err := s.w.Write(append(line, '\n')); err != nil {
		// Client gone; stop terminally so no further events are attempted.
		s.closed = true
		return
	}
	s.flush()
}
