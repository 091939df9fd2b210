package services

import (
	"github.com/rs/zerolog"

	"poiviewer/internal/logging"
)

// User-visible status and notice texts.
const (
	NoticeSelectFirst   = "Please select a POI first."
	NoticeCameraDenied  = "Camera access is required for AR."
	NoticeLocateFailed  = "Your location could not be determined."
	StatusARActive      = "AR active"
	StatusInitializing  = "Initializing AR..."
	DistanceUnavailable = "Distance: locating..."
)

// LogStatus is a StatusSink that writes every status line to the structured
// log. It stands in for a display when none is connected and is combined with
// the real display through MultiStatus.
type LogStatus struct {
	log zerolog.Logger
}

// NewLogStatus creates a log-backed status sink tagged with the session id.
func NewLogStatus(sessionID string) *LogStatus {
	return &LogStatus{
		log: logging.With().Str("component", "status").Str("session", sessionID).Logger(),
	}
}

func (s *LogStatus) GPSStatus(text string) {
	s.log.Debug().Str("kind", "gps").Msg(text)
}

func (s *LogStatus) ARStatus(text string) {
	s.log.Info().Str("kind", "ar").Msg(text)
}

func (s *LogStatus) Loading(text string) {
	s.log.Debug().Str("kind", "loading").Msg(text)
}

func (s *LogStatus) LoadingDone() {
	s.log.Debug().Str("kind", "loading").Msg("done")
}

func (s *LogStatus) Notice(text string) {
	s.log.Info().Str("kind", "notice").Msg(text)
}

// MultiStatus forwards every status call to each sink in order.
type MultiStatus []StatusSink

func (m MultiStatus) GPSStatus(text string) {
	for _, s := range m {
		s.GPSStatus(text)
	}
}

func (m MultiStatus) ARStatus(text string) {
	for _, s := range m {
		s.ARStatus(text)
	}
}

func (m MultiStatus) Loading(text string) {
	for _, s := range m {
		s.Loading(text)
	}
}

func (m MultiStatus) LoadingDone() {
	for _, s := range m {
		s.LoadingDone()
	}
}

func (m MultiStatus) Notice(text string) {
	for _, s := range m {
		s.Notice(text)
	}
}
