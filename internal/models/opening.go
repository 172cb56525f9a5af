package models

import "time"

type OpeningState string

const (
	OpeningStateOpen        OpeningState = "open"
	OpeningStateClosingSoon OpeningState = "open-closing-soon"
	OpeningStateOpeningSoon OpeningState = "opening-soon"
	OpeningStateClosed      OpeningState = "closed"
	OpeningStateUnavailable OpeningState = "unavailable"
)

type NextOpening struct {
	Time    time.Time `json:"time"`
	Weekday string    `json:"weekday"`
	IsToday bool      `json:"isToday"`
	Display string    `json:"display"`
}

type OpeningStatus struct {
	Status          OpeningState `json:"status"`
	IsCurrentlyOpen bool         `json:"isCurrentlyOpen"`
	IsOpeningSoon   bool         `json:"isOpeningSoon"`
	IsClosingSoon   bool         `json:"isClosingSoon"`
	NextOpening     *NextOpening `json:"nextOpening,omitempty"`
	Message         string       `json:"message"`
}
