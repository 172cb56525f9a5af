// internal/models/poi.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type QAItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type POIMetadata struct {
	Amenities           []string               `json:"amenities,omitempty"`
	Location            string                 `json:"location,omitempty"`
	Rating              *float64               `json:"rating,omitempty"`
	ReviewCount         int                    `json:"reviewCount,omitempty"`
	Description         string                 `json:"description,omitempty"`
	QuestionsAndAnswers []QAItem               `json:"questionsAndAnswers,omitempty"`
	Coordinates         *Coordinates           `json:"coordinates,omitempty"`
	OpeningHours        RawOpeningHours        `json:"openingHours"`
	Phone               string                 `json:"phone,omitempty"`
	Website             string                 `json:"website,omitempty"`
	LastReviewedAt      *time.Time             `json:"lastReviewedAt,omitempty"`
	Source              map[string]interface{} `json:"source,omitempty"`
}

// POI is a candidate place. Score is the retrieval relevance in [0,1].
type POI struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Category string      `json:"category,omitempty"`
	Score    float64     `json:"score"`
	Metadata POIMetadata `json:"metadata"`
}

// RawOpeningHours carries the opening-hours payload exactly as the data
// source provided it: free text (flag table, JSON text, prose), a list of
// day lines joined into Text, or a weekday-keyed object. Any other JSON
// value is kept verbatim in Invalid and never fails decoding.
type RawOpeningHours struct {
	Text    string
	Days    map[string]string
	Invalid string
}

func (r RawOpeningHours) IsZero() bool {
	return strings.TrimSpace(r.Text) == "" && len(r.Days) == 0 && r.Invalid == ""
}

// String renders the payload for logs and error metadata.
func (r RawOpeningHours) String() string {
	if len(r.Days) == 0 {
		return r.Text
	}
	keys := make([]string, 0, len(r.Days))
	for k := range r.Days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+r.Days[k])
	}
	return strings.Join(parts, "; ")
}

func (r *RawOpeningHours) UnmarshalJSON(data []byte) error {
	*r = RawOpeningHours{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		return json.Unmarshal(trimmed, &r.Text)
	case '{':
		var raw map[string]interface{}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		r.Days = make(map[string]string, len(raw))
		for day, value := range raw {
			r.Days[day] = dayText(value)
		}
		return nil
	case '[':
		var items []interface{}
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		lines := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				lines = append(lines, s)
			}
		}
		if len(lines) == 0 {
			r.Invalid = string(trimmed)
			return nil
		}
		r.Text = strings.Join(lines, "\n")
		return nil
	default:
		r.Invalid = string(trimmed)
		return nil
	}
}

func (r RawOpeningHours) MarshalJSON() ([]byte, error) {
	if len(r.Days) > 0 {
		return json.Marshal(r.Days)
	}
	if r.Text != "" {
		return json.Marshal(r.Text)
	}
	if r.Invalid != "" {
		return []byte(r.Invalid), nil
	}
	return []byte("null"), nil
}

// dayText flattens a per-day value. Lists of ranges are joined with "; ".
func dayText(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
