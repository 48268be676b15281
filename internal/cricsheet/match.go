// Package cricsheet models the cricsheet JSON match format.
//
// A match document is deeply nested and sparsely populated: most outcome
// fields, extras, wickets, reviews and replacements are optional. Optional
// scalars are pointers so absence survives decoding, and shape-varying
// substructures (outcome.by, wickets, review, replacements) are kept as
// raw JSON rather than forced into a rigid schema.
package cricsheet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Match is one decoded cricsheet match document.
type Match struct {
	Meta    Meta     `json:"meta"`
	Info    Info     `json:"info"`
	Innings []Inning `json:"innings"`
}

// Meta describes the document itself, not the match.
type Meta struct {
	DataVersion string `json:"data_version"`
	Created     string `json:"created"`
	Revision    int    `json:"revision"`
}

// Info holds match-level metadata.
type Info struct {
	City      string              `json:"city"`
	Venue     string              `json:"venue"`
	Dates     []string            `json:"dates"`
	Event     *Event              `json:"event"`
	Gender    string              `json:"gender"`
	MatchType string              `json:"match_type"`
	Outcome   Outcome             `json:"outcome"`
	Players   map[string][]string `json:"players"`
	Registry  Registry            `json:"registry"`
	Season    Season              `json:"season"`
	TeamType  string              `json:"team_type"`
	Teams     []string            `json:"teams"`
}

// Event identifies the tournament/series a match belongs to.
type Event struct {
	Name        string `json:"name"`
	MatchNumber *int   `json:"match_number"`
	Group       string `json:"group"`
	Stage       string `json:"stage"`
}

// Outcome is a tagged union over the ways a match can conclude: a decisive
// winner, a result string ("tie", "draw", "no result"), a tie broken by an
// eliminator over or a bowl-out. Only the fields for the observed kind are
// present in the source.
type Outcome struct {
	Winner     string          `json:"winner"`
	Result     string          `json:"result"`
	Method     string          `json:"method"`
	Eliminator string          `json:"eliminator"`
	BowlOut    string          `json:"bowl_out"`
	By         json.RawMessage `json:"by"`
}

// Registry maps display names to stable cricsheet identifiers.
type Registry struct {
	People map[string]string `json:"people"`
}

// Inning is one team's turn batting.
type Inning struct {
	Team  string `json:"team"`
	Overs []Over `json:"overs"`
}

// Over is one over of deliveries. The over number comes from the source and
// may be non-contiguous (rain-shortened or malformed records).
type Over struct {
	Over       int        `json:"over"`
	Deliveries []Delivery `json:"deliveries"`
}

// Delivery is one ball bowled.
type Delivery struct {
	Batter       string          `json:"batter"`
	Bowler       string          `json:"bowler"`
	NonStriker   string          `json:"non_striker"`
	Runs         Runs            `json:"runs"`
	Extras       *Extras         `json:"extras"`
	Replacements json.RawMessage `json:"replacements"`
	Review       json.RawMessage `json:"review"`
	Wickets      json.RawMessage `json:"wickets"`
}

// Runs is the run breakdown for a delivery.
type Runs struct {
	Batter      int   `json:"batter"`
	Extras      int   `json:"extras"`
	Total       int   `json:"total"`
	NonBoundary *bool `json:"non_boundary"`
}

// Extras breaks down extra runs by kind. Each field is present only when
// that kind of extra occurred on the delivery; absence is not zero.
type Extras struct {
	Byes    *int `json:"byes"`
	LegByes *int `json:"legbyes"`
	NoBalls *int `json:"noballs"`
	Penalty *int `json:"penalty"`
	Wides   *int `json:"wides"`
}

// Season is a season label. Cricsheet emits either a JSON string ("2019/20")
// or a bare number (2019) depending on the competition.
type Season string

// UnmarshalJSON accepts both string and numeric season values.
func (s *Season) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Season(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("season must be a string or number: %w", err)
	}
	*s = Season(n.String())
	return nil
}

// Decode reads one match document from r.
func Decode(r io.Reader) (*Match, error) {
	var m Match
	dec := json.NewDecoder(r)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode match document: %w", err)
	}
	return &m, nil
}

// DecodeFile reads one match document from a file on disk.
func DecodeFile(path string) (*Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open match file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// MatchName returns the event name when present, otherwise a composite of
// descriptive fields. Together with MatchNumber it forms the external key
// used to detect re-ingestion of the same match.
func (i *Info) MatchName() string {
	if i.Event != nil && i.Event.Name != "" {
		return i.Event.Name
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s|", i.Season, i.MatchType, i.Gender, i.Venue, i.City)
}

// MatchNumber returns the event match number, or -1 when the event carries
// none. -1 rather than 0 because 0 is a plausible real match number.
func (i *Info) MatchNumber() int {
	if i.Event != nil && i.Event.MatchNumber != nil {
		return *i.Event.MatchNumber
	}
	return -1
}

// PersonID resolves a display name to the registry identifier. Some records
// list players the registry omits; those fall back to the name itself so
// the row still has a stable (if weaker) identity.
func (i *Info) PersonID(name string) string {
	if id, ok := i.Registry.People[name]; ok && id != "" {
		return id
	}
	return name
}

// HasPayload reports whether a raw substructure is present and non-empty
// ("null", "{}" and "[]" all count as absent, matching how the loader
// treats empty payloads).
func HasPayload(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "{}", "[]":
		return false
	}
	return true
}
