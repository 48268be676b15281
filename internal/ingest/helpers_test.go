package ingest

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/cricstats/cricsheet-data/internal/cricsheet"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// testDoc builds a two-team, one-innings, one-over document with six
// deliveries: the first a wide, the third a wicket.
func testDoc(name string, number int) *cricsheet.Match {
	n := number
	return &cricsheet.Match{
		Info: cricsheet.Info{
			City:      "Melbourne",
			Venue:     "MCG",
			Event:     &cricsheet.Event{Name: name, MatchNumber: &n},
			Gender:    "male",
			MatchType: "ODI",
			Outcome: cricsheet.Outcome{
				Winner: "Australia",
				By:     json.RawMessage(`{"runs":13}`),
			},
			Players: map[string][]string{
				"Australia": {"A Batter", "A Bowler"},
				"England":   {"E Batter", "E Bowler"},
			},
			Registry: cricsheet.Registry{People: map[string]string{
				"A Batter": "p1", "A Bowler": "p2",
				"E Batter": "p3", "E Bowler": "p4",
				"An Umpire": "u1",
			}},
			Season:   "2022/23",
			TeamType: "international",
			Teams:    []string{"Australia", "England"},
		},
		Innings: []cricsheet.Inning{{
			Team: "Australia",
			Overs: []cricsheet.Over{{
				Over:       0,
				Deliveries: testOver(),
			}},
		}},
	}
}

func testOver() []cricsheet.Delivery {
	one := 1
	return []cricsheet.Delivery{
		{
			Batter: "A Batter", Bowler: "E Bowler", NonStriker: "A Bowler",
			Runs:   cricsheet.Runs{Batter: 0, Extras: 1, Total: 1},
			Extras: &cricsheet.Extras{Wides: &one},
		},
		{
			Batter: "A Batter", Bowler: "E Bowler", NonStriker: "A Bowler",
			Runs: cricsheet.Runs{Batter: 4, Extras: 0, Total: 4},
		},
		{
			Batter: "A Batter", Bowler: "E Bowler", NonStriker: "A Bowler",
			Runs:    cricsheet.Runs{Batter: 0, Extras: 0, Total: 0},
			Wickets: json.RawMessage(`[{"kind":"bowled","player_out":"A Batter"}]`),
		},
		{
			Batter: "A Bowler", Bowler: "E Bowler", NonStriker: "A Batter",
			Runs: cricsheet.Runs{Batter: 0, Extras: 0, Total: 0},
		},
		{
			Batter: "A Bowler", Bowler: "E Bowler", NonStriker: "A Batter",
			Runs: cricsheet.Runs{Batter: 1, Extras: 0, Total: 1},
		},
		{
			Batter: "A Batter", Bowler: "E Bowler", NonStriker: "A Bowler",
			Runs: cricsheet.Runs{Batter: 6, Extras: 0, Total: 6},
		},
	}
}
