package cricsheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "meta": {"data_version": "1.1.0", "created": "2023-01-05", "revision": 1},
  "info": {
    "city": "Sydney",
    "venue": "Sydney Cricket Ground",
    "dates": ["2023-01-04"],
    "event": {"name": "Big Series", "match_number": 3},
    "gender": "male",
    "match_type": "ODI",
    "outcome": {"winner": "Australia", "by": {"runs": 13}},
    "players": {
      "Australia": ["A Batter", "A Bowler"],
      "England": ["E Batter", "E Bowler"]
    },
    "registry": {"people": {"A Batter": "p1", "A Bowler": "p2", "E Batter": "p3", "E Bowler": "p4"}},
    "season": "2022/23",
    "team_type": "international",
    "teams": ["Australia", "England"]
  },
  "innings": [
    {
      "team": "Australia",
      "overs": [
        {
          "over": 0,
          "deliveries": [
            {"batter": "A Batter", "bowler": "E Bowler", "non_striker": "A Bowler",
             "runs": {"batter": 0, "extras": 1, "total": 1},
             "extras": {"wides": 1}},
            {"batter": "A Batter", "bowler": "E Bowler", "non_striker": "A Bowler",
             "runs": {"batter": 4, "extras": 0, "total": 4, "non_boundary": true}},
            {"batter": "A Batter", "bowler": "E Bowler", "non_striker": "A Bowler",
             "runs": {"batter": 0, "extras": 0, "total": 0},
             "wickets": [{"kind": "bowled", "player_out": "A Batter"}]}
          ]
        }
      ]
    }
  ]
}`

func TestDecode(t *testing.T) {
	m, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "1.1.0", m.Meta.DataVersion)
	assert.Equal(t, []string{"Australia", "England"}, m.Info.Teams)
	assert.Equal(t, Season("2022/23"), m.Info.Season)
	assert.Equal(t, "Australia", m.Info.Outcome.Winner)
	assert.True(t, HasPayload(m.Info.Outcome.By))

	require.Len(t, m.Innings, 1)
	overs := m.Innings[0].Overs
	require.Len(t, overs, 1)
	require.Len(t, overs[0].Deliveries, 3)

	wide := overs[0].Deliveries[0]
	require.NotNil(t, wide.Extras)
	require.NotNil(t, wide.Extras.Wides)
	assert.Equal(t, 1, *wide.Extras.Wides)
	assert.Nil(t, wide.Extras.Byes)
	assert.Nil(t, wide.Runs.NonBoundary)
	assert.False(t, HasPayload(wide.Wickets))

	four := overs[0].Deliveries[1]
	assert.Nil(t, four.Extras)
	require.NotNil(t, four.Runs.NonBoundary)
	assert.True(t, *four.Runs.NonBoundary)

	out := overs[0].Deliveries[2]
	assert.True(t, HasPayload(out.Wickets))
}

func TestSeasonAcceptsNumbers(t *testing.T) {
	var s Season
	require.NoError(t, s.UnmarshalJSON([]byte(`2019`)))
	assert.Equal(t, Season("2019"), s)

	require.NoError(t, s.UnmarshalJSON([]byte(`"2019/20"`)))
	assert.Equal(t, Season("2019/20"), s)

	require.Error(t, s.UnmarshalJSON([]byte(`[2019]`)))
}

func TestMatchNameFallback(t *testing.T) {
	info := Info{
		Season:    "2019",
		MatchType: "T20",
		Gender:    "female",
		Venue:     "Lord's",
		City:      "London",
	}
	assert.Equal(t, "2019|T20|female|Lord's|London|", info.MatchName())
	assert.Equal(t, -1, info.MatchNumber())

	n := 7
	info.Event = &Event{Name: "World Cup", MatchNumber: &n}
	assert.Equal(t, "World Cup", info.MatchName())
	assert.Equal(t, 7, info.MatchNumber())

	// An event with a name but no match number still defaults to -1.
	info.Event.MatchNumber = nil
	assert.Equal(t, -1, info.MatchNumber())
}

func TestPersonIDFallsBackToName(t *testing.T) {
	info := Info{Registry: Registry{People: map[string]string{"Known": "abc123", "Blank": ""}}}
	assert.Equal(t, "abc123", info.PersonID("Known"))
	assert.Equal(t, "Blank", info.PersonID("Blank"))
	assert.Equal(t, "Unknown", info.PersonID("Unknown"))
}

func TestHasPayload(t *testing.T) {
	assert.False(t, HasPayload(nil))
	assert.False(t, HasPayload([]byte("null")))
	assert.False(t, HasPayload([]byte("{}")))
	assert.False(t, HasPayload([]byte("[]")))
	assert.True(t, HasPayload([]byte(`[{"kind":"bowled"}]`)))
}
