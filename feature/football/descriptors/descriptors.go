// Package descriptors binds the generic sync engine to the football
// taxonomy: the fixed kind-dependency DAG, the provider endpoint per
// kind, the filter-to-query translation and the payload parsers that
// turn API-Sports response items into engine records.
package descriptors

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"football-sync/core/engine"
	"football-sync/feature/football/models"
)

func required(kind engine.EntityKind) engine.ParentEdge {
	return engine.ParentEdge{Kind: kind, Required: true}
}

func optional(kind engine.EntityKind) engine.ParentEdge {
	return engine.ParentEdge{Kind: kind}
}

// Graph returns the entity-kind dependency DAG. The declaration order
// is parents before children; the engine derives the sync order from
// the edges, not from this order.
func Graph() *engine.Graph {
	g := engine.NewGraph()
	g.Add(models.KindCountry)
	g.Add(models.KindVenue, optional(models.KindCountry))
	g.Add(models.KindLeague, required(models.KindCountry))
	g.Add(models.KindSeason, required(models.KindLeague))
	g.Add(models.KindTeam, required(models.KindCountry), optional(models.KindVenue))
	g.Add(models.KindPlayer, required(models.KindTeam), optional(models.KindCountry))
	g.Add(models.KindCoach, required(models.KindTeam), optional(models.KindCountry))
	g.Add(models.KindFixture,
		required(models.KindLeague),
		required(models.KindSeason),
		required(models.KindTeam),
		optional(models.KindVenue))
	g.Add(models.KindEvent, required(models.KindFixture), required(models.KindTeam), optional(models.KindPlayer))
	g.Add(models.KindScore, required(models.KindFixture), required(models.KindTeam))
	g.Add(models.KindStatistic, required(models.KindFixture), required(models.KindTeam))
	g.Add(models.KindLineup, required(models.KindFixture), required(models.KindTeam))
	g.Add(models.KindPlayerStatistic,
		required(models.KindFixture),
		required(models.KindTeam),
		required(models.KindPlayer))
	g.Add(models.KindOdds, required(models.KindFixture))
	g.Add(models.KindStanding, required(models.KindSeason), required(models.KindTeam))
	return g
}

// paths maps each kind onto the API-Sports endpoint that serves it.
// Seasons ride on the leagues endpoint and scores on the fixtures
// endpoint; the provider has no standalone resource for either.
var paths = map[engine.EntityKind]string{
	models.KindCountry:         "/countries",
	models.KindVenue:           "/venues",
	models.KindLeague:          "/leagues",
	models.KindSeason:          "/leagues",
	models.KindTeam:            "/teams",
	models.KindPlayer:          "/players",
	models.KindCoach:           "/coachs",
	models.KindFixture:         "/fixtures",
	models.KindScore:           "/fixtures",
	models.KindEvent:           "/fixtures/events",
	models.KindStatistic:       "/fixtures/statistics",
	models.KindLineup:          "/fixtures/lineups",
	models.KindPlayerStatistic: "/fixtures/players",
	models.KindOdds:            "/odds",
	models.KindStanding:        "/standings",
}

// Registry implements the provider client's endpoint registry for the
// football taxonomy.
type Registry struct{}

// NewRegistry returns the football endpoint registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Path returns the endpoint path serving the kind.
func (*Registry) Path(kind engine.EntityKind) (string, bool) {
	path, ok := paths[kind]
	return path, ok
}

// Query translates the job filter into the query parameters the kind's
// endpoint understands. Unsupported filter dimensions are dropped; the
// provider rejects unknown parameters.
func (*Registry) Query(kind engine.EntityKind, f engine.Filter) url.Values {
	q := url.Values{}
	switch kind {
	case models.KindCountry:
		setString(q, "search", f.Search)

	case models.KindVenue:
		setInt64(q, "id", firstID(f.IDs))
		setString(q, "search", f.Search)

	case models.KindLeague:
		setInt64(q, "id", firstID(f.IDs))
		setInt(q, "season", f.Season)
		setInt64(q, "team", f.Team)
		setString(q, "search", f.Search)

	case models.KindSeason:
		// Seasons come inline on the leagues endpoint; the league
		// filter selects which league's seasons to load.
		setInt64(q, "id", f.League)
		setInt(q, "season", f.Season)

	case models.KindTeam:
		setInt64(q, "id", firstID(f.IDs))
		setInt64(q, "league", f.League)
		setInt(q, "season", f.Season)
		setInt64(q, "venue", f.Venue)
		setString(q, "search", f.Search)

	case models.KindPlayer:
		setInt64(q, "id", firstID(f.IDs))
		setInt64(q, "team", f.Team)
		setInt64(q, "league", f.League)
		setInt(q, "season", f.Season)
		setString(q, "search", f.Search)

	case models.KindCoach:
		setInt64(q, "id", firstID(f.IDs))
		setInt64(q, "team", f.Team)
		setString(q, "search", f.Search)

	case models.KindFixture, models.KindScore:
		if len(f.IDs) == 1 {
			setInt64(q, "id", f.IDs[0])
		} else if len(f.IDs) > 1 {
			q.Set("ids", joinIDs(f.IDs))
		}
		setInt64(q, "league", f.League)
		setInt(q, "season", f.Season)
		setInt64(q, "team", f.Team)
		setInt64(q, "venue", f.Venue)
		setString(q, "date", f.Date)
		setString(q, "from", f.From)
		setString(q, "to", f.To)
		setString(q, "status", f.Status)
		setString(q, "round", f.Round)
		setString(q, "live", f.Live)
		setInt(q, "last", f.Last)
		setInt(q, "next", f.Next)
		setString(q, "timezone", f.Timezone)

	case models.KindEvent, models.KindStatistic, models.KindLineup, models.KindPlayerStatistic:
		setInt64(q, "fixture", fixtureScope(f))
		setInt64(q, "team", f.Team)

	case models.KindOdds:
		setInt64(q, "fixture", fixtureScope(f))
		setInt64(q, "league", f.League)
		setInt(q, "season", f.Season)
		setString(q, "date", f.Date)

	case models.KindStanding:
		setInt64(q, "league", f.League)
		setInt(q, "season", f.Season)
		setInt64(q, "team", f.Team)
	}
	return q
}

// Parse turns the envelope's response items into engine records.
func (*Registry) Parse(kind engine.EntityKind, items []json.RawMessage, filter engine.Filter) ([]engine.Record, error) {
	switch kind {
	case models.KindCountry:
		return parseCountries(items)
	case models.KindVenue:
		return parseVenues(items)
	case models.KindLeague:
		return parseLeagues(items)
	case models.KindSeason:
		return parseSeasons(items)
	case models.KindTeam:
		return parseTeams(items)
	case models.KindPlayer:
		return parsePlayers(items)
	case models.KindCoach:
		return parseCoaches(items)
	case models.KindFixture:
		return parseFixtures(items, filter)
	case models.KindScore:
		return parseScores(items)
	case models.KindEvent:
		return parseEvents(items, filter)
	case models.KindStatistic:
		return parseStatistics(items, filter)
	case models.KindLineup:
		return parseLineups(items, filter)
	case models.KindPlayerStatistic:
		return parsePlayerStatistics(items, filter)
	case models.KindOdds:
		return parseOdds(items)
	case models.KindStanding:
		return parseStandings(items)
	}
	return nil, schemaErr("no parser registered for kind %s", kind)
}

// fixtureScope resolves the fixture id a child-kind fetch is scoped to.
func fixtureScope(f engine.Filter) int64 {
	if f.Fixture != 0 {
		return f.Fixture
	}
	return firstID(f.IDs)
}

func firstID(ids []int64) int64 {
	if len(ids) == 0 {
		return 0
	}
	return ids[0]
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, "-")
}

func setString(q url.Values, key, val string) {
	if val != "" {
		q.Set(key, val)
	}
}

func setInt(q url.Values, key string, val int) {
	if val != 0 {
		q.Set(key, strconv.Itoa(val))
	}
}

func setInt64(q url.Values, key string, val int64) {
	if val != 0 {
		q.Set(key, strconv.FormatInt(val, 10))
	}
}
