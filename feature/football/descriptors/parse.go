package descriptors

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"football-sync/core/engine"
	"football-sync/core/provider"
	"football-sync/feature/football/models"
)

// schemaErr reports a payload the parser cannot interpret. The provider
// error type carries the classification: schema drift aborts the job.
func schemaErr(format string, args ...any) error {
	return &provider.Error{Kind: provider.ErrorSchema, Message: fmt.Sprintf(format, args...)}
}

// synthID derives a stable positive identifier from the given parts.
// Used for entities the provider does not assign an id to (countries,
// seasons, per-fixture detail rows); the same parts always map to the
// same id so repeated fetches reconcile against the same row.
func synthID(parts ...any) int64 {
	h := fnv.New64a()
	for i, part := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		fmt.Fprint(h, part)
	}
	id := int64(h.Sum64() & math.MaxInt64)
	if id == 0 {
		id = 1
	}
	return id
}

// CountryID synthesizes the external id of a country. The provider
// identifies countries by name only.
func CountryID(name string) int64 {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0
	}
	return synthID("country", name)
}

// SeasonID synthesizes the external id of a season from its league and
// year; the provider identifies seasons by that pair only.
func SeasonID(leagueID int64, year int) int64 {
	if leagueID == 0 || year == 0 {
		return 0
	}
	return synthID("season", leagueID, year)
}

type countryPayload struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Flag string `json:"flag"`
}

func countryFields(c countryPayload) map[string]any {
	return map[string]any{
		"name": c.Name,
		"code": c.Code,
		"flag": c.Flag,
	}
}

// countryRef builds a parent reference from whatever country data the
// child payload carries. An empty name yields a zero id, which the
// engine treats as "reference absent".
func countryRef(c countryPayload, opt bool) engine.ParentRef {
	return engine.ParentRef{
		Kind:       models.KindCountry,
		ExternalID: CountryID(c.Name),
		Fields:     countryFields(c),
		Optional:   opt,
	}
}

func parseCountries(items []json.RawMessage) ([]engine.Record, error) {
	records := make([]engine.Record, 0, len(items))
	for _, item := range items {
		var c countryPayload
		if err := json.Unmarshal(item, &c); err != nil {
			return nil, schemaErr("malformed country item: %v", err)
		}
		records = append(records, engine.Record{
			Kind:       models.KindCountry,
			ExternalID: CountryID(c.Name),
			Fields:     countryFields(c),
		})
	}
	return records, nil
}

type venuePayload struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Capacity int    `json:"capacity"`
	Surface  string `json:"surface"`
	Image    string `json:"image"`
}

func venueFields(v venuePayload) map[string]any {
	return map[string]any{
		"name":     v.Name,
		"address":  v.Address,
		"city":     v.City,
		"capacity": v.Capacity,
		"surface":  v.Surface,
		"image":    v.Image,
	}
}

func venueRef(v venuePayload, country string) engine.ParentRef {
	ref := engine.ParentRef{
		Kind:       models.KindVenue,
		ExternalID: v.ID,
		Fields:     venueFields(v),
		Optional:   true,
	}
	if country != "" {
		ref.Parents = []engine.ParentRef{countryRef(countryPayload{Name: country}, true)}
	}
	return ref
}

func parseVenues(items []json.RawMessage) ([]engine.Record, error) {
	records := make([]engine.Record, 0, len(items))
	for _, item := range items {
		var v venuePayload
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, schemaErr("malformed venue item: %v", err)
		}
		records = append(records, engine.Record{
			Kind:       models.KindVenue,
			ExternalID: v.ID,
			Fields:     venueFields(v),
			Parents:    []engine.ParentRef{countryRef(countryPayload{Name: v.Country}, true)},
		})
	}
	return records, nil
}

type leaguePayload struct {
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
		Logo string `json:"logo"`
	} `json:"league"`
	Country countryPayload `json:"country"`
	Seasons []struct {
		Year    int    `json:"year"`
		Start   string `json:"start"`
		End     string `json:"end"`
		Current bool   `json:"current"`
	} `json:"seasons"`
}

func leagueRef(id int64, name, leagueType, logo, country string) engine.ParentRef {
	return engine.ParentRef{
		Kind:       models.KindLeague,
		ExternalID: id,
		Fields: map[string]any{
			"name": name,
			"type": leagueType,
			"logo": logo,
		},
		Parents: []engine.ParentRef{countryRef(countryPayload{Name: country}, false)},
	}
}

func parseLeagues(items []json.RawMessage) ([]engine.Record, error) {
	records := make([]engine.Record, 0, len(items))
	for _, item := range items {
		var l leaguePayload
		if err := json.Unmarshal(item, &l); err != nil {
			return nil, schemaErr("malformed league item: %v", err)
		}
		records = append(records, engine.Record{
			Kind:       models.KindLeague,
			ExternalID: l.League.ID,
			Fields: map[string]any{
				"name": l.League.Name,
				"type": l.League.Type,
				"logo": l.League.Logo,
			},
			Parents: []engine.ParentRef{countryRef(l.Country, false)},
		})
	}
	return records, nil
}

// parseSeasons reads the seasons nested inside each league item of the
// leagues endpoint, one record per (league, year).
func parseSeasons(items []json.RawMessage) ([]engine.Record, error) {
	var records []engine.Record
	for _, item := range items {
		var l leaguePayload
		if err := json.Unmarshal(item, &l); err != nil {
			return nil, schemaErr("malformed league item: %v", err)
		}
		parent := leagueRef(l.League.ID, l.League.Name, l.League.Type, l.League.Logo, l.Country.Name)
		for _, s := range l.Seasons {
			records = append(records, engine.Record{
				Kind:       models.KindSeason,
				ExternalID: SeasonID(l.League.ID, s.Year),
				Fields: map[string]any{
					"year":       s.Year,
					"start_date": s.Start,
					"end_date":   s.End,
					"current":    s.Current,
				},
				Parents: []engine.ParentRef{parent},
			})
		}
	}
	return records, nil
}

// seasonRef synthesizes a season reference from a league id and year,
// for payloads that name the season only by year. Start and end dates
// follow the European season convention until a real season fetch
// overwrites them.
func seasonRef(leagueID int64, year int, league engine.ParentRef) engine.ParentRef {
	return engine.ParentRef{
		Kind:       models.KindSeason,
		ExternalID: SeasonID(leagueID, year),
		Fields: map[string]any{
			"year":       year,
			"start_date": fmt.Sprintf("%04d-07-01", year),
			"end_date":   fmt.Sprintf("%04d-06-30", year+1),
		},
		Parents: []engine.ParentRef{league},
	}
}

type teamPayload struct {
	Team struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Code     string `json:"code"`
		Country  string `json:"country"`
		Founded  int    `json:"founded"`
		National bool   `json:"national"`
		Logo     string `json:"logo"`
	} `json:"team"`
	Venue venuePayload `json:"venue"`
}

func parseTeams(items []json.RawMessage) ([]engine.Record, error) {
	records := make([]engine.Record, 0, len(items))
	for _, item := range items {
		var t teamPayload
		if err := json.Unmarshal(item, &t); err != nil {
			return nil, schemaErr("malformed team item: %v", err)
		}
		records = append(records, engine.Record{
			Kind:       models.KindTeam,
			ExternalID: t.Team.ID,
			Fields: map[string]any{
				"name":     t.Team.Name,
				"code":     t.Team.Code,
				"founded":  t.Team.Founded,
				"national": t.Team.National,
				"logo":     t.Team.Logo,
			},
			Parents: []engine.ParentRef{
				countryRef(countryPayload{Name: t.Team.Country}, false),
				venueRef(t.Venue, t.Team.Country),
			},
		})
	}
	return records, nil
}

// teamRef builds a parent reference for a team mentioned inline on a
// fixture or standing payload, with the league's country as the team's
// own parent for auto-creation.
func teamRef(id int64, name, logo, country, role string) engine.ParentRef {
	ref := engine.ParentRef{
		Kind:       models.KindTeam,
		ExternalID: id,
		Role:       role,
		Fields: map[string]any{
			"name": name,
			"logo": logo,
		},
	}
	if country != "" {
		ref.Parents = []engine.ParentRef{countryRef(countryPayload{Name: country}, false)}
	}
	return ref
}

type playerPayload struct {
	Player struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Firstname string `json:"firstname"`
		Lastname  string `json:"lastname"`
		Birth     struct {
			Date    string `json:"date"`
			Country string `json:"country"`
		} `json:"birth"`
		Nationality string `json:"nationality"`
		Height      string `json:"height"`
		Weight      string `json:"weight"`
		Injured     bool   `json:"injured"`
		Photo       string `json:"photo"`
	} `json:"player"`
	Statistics []struct {
		Team struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Logo string `json:"logo"`
		} `json:"team"`
		Games struct {
			Position string `json:"position"`
			Number   int    `json:"number"`
		} `json:"games"`
	} `json:"statistics"`
}

// metricValue extracts the leading number from provider measurements
// like "180 cm" or "74 kg".
func metricValue(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	n, _ := strconv.Atoi(fields[0])
	return n
}

func parsePlayers(items []json.RawMessage) ([]engine.Record, error) {
	records := make([]engine.Record, 0, len(items))
	for _, item := range items {
		var p playerPayload
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, schemaErr("malformed player item: %v", err)
		}

		fields := map[string]any{
			"name":       p.Player.Name,
			"firstname":  p.Player.Firstname,
			"lastname":   p.Player.Lastname,
			"birth_date": p.Player.Birth.Date,
			"height":     metricValue(p.Player.Height),
			"weight":     metricValue(p.Player.Weight),
			"injured":    p.Player.Injured,
			"photo":      p.Player.Photo,
		}

		team := engine.ParentRef{Kind: models.KindTeam}
		if len(p.Statistics) > 0 {
			s := p.Statistics[0]
			team = teamRef(s.Team.ID, s.Team.Name, s.Team.Logo, "", "team")
			fields["position"] = s.Games.Position
			fields["number"] = s.Games.Number
		}

		records = append(records, engine.Record{
			Kind:       models.KindPlayer,
			ExternalID: p.Player.ID,
			Fields:     fields,
			Parents: []engine.ParentRef{
				team,
				countryRef(countryPayload{Name: p.Player.Nationality}, true),
			},
		})
	}
	return records, nil
}

type coachPayload struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Birth     struct {
		Date string `json:"date"`
	} `json:"birth"`
	Nationality string `json:"nationality"`
	Photo       string `json:"photo"`
	Team        struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"team"`
}

func parseCoaches(items []json.RawMessage) ([]engine.Record, error) {
	records := make([]engine.Record, 0, len(items))
	for _, item := range items {
		var c coachPayload
		if err := json.Unmarshal(item, &c); err != nil {
			return nil, schemaErr("malformed coach item: %v", err)
		}
		records = append(records, engine.Record{
			Kind:       models.KindCoach,
			ExternalID: c.ID,
			Fields: map[string]any{
				"name":       c.Name,
				"firstname":  c.Firstname,
				"lastname":   c.Lastname,
				"birth_date": c.Birth.Date,
				"photo":      c.Photo,
			},
			Parents: []engine.ParentRef{
				teamRef(c.Team.ID, c.Team.Name, c.Team.Logo, "", "team"),
				countryRef(countryPayload{Name: c.Nationality}, true),
			},
		})
	}
	return records, nil
}

type goalPair struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type fixturePayload struct {
	Fixture struct {
		ID        int64  `json:"id"`
		Referee   string `json:"referee"`
		Timezone  string `json:"timezone"`
		Date      string `json:"date"`
		Timestamp int64  `json:"timestamp"`
		Venue     struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
		Status struct {
			Long    string `json:"long"`
			Short   string `json:"short"`
			Elapsed int    `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
		Logo    string `json:"logo"`
		Flag    string `json:"flag"`
		Season  int    `json:"season"`
		Round   string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Logo string `json:"logo"`
		} `json:"home"`
		Away struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Logo string `json:"logo"`
		} `json:"away"`
	} `json:"teams"`
	Goals goalPair `json:"goals"`
	Score struct {
		Halftime  goalPair `json:"halftime"`
		Fulltime  goalPair `json:"fulltime"`
		Extratime goalPair `json:"extratime"`
		Penalty   goalPair `json:"penalty"`
	} `json:"score"`
}

// finishedStatuses are the short codes that mark a fixture as over.
var finishedStatuses = map[string]bool{"FT": true, "AET": true, "PEN": true}

// kickoff resolves the match instant in the requested timezone so
// downstream field comparisons see the same location every run.
func kickoff(f fixturePayload, tz string) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		loc = time.UTC
	}
	if f.Fixture.Timestamp != 0 {
		return time.Unix(f.Fixture.Timestamp, 0).In(loc)
	}
	t, err := time.Parse(time.RFC3339, f.Fixture.Date)
	if err != nil {
		return time.Time{}
	}
	return t.In(loc)
}

func (f fixturePayload) parents() []engine.ParentRef {
	league := leagueRef(f.League.ID, f.League.Name, "", f.League.Logo, f.League.Country)
	refs := []engine.ParentRef{
		league,
		seasonRef(f.League.ID, f.League.Season, league),
		teamRef(f.Teams.Home.ID, f.Teams.Home.Name, f.Teams.Home.Logo, f.League.Country, "home_team"),
		teamRef(f.Teams.Away.ID, f.Teams.Away.Name, f.Teams.Away.Logo, f.League.Country, "away_team"),
	}
	if f.Fixture.Venue.ID != 0 {
		refs = append(refs, venueRef(venuePayload{
			ID:   f.Fixture.Venue.ID,
			Name: f.Fixture.Venue.Name,
			City: f.Fixture.Venue.City,
		}, f.League.Country))
	}
	return refs
}

func parseFixtures(items []json.RawMessage, filter engine.Filter) ([]engine.Record, error) {
	records := make([]engine.Record, 0, len(items))
	for _, item := range items {
		var f fixturePayload
		if err := json.Unmarshal(item, &f); err != nil {
			return nil, schemaErr("malformed fixture item: %v", err)
		}

		tz := filter.Timezone
		if tz == "" {
			tz = "UTC"
		}
		records = append(records, engine.Record{
			Kind:       models.KindFixture,
			ExternalID: f.Fixture.ID,
			Fields: map[string]any{
				"referee":    f.Fixture.Referee,
				"timezone":   tz,
				"date":       kickoff(f, tz),
				"round":      f.League.Round,
				"status":     f.Fixture.Status.Short,
				"elapsed":    f.Fixture.Status.Elapsed,
				"home_goals": f.Goals.Home,
				"away_goals": f.Goals.Away,
				"finished":   finishedStatuses[f.Fixture.Status.Short],
			},
			Parents: f.parents(),
		})
	}
	return records, nil
}

// parseScores reads the per-team score breakdown inline on each fixture
// item, two records per fixture.
func parseScores(items []json.RawMessage) ([]engine.Record, error) {
	var records []engine.Record
	for _, item := range items {
		var f fixturePayload
		if err := json.Unmarshal(item, &f); err != nil {
			return nil, schemaErr("malformed fixture item: %v", err)
		}
		if f.Fixture.ID == 0 {
			continue
		}

		sides := []struct {
			teamID int64
			name   string
			logo   string
			half   int
			full   int
			extra  int
			pen    int
		}{
			{f.Teams.Home.ID, f.Teams.Home.Name, f.Teams.Home.Logo,
				f.Score.Halftime.Home, f.Score.Fulltime.Home, f.Score.Extratime.Home, f.Score.Penalty.Home},
			{f.Teams.Away.ID, f.Teams.Away.Name, f.Teams.Away.Logo,
				f.Score.Halftime.Away, f.Score.Fulltime.Away, f.Score.Extratime.Away, f.Score.Penalty.Away},
		}
		for _, side := range sides {
			records = append(records, engine.Record{
				Kind:       models.KindScore,
				ExternalID: synthID("score", f.Fixture.ID, side.teamID),
				Fields: map[string]any{
					"halftime":  side.half,
					"fulltime":  side.full,
					"extratime": side.extra,
					"penalty":   side.pen,
				},
				Parents: []engine.ParentRef{
					{Kind: models.KindFixture, ExternalID: f.Fixture.ID},
					teamRef(side.teamID, side.name, side.logo, f.League.Country, "team"),
				},
			})
		}
	}
	return records, nil
}

type eventPayload struct {
	Time struct {
		Elapsed int `json:"elapsed"`
		Extra   int `json:"extra"`
	} `json:"time"`
	Team struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"team"`
	Player struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"player"`
	Assist struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"assist"`
	Type     string `json:"type"`
	Detail   string `json:"detail"`
	Comments string `json:"comments"`
}

func parseEvents(items []json.RawMessage, filter engine.Filter) ([]engine.Record, error) {
	fixtureID := fixtureScope(filter)
	if fixtureID == 0 {
		return nil, schemaErr("event fetch needs a fixture filter")
	}

	records := make([]engine.Record, 0, len(items))
	for _, item := range items {
		var e eventPayload
		if err := json.Unmarshal(item, &e); err != nil {
			return nil, schemaErr("malformed event item: %v", err)
		}
		records = append(records, engine.Record{
			Kind: models.KindEvent,
			ExternalID: synthID("event", fixtureID, e.Team.ID,
				e.Time.Elapsed, e.Time.Extra, e.Type, e.Detail, e.Player.ID),
			Fields: map[string]any{
				"elapsed":  e.Time.Elapsed,
				"extra":    e.Time.Extra,
				"type":     e.Type,
				"detail":   e.Detail,
				"comments": e.Comments,
			},
			Parents: []engine.ParentRef{
				{Kind: models.KindFixture, ExternalID: fixtureID},
				teamRef(e.Team.ID, e.Team.Name, e.Team.Logo, "", "team"),
				{Kind: models.KindPlayer, ExternalID: e.Player.ID, Role: "player", Optional: true,
					Fields: map[string]any{"name": e.Player.Name}},
				{Kind: models.KindPlayer, ExternalID: e.Assist.ID, Role: "assist", Optional: true,
					Fields: map[string]any{"name": e.Assist.Name}},
			},
		})
	}
	return records, nil
}

type statisticPayload struct {
	Team struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"team"`
	Statistics []struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	} `json:"statistics"`
}

// statValue normalizes a statistic value: numbers pass through and
// percentage strings like "55%" become their decimal value.
func statValue(v any) float64 {
	if s, ok := v.(string); ok {
		s = strings.TrimSuffix(strings.TrimSpace(s), "%")
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}

func parseStatistics(items []json.RawMessage, filter engine.Filter) ([]engine.Record, error) {
	fixtureID := fixtureScope(filter)
	if fixtureID == 0 {
		return nil, schemaErr("statistic fetch needs a fixture filter")
	}

	var records []engine.Record
	for _, item := range items {
		var s statisticPayload
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, schemaErr("malformed statistic item: %v", err)
		}
		for _, stat := range s.Statistics {
			records = append(records, engine.Record{
				Kind:       models.KindStatistic,
				ExternalID: synthID("statistic", fixtureID, s.Team.ID, stat.Type),
				Fields: map[string]any{
					"type":  stat.Type,
					"value": statValue(stat.Value),
				},
				Parents: []engine.ParentRef{
					{Kind: models.KindFixture, ExternalID: fixtureID},
					teamRef(s.Team.ID, s.Team.Name, s.Team.Logo, "", "team"),
				},
			})
		}
	}
	return records, nil
}

type lineupPayload struct {
	Team struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Logo   string `json:"logo"`
		Colors struct {
			Player struct {
				Primary string `json:"primary"`
				Number  string `json:"number"`
				Border  string `json:"border"`
			} `json:"player"`
			Goalkeeper struct {
				Primary string `json:"primary"`
				Number  string `json:"number"`
				Border  string `json:"border"`
			} `json:"goalkeeper"`
		} `json:"colors"`
	} `json:"team"`
	Formation string `json:"formation"`
}

func parseLineups(items []json.RawMessage, filter engine.Filter) ([]engine.Record, error) {
	fixtureID := fixtureScope(filter)
	if fixtureID == 0 {
		return nil, schemaErr("lineup fetch needs a fixture filter")
	}

	records := make([]engine.Record, 0, len(items))
	for _, item := range items {
		var l lineupPayload
		if err := json.Unmarshal(item, &l); err != nil {
			return nil, schemaErr("malformed lineup item: %v", err)
		}
		records = append(records, engine.Record{
			Kind:       models.KindLineup,
			ExternalID: synthID("lineup", fixtureID, l.Team.ID),
			Fields: map[string]any{
				"formation":                l.Formation,
				"player_primary_color":     l.Team.Colors.Player.Primary,
				"player_number_color":      l.Team.Colors.Player.Number,
				"player_border_color":      l.Team.Colors.Player.Border,
				"goalkeeper_primary_color": l.Team.Colors.Goalkeeper.Primary,
				"goalkeeper_number_color":  l.Team.Colors.Goalkeeper.Number,
				"goalkeeper_border_color":  l.Team.Colors.Goalkeeper.Border,
			},
			Parents: []engine.ParentRef{
				{Kind: models.KindFixture, ExternalID: fixtureID},
				teamRef(l.Team.ID, l.Team.Name, l.Team.Logo, "", "team"),
			},
		})
	}
	return records, nil
}

type playerStatsPayload struct {
	Team struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"team"`
	Players []struct {
		Player struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"player"`
		Statistics []struct {
			Games struct {
				Minutes    int    `json:"minutes"`
				Number     int    `json:"number"`
				Position   string `json:"position"`
				Rating     string `json:"rating"`
				Captain    bool   `json:"captain"`
				Substitute bool   `json:"substitute"`
			} `json:"games"`
			Offsides int `json:"offsides"`
			Shots    struct {
				Total int `json:"total"`
				On    int `json:"on"`
			} `json:"shots"`
			Goals struct {
				Total    int `json:"total"`
				Conceded int `json:"conceded"`
				Assists  int `json:"assists"`
				Saves    int `json:"saves"`
			} `json:"goals"`
			Passes struct {
				Total    int    `json:"total"`
				Key      int    `json:"key"`
				Accuracy string `json:"accuracy"`
			} `json:"passes"`
			Tackles struct {
				Total         int `json:"total"`
				Blocks        int `json:"blocks"`
				Interceptions int `json:"interceptions"`
			} `json:"tackles"`
			Duels struct {
				Total int `json:"total"`
				Won   int `json:"won"`
			} `json:"duels"`
			Dribbles struct {
				Attempts int `json:"attempts"`
				Success  int `json:"success"`
			} `json:"dribbles"`
			Fouls struct {
				Drawn     int `json:"drawn"`
				Committed int `json:"committed"`
			} `json:"fouls"`
			Cards struct {
				Yellow int `json:"yellow"`
				Red    int `json:"red"`
			} `json:"cards"`
			Penalty struct {
				Scored int `json:"scored"`
				Missed int `json:"missed"`
				Saved  int `json:"saved"`
			} `json:"penalty"`
		} `json:"statistics"`
	} `json:"players"`
}

func parsePlayerStatistics(items []json.RawMessage, filter engine.Filter) ([]engine.Record, error) {
	fixtureID := fixtureScope(filter)
	if fixtureID == 0 {
		return nil, schemaErr("player statistic fetch needs a fixture filter")
	}

	var records []engine.Record
	for _, item := range items {
		var p playerStatsPayload
		if err := json.Unmarshal(item, &p); err != nil {
			return nil, schemaErr("malformed player statistic item: %v", err)
		}
		for _, entry := range p.Players {
			if len(entry.Statistics) == 0 {
				continue
			}
			s := entry.Statistics[0]
			rating, _ := strconv.ParseFloat(s.Games.Rating, 64)

			records = append(records, engine.Record{
				Kind:       models.KindPlayerStatistic,
				ExternalID: synthID("player_statistic", fixtureID, p.Team.ID, entry.Player.ID),
				Fields: map[string]any{
					"minutes":           s.Games.Minutes,
					"position":          s.Games.Position,
					"number":            s.Games.Number,
					"rating":            rating,
					"captain":           s.Games.Captain,
					"substitute":        s.Games.Substitute,
					"shots_total":       s.Shots.Total,
					"shots_on":          s.Shots.On,
					"goals":             s.Goals.Total,
					"conceded":          s.Goals.Conceded,
					"assists":           s.Goals.Assists,
					"saves":             s.Goals.Saves,
					"passes_total":      s.Passes.Total,
					"passes_key":        s.Passes.Key,
					"pass_accuracy":     statValue(s.Passes.Accuracy),
					"tackles":           s.Tackles.Total,
					"blocks":            s.Tackles.Blocks,
					"interceptions":     s.Tackles.Interceptions,
					"duels_total":       s.Duels.Total,
					"duels_won":         s.Duels.Won,
					"dribbles_attempts": s.Dribbles.Attempts,
					"dribbles_success":  s.Dribbles.Success,
					"fouls_drawn":       s.Fouls.Drawn,
					"fouls_committed":   s.Fouls.Committed,
					"yellow_cards":      s.Cards.Yellow,
					"red_cards":         s.Cards.Red,
					"penalties_scored":  s.Penalty.Scored,
					"penalties_missed":  s.Penalty.Missed,
					"penalties_saved":   s.Penalty.Saved,
					"offsides":          s.Offsides,
				},
				Parents: []engine.ParentRef{
					{Kind: models.KindFixture, ExternalID: fixtureID},
					teamRef(p.Team.ID, p.Team.Name, p.Team.Logo, "", "team"),
					{Kind: models.KindPlayer, ExternalID: entry.Player.ID, Role: "player",
						Fields: map[string]any{"name": entry.Player.Name}},
				},
			})
		}
	}
	return records, nil
}

type oddsPayload struct {
	Fixture struct {
		ID int64 `json:"id"`
	} `json:"fixture"`
	Bookmakers []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Bets []struct {
			ID     int64  `json:"id"`
			Name   string `json:"name"`
			Values []struct {
				Value any    `json:"value"`
				Odd   string `json:"odd"`
			} `json:"values"`
		} `json:"bets"`
	} `json:"bookmakers"`
}

// parseOdds flattens the bookmaker/bet/value tree into one record per
// quoted outcome.
func parseOdds(items []json.RawMessage) ([]engine.Record, error) {
	var records []engine.Record
	for _, item := range items {
		var o oddsPayload
		if err := json.Unmarshal(item, &o); err != nil {
			return nil, schemaErr("malformed odds item: %v", err)
		}
		if o.Fixture.ID == 0 {
			continue
		}

		fixture := engine.ParentRef{Kind: models.KindFixture, ExternalID: o.Fixture.ID}
		for _, bookmaker := range o.Bookmakers {
			for _, bet := range bookmaker.Bets {
				for _, v := range bet.Values {
					value := fmt.Sprint(v.Value)
					coefficient, _ := strconv.ParseFloat(v.Odd, 64)
					records = append(records, engine.Record{
						Kind:       models.KindOdds,
						ExternalID: synthID("odds", o.Fixture.ID, bookmaker.ID, bet.ID, value),
						Fields: map[string]any{
							"bookmaker":   bookmaker.Name,
							"market":      bet.Name,
							"value":       value,
							"coefficient": coefficient,
						},
						Parents: []engine.ParentRef{fixture},
					})
				}
			}
		}
	}
	return records, nil
}

type standingsPayload struct {
	League struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Country   string `json:"country"`
		Logo      string `json:"logo"`
		Season    int    `json:"season"`
		Standings [][]struct {
			Rank int `json:"rank"`
			Team struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
				Logo string `json:"logo"`
			} `json:"team"`
			Points      int    `json:"points"`
			GoalsDiff   int    `json:"goalsDiff"`
			Group       string `json:"group"`
			Form        string `json:"form"`
			Status      string `json:"status"`
			Description string `json:"description"`
			All         struct {
				Played int `json:"played"`
				Win    int `json:"win"`
				Draw   int `json:"draw"`
				Lose   int `json:"lose"`
				Goals  struct {
					For     int `json:"for"`
					Against int `json:"against"`
				} `json:"goals"`
			} `json:"all"`
		} `json:"standings"`
	} `json:"league"`
}

func parseStandings(items []json.RawMessage) ([]engine.Record, error) {
	var records []engine.Record
	for _, item := range items {
		var s standingsPayload
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, schemaErr("malformed standings item: %v", err)
		}

		league := leagueRef(s.League.ID, s.League.Name, "", s.League.Logo, s.League.Country)
		season := seasonRef(s.League.ID, s.League.Season, league)
		for _, group := range s.League.Standings {
			for _, row := range group {
				records = append(records, engine.Record{
					Kind:       models.KindStanding,
					ExternalID: synthID("standing", s.League.ID, s.League.Season, row.Team.ID),
					Fields: map[string]any{
						"rank":          row.Rank,
						"points":        row.Points,
						"goals_diff":    row.GoalsDiff,
						"group_name":    row.Group,
						"form":          row.Form,
						"status":        row.Status,
						"description":   row.Description,
						"played":        row.All.Played,
						"won":           row.All.Win,
						"drawn":         row.All.Draw,
						"lost":          row.All.Lose,
						"goals_for":     row.All.Goals.For,
						"goals_against": row.All.Goals.Against,
					},
					Parents: []engine.ParentRef{
						season,
						teamRef(row.Team.ID, row.Team.Name, row.Team.Logo, s.League.Country, "team"),
					},
				})
			}
		}
	}
	return records, nil
}
