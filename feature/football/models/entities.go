package models

import "time"

// Country represents a national federation.
type Country struct {
	Base
	Name string `gorm:"column:name;size:100;index" json:"name"`
	Code string `gorm:"column:code;size:10;index" json:"code"`
	Flag string `gorm:"column:flag;size:255" json:"flag"`
}

func (Country) TableName() string { return "countries" }

func (c *Country) Snapshot() map[string]any { return snapshot(c) }

// Venue represents a stadium.
type Venue struct {
	Base
	Name      string `gorm:"column:name;size:255;index" json:"name"`
	Address   string `gorm:"column:address;size:255" json:"address"`
	City      string `gorm:"column:city;size:100;index" json:"city"`
	Capacity  int    `gorm:"column:capacity" json:"capacity"`
	Surface   string `gorm:"column:surface;size:50" json:"surface"`
	Image     string `gorm:"column:image;size:255" json:"image"`
	CountryID uint   `gorm:"column:country_id;index" json:"country_id"`
}

func (Venue) TableName() string { return "venues" }

func (v *Venue) Snapshot() map[string]any { return snapshot(v) }

// League represents a competition (league or cup).
type League struct {
	Base
	Name      string `gorm:"column:name;size:255;index" json:"name"`
	Type      string `gorm:"column:type;size:20" json:"type"`
	Logo      string `gorm:"column:logo;size:255" json:"logo"`
	CountryID uint   `gorm:"column:country_id;index" json:"country_id"`
}

func (League) TableName() string { return "leagues" }

func (l *League) Snapshot() map[string]any { return snapshot(l) }

// Season represents one year of a competition. The provider identifies
// seasons by league and year only, so the external id is synthesized.
type Season struct {
	Base
	Year      int       `gorm:"column:year;index" json:"year"`
	StartDate time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate   time.Time `gorm:"column:end_date" json:"end_date"`
	Current   bool      `gorm:"column:current;index" json:"current"`
	LeagueID  uint      `gorm:"column:league_id;index" json:"league_id"`
}

func (Season) TableName() string { return "seasons" }

func (s *Season) Snapshot() map[string]any { return snapshot(s) }

// Team represents a club or national team.
type Team struct {
	Base
	Name      string `gorm:"column:name;size:255;index" json:"name"`
	Code      string `gorm:"column:code;size:10" json:"code"`
	Founded   int    `gorm:"column:founded" json:"founded"`
	National  bool   `gorm:"column:national" json:"national"`
	Logo      string `gorm:"column:logo;size:255" json:"logo"`
	CountryID uint   `gorm:"column:country_id;index" json:"country_id"`
	VenueID   uint   `gorm:"column:venue_id;index" json:"venue_id"`
}

func (Team) TableName() string { return "teams" }

func (t *Team) Snapshot() map[string]any { return snapshot(t) }

// Player represents a squad member. Height and weight are stored in
// centimeters and kilograms.
type Player struct {
	Base
	Name      string    `gorm:"column:name;size:255;index" json:"name"`
	FirstName string    `gorm:"column:firstname;size:100" json:"firstname"`
	LastName  string    `gorm:"column:lastname;size:100" json:"lastname"`
	BirthDate time.Time `gorm:"column:birth_date" json:"birth_date"`
	Height    int       `gorm:"column:height" json:"height"`
	Weight    int       `gorm:"column:weight" json:"weight"`
	Position  string    `gorm:"column:position;size:20" json:"position"`
	Number    int       `gorm:"column:number" json:"number"`
	Injured   bool      `gorm:"column:injured" json:"injured"`
	Photo     string    `gorm:"column:photo;size:255" json:"photo"`
	TeamID    uint      `gorm:"column:team_id;index" json:"team_id"`
	CountryID uint      `gorm:"column:country_id;index" json:"country_id"`
}

func (Player) TableName() string { return "players" }

func (p *Player) Snapshot() map[string]any { return snapshot(p) }

// Coach represents a team's head coach.
type Coach struct {
	Base
	Name      string    `gorm:"column:name;size:255;index" json:"name"`
	FirstName string    `gorm:"column:firstname;size:100" json:"firstname"`
	LastName  string    `gorm:"column:lastname;size:100" json:"lastname"`
	BirthDate time.Time `gorm:"column:birth_date" json:"birth_date"`
	Photo     string    `gorm:"column:photo;size:255" json:"photo"`
	TeamID    uint      `gorm:"column:team_id;index" json:"team_id"`
	CountryID uint      `gorm:"column:country_id;index" json:"country_id"`
}

func (Coach) TableName() string { return "coaches" }

func (c *Coach) Snapshot() map[string]any { return snapshot(c) }

// Fixture represents a match. Date is the kickoff instant; Status holds
// the provider's short code (NS, 1H, FT, ...).
type Fixture struct {
	Base
	Referee    string    `gorm:"column:referee;size:100" json:"referee"`
	Timezone   string    `gorm:"column:timezone;size:50" json:"timezone"`
	Date       time.Time `gorm:"column:date;index" json:"date"`
	Round      string    `gorm:"column:round;size:100" json:"round"`
	Status     string    `gorm:"column:status;size:10;index" json:"status"`
	Elapsed    int       `gorm:"column:elapsed" json:"elapsed"`
	HomeGoals  int       `gorm:"column:home_goals" json:"home_goals"`
	AwayGoals  int       `gorm:"column:away_goals" json:"away_goals"`
	Finished   bool      `gorm:"column:finished" json:"finished"`
	LeagueID   uint      `gorm:"column:league_id;index" json:"league_id"`
	SeasonID   uint      `gorm:"column:season_id;index" json:"season_id"`
	VenueID    uint      `gorm:"column:venue_id" json:"venue_id"`
	HomeTeamID uint      `gorm:"column:home_team_id;index" json:"home_team_id"`
	AwayTeamID uint      `gorm:"column:away_team_id;index" json:"away_team_id"`
}

func (Fixture) TableName() string { return "fixtures" }

func (f *Fixture) Snapshot() map[string]any { return snapshot(f) }

// FixtureEvent represents one in-match event (goal, card, substitution).
type FixtureEvent struct {
	Base
	Elapsed   int    `gorm:"column:elapsed" json:"elapsed"`
	Extra     int    `gorm:"column:extra" json:"extra"`
	Type      string `gorm:"column:type;size:50;index" json:"type"`
	Detail    string `gorm:"column:detail;size:100" json:"detail"`
	Comments  string `gorm:"column:comments;size:255" json:"comments"`
	FixtureID uint   `gorm:"column:fixture_id;index" json:"fixture_id"`
	TeamID    uint   `gorm:"column:team_id;index" json:"team_id"`
	PlayerID  uint   `gorm:"column:player_id" json:"player_id"`
	AssistID  uint   `gorm:"column:assist_id" json:"assist_id"`
}

func (FixtureEvent) TableName() string { return "fixture_events" }

func (e *FixtureEvent) Snapshot() map[string]any { return snapshot(e) }

// FixtureScore represents one team's score breakdown for a fixture.
type FixtureScore struct {
	Base
	Halftime  int  `gorm:"column:halftime" json:"halftime"`
	Fulltime  int  `gorm:"column:fulltime" json:"fulltime"`
	Extratime int  `gorm:"column:extratime" json:"extratime"`
	Penalty   int  `gorm:"column:penalty" json:"penalty"`
	FixtureID uint `gorm:"column:fixture_id;index" json:"fixture_id"`
	TeamID    uint `gorm:"column:team_id;index" json:"team_id"`
}

func (FixtureScore) TableName() string { return "fixture_scores" }

func (s *FixtureScore) Snapshot() map[string]any { return snapshot(s) }

// FixtureStatistic represents one team statistic for a fixture.
// Percentages are stored as plain decimals.
type FixtureStatistic struct {
	Base
	Type      string  `gorm:"column:type;size:50;index" json:"type"`
	Value     float64 `gorm:"column:value" json:"value"`
	FixtureID uint    `gorm:"column:fixture_id;index" json:"fixture_id"`
	TeamID    uint    `gorm:"column:team_id;index" json:"team_id"`
}

func (FixtureStatistic) TableName() string { return "fixture_statistics" }

func (s *FixtureStatistic) Snapshot() map[string]any { return snapshot(s) }

// FixtureLineup represents one team's formation and kit colors for a
// fixture.
type FixtureLineup struct {
	Base
	Formation          string `gorm:"column:formation;size:10" json:"formation"`
	PlayerPrimaryColor string `gorm:"column:player_primary_color;size:6" json:"player_primary_color"`
	PlayerNumberColor  string `gorm:"column:player_number_color;size:6" json:"player_number_color"`
	PlayerBorderColor  string `gorm:"column:player_border_color;size:6" json:"player_border_color"`
	KeeperPrimaryColor string `gorm:"column:goalkeeper_primary_color;size:6" json:"goalkeeper_primary_color"`
	KeeperNumberColor  string `gorm:"column:goalkeeper_number_color;size:6" json:"goalkeeper_number_color"`
	KeeperBorderColor  string `gorm:"column:goalkeeper_border_color;size:6" json:"goalkeeper_border_color"`
	FixtureID          uint   `gorm:"column:fixture_id;index" json:"fixture_id"`
	TeamID             uint   `gorm:"column:team_id;index" json:"team_id"`
}

func (FixtureLineup) TableName() string { return "fixture_lineups" }

func (l *FixtureLineup) Snapshot() map[string]any { return snapshot(l) }

// PlayerStatistic represents one player's per-fixture statistics.
type PlayerStatistic struct {
	Base
	Minutes          int     `gorm:"column:minutes" json:"minutes"`
	Position         string  `gorm:"column:position;size:20" json:"position"`
	Number           int     `gorm:"column:number" json:"number"`
	Rating           float64 `gorm:"column:rating" json:"rating"`
	Captain          bool    `gorm:"column:captain" json:"captain"`
	Substitute       bool    `gorm:"column:substitute" json:"substitute"`
	ShotsTotal       int     `gorm:"column:shots_total" json:"shots_total"`
	ShotsOn          int     `gorm:"column:shots_on" json:"shots_on"`
	Goals            int     `gorm:"column:goals" json:"goals"`
	Conceded         int     `gorm:"column:conceded" json:"conceded"`
	Assists          int     `gorm:"column:assists" json:"assists"`
	Saves            int     `gorm:"column:saves" json:"saves"`
	PassesTotal      int     `gorm:"column:passes_total" json:"passes_total"`
	PassesKey        int     `gorm:"column:passes_key" json:"passes_key"`
	PassAccuracy     float64 `gorm:"column:pass_accuracy" json:"pass_accuracy"`
	Tackles          int     `gorm:"column:tackles" json:"tackles"`
	Blocks           int     `gorm:"column:blocks" json:"blocks"`
	Interceptions    int     `gorm:"column:interceptions" json:"interceptions"`
	DuelsTotal       int     `gorm:"column:duels_total" json:"duels_total"`
	DuelsWon         int     `gorm:"column:duels_won" json:"duels_won"`
	DribbleAttempts  int     `gorm:"column:dribbles_attempts" json:"dribbles_attempts"`
	DribbleSuccesses int     `gorm:"column:dribbles_success" json:"dribbles_success"`
	FoulsDrawn       int     `gorm:"column:fouls_drawn" json:"fouls_drawn"`
	FoulsCommitted   int     `gorm:"column:fouls_committed" json:"fouls_committed"`
	YellowCards      int     `gorm:"column:yellow_cards" json:"yellow_cards"`
	RedCards         int     `gorm:"column:red_cards" json:"red_cards"`
	PenaltiesScored  int     `gorm:"column:penalties_scored" json:"penalties_scored"`
	PenaltiesMissed  int     `gorm:"column:penalties_missed" json:"penalties_missed"`
	PenaltiesSaved   int     `gorm:"column:penalties_saved" json:"penalties_saved"`
	Offsides         int     `gorm:"column:offsides" json:"offsides"`
	FixtureID        uint    `gorm:"column:fixture_id;index" json:"fixture_id"`
	TeamID           uint    `gorm:"column:team_id;index" json:"team_id"`
	PlayerID         uint    `gorm:"column:player_id;index" json:"player_id"`
}

func (PlayerStatistic) TableName() string { return "player_statistics" }

func (s *PlayerStatistic) Snapshot() map[string]any { return snapshot(s) }

// Odds represents one bookmaker quote for a fixture market.
type Odds struct {
	Base
	Bookmaker   string  `gorm:"column:bookmaker;size:100;index" json:"bookmaker"`
	Market      string  `gorm:"column:market;size:100;index" json:"market"`
	Value       string  `gorm:"column:value;size:50" json:"value"`
	Coefficient float64 `gorm:"column:coefficient" json:"coefficient"`
	FixtureID   uint    `gorm:"column:fixture_id;index" json:"fixture_id"`
}

func (Odds) TableName() string { return "odds" }

func (o *Odds) Snapshot() map[string]any { return snapshot(o) }

// Standing represents one team's row in a season table.
type Standing struct {
	Base
	Rank         int    `gorm:"column:rank" json:"rank"`
	Points       int    `gorm:"column:points" json:"points"`
	GoalsDiff    int    `gorm:"column:goals_diff" json:"goals_diff"`
	GroupName    string `gorm:"column:group_name;size:100" json:"group_name"`
	Form         string `gorm:"column:form;size:10" json:"form"`
	Status       string `gorm:"column:status;size:20" json:"status"`
	Description  string `gorm:"column:description;size:100" json:"description"`
	Played       int    `gorm:"column:played" json:"played"`
	Won          int    `gorm:"column:won" json:"won"`
	Drawn        int    `gorm:"column:drawn" json:"drawn"`
	Lost         int    `gorm:"column:lost" json:"lost"`
	GoalsFor     int    `gorm:"column:goals_for" json:"goals_for"`
	GoalsAgainst int    `gorm:"column:goals_against" json:"goals_against"`
	SeasonID     uint   `gorm:"column:season_id;index" json:"season_id"`
	TeamID       uint   `gorm:"column:team_id;index" json:"team_id"`
}

func (Standing) TableName() string { return "standings" }

func (s *Standing) Snapshot() map[string]any { return snapshot(s) }

// Compile-time checks that every entity satisfies the Model contract.
var (
	_ Model = (*Country)(nil)
	_ Model = (*Venue)(nil)
	_ Model = (*League)(nil)
	_ Model = (*Season)(nil)
	_ Model = (*Team)(nil)
	_ Model = (*Player)(nil)
	_ Model = (*Coach)(nil)
	_ Model = (*Fixture)(nil)
	_ Model = (*FixtureEvent)(nil)
	_ Model = (*FixtureScore)(nil)
	_ Model = (*FixtureStatistic)(nil)
	_ Model = (*FixtureLineup)(nil)
	_ Model = (*PlayerStatistic)(nil)
	_ Model = (*Odds)(nil)
	_ Model = (*Standing)(nil)
)
