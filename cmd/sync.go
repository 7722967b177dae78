package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"football-sync/core/engine"
	"football-sync/core/provider"
	"football-sync/core/ratelimit"
	"football-sync/feature/football/descriptors"
	"football-sync/feature/football/models"
	"football-sync/feature/football/repository"

	"github.com/spf13/cobra"
)

var (
	// Policy flags. Create and update default on so a plain sync run
	// behaves like the provider's upsert.
	syncCreateMissing     bool
	syncUpdateExisting    bool
	syncDeactivateMissing bool
	syncForce             bool
	syncDryRun            bool
	syncCreateTeams       bool
	syncCreateCountries   bool
	syncCreateSeasons     bool

	// Filter flags.
	syncAll      bool
	syncIDs      []int64
	syncLeague   int64
	syncSeason   int
	syncTeam     int64
	syncPlayer   int64
	syncFixture  int64
	syncVenue    int64
	syncDate     string
	syncFrom     string
	syncTo       string
	syncStatus   string
	syncRound    string
	syncSearch   string
	syncLive     bool
	syncLast     int
	syncNext     int
	syncTimezone string
	syncPage     int
	syncLimit    int

	// Runtime flags.
	syncWorkers int

	// Fixture child expansion.
	includeEvents     bool
	includeLineups    bool
	includeStatistics bool
)

// syncCmd is the parent command for all synchronization operations.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize entities from the provider into local storage",
	Long: `Fetch one or more pages of records from the provider, resolve their
dependencies and reconcile them into local storage under the configured
policy. Per-record failures are reported in the job summary without
failing the whole run; the exit code is non-zero only when the job
aborts.`,
}

type syncTarget struct {
	use   string
	short string
	kinds []engine.EntityKind
}

var syncTargets = []syncTarget{
	{"countries", "Synchronize countries", []engine.EntityKind{models.KindCountry}},
	{"venues", "Synchronize venues", []engine.EntityKind{models.KindVenue}},
	{"leagues", "Synchronize leagues", []engine.EntityKind{models.KindLeague}},
	{"seasons", "Synchronize seasons of a league", []engine.EntityKind{models.KindSeason}},
	{"teams", "Synchronize teams", []engine.EntityKind{models.KindTeam}},
	{"players", "Synchronize players of a team or league season", []engine.EntityKind{models.KindPlayer}},
	{"coaches", "Synchronize coaches", []engine.EntityKind{models.KindCoach}},
	{"standings", "Synchronize league standings", []engine.EntityKind{models.KindStanding}},
	{"odds", "Synchronize pre-match odds", []engine.EntityKind{models.KindOdds}},
}

func init() {
	flags := syncCmd.PersistentFlags()

	flags.BoolVar(&syncCreateMissing, "create-missing", true, "Create entities that have no local counterpart")
	flags.BoolVar(&syncUpdateExisting, "update-existing", true, "Update entities that already exist locally")
	flags.BoolVar(&syncDeactivateMissing, "deactivate-missing", false, "Deactivate local entities the fetch no longer returns (needs a scope-complete fetch)")
	flags.BoolVar(&syncForce, "force", false, "Update existing entities even when --update-existing is off")
	flags.BoolVar(&syncDryRun, "dry-run", false, "Compute and report every decision without writing anything")
	flags.BoolVar(&syncCreateTeams, "create-teams", false, "Auto-create missing teams referenced by fetched records")
	flags.BoolVar(&syncCreateCountries, "create-countries", false, "Auto-create missing countries referenced by fetched records")
	flags.BoolVar(&syncCreateSeasons, "create-seasons", false, "Auto-create missing seasons referenced by fetched records")

	flags.BoolVar(&syncAll, "all", false, "Iterate every page, reconciling each page before fetching the next")
	flags.Int64SliceVar(&syncIDs, "id", nil, "Explicit external id(s) to fetch (repeatable)")
	flags.Int64Var(&syncLeague, "league", 0, "League external id")
	flags.IntVar(&syncSeason, "season", 0, "Season year (e.g. 2023)")
	flags.Int64Var(&syncTeam, "team", 0, "Team external id")
	flags.Int64Var(&syncPlayer, "player", 0, "Player external id")
	flags.Int64Var(&syncFixture, "fixture", 0, "Fixture external id (scopes events, lineups, statistics, odds)")
	flags.Int64Var(&syncVenue, "venue", 0, "Venue external id")
	flags.StringVar(&syncDate, "date", "", "Single date (YYYY-MM-DD)")
	flags.StringVar(&syncFrom, "from", "", "Start date (YYYY-MM-DD)")
	flags.StringVar(&syncTo, "to", "", "End date (YYYY-MM-DD)")
	flags.StringVar(&syncStatus, "status", "", "Fixture status code(s), comma separated (e.g. NS,FT)")
	flags.StringVar(&syncRound, "round", "", "Round name (e.g. \"Regular Season - 1\")")
	flags.StringVar(&syncSearch, "search", "", "Free-text search")
	flags.BoolVar(&syncLive, "live", false, "Fixtures currently in play")
	flags.IntVar(&syncLast, "last", 0, "Most recent N fixtures")
	flags.IntVar(&syncNext, "next", 0, "Upcoming N fixtures")
	flags.StringVar(&syncTimezone, "timezone", "", "Timezone applied to fetched timestamps (default from config)")
	flags.IntVar(&syncPage, "page", 0, "Fetch a single provider page")
	flags.IntVar(&syncLimit, "limit", 0, "Cap the number of fetched records")
	flags.IntVar(&syncWorkers, "workers", 0, "Concurrent reconciliation workers (default from config)")

	for _, target := range syncTargets {
		kinds := target.kinds
		syncCmd.AddCommand(&cobra.Command{
			Use:   target.use,
			Short: target.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runSync(cmd, kinds)
			},
		})
	}

	fixturesCmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Synchronize fixtures, optionally with their per-match details",
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := []engine.EntityKind{models.KindFixture, models.KindScore}
			if includeEvents {
				kinds = append(kinds, models.KindEvent)
			}
			if includeLineups {
				kinds = append(kinds, models.KindLineup)
			}
			if includeStatistics {
				kinds = append(kinds, models.KindStatistic)
			}
			return runSync(cmd, kinds)
		},
	}
	fixturesCmd.Flags().BoolVar(&includeEvents, "include-events", false, "Also load match events (needs --fixture or --id)")
	fixturesCmd.Flags().BoolVar(&includeLineups, "include-lineups", false, "Also load lineups (needs --fixture or --id)")
	fixturesCmd.Flags().BoolVar(&includeStatistics, "include-statistics", false, "Also load team statistics (needs --fixture or --id)")
	syncCmd.AddCommand(fixturesCmd)

	RootCmd.AddCommand(syncCmd)
}

func buildPolicy() engine.Policy {
	return engine.Policy{
		CreateMissing:     syncCreateMissing,
		UpdateExisting:    syncUpdateExisting,
		DeactivateMissing: syncDeactivateMissing,
		Force:             syncForce,
		DryRun:            syncDryRun,
		AutoCreate: map[engine.EntityKind]bool{
			models.KindTeam:    syncCreateTeams,
			models.KindCountry: syncCreateCountries,
			models.KindSeason:  syncCreateSeasons,
		},
	}
}

func buildFilter() engine.Filter {
	live := ""
	if syncLive {
		live = "all"
	}
	return engine.Filter{
		IDs:      syncIDs,
		League:   syncLeague,
		Season:   syncSeason,
		Team:     syncTeam,
		Player:   syncPlayer,
		Fixture:  syncFixture,
		Venue:    syncVenue,
		Date:     syncDate,
		From:     syncFrom,
		To:       syncTo,
		Status:   syncStatus,
		Round:    syncRound,
		Search:   syncSearch,
		Live:     live,
		Last:     syncLast,
		Next:     syncNext,
		Timezone: syncTimezone,
		Page:     syncPage,
		Limit:    syncLimit,
		All:      syncAll,
	}
}

func runSync(cmd *cobra.Command, kinds []engine.EntityKind) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, db, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	if syncWorkers > 0 {
		cfg.Sync.Workers = syncWorkers
	}

	limiter := ratelimit.New(cfg.RateLimit)
	source := provider.New(cfg.Provider, descriptors.NewRegistry(), limiter, l)
	repo := repository.New(db, l)
	jobs := repository.NewJobStore(db)
	runner := engine.NewRunner(source, repo, descriptors.Graph(), jobs, cfg.Sync, l)

	job := engine.NewJob(kinds, buildFilter(), buildPolicy())
	runErr := runner.Run(ctx, job)
	printSummary(job)

	if runErr != nil {
		return fmt.Errorf("sync aborted: %w", runErr)
	}
	return nil
}

// printSummary writes the human-readable job report. Per-record
// failures are listed with enough detail to re-run just the failed
// subset; they do not affect the exit code.
func printSummary(job *engine.Job) {
	r := job.Result

	fmt.Printf("\nJob %s", job.ID)
	if job.Policy.DryRun {
		fmt.Print(" (dry run)")
	}
	fmt.Println()
	fmt.Printf("  created:     %d\n", r.Created)
	fmt.Printf("  updated:     %d\n", r.Updated)
	fmt.Printf("  skipped:     %d\n", r.Skipped)
	fmt.Printf("  deactivated: %d\n", r.Deactivated)
	fmt.Printf("  failed:      %d\n", r.Failed)
	fmt.Printf("  elapsed:     %s\n", job.Ended.Sub(job.Started).Round(time.Millisecond))

	if len(r.Errors) > 0 {
		fmt.Println("\nFailures:")
		for _, e := range r.Errors {
			fmt.Printf("  %s %d [%s]: %s\n", e.Kind, e.ExternalID, e.Class, e.Message)
		}
	}
}
