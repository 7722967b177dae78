package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is one synchronization run over a set of entity kinds.
type Job struct {
	ID      string
	Kinds   []EntityKind
	Filter  Filter
	Policy  Policy
	Started time.Time
	Ended   time.Time
	Result  Result
}

// NewJob builds a job with a fresh identifier.
func NewJob(kinds []EntityKind, filter Filter, policy Policy) *Job {
	return &Job{
		ID:     uuid.NewString(),
		Kinds:  kinds,
		Filter: filter,
		Policy: policy,
	}
}

// Runner drives a whole job: it orders the requested kinds by their
// dependencies, fetches each kind, reconciles records on a bounded
// worker pool with retries, and finally deactivates entities the
// provider no longer returns.
type Runner struct {
	Source Source
	Repo   Repository
	Graph  *Graph
	Jobs   JobStore
	Config Config
	Logger *zap.Logger
}

// NewRunner wires a runner. Jobs may be nil when no job bookkeeping is
// wanted, for example under tests.
func NewRunner(source Source, repo Repository, graph *Graph, jobs JobStore, cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Source: source, Repo: repo, Graph: graph, Jobs: jobs, Config: cfg, Logger: logger}
}

// Run executes the job. The job's result is filled in even when the
// run ends early, so committed work is always reported. The returned
// error is nil unless the run was aborted; per-record failures only
// raise the failed count.
func (r *Runner) Run(ctx context.Context, job *Job) error {
	ordered, err := r.Graph.Order(job.Kinds)
	if err != nil {
		return err
	}
	if len(ordered) == 0 {
		return NewConfiguration("no entity kinds requested")
	}
	if job.Policy.DeactivateMissing && job.Filter.Singleton() {
		return NewConfiguration("deactivation needs a scope-complete fetch, not an explicit id list")
	}
	if job.Filter.Timezone == "" {
		job.Filter.Timezone = r.Config.Timezone
	}
	if job.Filter.Timezone != "" {
		if _, err := time.LoadLocation(job.Filter.Timezone); err != nil {
			return NewConfiguration("unknown timezone %q", job.Filter.Timezone)
		}
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.Started = time.Now()

	log := r.Logger.With(zap.String("job_id", job.ID))
	log.Info("sync started",
		zap.Strings("kinds", kindNames(ordered)),
		zap.Bool("dry_run", job.Policy.DryRun))

	if r.Jobs != nil {
		if err := r.Jobs.Begin(ctx, job); err != nil {
			return NewFatal("begin job", err)
		}
	}

	st := NewState()
	runErr := r.runKinds(ctx, st, job, ordered, log)
	job.Result.Created += st.ParentCreates()
	job.Ended = time.Now()

	if r.Jobs != nil {
		if err := r.Jobs.Finish(ctx, job, runErr); err != nil {
			log.Warn("job record not finalized", zap.Error(err))
		}
	}

	log.Info("sync finished",
		zap.Int("created", job.Result.Created),
		zap.Int("updated", job.Result.Updated),
		zap.Int("skipped", job.Result.Skipped),
		zap.Int("deactivated", job.Result.Deactivated),
		zap.Int("failed", job.Result.Failed),
		zap.Duration("elapsed", job.Ended.Sub(job.Started)))
	return runErr
}

func (r *Runner) runKinds(ctx context.Context, st *State, job *Job, kinds []EntityKind, log *zap.Logger) error {
	for _, kind := range kinds {
		log.Debug("syncing kind", zap.String("kind", string(kind)))
		observed := make(map[int64]bool)
		if err := r.syncKind(ctx, st, job, kind, observed, log); err != nil {
			return err
		}
		if job.Policy.DeactivateMissing {
			if err := r.deactivateAbsent(ctx, st, job, kind, observed, log); err != nil {
				return err
			}
		}
	}
	return nil
}

// syncKind fetches one kind and reconciles it. With --all set, pages
// stream through the pool as they arrive instead of buffering the
// whole result set first.
func (r *Runner) syncKind(ctx context.Context, st *State, job *Job, kind EntityKind, observed map[int64]bool, log *zap.Logger) error {
	fetcher := NewFetcher(r.Source, log)
	if job.Filter.All {
		return fetcher.Stream(ctx, kind, job.Filter, func(records []Record) error {
			return r.reconcileBatch(ctx, st, job, kind, records, observed, log)
		})
	}
	records, err := fetcher.FetchAll(ctx, kind, job.Filter)
	if err != nil {
		return err
	}
	return r.reconcileBatch(ctx, st, job, kind, records, observed, log)
}

// reconcileBatch runs one batch through the worker pool. Outcome and
// failure slots are index-aligned with the input so no worker ever
// touches another worker's slot and the error order stays stable.
func (r *Runner) reconcileBatch(ctx context.Context, st *State, job *Job, kind EntityKind, records []Record, observed map[int64]bool, log *zap.Logger) error {
	if len(records) == 0 {
		return nil
	}
	for _, rec := range records {
		if rec.ExternalID != 0 {
			observed[rec.ExternalID] = true
		}
	}

	outcomes := make([]Outcome, len(records))
	failures := make([]error, len(records))

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(r.Config.WorkerLimit())
	backoff := r.Config.Backoff()
	attempts := r.Config.Attempts()
	reconciler := NewReconciler(r.Repo, r.Graph, r.Logger)

	for i, rec := range records {
		i, rec := i, rec
		grp.Go(func() error {
			// Once any worker aborts the run there is no point
			// starting the remaining records.
			if gctx.Err() != nil {
				return nil
			}
			if rec.ExternalID != 0 && !st.MarkSeen(kind, rec.ExternalID) {
				outcomes[i] = Outcome{Action: ActionSkip}
				return nil
			}
			err := Retry(gctx, attempts, backoff, func() error {
				out, err := reconciler.ReconcileRecord(gctx, st, job.ID, rec, job.Policy)
				if err != nil {
					return err
				}
				outcomes[i] = out
				return nil
			})
			if err != nil {
				if IsFatal(err) {
					return err
				}
				failures[i] = err
			}
			return nil
		})
	}

	err := grp.Wait()
	r.tally(&job.Result, kind, records, outcomes, failures, log)
	return err
}

func (r *Runner) tally(result *Result, kind EntityKind, records []Record, outcomes []Outcome, failures []error, log *zap.Logger) {
	for i := range records {
		if err := failures[i]; err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RecordError{
				Kind:       kind,
				ExternalID: records[i].ExternalID,
				Class:      Classify(err),
				Message:    err.Error(),
			})
			log.Warn("record failed",
				zap.String("kind", string(kind)),
				zap.Int64("external_id", records[i].ExternalID),
				zap.Error(err))
			continue
		}
		switch outcomes[i].Action {
		case ActionCreate:
			result.Created++
		case ActionUpdate:
			result.Updated++
		case ActionSkip:
			result.Skipped++
		}
	}
}

// deactivateAbsent turns off active entities the provider stopped
// returning for the job's scope. Entities handled earlier in the same
// job, auto-created parents included, are never touched.
func (r *Runner) deactivateAbsent(ctx context.Context, st *State, job *Job, kind EntityKind, observed map[int64]bool, log *zap.Logger) error {
	active, err := r.Repo.ActiveExternalIDs(ctx, kind, job.Filter)
	if err != nil {
		return err
	}

	for _, id := range active {
		if observed[id] || st.Seen(kind, id) {
			continue
		}
		if job.Policy.DryRun {
			job.Result.Deactivated++
			continue
		}

		entity, err := r.Repo.FindByExternalID(ctx, kind, id)
		if err != nil {
			if IsFatal(err) {
				return err
			}
			job.Result.Failed++
			job.Result.Errors = append(job.Result.Errors, RecordError{
				Kind: kind, ExternalID: id, Class: Classify(err), Message: err.Error(),
			})
			continue
		}
		if entity == nil {
			continue
		}
		if err := r.Repo.Deactivate(ctx, job.ID, kind, entity); err != nil {
			if IsFatal(err) {
				return err
			}
			job.Result.Failed++
			job.Result.Errors = append(job.Result.Errors, RecordError{
				Kind: kind, ExternalID: id, Class: Classify(err), Message: err.Error(),
			})
			continue
		}
		job.Result.Deactivated++
		log.Debug("deactivated entity",
			zap.String("kind", string(kind)),
			zap.Int64("external_id", id))
	}
	return nil
}

func kindNames(kinds []EntityKind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}
