package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memEntity struct {
	id       uint
	external int64
	active   bool
	fields   map[string]any
}

func (e *memEntity) LocalID() uint            { return e.id }
func (e *memEntity) External() int64          { return e.external }
func (e *memEntity) IsActive() bool           { return e.active }
func (e *memEntity) Snapshot() map[string]any { return e.fields }

// memRepo is an in-memory Repository that logs every mutation so tests
// can assert on operation order and on dry-run purity.
type memRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[EntityKind]map[int64]*memEntity
	ops    []string
	fail   map[string]error
}

func newMemRepo() *memRepo {
	return &memRepo{
		rows: make(map[EntityKind]map[int64]*memEntity),
		fail: make(map[string]error),
	}
}

func opKey(op string, kind EntityKind, externalID int64) string {
	return fmt.Sprintf("%s %s %d", op, kind, externalID)
}

func (r *memRepo) seed(kind EntityKind, externalID int64, active bool, fields map[string]any) *memEntity {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	e := &memEntity{id: r.nextID, external: externalID, active: active, fields: copied}
	if r.rows[kind] == nil {
		r.rows[kind] = make(map[int64]*memEntity)
	}
	r.rows[kind][externalID] = e
	return e
}

func (r *memRepo) failWith(op string, kind EntityKind, externalID int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[opKey(op, kind, externalID)] = err
}

func (r *memRepo) entity(kind EntityKind, externalID int64) *memEntity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[kind][externalID]
}

func (r *memRepo) opList() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.ops))
	copy(out, r.ops)
	return out
}

func (r *memRepo) FindByExternalID(ctx context.Context, kind EntityKind, externalID int64) (Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[opKey("find", kind, externalID)]; err != nil {
		return nil, err
	}
	e, ok := r.rows[kind][externalID]
	if !ok {
		return nil, nil
	}
	return e, nil
}

func (r *memRepo) Create(ctx context.Context, jobID string, kind EntityKind, externalID int64, fields map[string]any) (Entity, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[opKey("create", kind, externalID)]; err != nil {
		return nil, false, err
	}
	if e, ok := r.rows[kind][externalID]; ok {
		return e, false, nil
	}
	r.nextID++
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	e := &memEntity{id: r.nextID, external: externalID, active: true, fields: copied}
	if r.rows[kind] == nil {
		r.rows[kind] = make(map[int64]*memEntity)
	}
	r.rows[kind][externalID] = e
	r.ops = append(r.ops, opKey("create", kind, externalID))
	return e, true, nil
}

func (r *memRepo) Update(ctx context.Context, jobID string, kind EntityKind, entity Entity, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[opKey("update", kind, entity.External())]; err != nil {
		return err
	}
	e := entity.(*memEntity)
	for k, v := range fields {
		e.fields[k] = v
	}
	e.active = true
	r.ops = append(r.ops, opKey("update", kind, entity.External()))
	return nil
}

func (r *memRepo) Deactivate(ctx context.Context, jobID string, kind EntityKind, entity Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail[opKey("deactivate", kind, entity.External())]; err != nil {
		return err
	}
	entity.(*memEntity).active = false
	r.ops = append(r.ops, opKey("deactivate", kind, entity.External()))
	return nil
}

func (r *memRepo) ActiveExternalIDs(ctx context.Context, kind EntityKind, filter Filter) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for id, e := range r.rows[kind] {
		if e.active {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// memSource serves canned pages per kind, with the cursor encoding the
// next page index.
type memSource struct {
	mu    sync.Mutex
	pages map[EntityKind][][]Record
	calls int
}

func (s *memSource) Fetch(ctx context.Context, kind EntityKind, filter Filter, cursor string) ([]Record, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	pages := s.pages[kind]
	at := 0
	if cursor != "" {
		at, _ = strconv.Atoi(cursor)
	}
	if at >= len(pages) {
		return nil, "", nil
	}
	next := ""
	if at+1 < len(pages) {
		next = strconv.Itoa(at + 1)
	}
	return pages[at], next, nil
}

type memJobStore struct {
	mu         sync.Mutex
	began      []string
	finished   []string
	finishErrs []error
	beginErr   error
}

func (s *memJobStore) Begin(ctx context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.beginErr != nil {
		return s.beginErr
	}
	s.began = append(s.began, job.ID)
	return nil
}

func (s *memJobStore) Finish(ctx context.Context, job *Job, jobErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = append(s.finished, job.ID)
	s.finishErrs = append(s.finishErrs, jobErr)
	return nil
}

func teamRecord(externalID int64, name string) Record {
	return Record{
		Kind:       "team",
		ExternalID: externalID,
		Fields:     map[string]any{"name": name},
	}
}

func teamPage(from, to int) []Record {
	var out []Record
	for i := from; i <= to; i++ {
		out = append(out, teamRecord(int64(i), fmt.Sprintf("Team %d", i)))
	}
	return out
}

func testReconciler(repo Repository) *Reconciler {
	return NewReconciler(repo, testGraph(), zap.NewNop())
}

func testRunner(source Source, repo Repository, jobs JobStore) *Runner {
	cfg := Config{Workers: 4, MaxAttempts: 2, RetryInitialMS: 1, RetryMaxMS: 2, RetryMultiple: 2, Timezone: "UTC"}
	return NewRunner(source, repo, testGraph(), jobs, cfg, zap.NewNop())
}

func TestReconcileDecisions(t *testing.T) {
	tests := []struct {
		name     string
		existing bool
		policy   Policy
		expected Action
	}{
		{name: "Absent Created", existing: false, policy: Policy{CreateMissing: true}, expected: ActionCreate},
		{name: "Absent Left Alone", existing: false, policy: Policy{UpdateExisting: true}, expected: ActionSkip},
		{name: "Existing Updated", existing: true, policy: Policy{UpdateExisting: true}, expected: ActionUpdate},
		{name: "Existing Left Alone", existing: true, policy: Policy{CreateMissing: true}, expected: ActionSkip},
		{name: "Force Overrides Update Flag", existing: true, policy: Policy{Force: true}, expected: ActionUpdate},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := newMemRepo()
			if test.existing {
				repo.seed("team", 85, true, map[string]any{"name": "Old Name"})
			}

			out, err := testReconciler(repo).ReconcileRecord(context.Background(), NewState(), "job-1", teamRecord(85, "New Name"), test.policy)

			require.NoError(t, err)
			assert.Equal(t, test.expected, out.Action)
		})
	}
}

func TestReconcileNoOpUpdate(t *testing.T) {
	repo := newMemRepo()
	repo.seed("team", 40, true, map[string]any{"name": "Liverpool"})

	out, err := testReconciler(repo).ReconcileRecord(context.Background(), NewState(), "job-1", teamRecord(40, "Liverpool"), Policy{UpdateExisting: true})

	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, out.Action)
	assert.True(t, out.NoOp)
	assert.Empty(t, repo.opList(), "identical values must not touch storage")
}

func TestReconcileReactivates(t *testing.T) {
	repo := newMemRepo()
	repo.seed("team", 40, false, map[string]any{"name": "Liverpool"})

	out, err := testReconciler(repo).ReconcileRecord(context.Background(), NewState(), "job-1", teamRecord(40, "Liverpool"), Policy{UpdateExisting: true})

	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, out.Action)
	assert.False(t, out.NoOp, "an inactive entity always needs a real update")
	assert.True(t, repo.entity("team", 40).active)
}

func TestReconcileRejectsZeroExternalID(t *testing.T) {
	repo := newMemRepo()

	_, err := testReconciler(repo).ReconcileRecord(context.Background(), NewState(), "job-1", Record{Kind: "team"}, Policy{CreateMissing: true})

	require.Error(t, err)
	assert.Equal(t, ClassValidation, Classify(err))
}

func TestReconcileUnknownKind(t *testing.T) {
	repo := newMemRepo()
	rec := Record{Kind: "widget", ExternalID: 1}

	_, err := testReconciler(repo).ReconcileRecord(context.Background(), NewState(), "job-1", rec, Policy{CreateMissing: true})

	require.Error(t, err)
	assert.Equal(t, ClassConfiguration, Classify(err))
}

func TestReconcileMissingRequiredReference(t *testing.T) {
	repo := newMemRepo()
	rec := Record{Kind: "fixture", ExternalID: 1001, Fields: map[string]any{"status": "NS"}}

	_, err := testReconciler(repo).ReconcileRecord(context.Background(), NewState(), "job-1", rec, Policy{CreateMissing: true})

	require.Error(t, err)
	assert.Equal(t, ClassValidation, Classify(err))
	assert.Contains(t, err.Error(), "season")
}

func TestReconcileMissingParentFails(t *testing.T) {
	repo := newMemRepo()
	rec := Record{
		Kind:       "league",
		ExternalID: 39,
		Fields:     map[string]any{"name": "Premier League"},
		Parents:    []ParentRef{{Kind: "country", ExternalID: 9}},
	}

	_, err := testReconciler(repo).ReconcileRecord(context.Background(), NewState(), "job-1", rec, Policy{CreateMissing: true})

	require.Error(t, err)
	assert.Equal(t, ClassMissingDependency, Classify(err))
	assert.Nil(t, repo.entity("league", 39))
}

func TestReconcileOptionalParentAbsent(t *testing.T) {
	repo := newMemRepo()
	rec := teamRecord(85, "Newcastle")
	rec.Parents = []ParentRef{{Kind: "venue", ExternalID: 550, Optional: true}}

	out, err := testReconciler(repo).ReconcileRecord(context.Background(), NewState(), "job-1", rec, Policy{CreateMissing: true})

	require.NoError(t, err)
	assert.Equal(t, ActionCreate, out.Action)
	_, linked := repo.entity("team", 85).fields["venue_id"]
	assert.False(t, linked)
}

func TestReconcileLinksExistingParent(t *testing.T) {
	repo := newMemRepo()
	country := repo.seed("country", 9, true, map[string]any{"name": "England"})
	rec := Record{
		Kind:       "league",
		ExternalID: 39,
		Fields:     map[string]any{"name": "Premier League"},
		Parents:    []ParentRef{{Kind: "country", ExternalID: 9}},
	}

	_, err := testReconciler(repo).ReconcileRecord(context.Background(), NewState(), "job-1", rec, Policy{CreateMissing: true})

	require.NoError(t, err)
	assert.Equal(t, country.id, repo.entity("league", 39).fields["country_id"])
}

func TestReconcileAutoCreatesParentChain(t *testing.T) {
	repo := newMemRepo()
	st := NewState()
	rec := Record{
		Kind:       "fixture",
		ExternalID: 1001,
		Fields:     map[string]any{"status": "NS"},
		Parents: []ParentRef{
			{
				Kind:       "season",
				ExternalID: 392024,
				Fields:     map[string]any{"year": 2024},
				Parents: []ParentRef{
					{
						Kind:       "league",
						ExternalID: 39,
						Fields:     map[string]any{"name": "Premier League"},
						Parents:    []ParentRef{{Kind: "country", ExternalID: 9, Fields: map[string]any{"name": "England"}}},
					},
				},
			},
			{Kind: "team", ExternalID: 85, Role: "home_team", Fields: map[string]any{"name": "Newcastle"}},
			{Kind: "team", ExternalID: 40, Role: "away_team", Fields: map[string]any{"name": "Liverpool"}},
		},
	}
	policy := Policy{
		CreateMissing: true,
		AutoCreate:    map[EntityKind]bool{"country": true, "league": true, "season": true, "team": true},
	}

	out, err := testReconciler(repo).ReconcileRecord(context.Background(), st, "job-1", rec, policy)

	require.NoError(t, err)
	assert.Equal(t, ActionCreate, out.Action)
	assert.Equal(t, 5, st.ParentCreates())
	assert.Equal(t, []string{
		"create country 9",
		"create league 39",
		"create season 392024",
		"create team 85",
		"create team 40",
		"create fixture 1001",
	}, repo.opList())

	fixture := repo.entity("fixture", 1001)
	assert.Equal(t, repo.entity("season", 392024).id, fixture.fields["season_id"])
	assert.Equal(t, repo.entity("team", 85).id, fixture.fields["home_team_id"])
	assert.Equal(t, repo.entity("team", 40).id, fixture.fields["away_team_id"])
}

func TestReconcileAutoCreateRevisitedKind(t *testing.T) {
	g := NewGraph()
	g.Add("a", ParentEdge{Kind: "b"})
	g.Add("b", ParentEdge{Kind: "a"})
	repo := newMemRepo()
	r := NewReconciler(repo, g, zap.NewNop())
	rec := Record{
		Kind:       "a",
		ExternalID: 1,
		Parents: []ParentRef{
			{Kind: "b", ExternalID: 2, Parents: []ParentRef{{Kind: "a", ExternalID: 3}}},
		},
	}
	policy := Policy{CreateMissing: true, AutoCreate: map[EntityKind]bool{"a": true, "b": true}}

	_, err := r.ReconcileRecord(context.Background(), NewState(), "job-1", rec, policy)

	require.Error(t, err)
	assert.Equal(t, ClassConfiguration, Classify(err))
	assert.Contains(t, err.Error(), "revisited")
}

func TestReconcileDryRunPlansCreate(t *testing.T) {
	repo := newMemRepo()
	st := NewState()

	out, err := testReconciler(repo).ReconcileRecord(context.Background(), st, "job-1", teamRecord(85, "Newcastle"), Policy{CreateMissing: true, DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, ActionCreate, out.Action)
	assert.True(t, st.Planned("team", 85))
	assert.Empty(t, repo.opList())
}

func TestStateAtMostOnce(t *testing.T) {
	st := NewState()

	assert.True(t, st.MarkSeen("team", 85))
	assert.False(t, st.MarkSeen("team", 85))
	assert.True(t, st.MarkSeen("venue", 85), "kinds have separate id spaces")
	assert.True(t, st.Seen("team", 85))
	assert.False(t, st.Seen("team", 40))

	assert.True(t, st.Plan("team", 85))
	assert.False(t, st.Plan("team", 85))
	assert.True(t, st.Planned("team", 85))
}

func TestRunCreatesMissingTeams(t *testing.T) {
	source := &memSource{pages: map[EntityKind][][]Record{
		"team": {{teamRecord(85, "Newcastle"), teamRecord(40, "Liverpool")}},
	}}
	repo := newMemRepo()
	job := NewJob([]EntityKind{"team"}, Filter{League: 39, Season: 2024}, Policy{CreateMissing: true})

	err := testRunner(source, repo, nil).Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 2, job.Result.Created)
	assert.Equal(t, 0, job.Result.Failed)
	assert.True(t, repo.entity("team", 85).active)
	assert.True(t, repo.entity("team", 40).active)
}

func TestRunSecondPassIsIdempotent(t *testing.T) {
	source := &memSource{pages: map[EntityKind][][]Record{"team": {teamPage(1, 5)}}}
	repo := newMemRepo()
	policy := Policy{CreateMissing: true, UpdateExisting: true}

	first := NewJob([]EntityKind{"team"}, Filter{}, policy)
	require.NoError(t, testRunner(source, repo, nil).Run(context.Background(), first))
	opsAfterFirst := repo.opList()

	second := NewJob([]EntityKind{"team"}, Filter{}, policy)
	require.NoError(t, testRunner(source, repo, nil).Run(context.Background(), second))

	assert.Equal(t, 5, first.Result.Created)
	assert.Equal(t, 5, second.Result.Updated, "unchanged records still count as updated")
	assert.Equal(t, opsAfterFirst, repo.opList(), "second pass must not touch storage")
}

func TestRunDeactivatesAbsentTeams(t *testing.T) {
	repo := newMemRepo()
	for i := 1; i <= 20; i++ {
		repo.seed("team", int64(i), true, map[string]any{"name": fmt.Sprintf("Team %d", i)})
	}
	source := &memSource{pages: map[EntityKind][][]Record{"team": {teamPage(1, 18)}}}
	job := NewJob([]EntityKind{"team"}, Filter{League: 39, Season: 2024}, Policy{
		CreateMissing: true, UpdateExisting: true, DeactivateMissing: true,
	})

	err := testRunner(source, repo, nil).Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 2, job.Result.Deactivated)
	assert.Equal(t, 18, job.Result.Updated)
	assert.False(t, repo.entity("team", 19).active)
	assert.False(t, repo.entity("team", 20).active)
	assert.True(t, repo.entity("team", 18).active)
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	repo := newMemRepo()
	repo.seed("team", 1, true, map[string]any{"name": "Old Name"})
	repo.seed("team", 3, true, map[string]any{"name": "Leftover"})
	source := &memSource{pages: map[EntityKind][][]Record{
		"team": {{teamRecord(1, "New Name"), teamRecord(2, "Fresh")}},
	}}
	job := NewJob([]EntityKind{"team"}, Filter{}, Policy{
		CreateMissing: true, UpdateExisting: true, DeactivateMissing: true, DryRun: true,
	})

	err := testRunner(source, repo, nil).Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 1, job.Result.Created)
	assert.Equal(t, 1, job.Result.Updated)
	assert.Equal(t, 1, job.Result.Deactivated)
	assert.Empty(t, repo.opList(), "a dry run must not mutate storage")
	assert.Equal(t, "Old Name", repo.entity("team", 1).fields["name"])
	assert.True(t, repo.entity("team", 3).active)
	assert.Nil(t, repo.entity("team", 2))
}

func TestRunRejectsDeactivationWithExplicitIDs(t *testing.T) {
	repo := newMemRepo()
	source := &memSource{pages: map[EntityKind][][]Record{}}
	job := NewJob([]EntityKind{"team"}, Filter{IDs: []int64{85}}, Policy{DeactivateMissing: true})

	err := testRunner(source, repo, nil).Run(context.Background(), job)

	require.Error(t, err)
	assert.Equal(t, ClassConfiguration, Classify(err))
	assert.Equal(t, 0, job.Result.Total())
}

func TestRunPartialFailure(t *testing.T) {
	source := &memSource{pages: map[EntityKind][][]Record{"team": {teamPage(1, 100)}}}
	repo := newMemRepo()
	repo.failWith("create", "team", 7, NewTransient("insert", errors.New("deadlock")))
	job := NewJob([]EntityKind{"team"}, Filter{}, Policy{CreateMissing: true})

	err := testRunner(source, repo, nil).Run(context.Background(), job)

	require.NoError(t, err, "record failures must not fail the job")
	assert.Equal(t, 99, job.Result.Created)
	assert.Equal(t, 1, job.Result.Failed)
	require.Len(t, job.Result.Errors, 1)
	assert.Equal(t, int64(7), job.Result.Errors[0].ExternalID)
	assert.Equal(t, ClassTransient, job.Result.Errors[0].Class)
}

func TestRunFatalAborts(t *testing.T) {
	source := &memSource{pages: map[EntityKind][][]Record{"team": {teamPage(1, 5)}}}
	repo := newMemRepo()
	repo.failWith("create", "team", 3, NewFatal("insert", errors.New("table missing")))
	cfg := Config{Workers: 1, MaxAttempts: 1, RetryInitialMS: 1, RetryMaxMS: 2, RetryMultiple: 2}
	runner := NewRunner(source, repo, testGraph(), nil, cfg, zap.NewNop())
	job := NewJob([]EntityKind{"team"}, Filter{}, Policy{CreateMissing: true})

	err := runner.Run(context.Background(), job)

	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 2, job.Result.Created, "work committed before the abort stays counted")
}

func TestRunStreamsAllPages(t *testing.T) {
	source := &memSource{pages: map[EntityKind][][]Record{
		"team": {teamPage(1, 2), teamPage(3, 4), teamPage(5, 6)},
	}}
	repo := newMemRepo()
	job := NewJob([]EntityKind{"team"}, Filter{All: true}, Policy{CreateMissing: true})

	err := testRunner(source, repo, nil).Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, 6, job.Result.Created)
	assert.Equal(t, 3, source.calls)
}

func TestRunJobStoreLifecycle(t *testing.T) {
	source := &memSource{pages: map[EntityKind][][]Record{"team": {teamPage(1, 1)}}}
	repo := newMemRepo()
	jobs := &memJobStore{}
	job := NewJob([]EntityKind{"team"}, Filter{}, Policy{CreateMissing: true})

	err := testRunner(source, repo, jobs).Run(context.Background(), job)

	require.NoError(t, err)
	assert.Equal(t, []string{job.ID}, jobs.began)
	assert.Equal(t, []string{job.ID}, jobs.finished)
	require.Len(t, jobs.finishErrs, 1)
	assert.NoError(t, jobs.finishErrs[0])
	assert.Equal(t, "UTC", job.Filter.Timezone)
	assert.False(t, job.Ended.Before(job.Started))
}

func TestRunBeginFailureIsFatal(t *testing.T) {
	source := &memSource{pages: map[EntityKind][][]Record{"team": {teamPage(1, 1)}}}
	repo := newMemRepo()
	jobs := &memJobStore{beginErr: errors.New("job table locked")}
	job := NewJob([]EntityKind{"team"}, Filter{}, Policy{CreateMissing: true})

	err := testRunner(source, repo, jobs).Run(context.Background(), job)

	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Empty(t, jobs.finished)
	assert.Empty(t, repo.opList())
}

func TestRunUnknownTimezone(t *testing.T) {
	source := &memSource{pages: map[EntityKind][][]Record{}}
	job := NewJob([]EntityKind{"team"}, Filter{Timezone: "Mars/Olympus"}, Policy{CreateMissing: true})

	err := testRunner(source, newMemRepo(), nil).Run(context.Background(), job)

	require.Error(t, err)
	assert.Equal(t, ClassConfiguration, Classify(err))
}

func TestRunUnknownKind(t *testing.T) {
	source := &memSource{pages: map[EntityKind][][]Record{}}
	job := NewJob([]EntityKind{"widget"}, Filter{}, Policy{CreateMissing: true})

	err := testRunner(source, newMemRepo(), nil).Run(context.Background(), job)

	require.Error(t, err)
	assert.Equal(t, ClassConfiguration, Classify(err))
}
