package engine

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"football-sync/core/utils"
)

// errParentAbsent signals that a required parent does not exist locally
// and policy forbids creating it.
var errParentAbsent = errors.New("parent absent")

type entityRef struct {
	kind EntityKind
	id   int64
}

// State tracks per-job progress shared across workers: which entities
// were handled, which creations a dry run has planned, and how many
// parents were auto-created.
type State struct {
	mu            sync.Mutex
	seen          map[entityRef]struct{}
	planned       map[entityRef]struct{}
	parentCreates int
}

// NewState returns an empty job state.
func NewState() *State {
	return &State{
		seen:    make(map[entityRef]struct{}),
		planned: make(map[entityRef]struct{}),
	}
}

// MarkSeen records that the entity was handled during this job. The
// first caller gets true, every later caller false.
func (s *State) MarkSeen(kind EntityKind, externalID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := entityRef{kind: kind, id: externalID}
	if _, ok := s.seen[ref]; ok {
		return false
	}
	s.seen[ref] = struct{}{}
	return true
}

// Seen reports whether the entity was handled during this job.
func (s *State) Seen(kind EntityKind, externalID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[entityRef{kind: kind, id: externalID}]
	return ok
}

// Plan records a creation a dry run would perform. The first caller
// gets true so the would-be count stays exact.
func (s *State) Plan(kind EntityKind, externalID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := entityRef{kind: kind, id: externalID}
	if _, ok := s.planned[ref]; ok {
		return false
	}
	s.planned[ref] = struct{}{}
	return true
}

// Planned reports whether a dry run already planned this creation.
func (s *State) Planned(kind EntityKind, externalID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.planned[entityRef{kind: kind, id: externalID}]
	return ok
}

func (s *State) noteParentCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parentCreates++
}

// ParentCreates returns how many parent entities were auto-created, or
// would be under a dry run.
func (s *State) ParentCreates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parentCreates
}

// Outcome describes what reconciling one record did.
type Outcome struct {
	Action Action
	NoOp   bool
}

// Reconciler applies one provider record to local storage under a
// policy. It is stateless; all per-job bookkeeping lives in State, so
// one reconciler is shared by every worker.
type Reconciler struct {
	Repo   Repository
	Graph  *Graph
	Logger *zap.Logger
}

// NewReconciler wires a reconciler.
func NewReconciler(repo Repository, graph *Graph, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{Repo: repo, Graph: graph, Logger: logger}
}

// ReconcileRecord resolves the record's parents, then applies the
// create-or-update decision. The record's own field map is never
// mutated, so a retried call starts clean.
func (r *Reconciler) ReconcileRecord(ctx context.Context, st *State, jobID string, rec Record, policy Policy) (Outcome, error) {
	if rec.ExternalID == 0 {
		return Outcome{}, NewValidation(rec.Kind, rec.ExternalID, "record has no external id")
	}
	if !r.Graph.Known(rec.Kind) {
		return Outcome{}, NewConfiguration("unknown entity kind %q", rec.Kind)
	}
	if err := r.checkRequired(rec); err != nil {
		return Outcome{}, err
	}

	fields := make(map[string]any, len(rec.Fields))
	for k, v := range rec.Fields {
		fields[k] = v
	}

	visiting := map[EntityKind]bool{rec.Kind: true}
	if err := r.resolveParents(ctx, st, jobID, rec.Kind, rec.ExternalID, rec.Parents, fields, policy, visiting); err != nil {
		return Outcome{}, err
	}

	return r.apply(ctx, st, jobID, rec.Kind, rec.ExternalID, fields, policy)
}

// checkRequired verifies the record references every parent kind the
// taxonomy marks required. A record that arrives without one cannot be
// stored consistently, so it fails validation before any lookup.
func (r *Reconciler) checkRequired(rec Record) error {
	for _, edge := range r.Graph.Parents(rec.Kind) {
		if !edge.Required {
			continue
		}
		found := false
		for _, ref := range rec.Parents {
			if ref.Kind == edge.Kind && ref.ExternalID != 0 {
				found = true
				break
			}
		}
		if !found {
			return NewValidation(rec.Kind, rec.ExternalID, "missing required %s reference", edge.Kind)
		}
	}
	return nil
}

// resolveParents ensures every referenced parent exists and rewrites
// the child's fields with the parents' local primary keys.
func (r *Reconciler) resolveParents(ctx context.Context, st *State, jobID string, childKind EntityKind, childID int64, refs []ParentRef, fields map[string]any, policy Policy, visiting map[EntityKind]bool) error {
	for _, ref := range refs {
		if ref.ExternalID == 0 {
			if ref.Optional {
				continue
			}
			return NewValidation(childKind, childID, "missing %s reference", ref.Kind)
		}

		parent, err := r.ensureParent(ctx, st, jobID, ref, policy, visiting)
		if err != nil {
			if errors.Is(err, errParentAbsent) {
				if ref.Optional {
					continue
				}
				return NewMissingDependency(childKind, childID, ref.Kind, ref.ExternalID)
			}
			return err
		}
		if parent != nil {
			fields[ref.FieldRole()+"_id"] = parent.LocalID()
		}
	}
	return nil
}

// ensureParent finds the referenced parent, creating it first when the
// policy allows. In a dry run the creation is only planned and the
// returned entity is nil.
func (r *Reconciler) ensureParent(ctx context.Context, st *State, jobID string, ref ParentRef, policy Policy, visiting map[EntityKind]bool) (Entity, error) {
	parent, err := r.Repo.FindByExternalID(ctx, ref.Kind, ref.ExternalID)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		return parent, nil
	}
	if policy.DryRun && st.Planned(ref.Kind, ref.ExternalID) {
		return nil, nil
	}
	if !policy.AllowsAutoCreate(ref.Kind) {
		return nil, errParentAbsent
	}
	if !r.Graph.Known(ref.Kind) {
		return nil, NewConfiguration("unknown entity kind %q", ref.Kind)
	}
	if visiting[ref.Kind] {
		return nil, NewConfiguration("auto-create revisited kind %s while resolving its dependencies", ref.Kind)
	}

	visiting[ref.Kind] = true
	fields := make(map[string]any, len(ref.Fields))
	for k, v := range ref.Fields {
		fields[k] = v
	}
	err = r.resolveParents(ctx, st, jobID, ref.Kind, ref.ExternalID, ref.Parents, fields, policy, visiting)
	delete(visiting, ref.Kind)
	if err != nil {
		return nil, err
	}

	st.MarkSeen(ref.Kind, ref.ExternalID)
	if policy.DryRun {
		if st.Plan(ref.Kind, ref.ExternalID) {
			st.noteParentCreate()
		}
		return nil, nil
	}

	parent, created, err := r.Repo.Create(ctx, jobID, ref.Kind, ref.ExternalID, fields)
	if err != nil {
		return nil, err
	}
	if created {
		st.noteParentCreate()
		r.Logger.Debug("auto-created parent",
			zap.String("kind", string(ref.Kind)),
			zap.Int64("external_id", ref.ExternalID))
	}
	return parent, nil
}

// apply runs the create-or-update decision for one record whose
// parents are already resolved.
func (r *Reconciler) apply(ctx context.Context, st *State, jobID string, kind EntityKind, externalID int64, fields map[string]any, policy Policy) (Outcome, error) {
	existing, err := r.Repo.FindByExternalID(ctx, kind, externalID)
	if err != nil {
		return Outcome{}, err
	}

	if existing == nil {
		if !policy.CreateMissing {
			return Outcome{Action: ActionSkip}, nil
		}
		if policy.DryRun {
			st.Plan(kind, externalID)
			return Outcome{Action: ActionCreate}, nil
		}
		entity, created, err := r.Repo.Create(ctx, jobID, kind, externalID, fields)
		if err != nil {
			return Outcome{}, err
		}
		if created {
			return Outcome{Action: ActionCreate}, nil
		}
		// Another worker created it between the lookup and the
		// insert; fall through to the update decision.
		existing = entity
	}

	if !policy.Force && !policy.UpdateExisting {
		return Outcome{Action: ActionSkip}, nil
	}
	if existing.IsActive() && unchanged(existing, fields) {
		return Outcome{Action: ActionUpdate, NoOp: true}, nil
	}
	if policy.DryRun {
		return Outcome{Action: ActionUpdate}, nil
	}
	if err := r.Repo.Update(ctx, jobID, kind, existing, fields); err != nil {
		return Outcome{}, err
	}
	return Outcome{Action: ActionUpdate}, nil
}

// unchanged reports whether every incoming field already matches the
// stored entity. A field the snapshot does not expose counts as a
// change.
func unchanged(entity Entity, fields map[string]any) bool {
	snapshot := entity.Snapshot()
	for key, want := range fields {
		have, ok := snapshot[key]
		if !ok {
			return false
		}
		if !utils.SameValue(have, want) {
			return false
		}
	}
	return true
}
