package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/reactions-backend/internal/data/repos"
)

type gateFixture struct {
	policy     *fakePolicySource
	categories *fakeCategoryResolver
	counters   *fakeCounterStore
	audit      *fakePhantomRecorder
	history    *fakeHistorySink
	suppressor *fakeSuppressor
	gate       GateService
}

func newGateFixture(policy PhantomPolicy, category uuid.UUID) *gateFixture {
	f := &gateFixture{
		policy:     &fakePolicySource{policy: policy},
		categories: &fakeCategoryResolver{category: category},
		counters:   &fakeCounterStore{},
		audit:      &fakePhantomRecorder{},
		history:    &fakeHistorySink{},
		suppressor: &fakeSuppressor{},
	}
	f.gate = NewGateService(testLogger(), f.policy, f.categories, f.counters, f.audit, f.history, f.suppressor)
	return f
}

func excludingPolicy(categoryID uuid.UUID, showInHistory, countInAggregate bool) PhantomPolicy {
	return NewPhantomPolicy(PhantomPolicyConfig{
		ExcludedCategoryIDs: []uuid.UUID{categoryID},
		ShowInHistory:       showInHistory,
		CountInAggregate:    countInAggregate,
	})
}

func sampleEvent(categoryID uuid.UUID, direction Direction, removed bool) ReactionEvent {
	return ReactionEvent{
		SubjectID:  uuid.New(),
		ObjectID:   uuid.New(),
		PostID:     uuid.New(),
		CategoryID: categoryID,
		Kind:       "like",
		Direction:  direction,
		Removed:    removed,
	}
}

func TestEvaluate_NonExcludedCategoryPassesThrough(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(excludingPolicy(uuid.New(), false, false), category)

	d := f.gate.Evaluate(context.Background(), nil, sampleEvent(category, DirectionGiven, false))
	if d.Phantom {
		t.Fatalf("expected non-phantom decision")
	}
	if !d.ShowInHistory || !d.CountInAggregate {
		t.Fatalf("pass-through must keep both effects: %+v", d)
	}
	if d.CategoryID != category {
		t.Fatalf("category: want=%s got=%s", category, d.CategoryID)
	}
}

func TestEvaluate_ReadsPolicyOnce(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(excludingPolicy(category, false, false), category)

	f.gate.Apply(context.Background(), nil, sampleEvent(category, DirectionReceived, false))
	if f.policy.calls != 1 {
		t.Fatalf("policy reads per event: want=1 got=%d", f.policy.calls)
	}
}

func TestEvaluate_ResolvesCategoryWhenMissing(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(excludingPolicy(category, false, false), category)

	ev := sampleEvent(uuid.Nil, DirectionGiven, false)
	d := f.gate.Evaluate(context.Background(), nil, ev)
	if f.categories.calls != 1 {
		t.Fatalf("resolver calls: want=1 got=%d", f.categories.calls)
	}
	if !d.Phantom {
		t.Fatalf("expected phantom after resolution, got %+v", d)
	}
}

func TestEvaluate_ResolutionFailurePassesThrough(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(excludingPolicy(category, false, false), category)
	f.categories.err = fmt.Errorf("db down")

	d := f.gate.Evaluate(context.Background(), nil, sampleEvent(uuid.Nil, DirectionGiven, false))
	if d.Phantom || !d.ShowInHistory || !d.CountInAggregate {
		t.Fatalf("unresolvable event must pass through, got %+v", d)
	}
}

func TestApply_PassThroughCreateTouchesCountersAndHistory(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(EmptyPhantomPolicy(), category)
	ev := sampleEvent(category, DirectionGiven, false)

	f.gate.Apply(context.Background(), nil, ev)

	if len(f.counters.adjusts) != 1 {
		t.Fatalf("counter adjusts: want=1 got=%d", len(f.counters.adjusts))
	}
	adj := f.counters.adjusts[0]
	if adj.userID != ev.SubjectID || adj.field != repos.CounterFieldGiven || adj.delta != 1 {
		t.Fatalf("unexpected adjust: %+v", adj)
	}
	if len(f.history.created) != 1 {
		t.Fatalf("history inserts: want=1 got=%d", len(f.history.created))
	}
	if f.history.created[0].UserID != ev.SubjectID {
		t.Fatalf("history owner: want=%s got=%s", ev.SubjectID, f.history.created[0].UserID)
	}
	if len(f.audit.rows) != 0 {
		t.Fatalf("expected no audit rows for non-phantom event")
	}
	if len(f.suppressor.calls) != 0 {
		t.Fatalf("expected no suppression for non-phantom event")
	}
}

func TestApply_ReceivedDirectionTargetsObject(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(EmptyPhantomPolicy(), category)
	ev := sampleEvent(category, DirectionReceived, false)

	f.gate.Apply(context.Background(), nil, ev)

	adj := f.counters.adjusts[0]
	if adj.userID != ev.ObjectID || adj.field != repos.CounterFieldReceived {
		t.Fatalf("unexpected adjust: %+v", adj)
	}
	if f.history.created[0].UserID != ev.ObjectID {
		t.Fatalf("history owner: want=%s got=%s", ev.ObjectID, f.history.created[0].UserID)
	}
}

func TestApply_FullyHiddenPhantomSkipsCountersAndHistory(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(excludingPolicy(category, false, false), category)
	ev := sampleEvent(category, DirectionReceived, false)

	d := f.gate.Apply(context.Background(), nil, ev)

	if !d.FullySuppressed() {
		t.Fatalf("expected fully suppressed decision, got %+v", d)
	}
	if len(f.counters.adjusts) != 0 {
		t.Fatalf("counters must not move: got %d adjusts", len(f.counters.adjusts))
	}
	if len(f.history.created) != 0 {
		t.Fatalf("history must not record: got %d inserts", len(f.history.created))
	}
	if len(f.audit.rows) != 1 {
		t.Fatalf("audit rows: want=1 got=%d", len(f.audit.rows))
	}
	row := f.audit.rows[0]
	if row.PostID != ev.PostID || row.UserID != ev.SubjectID || row.CategoryID != category || row.Kind != "like" {
		t.Fatalf("unexpected audit row: %+v", row)
	}
	if len(f.suppressor.calls) != 1 {
		t.Fatalf("suppression calls: want=1 got=%d", len(f.suppressor.calls))
	}
	call := f.suppressor.calls[0]
	if call.recipientID != ev.ObjectID || call.postID != ev.PostID || call.kind != "liked" {
		t.Fatalf("unexpected suppression call: %+v", call)
	}
}

func TestApply_HiddenPhantomGivenDirectionDoesNotSuppress(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(excludingPolicy(category, false, false), category)

	f.gate.Apply(context.Background(), nil, sampleEvent(category, DirectionGiven, false))
	if len(f.suppressor.calls) != 0 {
		t.Fatalf("given-direction event must not suppress notifications")
	}
}

func TestApply_VisiblePhantomKeepsHistoryAndNotification(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(excludingPolicy(category, true, false), category)
	ev := sampleEvent(category, DirectionReceived, false)

	f.gate.Apply(context.Background(), nil, ev)

	if len(f.counters.adjusts) != 0 {
		t.Fatalf("counters must not move when count_in_aggregate=false")
	}
	if len(f.history.created) != 1 {
		t.Fatalf("history inserts: want=1 got=%d", len(f.history.created))
	}
	if len(f.audit.rows) != 1 {
		t.Fatalf("audit rows: want=1 got=%d", len(f.audit.rows))
	}
	if len(f.suppressor.calls) != 0 {
		t.Fatalf("visible phantom must not suppress its notification")
	}
}

func TestApply_CountedHiddenPhantomMovesCountersOnly(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(excludingPolicy(category, false, true), category)
	ev := sampleEvent(category, DirectionReceived, false)

	f.gate.Apply(context.Background(), nil, ev)

	if len(f.counters.adjusts) != 1 {
		t.Fatalf("counter adjusts: want=1 got=%d", len(f.counters.adjusts))
	}
	if len(f.history.created) != 0 {
		t.Fatalf("hidden phantom must not reach history")
	}
	if len(f.suppressor.calls) != 1 {
		t.Fatalf("hidden phantom must suppress its notification")
	}
}

func TestApply_CountedVisiblePhantomKeepsEffectsAndAudits(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(excludingPolicy(category, true, true), category)
	ev := sampleEvent(category, DirectionReceived, false)

	d := f.gate.Apply(context.Background(), nil, ev)

	if !d.Phantom || !d.ShowInHistory || !d.CountInAggregate {
		t.Fatalf("expected counted visible phantom, got %+v", d)
	}
	if len(f.counters.adjusts) != 1 {
		t.Fatalf("counter adjusts: want=1 got=%d", len(f.counters.adjusts))
	}
	if len(f.history.created) != 1 {
		t.Fatalf("history inserts: want=1 got=%d", len(f.history.created))
	}
	// Even with every visible effect intact, the phantom leaves its
	// audit trail and keeps the notification.
	if len(f.audit.rows) != 1 {
		t.Fatalf("audit rows: want=1 got=%d", len(f.audit.rows))
	}
	if len(f.suppressor.calls) != 0 {
		t.Fatalf("visible phantom must not suppress its notification")
	}
}

func TestApply_UnknownCategoryPassesThroughWithZeroCategory(t *testing.T) {
	f := newGateFixture(excludingPolicy(uuid.New(), false, false), uuid.Nil)
	ev := sampleEvent(uuid.Nil, DirectionGiven, false)

	d := f.gate.Apply(context.Background(), nil, ev)

	if d.Phantom || !d.ShowInHistory || !d.CountInAggregate {
		t.Fatalf("unknown category must pass through, got %+v", d)
	}
	if d.CategoryID != uuid.Nil {
		t.Fatalf("decision category: want=Nil got=%s", d.CategoryID)
	}
	if len(f.history.created) != 1 || f.history.created[0].CategoryID != uuid.Nil {
		t.Fatalf("history row must carry the zero category: %+v", f.history.created)
	}
}

func TestApply_RemovalReversesPassThroughEffects(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(EmptyPhantomPolicy(), category)
	ev := sampleEvent(category, DirectionGiven, true)

	f.gate.Apply(context.Background(), nil, ev)

	adj := f.counters.adjusts[0]
	if adj.delta != -1 {
		t.Fatalf("removal delta: want=-1 got=%d", adj.delta)
	}
	if len(f.history.deleted) != 1 {
		t.Fatalf("history deletes: want=1 got=%d", len(f.history.deleted))
	}
	del := f.history.deleted[0]
	if del.ownerID != ev.SubjectID || del.actorID != ev.SubjectID || del.postID != ev.PostID {
		t.Fatalf("unexpected history delete: %+v", del)
	}
}

func TestApply_PhantomRemovalLeavesAuditAlone(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(excludingPolicy(category, false, false), category)

	f.gate.Apply(context.Background(), nil, sampleEvent(category, DirectionReceived, true))

	if len(f.audit.rows) != 0 {
		t.Fatalf("removal must not append audit rows, got %d", len(f.audit.rows))
	}
	if len(f.counters.adjusts) != 0 {
		t.Fatalf("uncounted phantom removal must not touch counters")
	}
	if len(f.suppressor.calls) != 0 {
		t.Fatalf("removal must not suppress notifications")
	}
}

func TestApply_SinkErrorsDoNotChangeDecision(t *testing.T) {
	category := uuid.New()
	f := newGateFixture(EmptyPhantomPolicy(), category)
	f.counters.err = fmt.Errorf("counter table locked")
	f.history.err = fmt.Errorf("history insert failed")

	d := f.gate.Apply(context.Background(), nil, sampleEvent(category, DirectionGiven, false))
	if d.Phantom || !d.CountInAggregate {
		t.Fatalf("sink errors must not alter the decision: %+v", d)
	}
}
