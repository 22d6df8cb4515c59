package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func TestNewPhantomPolicy_DedupesAndSkipsNil(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	p := NewPhantomPolicy(PhantomPolicyConfig{
		ExcludedCategoryIDs: []uuid.UUID{a, uuid.Nil, b, a},
	})

	ids := p.ExcludedCategoryIDs()
	if len(ids) != 2 {
		t.Fatalf("excluded ids: want=2 got=%d (%v)", len(ids), ids)
	}
	if ids[0] != a || ids[1] != b {
		t.Fatalf("order not preserved: %v", ids)
	}
	if !p.IsExcluded(a) || !p.IsExcluded(b) {
		t.Fatalf("expected both categories excluded")
	}
	if p.IsExcluded(uuid.Nil) {
		t.Fatalf("nil category must never be excluded")
	}
}

func TestEmptyPhantomPolicy_ExcludesNothing(t *testing.T) {
	p := EmptyPhantomPolicy()
	if !p.Empty() {
		t.Fatalf("expected empty policy")
	}
	if !p.ShowInHistory() || !p.CountInAggregate() {
		t.Fatalf("empty policy must keep both effects on")
	}
	if p.IsExcluded(uuid.New()) {
		t.Fatalf("empty policy excluded a category")
	}
}

func TestRedisPolicySource_ParsesStoredValue(t *testing.T) {
	category := uuid.New()
	raw, _ := json.Marshal(PhantomPolicyConfig{
		ExcludedCategoryIDs: []uuid.UUID{category},
		ShowInHistory:       true,
		CountInAggregate:    false,
	})
	src := NewRedisPolicySource(testLogger(), &fakePolicyStore{raw: raw, found: true}, EmptyPhantomPolicy())

	p := src.Current(context.Background())
	if !p.IsExcluded(category) {
		t.Fatalf("expected stored category excluded")
	}
	if !p.ShowInHistory() || p.CountInAggregate() {
		t.Fatalf("flags not carried over: show=%v count=%v", p.ShowInHistory(), p.CountInAggregate())
	}
}

func TestRedisPolicySource_MissingKeyUsesFallback(t *testing.T) {
	category := uuid.New()
	fallback := NewPhantomPolicy(PhantomPolicyConfig{ExcludedCategoryIDs: []uuid.UUID{category}})
	src := NewRedisPolicySource(testLogger(), &fakePolicyStore{found: false}, fallback)

	p := src.Current(context.Background())
	if !p.IsExcluded(category) {
		t.Fatalf("expected fallback policy when key is absent")
	}
}

func TestRedisPolicySource_StoreErrorExcludesNothing(t *testing.T) {
	category := uuid.New()
	fallback := NewPhantomPolicy(PhantomPolicyConfig{ExcludedCategoryIDs: []uuid.UUID{category}})
	src := NewRedisPolicySource(testLogger(), &fakePolicyStore{loadErr: fmt.Errorf("redis down")}, fallback)

	p := src.Current(context.Background())
	if !p.Empty() {
		t.Fatalf("store error must degrade to excluding nothing, got %v", p.ExcludedCategoryIDs())
	}
}

func TestRedisPolicySource_BadJSONExcludesNothing(t *testing.T) {
	src := NewRedisPolicySource(testLogger(), &fakePolicyStore{raw: []byte("{not json"), found: true}, EmptyPhantomPolicy())

	p := src.Current(context.Background())
	if !p.Empty() {
		t.Fatalf("malformed value must degrade to excluding nothing")
	}
}

func TestPolicyAdminService_UpdateWritesJSON(t *testing.T) {
	store := &fakePolicyStore{}
	category := uuid.New()
	admin := NewPolicyAdminService(testLogger(), NewStaticPolicySource(EmptyPhantomPolicy()), store)

	cfg := PhantomPolicyConfig{
		ExcludedCategoryIDs: []uuid.UUID{category},
		ShowInHistory:       true,
		CountInAggregate:    true,
	}
	if err := admin.Update(context.Background(), cfg); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saves: want=1 got=%d", len(store.saved))
	}
	var got PhantomPolicyConfig
	if err := json.Unmarshal(store.saved[0], &got); err != nil {
		t.Fatalf("saved value is not JSON: %v", err)
	}
	if len(got.ExcludedCategoryIDs) != 1 || got.ExcludedCategoryIDs[0] != category {
		t.Fatalf("unexpected saved config: %+v", got)
	}
}

func TestPolicyAdminService_UpdateWithoutStoreFails(t *testing.T) {
	admin := NewPolicyAdminService(testLogger(), NewStaticPolicySource(EmptyPhantomPolicy()), nil)
	if err := admin.Update(context.Background(), PhantomPolicyConfig{}); err == nil {
		t.Fatalf("expected error without a writable store")
	}
}
