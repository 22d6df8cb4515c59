package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/reactions-backend/internal/data/repos/testutil"
)

func TestReactionCounterRepo_Adjust(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewReactionCounterRepo(db, testutil.Logger(t))

	userID := uuid.New()

	if err := repo.Adjust(ctx, tx, userID, CounterFieldGiven, 1); err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if err := repo.Adjust(ctx, tx, userID, CounterFieldGiven, 1); err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if err := repo.Adjust(ctx, tx, userID, CounterFieldReceived, 1); err != nil {
		t.Fatalf("Adjust: %v", err)
	}

	counter, err := repo.GetByUserID(ctx, tx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if counter == nil || counter.GivenCount != 2 || counter.ReceivedCount != 1 {
		t.Fatalf("counters: got %+v", counter)
	}
}

func TestReactionCounterRepo_AdjustClampsAtZero(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewReactionCounterRepo(db, testutil.Logger(t))

	userID := uuid.New()

	if err := repo.Adjust(ctx, tx, userID, CounterFieldGiven, 1); err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	// Over-decrement: the stored value clamps instead of going negative.
	if err := repo.Adjust(ctx, tx, userID, CounterFieldGiven, -5); err != nil {
		t.Fatalf("Adjust: %v", err)
	}

	counter, err := repo.GetByUserID(ctx, tx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if counter == nil || counter.GivenCount != 0 {
		t.Fatalf("expected clamped zero, got %+v", counter)
	}

	// Decrement on a missing row creates it at zero.
	fresh := uuid.New()
	if err := repo.Adjust(ctx, tx, fresh, CounterFieldReceived, -1); err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	counter, err = repo.GetByUserID(ctx, tx, fresh)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if counter == nil || counter.ReceivedCount != 0 {
		t.Fatalf("expected zero row, got %+v", counter)
	}
}

func TestReactionCounterRepo_AdjustRejectsUnknownField(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewReactionCounterRepo(db, testutil.Logger(t))

	if err := repo.Adjust(context.Background(), tx, uuid.New(), CounterField("username"), 1); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestReactionCounterRepo_Set(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewReactionCounterRepo(db, testutil.Logger(t))

	userID := uuid.New()
	if err := repo.Adjust(ctx, tx, userID, CounterFieldGiven, 9); err != nil {
		t.Fatalf("Adjust: %v", err)
	}

	// Overwrite wins over whatever was there.
	if err := repo.Set(ctx, tx, userID, 3, 4); err != nil {
		t.Fatalf("Set: %v", err)
	}
	counter, err := repo.GetByUserID(ctx, tx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if counter == nil || counter.GivenCount != 3 || counter.ReceivedCount != 4 {
		t.Fatalf("counters: got %+v", counter)
	}

	// Negative inputs clamp to zero.
	if err := repo.Set(ctx, tx, userID, -7, 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	counter, err = repo.GetByUserID(ctx, tx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if counter == nil || counter.GivenCount != 0 || counter.ReceivedCount != 1 {
		t.Fatalf("counters after clamped set: got %+v", counter)
	}
}

func TestReactionCounterRepo_GetMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewReactionCounterRepo(db, testutil.Logger(t))

	counter, err := repo.GetByUserID(context.Background(), tx, uuid.New())
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if counter != nil {
		t.Fatalf("expected nil for missing counter, got %+v", counter)
	}
}
