package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/reactions-backend/internal/data/repos/testutil"
	"github.com/yungbote/reactions-backend/internal/types"
)

func TestPhantomReactionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPhantomReactionRepo(db, testutil.Logger(t))

	author := testutil.SeedUser(t, tx)
	actor := testutil.SeedUser(t, tx)
	category := testutil.SeedCategory(t, tx)
	post := testutil.SeedPost(t, tx, author.ID, category.ID)

	row := &types.PhantomReaction{
		PostID:     post.ID,
		UserID:     actor.ID,
		CategoryID: category.ID,
		Kind:       types.ReactionKindLike,
	}
	inserted, err := repo.Record(ctx, tx, row)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !inserted {
		t.Fatalf("first Record: expected inserted=true")
	}

	// Same identity again: silent no-op.
	dup := &types.PhantomReaction{
		PostID:     post.ID,
		UserID:     actor.ID,
		CategoryID: category.ID,
		Kind:       types.ReactionKindLike,
	}
	inserted, err = repo.Record(ctx, tx, dup)
	if err != nil {
		t.Fatalf("Record duplicate: %v", err)
	}
	if inserted {
		t.Fatalf("duplicate Record: expected inserted=false")
	}

	byUser, err := repo.ListByUserID(ctx, tx, actor.ID, 0)
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if len(byUser) != 1 {
		t.Fatalf("ListByUserID: want=1 got=%d", len(byUser))
	}

	byCategory, err := repo.ListByCategoryIDs(ctx, tx, []uuid.UUID{category.ID}, 10)
	if err != nil {
		t.Fatalf("ListByCategoryIDs: %v", err)
	}
	if len(byCategory) != 1 {
		t.Fatalf("ListByCategoryIDs: want=1 got=%d", len(byCategory))
	}
}

func TestPhantomReactionRepo_Backfill(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPhantomReactionRepo(db, testutil.Logger(t))

	author := testutil.SeedUser(t, tx)
	actor1 := testutil.SeedUser(t, tx)
	actor2 := testutil.SeedUser(t, tx)
	excluded := testutil.SeedCategory(t, tx)
	other := testutil.SeedCategory(t, tx)
	excludedPost := testutil.SeedPost(t, tx, author.ID, excluded.ID)
	otherPost := testutil.SeedPost(t, tx, author.ID, other.ID)

	testutil.SeedReaction(t, tx, actor1.ID, excludedPost.ID, types.ReactionKindLike)
	testutil.SeedReaction(t, tx, actor2.ID, excludedPost.ID, types.ReactionKindLike)
	testutil.SeedReaction(t, tx, actor1.ID, otherPost.ID, types.ReactionKindLike)

	inserted, err := repo.BackfillFromReactions(ctx, tx, types.ReactionKindLike, []uuid.UUID{excluded.ID})
	if err != nil {
		t.Fatalf("BackfillFromReactions: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("backfill inserted: want=2 got=%d", inserted)
	}

	// Re-running inserts nothing.
	inserted, err = repo.BackfillFromReactions(ctx, tx, types.ReactionKindLike, []uuid.UUID{excluded.ID})
	if err != nil {
		t.Fatalf("BackfillFromReactions rerun: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("backfill rerun inserted: want=0 got=%d", inserted)
	}

	// The non-excluded category was not audited.
	rows, err := repo.ListByCategoryIDs(ctx, tx, []uuid.UUID{other.ID}, 0)
	if err != nil {
		t.Fatalf("ListByCategoryIDs: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("non-excluded category audited: got %d rows", len(rows))
	}
}
