package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/types"
)

func SeedUser(tb testing.TB, tx *gorm.DB) *types.User {
	tb.Helper()
	id := uuid.New()
	u := &types.User{
		ID:       id,
		Username: fmt.Sprintf("user-%s", id.String()[:8]),
		Email:    fmt.Sprintf("user-%s@example.test", id.String()[:8]),
	}
	if err := tx.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCategory(tb testing.TB, tx *gorm.DB) *types.Category {
	tb.Helper()
	id := uuid.New()
	c := &types.Category{
		ID:   id,
		Slug: fmt.Sprintf("category-%s", id.String()[:8]),
		Name: "Test Category",
	}
	if err := tx.Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedPost(tb testing.TB, tx *gorm.DB, authorID, categoryID uuid.UUID) *types.Post {
	tb.Helper()
	p := &types.Post{
		ID:         uuid.New(),
		AuthorID:   authorID,
		CategoryID: categoryID,
		Title:      "Test Post",
	}
	if err := tx.Create(p).Error; err != nil {
		tb.Fatalf("seed post: %v", err)
	}
	return p
}

func SeedReaction(tb testing.TB, tx *gorm.DB, userID, postID uuid.UUID, kind string) *types.Reaction {
	tb.Helper()
	r := &types.Reaction{
		ID:     uuid.New(),
		UserID: userID,
		PostID: postID,
		Kind:   kind,
	}
	if err := tx.Create(r).Error; err != nil {
		tb.Fatalf("seed reaction: %v", err)
	}
	return r
}
