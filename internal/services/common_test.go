package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yungbote/reactions-backend/internal/data/repos"
	"github.com/yungbote/reactions-backend/internal/pkg/logger"
	"github.com/yungbote/reactions-backend/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type fakePolicySource struct {
	policy PhantomPolicy
	calls  int
}

func (f *fakePolicySource) Current(context.Context) PhantomPolicy {
	f.calls++
	return f.policy
}

type fakeCategoryResolver struct {
	category uuid.UUID
	err      error
	calls    int
}

func (f *fakeCategoryResolver) CategoryOf(context.Context, *gorm.DB, uuid.UUID) (uuid.UUID, error) {
	f.calls++
	return f.category, f.err
}

type counterAdjust struct {
	userID uuid.UUID
	field  repos.CounterField
	delta  int64
}

type fakeCounterStore struct {
	adjusts []counterAdjust
	err     error
}

func (f *fakeCounterStore) Adjust(_ context.Context, _ *gorm.DB, userID uuid.UUID, field repos.CounterField, delta int64) error {
	f.adjusts = append(f.adjusts, counterAdjust{userID: userID, field: field, delta: delta})
	return f.err
}

type fakePhantomRecorder struct {
	rows []*types.PhantomReaction
	err  error
}

func (f *fakePhantomRecorder) Record(_ context.Context, _ *gorm.DB, row *types.PhantomReaction) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.rows = append(f.rows, row)
	return true, nil
}

type historyDelete struct {
	ownerID uuid.UUID
	actorID uuid.UUID
	postID  uuid.UUID
	kind    string
}

type fakeHistorySink struct {
	created []*types.FeedEntry
	deleted []historyDelete
	err     error
}

func (f *fakeHistorySink) Create(_ context.Context, _ *gorm.DB, rows []*types.FeedEntry) ([]*types.FeedEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, rows...)
	return rows, nil
}

func (f *fakeHistorySink) DeleteForReaction(_ context.Context, _ *gorm.DB, ownerID, actorID, postID uuid.UUID, kind string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.deleted = append(f.deleted, historyDelete{ownerID: ownerID, actorID: actorID, postID: postID, kind: kind})
	return 1, nil
}

type suppressCall struct {
	recipientID uuid.UUID
	kind        string
	postID      uuid.UUID
}

type fakeSuppressor struct {
	calls []suppressCall
	err   error
}

func (f *fakeSuppressor) Suppress(_ context.Context, _ *gorm.DB, recipientID uuid.UUID, kind string, postID uuid.UUID) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.calls = append(f.calls, suppressCall{recipientID: recipientID, kind: kind, postID: postID})
	return 1, nil
}

type deleteRecentCall struct {
	recipientID uuid.UUID
	kind        string
	postID      uuid.UUID
	window      time.Duration
}

type fakeNotificationDeleter struct {
	calls   []deleteRecentCall
	deleted int64
	err     error
}

func (f *fakeNotificationDeleter) DeleteRecent(_ context.Context, _ *gorm.DB, recipientID uuid.UUID, kind string, postID uuid.UUID, window time.Duration) (int64, error) {
	f.calls = append(f.calls, deleteRecentCall{recipientID: recipientID, kind: kind, postID: postID, window: window})
	return f.deleted, f.err
}

type fakePolicyStore struct {
	raw     []byte
	found   bool
	loadErr error
	saved   [][]byte
	saveErr error
}

func (f *fakePolicyStore) Load(context.Context) ([]byte, bool, error) {
	return f.raw, f.found, f.loadErr
}

func (f *fakePolicyStore) Save(_ context.Context, raw []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, raw)
	return nil
}
