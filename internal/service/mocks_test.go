package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/rubenreut/youtube-clone/internal/cache"
	"github.com/rubenreut/youtube-clone/internal/model"
	"github.com/rubenreut/youtube-clone/internal/queue"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Services depend on the repository INTERFACES, so tests swap in mocks with
// per-test behavior via function fields. Any method without a function set
// falls back to a harmless zero-value default.

type mockUserRepository struct {
	createFn              func(ctx context.Context, user *model.User) error
	getByIDFn             func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn          func(ctx context.Context, email string) (*model.User, error)
	existsByUsernameFn    func(ctx context.Context, username string) (bool, error)
	existsByEmailFn       func(ctx context.Context, email string) (bool, error)
	getSummariesFn        func(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error)
	incrementSubCountFn   func(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) GetSummaries(ctx context.Context, ids []int64) (map[int64]model.UserSummary, error) {
	if m.getSummariesFn != nil {
		return m.getSummariesFn(ctx, ids)
	}
	summaries := make(map[int64]model.UserSummary, len(ids))
	for _, id := range ids {
		summaries[id] = model.UserSummary{ID: id}
	}
	return summaries, nil
}

func (m *mockUserRepository) IncrementSubscriberCount(ctx context.Context, tx *sqlx.Tx, userID int64, delta int) error {
	if m.incrementSubCountFn != nil {
		return m.incrementSubCountFn(ctx, tx, userID, delta)
	}
	return nil
}

type mockVideoRepository struct {
	createFn              func(ctx context.Context, video *model.Video) error
	getByIDFn             func(ctx context.Context, videoID int64) (*model.Video, error)
	getByIDsFn            func(ctx context.Context, videoIDs []int64) ([]model.Video, error)
	incrementViewsFn      func(ctx context.Context, videoID int64) (*model.Video, error)
	updateFn              func(ctx context.Context, video *model.Video) error
	deleteFn              func(ctx context.Context, videoID int64) error
	existsFn              func(ctx context.Context, videoID int64) (bool, error)
	listFn                func(ctx context.Context, category string, offset, limit int) ([]model.Video, error)
	countFn               func(ctx context.Context, category string) (int64, error)
	searchFn              func(ctx context.Context, query string, offset, limit int) ([]model.Video, error)
	countSearchFn         func(ctx context.Context, query string) (int64, error)
	getRelatedFn          func(ctx context.Context, videoID int64, category string, creatorID int64, limit int) ([]model.Video, error)
	getPopularExcludingFn func(ctx context.Context, excludeIDs []int64, limit int) ([]model.Video, error)
	getByCreatorFn        func(ctx context.Context, creatorID int64) ([]model.Video, error)
	getLikedByFn          func(ctx context.Context, userID int64) ([]model.Video, error)
	getRecentByCreatorFn  func(ctx context.Context, creatorID int64, limit int) ([]cache.VideoScore, error)
	getFeedVideoIDsFn     func(ctx context.Context, creatorIDs []int64, limit int) ([]cache.VideoScore, error)
}

func (m *mockVideoRepository) Create(ctx context.Context, video *model.Video) error {
	if m.createFn != nil {
		return m.createFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, videoID int64) (*model.Video, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, videoID)
	}
	return nil, model.ErrVideoNotFound
}

func (m *mockVideoRepository) GetByIDs(ctx context.Context, videoIDs []int64) ([]model.Video, error) {
	if m.getByIDsFn != nil {
		return m.getByIDsFn(ctx, videoIDs)
	}
	return nil, nil
}

func (m *mockVideoRepository) IncrementViews(ctx context.Context, videoID int64) (*model.Video, error) {
	if m.incrementViewsFn != nil {
		return m.incrementViewsFn(ctx, videoID)
	}
	return nil, model.ErrVideoNotFound
}

func (m *mockVideoRepository) Update(ctx context.Context, video *model.Video) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) Delete(ctx context.Context, videoID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, videoID)
	}
	return nil
}

func (m *mockVideoRepository) Exists(ctx context.Context, videoID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, videoID)
	}
	return false, nil
}

func (m *mockVideoRepository) List(ctx context.Context, category string, offset, limit int) ([]model.Video, error) {
	if m.listFn != nil {
		return m.listFn(ctx, category, offset, limit)
	}
	return nil, nil
}

func (m *mockVideoRepository) Count(ctx context.Context, category string) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, category)
	}
	return 0, nil
}

func (m *mockVideoRepository) Search(ctx context.Context, query string, offset, limit int) ([]model.Video, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, offset, limit)
	}
	return nil, nil
}

func (m *mockVideoRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	if m.countSearchFn != nil {
		return m.countSearchFn(ctx, query)
	}
	return 0, nil
}

func (m *mockVideoRepository) GetRelated(ctx context.Context, videoID int64, category string, creatorID int64, limit int) ([]model.Video, error) {
	if m.getRelatedFn != nil {
		return m.getRelatedFn(ctx, videoID, category, creatorID, limit)
	}
	return nil, nil
}

func (m *mockVideoRepository) GetPopularExcluding(ctx context.Context, excludeIDs []int64, limit int) ([]model.Video, error) {
	if m.getPopularExcludingFn != nil {
		return m.getPopularExcludingFn(ctx, excludeIDs, limit)
	}
	return nil, nil
}

func (m *mockVideoRepository) GetByCreator(ctx context.Context, creatorID int64) ([]model.Video, error) {
	if m.getByCreatorFn != nil {
		return m.getByCreatorFn(ctx, creatorID)
	}
	return nil, nil
}

func (m *mockVideoRepository) GetLikedBy(ctx context.Context, userID int64) ([]model.Video, error) {
	if m.getLikedByFn != nil {
		return m.getLikedByFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockVideoRepository) GetRecentByCreator(ctx context.Context, creatorID int64, limit int) ([]cache.VideoScore, error) {
	if m.getRecentByCreatorFn != nil {
		return m.getRecentByCreatorFn(ctx, creatorID, limit)
	}
	return nil, nil
}

func (m *mockVideoRepository) GetFeedVideoIDs(ctx context.Context, creatorIDs []int64, limit int) ([]cache.VideoScore, error) {
	if m.getFeedVideoIDsFn != nil {
		return m.getFeedVideoIDsFn(ctx, creatorIDs, limit)
	}
	return nil, nil
}

func (m *mockVideoRepository) GetReaction(ctx context.Context, tx *sqlx.Tx, videoID, userID int64) (model.ReactionKind, bool, error) {
	return "", false, nil
}

func (m *mockVideoRepository) InsertReaction(ctx context.Context, tx *sqlx.Tx, videoID, userID int64, kind model.ReactionKind) error {
	return nil
}

func (m *mockVideoRepository) UpdateReaction(ctx context.Context, tx *sqlx.Tx, videoID, userID int64, kind model.ReactionKind) error {
	return nil
}

func (m *mockVideoRepository) DeleteReaction(ctx context.Context, tx *sqlx.Tx, videoID, userID int64) error {
	return nil
}

func (m *mockVideoRepository) IncrementReactionCount(ctx context.Context, tx *sqlx.Tx, videoID int64, kind model.ReactionKind, delta int) error {
	return nil
}

func (m *mockVideoRepository) GetReactionCounts(ctx context.Context, tx *sqlx.Tx, videoID int64) (int, int, error) {
	return 0, 0, nil
}

func (m *mockVideoRepository) IncrementCommentCount(ctx context.Context, tx *sqlx.Tx, videoID int64, delta int) error {
	return nil
}

type mockCommentRepository struct {
	createFn       func(ctx context.Context, tx *sqlx.Tx, videoID, userID int64, content string, parentID *int64) (*model.Comment, error)
	getByIDFn      func(ctx context.Context, commentID int64) (*model.Comment, error)
	listTopLevelFn func(ctx context.Context, videoID int64) ([]model.Comment, error)
	listRepliesFn  func(ctx context.Context, parentID int64) ([]model.Comment, error)
	deleteThreadFn func(ctx context.Context, tx *sqlx.Tx, commentID int64) (int, error)
}

func (m *mockCommentRepository) Create(ctx context.Context, tx *sqlx.Tx, videoID, userID int64, content string, parentID *int64) (*model.Comment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, tx, videoID, userID, content, parentID)
	}
	return &model.Comment{VideoID: videoID, UserID: userID, Content: content, ParentCommentID: parentID}, nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockCommentRepository) ListTopLevel(ctx context.Context, videoID int64) ([]model.Comment, error) {
	if m.listTopLevelFn != nil {
		return m.listTopLevelFn(ctx, videoID)
	}
	return nil, nil
}

func (m *mockCommentRepository) ListReplies(ctx context.Context, parentID int64) ([]model.Comment, error) {
	if m.listRepliesFn != nil {
		return m.listRepliesFn(ctx, parentID)
	}
	return nil, nil
}

func (m *mockCommentRepository) DeleteThread(ctx context.Context, tx *sqlx.Tx, commentID int64) (int, error) {
	if m.deleteThreadFn != nil {
		return m.deleteThreadFn(ctx, tx, commentID)
	}
	return 1, nil
}

func (m *mockCommentRepository) HasLike(ctx context.Context, tx *sqlx.Tx, commentID, userID int64) (bool, error) {
	return false, nil
}

func (m *mockCommentRepository) InsertLike(ctx context.Context, tx *sqlx.Tx, commentID, userID int64) error {
	return nil
}

func (m *mockCommentRepository) DeleteLike(ctx context.Context, tx *sqlx.Tx, commentID, userID int64) error {
	return nil
}

func (m *mockCommentRepository) IncrementLikeCount(ctx context.Context, tx *sqlx.Tx, commentID int64, delta int) error {
	return nil
}

func (m *mockCommentRepository) GetLikeCount(ctx context.Context, tx *sqlx.Tx, commentID int64) (int, error) {
	return 0, nil
}

type mockSubscriptionRepository struct {
	existsFn             func(ctx context.Context, subscriberID, channelID int64) (bool, error)
	createFn             func(ctx context.Context, tx *sqlx.Tx, subscriberID, channelID int64) (bool, error)
	deleteFn             func(ctx context.Context, tx *sqlx.Tx, subscriberID, channelID int64) error
	getChannelIDsFn      func(ctx context.Context, subscriberID int64) ([]int64, error)
	getSubscriberIDsFn   func(ctx context.Context, channelID int64) ([]int64, error)
	checkSubscriptionsFn func(ctx context.Context, subscriberID int64, channelIDs []int64) (map[int64]bool, error)
}

func (m *mockSubscriptionRepository) Exists(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, subscriberID, channelID)
	}
	return false, nil
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, tx *sqlx.Tx, subscriberID, channelID int64) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, tx, subscriberID, channelID)
	}
	return true, nil
}

func (m *mockSubscriptionRepository) Delete(ctx context.Context, tx *sqlx.Tx, subscriberID, channelID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, tx, subscriberID, channelID)
	}
	return nil
}

func (m *mockSubscriptionRepository) GetChannelIDs(ctx context.Context, subscriberID int64) ([]int64, error) {
	if m.getChannelIDsFn != nil {
		return m.getChannelIDsFn(ctx, subscriberID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) GetSubscriberIDs(ctx context.Context, channelID int64) ([]int64, error) {
	if m.getSubscriberIDsFn != nil {
		return m.getSubscriberIDsFn(ctx, channelID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) CheckSubscriptions(ctx context.Context, subscriberID int64, channelIDs []int64) (map[int64]bool, error) {
	if m.checkSubscriptionsFn != nil {
		return m.checkSubscriptionsFn(ctx, subscriberID, channelIDs)
	}
	return map[int64]bool{}, nil
}

// mockPublisher records published events.
type mockPublisher struct {
	publishFn func(ctx context.Context, stream string, event queue.FeedEvent) (string, error)
	published []queue.FeedEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.FeedEvent) (string, error) {
	m.published = append(m.published, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, stream, event)
	}
	return "0-0", nil
}
