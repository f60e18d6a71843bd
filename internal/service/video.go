package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/rubenreut/youtube-clone/internal/config"
	"github.com/rubenreut/youtube-clone/internal/model"
	"github.com/rubenreut/youtube-clone/internal/queue"
	"github.com/rubenreut/youtube-clone/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// VideoService handles video metadata, the browse catalog and search.
type VideoService struct {
	repo      repository.VideoRepository
	userRepo  repository.UserRepository
	publisher queue.Publisher
	config    *config.Config
}

func NewVideoService(repo repository.VideoRepository, userRepo repository.UserRepository, publisher queue.Publisher, cfg *config.Config) *VideoService {
	return &VideoService{
		repo:      repo,
		userRepo:  userRepo,
		publisher: publisher,
		config:    cfg,
	}
}

// Create persists uploaded video metadata and announces the upload to the
// feed workers.
func (s *VideoService) Create(ctx context.Context, creatorID int64, req *model.UploadVideoRequest, videoURL, thumbnailURL string) (*model.Video, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.ErrTitleRequired
	}
	if len(title) > model.MaxVideoTitleLength {
		return nil, model.ErrTitleTooLong
	}
	if len(req.Description) > s.config.MaxVideoDescriptionLength {
		return nil, model.ErrDescriptionTooLong
	}

	category := req.Category
	if !model.IsValidCategory(category) {
		category = model.CategoryOther
	}

	if thumbnailURL == "" {
		thumbnailURL = s.config.DefaultThumbnailURL
	}

	video := &model.Video{
		CreatorID:    creatorID,
		Title:        title,
		Description:  req.Description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     req.Duration,
		Category:     category,
	}

	if err := s.repo.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	// Fan-out happens asynchronously; an enqueue failure must not fail the upload
	event := queue.NewVideoUploadedEvent(video.ID, creatorID)
	if _, err := s.publisher.Publish(ctx, queue.StreamSubFeed, event); err != nil {
		log.Printf("[VideoService] Failed to publish upload event video=%d: %v", video.ID, err)
	}

	if err := s.attachCreators(ctx, []*model.Video{video}); err != nil {
		log.Printf("[VideoService] Failed to attach creator video=%d: %v", video.ID, err)
	}

	return video, nil
}

// Get returns a video by ID, counting the fetch as a view.
func (s *VideoService) Get(ctx context.Context, videoID int64) (*model.Video, error) {
	video, err := s.repo.IncrementViews(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if err := s.attachCreators(ctx, []*model.Video{video}); err != nil {
		return nil, err
	}
	return video, nil
}

// Update edits a video's metadata. Only the creator may edit.
func (s *VideoService) Update(ctx context.Context, videoID, userID int64, req *model.UpdateVideoRequest) (*model.Video, error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.CreatorID != userID {
		return nil, model.ErrNotVideoCreator
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, model.ErrTitleRequired
		}
		if len(title) > model.MaxVideoTitleLength {
			return nil, model.ErrTitleTooLong
		}
		video.Title = title
	}
	if req.Description != nil {
		if len(*req.Description) > s.config.MaxVideoDescriptionLength {
			return nil, model.ErrDescriptionTooLong
		}
		video.Description = *req.Description
	}
	if req.Category != nil {
		if model.IsValidCategory(*req.Category) {
			video.Category = *req.Category
		} else {
			video.Category = model.CategoryOther
		}
	}

	if err := s.repo.Update(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	if err := s.attachCreators(ctx, []*model.Video{video}); err != nil {
		return nil, err
	}
	return video, nil
}

// Delete removes a video. Only the creator may delete. Comments, reactions
// and watch entries go with it via FK cascade.
func (s *VideoService) Delete(ctx context.Context, videoID, userID int64) error {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if video.CreatorID != userID {
		return model.ErrNotVideoCreator
	}

	if err := s.repo.Delete(ctx, videoID); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	event := queue.NewVideoDeletedEvent(videoID, video.CreatorID)
	if _, err := s.publisher.Publish(ctx, queue.StreamSubFeed, event); err != nil {
		log.Printf("[VideoService] Failed to publish delete event video=%d: %v", videoID, err)
	}

	log.Printf("[VideoService] Deleted video id=%d creator=%d", videoID, video.CreatorID)
	return nil
}

// List returns a catalog page, newest first, optionally filtered by category.
// Unknown categories behave as no filter.
func (s *VideoService) List(ctx context.Context, category string, page, limit int) (*model.VideoListResponse, error) {
	page, limit = clampPage(page, limit)

	if !model.IsValidCategory(category) {
		category = ""
	}

	total, err := s.repo.Count(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}

	videos, err := s.repo.List(ctx, category, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	if err := s.attachCreatorsSlice(ctx, videos); err != nil {
		return nil, err
	}

	return &model.VideoListResponse{
		Videos:     videos,
		Pagination: buildPagination(page, limit, total),
	}, nil
}

// Search returns videos whose title or description contains the query as a
// literal substring, most viewed first.
func (s *VideoService) Search(ctx context.Context, query string, page, limit int) (*model.VideoListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.ErrSearchQueryMissing
	}
	if len(query) > model.MaxSearchQueryLength {
		return nil, model.ErrSearchQueryTooLong
	}

	page, limit = clampPage(page, limit)

	total, err := s.repo.CountSearch(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}

	videos, err := s.repo.Search(ctx, query, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}

	if err := s.attachCreatorsSlice(ctx, videos); err != nil {
		return nil, err
	}

	return &model.VideoListResponse{
		Videos:     videos,
		Pagination: buildPagination(page, limit, total),
	}, nil
}

// GetRecommended returns videos related to the given one (same category or
// same creator, most viewed first), padded with popular videos when thin.
func (s *VideoService) GetRecommended(ctx context.Context, videoID int64) ([]model.Video, error) {
	video, err := s.repo.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}

	related, err := s.repo.GetRelated(ctx, videoID, video.Category, video.CreatorID, model.RecommendedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load related videos: %w", err)
	}

	if len(related) < model.RecommendedMinBeforePad {
		exclude := make([]int64, 0, len(related)+1)
		exclude = append(exclude, videoID)
		for _, v := range related {
			exclude = append(exclude, v.ID)
		}

		popular, err := s.repo.GetPopularExcluding(ctx, exclude, model.RecommendedLimit-len(related))
		if err != nil {
			return nil, fmt.Errorf("failed to load popular videos: %w", err)
		}
		related = append(related, popular...)
	}

	if len(related) > model.RecommendedLimit {
		related = related[:model.RecommendedLimit]
	}

	if err := s.attachCreatorsSlice(ctx, related); err != nil {
		return nil, err
	}
	return related, nil
}

// attachCreatorsSlice joins creator summaries onto videos with one batch query.
func (s *VideoService) attachCreatorsSlice(ctx context.Context, videos []model.Video) error {
	if len(videos) == 0 {
		return nil
	}
	ptrs := make([]*model.Video, len(videos))
	for i := range videos {
		ptrs[i] = &videos[i]
	}
	return s.attachCreators(ctx, ptrs)
}

func (s *VideoService) attachCreators(ctx context.Context, videos []*model.Video) error {
	ids := make([]int64, 0, len(videos))
	seen := make(map[int64]bool, len(videos))
	for _, v := range videos {
		if !seen[v.CreatorID] {
			seen[v.CreatorID] = true
			ids = append(ids, v.CreatorID)
		}
	}

	summaries, err := s.userRepo.GetSummaries(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load creators: %w", err)
	}

	for _, v := range videos {
		if summary, ok := summaries[v.CreatorID]; ok {
			s := summary
			v.Creator = &s
		}
	}
	return nil
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func buildPagination(page, limit int, total int64) model.Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return model.Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   pages,
		HasMore: int64(page)*int64(limit) < total,
	}
}
