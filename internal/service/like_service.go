package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/blog-api/internal/domain/entity"
	"github.com/yourusername/blog-api/internal/domain/repository"
	apperrors "github.com/yourusername/blog-api/internal/pkg/errors"
)

func likeCountCacheKey(postID uint) string {
	return fmt.Sprintf("post:%d:likes", postID)
}

// LikeService handles likes and the denormalized per-post like counter.
type LikeService struct {
	likeRepo  repository.LikeRepository
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	cacheRepo repository.CacheRepository
	notifier  Notifier
}

// NewLikeService creates a new like service. Cache and notifier are optional.
func NewLikeService(
	likeRepo repository.LikeRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	notifier Notifier,
) (*LikeService, error) {
	if likeRepo == nil {
		return nil, fmt.Errorf("LikeRepository is required for LikeService")
	}
	if postRepo == nil {
		return nil, fmt.Errorf("PostRepository is required for LikeService")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for LikeService")
	}
	return &LikeService{
		likeRepo:  likeRepo,
		postRepo:  postRepo,
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		notifier:  notifier,
	}, nil
}

// Like records that a user liked a post. Liking the same post twice fails
// with ErrConflict and the counter moves exactly once; the unique index on
// (post_id, user_id) is the serialization point for concurrent attempts.
func (s *LikeService) Like(postID, userID uint) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	like := &entity.Like{
		PostID: postID,
		UserID: userID,
	}
	if err := s.likeRepo.Create(like); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: already liked", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create like: %w", err)
	}

	s.adjustCounters(postID, 1)

	if s.notifier != nil && post.UserID != userID {
		event := map[string]interface{}{
			"type":    "new_like",
			"post_id": post.ID,
			"from":    user.FullName,
		}
		if err := s.notifier.SendToUser(post.UserID, event); err != nil {
			log.Printf("[LikeService] failed to notify user ID=%d: %v", post.UserID, err)
		}
	}
	return nil
}

// Unlike removes a user's like from a post.
func (s *LikeService) Unlike(postID, userID uint) error {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return err
	}

	if err := s.likeRepo.Delete(postID, userID); err != nil {
		return err
	}

	s.adjustCounters(postID, -1)
	return nil
}

// Count returns a post's like count from the cache, falling back to the
// likes table and repopulating the cache on a miss.
func (s *LikeService) Count(postID uint) (int64, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return 0, err
	}

	if s.cacheRepo != nil {
		if val, err := s.cacheRepo.Get(likeCountCacheKey(postID)); err == nil {
			var count int64
			if _, scanErr := fmt.Sscanf(val, "%d", &count); scanErr == nil {
				return count, nil
			}
		}
	}

	count, err := s.likeRepo.CountByPost(postID)
	if err != nil {
		return 0, err
	}
	if s.cacheRepo != nil {
		if err := s.cacheRepo.Set(likeCountCacheKey(postID), count, 0); err != nil {
			log.Printf("[LikeService] failed to cache like count for post ID=%d: %v", postID, err)
		}
	}
	return count, nil
}

// adjustCounters moves the denormalized DB counter and the cached counter.
// Failures are logged; the likes table stays the source of truth.
func (s *LikeService) adjustCounters(postID uint, delta int) {
	if err := s.postRepo.IncrementLikeCount(postID, delta); err != nil {
		log.Printf("[LikeService] failed to adjust like_count for post ID=%d: %v", postID, err)
	}
	if s.cacheRepo != nil {
		exists, err := s.cacheRepo.Exists(likeCountCacheKey(postID))
		if err == nil && exists {
			if _, err := s.cacheRepo.IncrementBy(likeCountCacheKey(postID), int64(delta)); err != nil {
				log.Printf("[LikeService] failed to adjust cached like count for post ID=%d: %v", postID, err)
			}
		}
	}
}
