package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/blog-api/internal/domain/entity"
	"github.com/yourusername/blog-api/internal/domain/repository"
	apperrors "github.com/yourusername/blog-api/internal/pkg/errors"
)

const postCacheTTL = 5 * time.Minute

func postCacheKey(postID uint) string {
	return fmt.Sprintf("post:%d", postID)
}

// PostService handles blog post CRUD.
type PostService struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	cacheRepo repository.CacheRepository
}

// NewPostService creates a new post service. The cache is optional.
func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
) (*PostService, error) {
	if postRepo == nil {
		return nil, fmt.Errorf("PostRepository is required for PostService")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for PostService")
	}
	return &PostService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
	}, nil
}

// Create stores a new post for an existing user.
func (s *PostService) Create(userID uint, body string) (*entity.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: post body is required", apperrors.ErrValidation)
	}

	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}

	post := &entity.Post{
		UserID: userID,
		Body:   body,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// GetByID returns a post, serving from cache when possible.
func (s *PostService) GetByID(postID uint) (*entity.Post, error) {
	if s.cacheRepo != nil {
		var cached entity.Post
		if err := s.cacheRepo.GetJSON(postCacheKey(postID), &cached); err == nil {
			return &cached, nil
		}
	}

	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(postCacheKey(postID), post, postCacheTTL); err != nil {
			log.Printf("[PostService] failed to cache post ID=%d: %v", postID, err)
		}
	}
	return post, nil
}

// GetByUser returns all posts of an existing user, newest first.
func (s *PostService) GetByUser(userID uint) ([]entity.Post, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByUserID(userID)
}

// Delete removes a post and its comments and likes. Only the author may
// delete a post.
func (s *PostService) Delete(postID, requesterID uint) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if post.UserID != requesterID {
		return fmt.Errorf("%w: only the author can delete the post", apperrors.ErrForbidden)
	}

	if err := s.postRepo.Delete(postID); err != nil {
		return err
	}
	s.invalidateCache(postID)
	return nil
}

func (s *PostService) invalidateCache(postID uint) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(postCacheKey(postID)); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[PostService] failed to invalidate cache for post ID=%d: %v", postID, err)
	}
}
