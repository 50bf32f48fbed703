package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/blog-api/internal/domain/entity"
	"github.com/yourusername/blog-api/internal/domain/repository"
	apperrors "github.com/yourusername/blog-api/internal/pkg/errors"
)

// CommentService handles comments under posts.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	notifier    Notifier
}

// NewCommentService creates a new comment service. The notifier is optional.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) (*CommentService, error) {
	if commentRepo == nil {
		return nil, fmt.Errorf("CommentRepository is required for CommentService")
	}
	if postRepo == nil {
		return nil, fmt.Errorf("PostRepository is required for CommentService")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for CommentService")
	}
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}, nil
}

// Create stores a comment under an existing post by an existing user and
// notifies the post author.
func (s *CommentService) Create(postID, userID uint, body string) (*entity.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is required", apperrors.ErrValidation)
	}

	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		PostID: postID,
		UserID: userID,
		Body:   body,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.notifyAuthor(post, userID, map[string]interface{}{
		"type":       "new_comment",
		"post_id":    post.ID,
		"comment_id": comment.ID,
		"from":       user.FullName,
	})

	return comment, nil
}

// ListByPost returns a post's comments, newest first.
func (s *CommentService) ListByPost(postID uint) ([]entity.Comment, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(postID)
}

// Delete removes a comment from a post. The comment must belong to the post,
// and only the comment author or the post author may delete it.
func (s *CommentService) Delete(postID, commentID, requesterID uint) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return err
	}
	if comment.PostID != post.ID {
		return fmt.Errorf("%w: comment does not belong to the post", apperrors.ErrNotFound)
	}
	if comment.UserID != requesterID && post.UserID != requesterID {
		return fmt.Errorf("%w: not allowed to delete this comment", apperrors.ErrForbidden)
	}

	return s.commentRepo.Delete(commentID)
}

func (s *CommentService) notifyAuthor(post *entity.Post, actorID uint, event map[string]interface{}) {
	if s.notifier == nil || post.UserID == actorID {
		return
	}
	if err := s.notifier.SendToUser(post.UserID, event); err != nil {
		log.Printf("[CommentService] failed to notify user ID=%d: %v", post.UserID, err)
	}
}
