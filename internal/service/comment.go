package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

type commentService struct {
	commentRepo   repositories.CommentRepository
	docRepo       repositories.DocumentRepository
	activityRepo  repositories.ActivityRepository
	publisher     services.ActivityPublisher
	txManager     repositories.TransactionManager
	docPolicy     services.AccessPolicy
	commentPolicy services.AccessPolicy
	logger        *slog.Logger
}

// NewCommentService creates a new comment service. docPolicy governs who may
// see the document a comment hangs off; commentPolicy restricts edits to the
// author or an administrator.
func NewCommentService(
	commentRepo repositories.CommentRepository,
	docRepo repositories.DocumentRepository,
	activityRepo repositories.ActivityRepository,
	publisher services.ActivityPublisher,
	txManager repositories.TransactionManager,
	docPolicy services.AccessPolicy,
	commentPolicy services.AccessPolicy,
	logger *slog.Logger,
) services.CommentService {
	return &commentService{
		commentRepo:   commentRepo,
		docRepo:       docRepo,
		activityRepo:  activityRepo,
		publisher:     publisher,
		txManager:     txManager,
		docPolicy:     docPolicy,
		commentPolicy: commentPolicy,
		logger:        logger,
	}
}

// AddComment persists a comment and logs a "commented" activity. Anyone who
// can read the document may comment on it.
func (s *commentService) AddComment(ctx context.Context, p models.Principal, documentID string, req *services.CreateCommentRequest, origin string) (*models.Comment, error) {
	if err := s.validateContent(req.Content); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.docPolicy.Authorize(p, doc, services.OpRead); err != nil {
		return nil, err
	}

	// A reply threads under a comment on the same document
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent comment: %w", err)
		}
		if parent.DocumentID != documentID {
			return nil, fmt.Errorf("%w: parent comment belongs to another document", domain.ErrValidation)
		}
	}

	comment := &models.Comment{
		DocumentID: documentID,
		UserID:     p.ID,
		Content:    req.Content,
		ParentID:   req.ParentID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	activity := &models.DocumentActivity{
		DocumentID:  &doc.ID,
		UserID:      p.ID,
		Kind:        models.ActivityCommented,
		Description: "Added a comment",
		IPAddress:   origin,
		CreatedAt:   time.Now(),
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.commentRepo.Create(ctx, comment); err != nil {
			return err
		}
		return s.activityRepo.Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, activity); err != nil {
		s.logger.Warn("activity publish failed", "activity_id", activity.ID, "error", err)
	}

	s.logger.Info("comment added",
		"id", comment.ID,
		"document_id", documentID,
		"user_id", p.ID,
		"is_reply", comment.ParentID != nil,
	)

	return comment, nil
}

// ListComments lists comments on a document visible to the principal
func (s *commentService) ListComments(ctx context.Context, p models.Principal, documentID string) ([]models.Comment, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.docPolicy.Authorize(p, doc, services.OpRead); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByDocument(ctx, documentID)
}

// GetComment retrieves a comment; visibility follows the document
func (s *commentService) GetComment(ctx context.Context, p models.Principal, id string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, comment.DocumentID)
	if err != nil {
		return nil, err
	}
	if err := s.docPolicy.Authorize(p, doc, services.OpRead); err != nil {
		return nil, err
	}

	return comment, nil
}

// UpdateComment edits a comment's content (author or admin only)
func (s *commentService) UpdateComment(ctx context.Context, p models.Principal, id string, req *services.UpdateCommentRequest) (*models.Comment, error) {
	if err := s.validateContent(req.Content); err != nil {
		return nil, err
	}

	comment, err := s.GetComment(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.commentPolicy.Authorize(p, comment, services.OpWrite); err != nil {
		return nil, err
	}

	comment.Content = req.Content
	comment.UpdatedAt = time.Now()

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment updated", "id", id, "user_id", p.ID)
	return comment, nil
}

// DeleteComment deletes a comment (author or admin only); replies cascade
func (s *commentService) DeleteComment(ctx context.Context, p models.Principal, id string) error {
	comment, err := s.GetComment(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.commentPolicy.Authorize(p, comment, services.OpWrite); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("comment deleted", "id", id, "user_id", p.ID)
	return nil
}

func (s *commentService) validateContent(content string) error {
	err := validation.Validate(content,
		validation.Required,
		validation.Length(1, config.MaxCommentLength),
	)
	if err != nil {
		return fmt.Errorf("%w: content: %v", domain.ErrValidation, err)
	}
	return nil
}
