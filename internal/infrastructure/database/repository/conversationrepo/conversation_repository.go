package conversationrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"

	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/infrastructure/database/dbschema"
	"jan-server/services/chat-share/internal/infrastructure/database/transaction"
	"jan-server/services/chat-share/internal/utils/platformerrors"
)

type ConversationGormRepository struct {
	db *transaction.Database
}

var _ conversation.Store = (*ConversationGormRepository)(nil)

func NewConversationGormRepository(db *transaction.Database) *ConversationGormRepository {
	return &ConversationGormRepository{db: db}
}

// Get implements conversation.Store. Reads go to a replica when one is registered.
func (repo *ConversationGormRepository) Get(ctx context.Context, id string) (*conversation.Conversation, error) {
	var model dbschema.Conversation
	err := repo.db.GetTx(ctx).Clauses(dbresolver.Read).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "conversation not found", conversation.ErrNotFound, "conv-repo-404")
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to find conversation", err, "conv-repo-get")
	}

	conv, err := model.EtoD()
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal, "failed to decode conversation", err, "conv-repo-decode")
	}
	return conv, nil
}

// Create implements conversation.Store.
func (repo *ConversationGormRepository) Create(ctx context.Context, conv *conversation.Conversation) error {
	model, err := dbschema.NewSchemaConversation(conv)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal, "failed to encode conversation", err, "conv-repo-encode")
	}
	if err := repo.db.GetTx(ctx).Create(model).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to create conversation", err, "conv-repo-create")
	}
	return nil
}

// Update implements conversation.Store. The row is locked while it is rewritten.
func (repo *ConversationGormRepository) Update(ctx context.Context, conv *conversation.Conversation) error {
	model, err := dbschema.NewSchemaConversation(conv)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal, "failed to encode conversation", err, "conv-repo-encode")
	}

	return repo.db.Transaction(ctx, func(ctx context.Context) error {
		tx := repo.db.GetTx(ctx)

		var existing dbschema.Conversation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Where("id = ?", conv.ID).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "conversation not found", conversation.ErrNotFound, "conv-repo-404")
			}
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to lock conversation", err, "conv-repo-lock")
		}

		err := tx.Model(&dbschema.Conversation{}).
			Where("id = ?", conv.ID).
			Select("title", "share_path", "messages", "updated_at").
			Updates(model).Error
		if err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to update conversation", err, "conv-repo-update")
		}
		return nil
	})
}

// Mutate implements conversation.Store. The row is read on the primary with
// FOR UPDATE and rewritten in the same transaction.
func (repo *ConversationGormRepository) Mutate(ctx context.Context, id string, fn conversation.MutateFunc) (*conversation.Conversation, error) {
	var out *conversation.Conversation

	err := repo.db.Transaction(ctx, func(ctx context.Context) error {
		tx := repo.db.GetTx(ctx)

		var model dbschema.Conversation
		if err := tx.Clauses(dbresolver.Write, clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "conversation not found", conversation.ErrNotFound, "conv-repo-404")
			}
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to lock conversation", err, "conv-repo-lock")
		}

		conv, err := model.EtoD()
		if err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal, "failed to decode conversation", err, "conv-repo-decode")
		}

		changed, err := fn(conv)
		if err != nil {
			return err
		}
		conv.ID = id
		out = conv
		if !changed {
			return nil
		}

		updated, err := dbschema.NewSchemaConversation(conv)
		if err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeInternal, "failed to encode conversation", err, "conv-repo-encode")
		}
		err = tx.Model(&dbschema.Conversation{}).
			Where("id = ?", id).
			Select("title", "share_path", "messages", "updated_at").
			Updates(updated).Error
		if err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabase, "failed to update conversation", err, "conv-repo-update")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
