// internal/app/features/contacts/handler.go
package contacts

import (
	"context"

	errorsfeature "github.com/Aashi1109/contacts-api/internal/app/features/errors"
	contactinfostore "github.com/Aashi1109/contacts-api/internal/app/store/contactinfos"
	userstore "github.com/Aashi1109/contacts-api/internal/app/store/users"
	"github.com/Aashi1109/contacts-api/internal/app/system/imagehost"
	"github.com/Aashi1109/contacts-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserStore is the subset of userstore.Store the contacts feature uses.
type UserStore interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, upd userstore.Update) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	IDsByName(ctx context.Context, name string) ([]primitive.ObjectID, error)
}

// ContactInfoStore is the subset of contactinfostore.Store the contacts
// feature uses.
type ContactInfoStore interface {
	CreateMany(ctx context.Context, userID primitive.ObjectID, infos []contactinfostore.NewInfo) ([]models.ContactInfo, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ContactInfo, error)
	Update(ctx context.Context, id primitive.ObjectID, upd contactinfostore.Update) (*models.ContactInfo, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) (*models.ContactInfo, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	NumbersInUse(ctx context.Context, numbers []string) ([]string, error)
	Find(ctx context.Context, f contactinfostore.Filter) ([]models.ContactInfoWithUser, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ContactInfo, error)
}

// Handler is the dependency container for the contacts API. Images may be
// nil, in which case requests carrying an image are rejected.
type Handler struct {
	Users  UserStore
	Infos  ContactInfoStore
	Images imagehost.Uploader
	ErrLog *errorsfeature.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs a contacts Handler. It is called from
// bootstrap.BuildHandler once the stores and the image host exist.
func NewHandler(users UserStore, infos ContactInfoStore, images imagehost.Uploader, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  users,
		Infos:  infos,
		Images: images,
		ErrLog: errLog,
		Log:    logger,
	}
}
