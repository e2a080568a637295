package services

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/roastery/app/models"
	"github.com/shashiranjanraj/roastery/app/repositories"
	"github.com/shashiranjanraj/roastery/pkg/cleanup"
	"github.com/shashiranjanraj/roastery/pkg/logger"
	"github.com/shashiranjanraj/roastery/pkg/orm"
	"github.com/shashiranjanraj/roastery/pkg/storage"
	"github.com/shashiranjanraj/roastery/pkg/validate"
)

// UserStore is the persistence collaborator for the user workflows.
type UserStore interface {
	Create(user *models.User) error
	FindByID(id uint) (models.User, error)
	FindByEmail(email string) (models.User, error)
	EmailExistsExcluding(email string, excludeID uint) (bool, error)
	Update(user *models.User) error
	Delete(user *models.User) error
	All(page, limit int) ([]models.User, orm.Pagination, error)
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	FirstName string `json:"firstName" validate:"required,alpha,max=100"`
	LastName  string `json:"lastName" validate:"required,alpha,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Age       int    `json:"age" validate:"nullable,gte=16,lte=120"`
}

// UserService manages profiles: reads, paginated listing, the avatar
// replacement discipline, and account removal.
type UserService struct {
	repo   UserStore
	assets AssetStore
}

func NewUserService(repo UserStore, assets AssetStore) *UserService {
	return &UserService{repo: repo, assets: assets}
}

// Profile fetches one user by id.
func (s *UserService) Profile(id uint) (models.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("fetch user %d: %w", id, err)
	}
	return user, nil
}

// List returns one page of users in insertion order.
func (s *UserService) List(page, limit int) ([]models.User, orm.Pagination, error) {
	users, pagination, err := s.repo.All(page, limit)
	if err != nil {
		return nil, orm.Pagination{}, fmt.Errorf("list users: %w", err)
	}
	return users, pagination, nil
}

// UpdateProfile applies the editable fields and, when an avatar is supplied,
// replaces it new-before-old: the new file is stored first, the record is
// updated, and only then is the previous file deleted best-effort. A
// uniqueness violation discovered after the upload deletes the new avatar
// again so nothing leaks.
func (s *UserService) UpdateProfile(id uint, input ProfileInput, avatar *storage.Upload) (models.User, error) {
	user, err := s.Profile(id)
	if err != nil {
		return models.User{}, err
	}

	errs := validate.Struct(&input)
	if validate.HasErrors(errs) {
		return models.User{}, NewValidationError(errs)
	}

	var newRef string
	if avatar != nil {
		newRef, err = s.assets.Save(*avatar, "avatars")
		if err != nil {
			return models.User{}, wrapUpload(err)
		}
	}

	taken, err := s.repo.EmailExistsExcluding(input.Email, id)
	if err == nil && taken {
		err = &DuplicateError{Field: "email"}
	}
	if err != nil {
		if newRef != "" {
			_ = s.assets.Remove(newRef)
		}
		var dup *DuplicateError
		if errors.As(err, &dup) {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("check email for user %d: %w", id, err)
	}

	oldRef := user.ProfilePic
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Email = input.Email
	if input.Age != 0 {
		user.Age = input.Age
	}
	if newRef != "" {
		user.ProfilePic = newRef
	}

	if err := s.repo.Update(&user); err != nil {
		if newRef != "" {
			_ = s.assets.Remove(newRef)
		}
		return models.User{}, fmt.Errorf("update user %d: %w", id, err)
	}

	if newRef != "" && oldRef != "" && oldRef != newRef {
		st := cleanup.New("user.update")
		st.Add("remove "+oldRef, func() error { return s.assets.Remove(oldRef) })
		st.Run()
	}

	return user, nil
}

// DeleteAccount removes the user record, then deletes the avatar best-effort.
func (s *UserService) DeleteAccount(id uint) error {
	user, err := s.Profile(id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(&user); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	if user.ProfilePic != "" {
		st := cleanup.New("user.delete")
		st.Add("remove "+user.ProfilePic, func() error { return s.assets.Remove(user.ProfilePic) })
		st.Run()
	}

	logger.Info("user deleted", "id", id)
	return nil
}

// AvatarURL resolves a stored avatar reference for responses.
func (s *UserService) AvatarURL(ref string) string {
	if ref == "" {
		return ""
	}
	return s.assets.URL(ref)
}
