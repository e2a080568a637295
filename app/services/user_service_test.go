package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/roastery/app/models"
	"github.com/shashiranjanraj/roastery/app/services"
	"github.com/shashiranjanraj/roastery/pkg/storage"
)

func seedUser(t *testing.T, repo *fakeUserRepo, email, pic string) models.User {
	t.Helper()
	u := models.User{
		FirstName:  "Asha",
		LastName:   "Nair",
		Email:      email,
		Password:   "irrelevant-hash",
		ProfilePic: pic,
	}
	require.NoError(t, repo.Create(&u))
	return u
}

func validProfileInput(email string) services.ProfileInput {
	return services.ProfileInput{
		FirstName: "Asha",
		LastName:  "Nair",
		Email:     email,
		Age:       30,
	}
}

func avatarUpload() *storage.Upload {
	return &storage.Upload{Name: "me.png", ContentType: "image/png", Data: []byte("png")}
}

func TestUpdateProfileValidation(t *testing.T) {
	repo := newFakeUserRepo()
	assets := newFakeAssets()
	svc := services.NewUserService(repo, assets)
	u := seedUser(t, repo, "asha@example.com", "")

	_, err := svc.UpdateProfile(u.ID, services.ProfileInput{Email: "not-an-email"}, avatarUpload())

	var ve *services.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "firstName")
	assert.Contains(t, ve.Fields, "email")

	// Validation failed, so the avatar was never stored.
	assert.Zero(t, assets.storedCount())
}

func TestUpdateProfileDuplicateEmailRemovesNewAvatar(t *testing.T) {
	repo := newFakeUserRepo()
	assets := newFakeAssets()
	svc := services.NewUserService(repo, assets)

	seedUser(t, repo, "taken@example.com", "")
	u := seedUser(t, repo, "asha@example.com", "")

	_, err := svc.UpdateProfile(u.ID, validProfileInput("taken@example.com"), avatarUpload())

	var dup *services.DuplicateError
	require.ErrorAs(t, err, &dup)

	// The avatar uploaded before the uniqueness check must be gone again.
	assert.Zero(t, assets.storedCount())

	current, ferr := repo.FindByID(u.ID)
	require.NoError(t, ferr)
	assert.Equal(t, "asha@example.com", current.Email)
	assert.Empty(t, current.ProfilePic)
}

func TestUpdateProfileKeepsOwnEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := services.NewUserService(repo, newFakeAssets())
	u := seedUser(t, repo, "asha@example.com", "")

	// Re-submitting your own address is not a duplicate.
	updated, err := svc.UpdateProfile(u.ID, validProfileInput("asha@example.com"), nil)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", updated.Email)
}

func TestUpdateProfileReplacesAvatarNewBeforeOld(t *testing.T) {
	repo := newFakeUserRepo()
	assets := newFakeAssets()
	svc := services.NewUserService(repo, assets)

	oldRef, err := assets.Save(*avatarUpload(), "avatars")
	require.NoError(t, err)
	u := seedUser(t, repo, "asha@example.com", oldRef)

	updated, err := svc.UpdateProfile(u.ID, validProfileInput("asha@example.com"), avatarUpload())
	require.NoError(t, err)

	newRef := updated.ProfilePic
	assert.NotEqual(t, oldRef, newRef)
	assert.True(t, assets.has(newRef))
	assert.False(t, assets.has(oldRef), "old avatar must be deleted after the update")

	ops := assets.opLog()
	saveIdx, removeIdx := -1, -1
	for i, op := range ops {
		if op == "save:"+newRef {
			saveIdx = i
		}
		if op == "remove:"+oldRef {
			removeIdx = i
		}
	}
	require.GreaterOrEqual(t, saveIdx, 0)
	require.GreaterOrEqual(t, removeIdx, 0)
	assert.Less(t, saveIdx, removeIdx)
}

func TestUpdateProfilePersistFailureKeepsOldAvatar(t *testing.T) {
	repo := newFakeUserRepo()
	assets := newFakeAssets()
	svc := services.NewUserService(repo, assets)

	oldRef, err := assets.Save(*avatarUpload(), "avatars")
	require.NoError(t, err)
	u := seedUser(t, repo, "asha@example.com", oldRef)

	repo.failUpdate = true
	_, err = svc.UpdateProfile(u.ID, validProfileInput("asha@example.com"), avatarUpload())
	require.Error(t, err)

	assert.True(t, assets.has(oldRef))
	assert.Equal(t, 1, assets.storedCount())
}

func TestUpdateProfileWithoutAvatarKeepsCurrent(t *testing.T) {
	repo := newFakeUserRepo()
	assets := newFakeAssets()
	svc := services.NewUserService(repo, assets)

	oldRef, err := assets.Save(*avatarUpload(), "avatars")
	require.NoError(t, err)
	u := seedUser(t, repo, "asha@example.com", oldRef)
	opsBefore := len(assets.opLog())

	updated, err := svc.UpdateProfile(u.ID, validProfileInput("asha@example.com"), nil)
	require.NoError(t, err)

	assert.Equal(t, oldRef, updated.ProfilePic)
	assert.Len(t, assets.opLog(), opsBefore)
}

func TestDeleteAccountRemovesAvatar(t *testing.T) {
	repo := newFakeUserRepo()
	assets := newFakeAssets()
	svc := services.NewUserService(repo, assets)

	ref, err := assets.Save(*avatarUpload(), "avatars")
	require.NoError(t, err)
	u := seedUser(t, repo, "asha@example.com", ref)

	require.NoError(t, svc.DeleteAccount(u.ID))

	_, err = repo.FindByID(u.ID)
	assert.Error(t, err)
	assert.Zero(t, assets.storedCount())
}

func TestProfileNotFound(t *testing.T) {
	svc := services.NewUserService(newFakeUserRepo(), newFakeAssets())
	_, err := svc.Profile(99)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
