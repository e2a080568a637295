package repositories_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/roastery/app/models"
	"github.com/shashiranjanraj/roastery/app/repositories"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}))
	return db
}

func seedProduct(t *testing.T, repo *repositories.ProductRepository, name string) models.Product {
	t.Helper()
	p := models.Product{
		Name:        name,
		Description: "test blend",
		Price:       500,
		Weight:      "250g",
		Type:        "bean",
		Origin:      "India",
		InStock:     true,
	}
	require.NoError(t, repo.Create(&p))
	return p
}

func TestFindByIDExcludesSoftDeleted(t *testing.T) {
	repo := repositories.NewProductRepositoryWith(testDB(t))
	p := seedProduct(t, repo, "Attikan Estate")

	got, err := repo.FindByID(p.ID, false)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)

	require.NoError(t, repo.SetDeleted(p.ID, true))

	_, err = repo.FindByID(p.ID, false)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// The row is still reachable for restore.
	got, err = repo.FindByID(p.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
}

func TestSetDeletedFlipsOnlyTheFlag(t *testing.T) {
	repo := repositories.NewProductRepositoryWith(testDB(t))
	p := seedProduct(t, repo, "Monsoon Malabar")
	p.SetImageRefs([]string{"products/a.png"})
	require.NoError(t, repo.Update(&p))

	require.NoError(t, repo.SetDeleted(p.ID, true))
	require.NoError(t, repo.SetDeleted(p.ID, false))

	got, err := repo.FindByID(p.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"products/a.png"}, got.ImageRefs())
	assert.Equal(t, p.Name, got.Name)
}

func TestListPaginatesInInsertionOrder(t *testing.T) {
	repo := repositories.NewProductRepositoryWith(testDB(t))

	for i := 1; i <= 12; i++ {
		seedProduct(t, repo, fmt.Sprintf("Blend %02d", i))
	}

	items, pagination, err := repo.List(2, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(12), pagination.Total)
	assert.Equal(t, 2, pagination.Page)
	assert.Equal(t, 5, pagination.Limit)
	assert.Equal(t, 3, pagination.TotalPages)

	require.Len(t, items, 5)
	assert.Equal(t, "Blend 06", items[0].Name)
	assert.Equal(t, "Blend 10", items[4].Name)
}

func TestListSkipsSoftDeleted(t *testing.T) {
	repo := repositories.NewProductRepositoryWith(testDB(t))

	a := seedProduct(t, repo, "Keep A")
	b := seedProduct(t, repo, "Drop B")
	c := seedProduct(t, repo, "Keep C")
	require.NoError(t, repo.SetDeleted(b.ID, true))

	items, pagination, err := repo.List(1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(2), pagination.Total)
	require.Len(t, items, 2)
	assert.Equal(t, a.ID, items[0].ID)
	assert.Equal(t, c.ID, items[1].ID)
}

func TestEmailExistsExcluding(t *testing.T) {
	repo := repositories.NewUserRepositoryWith(testDB(t))

	u1 := models.User{FirstName: "Asha", LastName: "Nair", Email: "asha@example.com", Password: "x"}
	u2 := models.User{FirstName: "Ravi", LastName: "Iyer", Email: "ravi@example.com", Password: "x"}
	require.NoError(t, repo.Create(&u1))
	require.NoError(t, repo.Create(&u2))

	// Another user's address is taken.
	taken, err := repo.EmailExistsExcluding("asha@example.com", u2.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	// Your own address is not.
	taken, err = repo.EmailExistsExcluding("asha@example.com", u1.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.EmailExistsExcluding("new@example.com", u1.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}
