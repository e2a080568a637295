package services_test

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shashiranjanraj/roastery/app/models"
	"github.com/shashiranjanraj/roastery/app/repositories"
	"github.com/shashiranjanraj/roastery/pkg/orm"
	"github.com/shashiranjanraj/roastery/pkg/storage"
)

// fakeAssets is an in-memory AssetStore that records every operation in
// order, so tests can assert new-before-old sequencing.
type fakeAssets struct {
	mu      sync.Mutex
	stored  map[string]bool
	seq     int
	failNth int  // 1-based: that Save call fails with an I/O StoreError
	reject  bool // every Save fails with an acceptance StoreError
	ops     []string
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{stored: map[string]bool{}}
}

func (f *fakeAssets) Save(up storage.Upload, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.reject {
		return "", &storage.StoreError{Reason: "content type not allowed"}
	}

	f.seq++
	if f.seq == f.failNth {
		return "", &storage.StoreError{Reason: "write", Err: errors.New("disk full")}
	}

	ref := fmt.Sprintf("%s/asset-%d", folder, f.seq)
	f.stored[ref] = true
	f.ops = append(f.ops, "save:"+ref)
	return ref, nil
}

func (f *fakeAssets) SaveAll(ups []storage.Upload, folder string) ([]string, error) {
	var refs []string
	for _, up := range ups {
		ref, err := f.Save(up, folder)
		if err != nil {
			f.RemoveAll(refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (f *fakeAssets) Remove(ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, ref)
	f.ops = append(f.ops, "remove:"+ref)
	return nil
}

func (f *fakeAssets) RemoveAll(refs []string) {
	for _, ref := range refs {
		_ = f.Remove(ref)
	}
}

func (f *fakeAssets) URL(ref string) string { return "/storage/" + ref }

func (f *fakeAssets) storedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

func (f *fakeAssets) has(ref string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored[ref]
}

func (f *fakeAssets) opLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.ops))
	copy(out, f.ops)
	return out
}

// fakeProductRepo is an in-memory ProductStore.
type fakeProductRepo struct {
	mu         sync.Mutex
	products   map[uint]models.Product
	nextID     uint
	failCreate bool
	failUpdate bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uint]models.Product{}}
}

func (r *fakeProductRepo) Create(p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("insert failed")
	}
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) FindByID(id uint, includeDeleted bool) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || (p.IsDeleted && !includeDeleted) {
		return models.Product{}, repositories.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) List(page, limit int) ([]models.Product, orm.Pagination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []uint
	for id, p := range r.products {
		if !p.IsDeleted {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	pagination := orm.NewPagination(int64(len(ids)), page, limit)
	start := pagination.Offset()
	if start > len(ids) {
		start = len(ids)
	}
	end := start + pagination.Limit
	if end > len(ids) {
		end = len(ids)
	}

	var out []models.Product
	for _, id := range ids[start:end] {
		out = append(out, r.products[id])
	}
	return out, pagination, nil
}

func (r *fakeProductRepo) Update(p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate {
		return errors.New("update failed")
	}
	if _, ok := r.products[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) SetDeleted(id uint, deleted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.IsDeleted = deleted
	r.products[id] = p
	return nil
}

// fakeUserRepo is an in-memory UserStore.
type fakeUserRepo struct {
	mu         sync.Mutex
	users      map[uint]models.User
	nextID     uint
	failUpdate bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]models.User{}}
}

func (r *fakeUserRepo) Create(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) FindByID(id uint) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (r *fakeUserRepo) EmailExistsExcluding(email string, excludeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate {
		return errors.New("update failed")
	}
	if _, ok := r.users[u.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Delete(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, u.ID)
	return nil
}

func (r *fakeUserRepo) All(page, limit int) ([]models.User, orm.Pagination, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []uint
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	pagination := orm.NewPagination(int64(len(ids)), page, limit)
	start := pagination.Offset()
	if start > len(ids) {
		start = len(ids)
	}
	end := start + pagination.Limit
	if end > len(ids) {
		end = len(ids)
	}

	var out []models.User
	for _, id := range ids[start:end] {
		out = append(out, r.users[id])
	}
	return out, pagination, nil
}
