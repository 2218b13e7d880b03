package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// UserRepo implementa repository.UserRepository. El email se compara sin mayúsculas.
type UserRepo struct {
	s *Store
}

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreError("memory.User.Create", err)
	}
	key := strings.ToLower(u.Email)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[key]; ok {
		return domain.ErrEmailAlreadyExists
	}
	cp := *u
	r.s.users[key] = &cp
	r.s.userOrder = append(r.s.userOrder, key)
	return nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError("memory.User.FindByEmail", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError("memory.User.FindByID", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if _, u := r.byID(id); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

// Update reindexa el usuario si cambió el email.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreError("memory.User.Update", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	oldKey, current := r.byID(u.ID)
	if current == nil {
		return &domain.NotFoundError{Resource: "usuario", ID: u.ID}
	}
	newKey := strings.ToLower(u.Email)
	if other, ok := r.s.users[newKey]; ok && other.ID != u.ID {
		return domain.ErrEmailAlreadyExists
	}
	cp := *current
	cp.Email, cp.FirstName, cp.LastName, cp.Role, cp.UpdatedAt = newKey, u.FirstName, u.LastName, u.Role, u.UpdatedAt
	if newKey != oldKey {
		delete(r.s.users, oldKey)
		for i, key := range r.s.userOrder {
			if key == oldKey {
				r.s.userOrder[i] = newKey
			}
		}
	}
	r.s.users[newKey] = &cp
	return nil
}

// byID requiere el lock tomado.
func (r *UserRepo) byID(id string) (string, *entity.User) {
	for key, u := range r.s.users {
		if u.ID == id {
			return key, u
		}
	}
	return "", nil
}

// List devuelve usuarios en orden de registro.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError("memory.User.List", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.User, 0)
	for i, key := range r.s.userOrder {
		if i < offset {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		cp := *r.s.users[key]
		out = append(out, &cp)
	}
	return out, nil
}
