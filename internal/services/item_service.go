package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"barterly/internal/domain"
	"barterly/internal/repos"
	"barterly/internal/validate"
)

// ItemInput is the owner-editable part of an item.
type ItemInput struct {
	Name        string
	Description string
	CategoryID  string
	Condition   string
}

type ItemService struct {
	Store *repos.Store
	Cats  *repos.CategoryRepo

	now func() time.Time
}

func NewItemService(store *repos.Store, cats *repos.CategoryRepo) *ItemService {
	return &ItemService{Store: store, Cats: cats, now: time.Now}
}

func (s *ItemService) clean(ctx context.Context, in ItemInput) (domain.Item, error) {
	name, ok := validate.ItemName(in.Name)
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: name must be 1-%d characters", domain.ErrInvalidInput, validate.MaxItemName)
	}
	desc, ok := validate.Description(in.Description)
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: description must be at most %d characters", domain.ErrInvalidInput, validate.MaxDescription)
	}
	cond, ok := validate.Condition(in.Condition)
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: select the item condition", domain.ErrInvalidInput)
	}
	catID, ok := validate.ID(in.CategoryID)
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}
	if _, err := s.Cats.Get(ctx, catID); err != nil {
		return domain.Item{}, err
	}
	return domain.Item{Name: name, Description: desc, CategoryID: catID, Condition: cond}, nil
}

// Create lists a new item owned by owner.
func (s *ItemService) Create(ctx context.Context, owner string, in ItemInput) (domain.Item, error) {
	it, err := s.clean(ctx, in)
	if err != nil {
		return domain.Item{}, err
	}
	it.ID = uuid.NewString()
	it.OwnerID = owner
	it.CreatedAt = s.now().UTC().Truncate(time.Microsecond)
	if err := s.Store.Items.Create(ctx, it); err != nil {
		return domain.Item{}, err
	}
	return it, nil
}

// Update edits an item's details. Only the current owner may do so; the owner never changes here.
func (s *ItemService) Update(ctx context.Context, actingUser, id string, in ItemInput) (domain.Item, error) {
	fields, err := s.clean(ctx, in)
	if err != nil {
		return domain.Item{}, err
	}
	var out domain.Item
	err = s.Store.InTx(ctx, func(tx *repos.Store) error {
		if err := tx.Items.Lock(ctx, id); err != nil {
			return err
		}
		it, err := tx.Items.Get(ctx, id)
		if err != nil {
			return err
		}
		if it.OwnerID != actingUser {
			return fmt.Errorf("%w: only the owner may edit an item", domain.ErrForbidden)
		}
		it.Name, it.Description, it.CategoryID, it.Condition = fields.Name, fields.Description, fields.CategoryID, fields.Condition
		if err := tx.Items.UpdateDetails(ctx, it); err != nil {
			return err
		}
		out = it
		return nil
	})
	return out, err
}

func (s *ItemService) Get(ctx context.Context, id string) (domain.Item, error) {
	return s.Store.Items.Get(ctx, id)
}

func (s *ItemService) ListByOwner(ctx context.Context, owner string) ([]domain.Item, error) {
	return s.Store.Items.ListByOwner(ctx, owner)
}
