package seed

import (
	"context"
	"fmt"
	"log/slog"

	"bookmarkd/internal/config"
	"bookmarkd/internal/domain/models"
	"bookmarkd/internal/repository"
)

// Result maps fixture keys to the ids they were inserted under
type Result struct {
	Users       map[string]int64
	Collections map[string]int64
	Links       []int64
}

// Seeder writes fixtures into a store
type Seeder struct {
	store  *repository.Store
	logger *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(store *repository.Store, logger *slog.Logger) *Seeder {
	return &Seeder{
		store:  store,
		logger: logger,
	}
}

// Seed inserts the whole fixture in one transaction
func (s *Seeder) Seed(ctx context.Context, f *Fixture) (*Result, error) {
	result := &Result{
		Users:       map[string]int64{},
		Collections: map[string]int64{},
	}

	err := s.store.Tx.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.seedUsers(txCtx, f, result); err != nil {
			return err
		}
		if err := s.seedCollections(txCtx, f, result); err != nil {
			return err
		}
		if err := s.seedOrders(txCtx, f, result); err != nil {
			return err
		}
		if err := s.seedMemberships(txCtx, f, result); err != nil {
			return err
		}
		if err := s.seedLinks(txCtx, f, result); err != nil {
			return err
		}
		return s.seedSections(txCtx, f, result)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fixture seeded",
		"users", len(result.Users),
		"collections", len(result.Collections),
		"links", len(result.Links),
		"memberships", len(f.Memberships),
		"sections", len(f.Sections),
	)

	return result, nil
}

func (s *Seeder) seedUsers(ctx context.Context, f *Fixture, result *Result) error {
	for _, u := range f.Users {
		user := &models.User{Username: u.Name}
		if err := s.store.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("seed user %q: %w", u.Key, err)
		}
		result.Users[u.Key] = user.ID
	}
	return nil
}

// seedCollections inserts parents before children regardless of fixture order
func (s *Seeder) seedCollections(ctx context.Context, f *Fixture, result *Result) error {
	pending := f.Collections
	for len(pending) > 0 {
		var next []CollectionFixture
		for _, c := range pending {
			var parentID *int64
			if c.Parent != "" {
				id, ok := result.Collections[c.Parent]
				if !ok {
					next = append(next, c)
					continue
				}
				parentID = &id
			}

			ownerID, err := lookup(result.Users, "user", c.Owner)
			if err != nil {
				return err
			}

			collection := &models.Collection{Name: c.Name, OwnerID: ownerID, ParentID: parentID}
			if err := s.store.Collections.Create(ctx, collection); err != nil {
				return fmt.Errorf("seed collection %q: %w", c.Key, err)
			}
			result.Collections[c.Key] = collection.ID
		}

		if len(next) == len(pending) {
			return fmt.Errorf("seed collections: unknown parent %q", next[0].Parent)
		}
		pending = next
	}
	return nil
}

func (s *Seeder) seedOrders(ctx context.Context, f *Fixture, result *Result) error {
	for _, u := range f.Users {
		order := make([]int64, 0, len(u.Order))
		for _, key := range u.Order {
			id, err := lookup(result.Collections, "collection", key)
			if err != nil {
				return err
			}
			order = append(order, id)
		}
		if err := s.store.Users.SetCollectionOrder(ctx, result.Users[u.Key], order); err != nil {
			return fmt.Errorf("seed order of %q: %w", u.Key, err)
		}
	}
	return nil
}

func (s *Seeder) seedMemberships(ctx context.Context, f *Fixture, result *Result) error {
	for _, m := range f.Memberships {
		userID, err := lookup(result.Users, "user", m.User)
		if err != nil {
			return err
		}
		collectionID, err := lookup(result.Collections, "collection", m.Collection)
		if err != nil {
			return err
		}

		err = s.store.Memberships.Create(ctx, &models.Membership{
			UserID:       userID,
			CollectionID: collectionID,
			CanCreate:    m.CanCreate,
			CanUpdate:    m.CanUpdate,
			CanDelete:    m.CanDelete,
		})
		if err != nil {
			return fmt.Errorf("seed membership %s/%s: %w", m.User, m.Collection, err)
		}
	}
	return nil
}

func (s *Seeder) seedLinks(ctx context.Context, f *Fixture, result *Result) error {
	for _, l := range f.Links {
		collectionID, err := lookup(result.Collections, "collection", l.Collection)
		if err != nil {
			return err
		}

		link := &models.Link{Name: l.Name, URL: l.URL, CollectionID: collectionID}
		if l.Indexed {
			version := config.SearchIndexVersion
			link.IndexVersion = &version
		}
		if err := s.store.Links.Create(ctx, link); err != nil {
			return fmt.Errorf("seed link %q: %w", l.Name, err)
		}
		result.Links = append(result.Links, link.ID)
	}
	return nil
}

func (s *Seeder) seedSections(ctx context.Context, f *Fixture, result *Result) error {
	for _, sec := range f.Sections {
		userID, err := lookup(result.Users, "user", sec.User)
		if err != nil {
			return err
		}

		section := &models.DashboardSection{
			UserID: userID,
			Type:   models.DashboardSectionType(sec.Type),
			Order:  sec.Order,
		}
		if sec.Collection != "" {
			collectionID, err := lookup(result.Collections, "collection", sec.Collection)
			if err != nil {
				return err
			}
			section.CollectionID = &collectionID
		}

		if err := s.store.Dashboard.Create(ctx, section); err != nil {
			return fmt.Errorf("seed %s section of %q: %w", sec.Type, sec.User, err)
		}
	}
	return nil
}

func lookup(ids map[string]int64, kind, key string) (int64, error) {
	id, ok := ids[key]
	if !ok {
		return 0, fmt.Errorf("seed: unknown %s %q", kind, key)
	}
	return id, nil
}
