package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/MarcGrol/shopbasket/lib/myerrors"
	"github.com/MarcGrol/shopbasket/lib/mylog"
	"github.com/MarcGrol/shopbasket/lib/mystore"
	"github.com/MarcGrol/shopbasket/lib/mytime"
)

// Service is the read side of the product catalog, used by the basket to price its lines
type Service struct {
	productStore mystore.Store[Product]
	nower        mytime.Nower
	logger       mylog.Logger
}

func NewService(store mystore.Store[Product], nower mytime.Nower) *Service {
	return &Service{
		productStore: store,
		nower:        nower,
		logger:       mylog.New("catalog"),
	}
}

// ResolveActiveProduct only returns products that can be added to a basket
func (s *Service) ResolveActiveProduct(c context.Context, productID int) (Product, error) {
	product, found, err := s.GetProduct(c, productID)
	if err != nil {
		return Product{}, err
	}
	if !found {
		return Product{}, myerrors.NewNotFoundError(fmt.Errorf("%w: %d", ErrProductNotFound, productID))
	}
	if !product.IsActive {
		return Product{}, myerrors.NewInvalidInputErrorf("%w: %d", ErrProductInactive, productID)
	}
	return product, nil
}

func (s *Service) GetProduct(c context.Context, productID int) (Product, bool, error) {
	product, found, err := s.productStore.Get(c, productKey(productID))
	if err != nil {
		return Product{}, false, myerrors.NewInternalError(err)
	}
	return product, found, nil
}

func (s *Service) ListActiveProducts(c context.Context) ([]Product, error) {
	products, err := s.productStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	active := make([]Product, 0, len(products))
	for _, p := range products {
		if p.IsActive {
			active = append(active, p)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Name == active[j].Name {
			return active[i].ID < active[j].ID
		}
		return active[i].Name < active[j].Name
	})

	return active, nil
}

// Seed stores the given products, but only into an empty catalog
func (s *Service) Seed(c context.Context, products []Product) (int, error) {
	now := s.nower.Now()
	count := 0

	err := s.productStore.RunInTransaction(c, func(c context.Context) error {
		existing, err := s.productStore.List(c)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if len(existing) > 0 {
			return nil
		}

		for _, p := range products {
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			err = s.productStore.Put(c, productKey(p.ID), p)
			if err != nil {
				return myerrors.NewInternalError(err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Log(c, "", mylog.SeverityInfo, "Seeded catalog with %d products", count)

	return count, nil
}
