package basket

import (
	"context"

	"github.com/MarcGrol/shopbasket/lib/mylog"
	"github.com/MarcGrol/shopbasket/lib/mypublisher"
	"github.com/MarcGrol/shopbasket/lib/mystore"
	"github.com/MarcGrol/shopbasket/lib/mytime"
	"github.com/MarcGrol/shopbasket/lib/myuuid"
	"github.com/MarcGrol/shopbasket/services/catalog"
)

// ProductCatalog is the part of the catalog the basket depends on
type ProductCatalog interface {
	ResolveActiveProduct(c context.Context, productID int) (catalog.Product, error)
	GetProduct(c context.Context, productID int) (catalog.Product, bool, error)
}

type service struct {
	basketStore mystore.Store[Basket]
	catalog     ProductCatalog
	publisher   mypublisher.Publisher
	nower       mytime.Nower
	uuider      myuuid.UUIDer
	logger      mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(store mystore.Store[Basket], productCatalog ProductCatalog, nower mytime.Nower, uuider myuuid.UUIDer, logger mylog.Logger, pub mypublisher.Publisher) *service {
	return &service{
		basketStore: store,
		catalog:     productCatalog,
		publisher:   pub,
		nower:       nower,
		uuider:      uuider,
		logger:      logger,
	}
}
