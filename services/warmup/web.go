package warmup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shopbasket/lib/mycontext"
	"github.com/MarcGrol/shopbasket/lib/myerrors"
	"github.com/MarcGrol/shopbasket/lib/myhttp"
	"github.com/MarcGrol/shopbasket/lib/mylog"
	"github.com/MarcGrol/shopbasket/services/catalog"
)

type CatalogReader interface {
	ListActiveProducts(c context.Context) ([]catalog.Product, error)
}

type webService struct {
	logger  mylog.Logger
	catalog CatalogReader
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(catalogReader CatalogReader) *webService {
	return &webService{
		logger:  mylog.New("warmup"),
		catalog: catalogReader,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")
}

// warmupPage touches the catalog store so the first shopper does not pay for connecting
func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		products, err := s.catalog.ListActiveProducts(c)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}
		if len(products) == 0 {
			responseWriter.WriteError(c, w, 2, myerrors.NewUnavailableError(fmt.Errorf("catalog is empty")))
			return
		}

		responseWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Successfully processed warmup request: %d products available", len(products)),
		})
	}
}
