package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shopbasket/lib/mycontext"
	"github.com/MarcGrol/shopbasket/lib/myerrors"
	"github.com/MarcGrol/shopbasket/lib/myhttp"
	"github.com/MarcGrol/shopbasket/lib/mylog"
)

type webService struct {
	logger  mylog.Logger
	service *Service
}

func NewWebService(service *Service) *webService {
	return &webService{
		logger:  mylog.New("catalog"),
		service: service,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/api/products", s.listProducts()).Methods("GET")
	router.HandleFunc("/api/products/{productID}", s.getProduct()).Methods("GET")
}

func (s *webService) listProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		products, err := s.service.ListActiveProducts(c)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, products)
	}
}

func (s *webService) getProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		productID, err := strconv.Atoi(mux.Vars(r)["productID"])
		if err != nil {
			responseWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("invalid product id: %s", err)))
			return
		}

		product, found, err := s.service.GetProduct(c, productID)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}
		if !found || !product.IsActive {
			responseWriter.WriteError(c, w, 3, myerrors.NewNotFoundError(fmt.Errorf("%w: %d", ErrProductNotFound, productID)))
			return
		}

		responseWriter.Write(c, w, http.StatusOK, product)
	}
}
