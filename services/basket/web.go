package basket

import (
	"context"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/shopbasket/lib/mycontext"
	"github.com/MarcGrol/shopbasket/lib/myerrors"
	"github.com/MarcGrol/shopbasket/lib/myhttp"
	"github.com/MarcGrol/shopbasket/lib/mylog"
	"github.com/MarcGrol/shopbasket/lib/mypublisher"
	"github.com/MarcGrol/shopbasket/lib/mystore"
	"github.com/MarcGrol/shopbasket/lib/mytime"
	"github.com/MarcGrol/shopbasket/lib/myuuid"
	"github.com/MarcGrol/shopbasket/services/basket/basketevents"
)

const (
	maxDiscountCodeLength = 50
	maxCountryLength      = 100
)

type webService struct {
	logger    mylog.Logger
	publisher mypublisher.Publisher
	service   *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(store mystore.Store[Basket], productCatalog ProductCatalog, nower mytime.Nower, uuider myuuid.UUIDer, pub mypublisher.Publisher) *webService {
	logger := mylog.New("basket")
	return &webService{
		logger:    logger,
		publisher: pub,
		service:   newService(store, productCatalog, nower, uuider, logger, pub),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	err := s.publisher.CreateTopic(c, basketevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", basketevents.TopicName, err)
	}

	router.HandleFunc("/api/basket/{sessionID}", s.getBasketPage()).Methods("GET")
	router.HandleFunc("/api/basket/{sessionID}", s.clearBasketPage()).Methods("DELETE")
	router.HandleFunc("/api/basket/{sessionID}/items", s.addItemPage()).Methods("POST")
	router.HandleFunc("/api/basket/{sessionID}/items", s.removeItemPage()).Methods("DELETE")
	router.HandleFunc("/api/basket/{sessionID}/items/multiple", s.addMultipleItemsPage()).Methods("POST")
	router.HandleFunc("/api/basket/{sessionID}/discount", s.setDiscountPage()).Methods("POST")
	router.HandleFunc("/api/basket/{sessionID}/discount", s.clearDiscountPage()).Methods("DELETE")
	router.HandleFunc("/api/basket/{sessionID}/shipping", s.setShippingPage()).Methods("POST")
	router.HandleFunc("/api/basket/{sessionID}/total", s.getBasketPage()).Methods("GET")
	router.HandleFunc("/api/basket/{sessionID}/total-without-vat", s.getBasketPage()).Methods("GET")

	return nil
}

type addItemRequest struct {
	ProductID int `json:"productId" form:"productId"`
	Quantity  int `json:"quantity" form:"quantity"`
}

func (r addItemRequest) validate() error {
	if r.ProductID < 1 {
		return myerrors.NewInvalidInputErrorf("invalid productId %d", r.ProductID)
	}
	if r.Quantity < 1 {
		return myerrors.NewInvalidInputErrorf("quantity must be at least 1, got %d", r.Quantity)
	}
	return nil
}

type addMultipleItemsRequest struct {
	Items []addItemRequest `json:"items" form:"items"`
}

func (r addMultipleItemsRequest) validate() error {
	if len(r.Items) == 0 {
		return myerrors.NewInvalidInputErrorf("at least one item is required")
	}
	for _, item := range r.Items {
		err := item.validate()
		if err != nil {
			return err
		}
	}
	return nil
}

type removeItemRequest struct {
	ProductID int  `json:"productId" form:"productId"`
	Quantity  *int `json:"quantity" form:"quantity"`
}

func (r removeItemRequest) validate() error {
	if r.ProductID < 1 {
		return myerrors.NewInvalidInputErrorf("invalid productId %d", r.ProductID)
	}
	if r.Quantity != nil && *r.Quantity < 1 {
		return myerrors.NewInvalidInputErrorf("quantity must be at least 1, got %d", *r.Quantity)
	}
	return nil
}

type discountRequest struct {
	DiscountCode string `json:"discountCode" form:"discountCode"`
}

func (r discountRequest) validate() error {
	if r.DiscountCode == "" || utf8.RuneCountInString(r.DiscountCode) > maxDiscountCodeLength {
		return myerrors.NewInvalidInputErrorf("discountCode must have 1 to %d characters", maxDiscountCodeLength)
	}
	return nil
}

type shippingRequest struct {
	Country string `json:"country" form:"country"`
}

func (r shippingRequest) validate() error {
	if r.Country == "" || utf8.RuneCountInString(r.Country) > maxCountryLength {
		return myerrors.NewInvalidInputErrorf("country must have 1 to %d characters", maxCountryLength)
	}
	return nil
}

type validator interface {
	validate() error
}

func decodeAndValidate(r *http.Request, req validator) error {
	err := myhttp.DecodeRequest(r, req)
	if err != nil {
		return err
	}
	return req.validate()
}

func (s *webService) getBasketPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		view, err := s.service.getPricedView(c, mux.Vars(r)["sessionID"])
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, view)
	}
}

func (s *webService) addItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		req := addItemRequest{}
		err := decodeAndValidate(r, &req)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		view, err := s.service.addItem(c, mux.Vars(r)["sessionID"], req.ProductID, req.Quantity)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, view)
	}
}

func (s *webService) addMultipleItemsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		req := addMultipleItemsRequest{}
		err := decodeAndValidate(r, &req)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		items := make([]lineItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, lineItem{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		view, err := s.service.addMultipleItems(c, mux.Vars(r)["sessionID"], items)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, view)
	}
}

func (s *webService) removeItemPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		req := removeItemRequest{}
		err := decodeAndValidate(r, &req)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		view, err := s.service.removeItem(c, mux.Vars(r)["sessionID"], req.ProductID, req.Quantity)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, view)
	}
}

func (s *webService) setDiscountPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		req := discountRequest{}
		err := decodeAndValidate(r, &req)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		view, err := s.service.setDiscountCode(c, mux.Vars(r)["sessionID"], req.DiscountCode)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, view)
	}
}

func (s *webService) clearDiscountPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		view, err := s.service.clearDiscountCode(c, mux.Vars(r)["sessionID"])
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, view)
	}
}

func (s *webService) setShippingPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		req := shippingRequest{}
		err := decodeAndValidate(r, &req)
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		view, err := s.service.setShipping(c, mux.Vars(r)["sessionID"], req.Country)
		if err != nil {
			responseWriter.WriteError(c, w, 2, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, view)
	}
}

func (s *webService) clearBasketPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		responseWriter := myhttp.NewWriter(s.logger)

		view, err := s.service.clearBasket(c, mux.Vars(r)["sessionID"])
		if err != nil {
			responseWriter.WriteError(c, w, 1, err)
			return
		}

		responseWriter.Write(c, w, http.StatusOK, view)
	}
}
