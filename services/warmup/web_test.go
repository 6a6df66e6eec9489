package warmup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/shopbasket/lib/mystore"
	"github.com/MarcGrol/shopbasket/lib/mytime"
	"github.com/MarcGrol/shopbasket/services/catalog"
)

func TestWarmup(t *testing.T) {
	t.Run("Seeded catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, router, catalogService := setup(t, ctrl)

		// given
		_, err := catalogService.Seed(c, catalog.DefaultProducts())
		assert.NoError(t, err)

		// when
		request, err := http.NewRequest(http.MethodGet, "/_ah/warmup", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), "7 products available")
	})

	t.Run("Empty catalog", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodGet, "/_ah/warmup", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 503, response.Code)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, *catalog.Service) {
	c := context.TODO()

	store, _, err := mystore.New[catalog.Product](c)
	assert.NoError(t, err)

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	catalogService := catalog.NewService(store, nower)

	router := mux.NewRouter()
	NewService(catalogService).RegisterEndpoints(c, router)

	return c, router, catalogService
}
