package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/MarcGrol/shopbasket/lib/mylog"
	"github.com/MarcGrol/shopbasket/lib/mypublisher"
	"github.com/MarcGrol/shopbasket/lib/mypubsub"
	"github.com/MarcGrol/shopbasket/lib/myqueue"
	"github.com/MarcGrol/shopbasket/lib/mystore"
	"github.com/MarcGrol/shopbasket/lib/mytime"
	"github.com/MarcGrol/shopbasket/lib/myuuid"
	"github.com/MarcGrol/shopbasket/services/basket"
	"github.com/MarcGrol/shopbasket/services/catalog"
	"github.com/MarcGrol/shopbasket/services/warmup"
)

func main() {
	// a missing .env is fine: the environment wins anyway
	_ = godotenv.Load()

	c := context.Background()
	logger := mylog.New("main")

	router := mux.NewRouter()

	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating queue: %s", err)
	}
	defer queueCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	productStore, productStoreCleanup, err := mystore.New[catalog.Product](c)
	if err != nil {
		log.Fatalf("Error creating product store: %s", err)
	}
	defer productStoreCleanup()

	catalogService := catalog.NewService(productStore, nower)
	_, err = catalogService.Seed(c, catalog.DefaultProducts())
	if err != nil {
		log.Fatalf("Error seeding catalog: %s", err)
	}
	catalog.NewWebService(catalogService).RegisterEndpoints(c, router)
	warmup.NewService(catalogService).RegisterEndpoints(c, router)

	basketStore, basketStoreCleanup, err := mystore.New[basket.Basket](c)
	if err != nil {
		log.Fatalf("Error creating basket store: %s", err)
	}
	defer basketStoreCleanup()

	err = basket.NewWebService(basketStore, catalogService, nower, uuider, publisher).RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering basket endpoints: %s", err)
	}

	startWebServerBlocking(c, logger, cors.AllowAll().Handler(router))
}

func startWebServerBlocking(c context.Context, logger mylog.Logger, handler http.Handler) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Log(c, "", mylog.SeverityInfo, "Starting webserver on port %s (try http://localhost:%s/api/products)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), handler)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
