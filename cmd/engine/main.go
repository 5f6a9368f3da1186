package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/aditya-wp/wayfinder/pkg/interpreter"
	"github.com/aditya-wp/wayfinder/pkg/kv"
	"github.com/aditya-wp/wayfinder/pkg/osmparser"
	"github.com/aditya-wp/wayfinder/pkg/profile"
	"github.com/aditya-wp/wayfinder/pkg/routing"
	"github.com/aditya-wp/wayfinder/pkg/server/rest"
	"github.com/aditya-wp/wayfinder/pkg/server/rest/service"
	"github.com/aditya-wp/wayfinder/pkg/snap"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	listenAddr = flag.String("listenaddr", ":5000", "server listen address")
	mapFile    = flag.String("f", "map.osm.pbf", "openstreetmap pbf file for the road network graph")
	badgerDir  = flag.String("badgerdir", "./wayfinder-badger", "directory for the key-value edge index")
)

func main() {
	flag.Parse()

	parser := osmparser.NewOsmParser()
	roadGraph, restrictions, err := parser.Parse(*mapFile)
	if err != nil {
		log.Fatal(err)
	}

	interp := interpreter.NewInterpreter()
	interp.SetConstraints(interpreter.NewAccessConstraints())
	for _, r := range restrictions {
		interp.AddRestriction(r.From, r.Via, r.To)
	}

	snapper := snap.NewRoadSnapper(roadGraph)
	if err := snapper.Build(); err != nil {
		log.Fatal(err)
	}

	db, err := badger.Open(badger.DefaultOptions(*badgerDir))
	if err != nil {
		log.Fatal(err)
	}
	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()

	if err := kvDB.BuildH3IndexedEdges(context.Background(), roadGraph); err != nil {
		log.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(rest.PromeHttpMiddleware(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	profiles := map[string]routing.VehicleProfile{
		"car":  profile.NewCarProfile(),
		"foot": profile.NewFootProfile(),
	}

	navigatorSvc := service.NewNavigationService(routing.NewRouteEngine(), snapper, kvDB,
		roadGraph, interp, profiles)

	rest.NavigatorRouter(r, navigatorSvc)

	fmt.Printf("\nserver started at %s\n", *listenAddr)
	log.Fatal(http.ListenAndServe(*listenAddr, r))
}
