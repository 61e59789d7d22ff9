package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/interpose/middleware"
	"github.com/justinas/alice"
)

func router(global *Global) (http.Handler, error) {
	tpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	POST := router.Methods("POST").Subrouter()
	GET := router.Methods("GET", "HEAD").Subrouter()

	h := handler{Global: global, router: router, index: tpl}

	GET.HandleFunc("/", h.Index).Name("index")
	GET.HandleFunc("/version", h.Version).Name("version")
	GET.HandleFunc("/example", h.Example).Name("example")
	GET.HandleFunc("/layout", h.Layout).Name("layout")

	//
	// POST
	//
	POST.HandleFunc("/deconvolution", h.Deconvolution).Name("deconvolution")
	POST.HandleFunc("/rearrangement", h.Rearrangement).Name("rearrangement")
	POST.HandleFunc("/hitpick", h.HitPick).Name("hitpick")
	POST.HandleFunc("/platemap/{plate:[0-9]+}.png", h.PlateMap).Name("platemap")

	router.NotFoundHandler = http.HandlerFunc(h.NotFound)

	standard := alice.New(
		// Log all requests to STDOUT
		middleware.GorillaLog(),
	)

	return standard.Then(router), nil
}
