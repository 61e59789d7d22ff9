// platemap-web serves the deconvolution, hit rearrangement and hit picking
// workflows over HTTP.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	_ "github.com/carbocation/platemap/compileinfoprint"
	"github.com/carbocation/platemap/config"
	"github.com/carbocation/platemap/render"
)

var global *Global

func main() {
	errors := make(chan error, 1)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig,
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGUSR1,
	)

	configPath := flag.String("config", "", "JSON config file. Defaults to platemap.json beside this binary, if present.")
	port := flag.Int("port", 0, "Port for HTTP server. Defaults to the config file's port (9019).")
	maxUploadMB := flag.Int64("max-upload-mb", 32, "Largest hit list accepted, in megabytes.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalln(err)
	}
	if *port > 0 {
		cfg.Port = *port
	}

	hitColor, err := render.ParseColor(cfg.HitColor)
	if err != nil {
		log.Fatalln(err)
	}

	global = &Global{
		Site:      "Plate Map",
		log:       log.New(os.Stderr, log.Prefix(), log.Ldate|log.Ltime),
		config:    cfg,
		hitColor:  hitColor,
		maxUpload: *maxUploadMB << 20,
	}

	global.log.Println("Launching", global.Site, "with", cfg.Format(), "plates")

	handler, err := router(global)
	if err != nil {
		log.Fatalln(err)
	}

	go func() {
		global.log.Println("Starting HTTP server on port", cfg.Port)
		if err := http.ListenAndServe(fmt.Sprintf(`:%d`, cfg.Port), handler); err != nil {
			errors <- err
			global.log.Println(err)
			sig <- syscall.SIGTERM
			return
		}
	}()

Outer:
	for {
		select {
		case sigl := <-sig:
			if sigl == syscall.SIGUSR1 {
				SigStatus()
				continue
			}

			// By default, exit
			global.log.Printf("\nExit: %s\n", sigl.String())

			break Outer

		case err := <-errors:
			if err == nil {
				global.log.Println("Finished")
				break Outer
			}

			// Return a status code indicating failure
			global.log.Println("Exiting due to error", err)
			os.Exit(1)
		}
	}
}

func SigStatus() {
	global.log.Println("There are", runtime.NumGoroutine(), "goroutines running")
}
