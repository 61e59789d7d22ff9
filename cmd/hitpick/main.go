// hitpick selects hits from a primary screen whose positive to negative
// channel ratio exceeds a fold threshold, and writes them as a hit list
// ready for rearrange.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"

	"github.com/carbocation/platemap"
	_ "github.com/carbocation/platemap/compileinfoprint"
	"github.com/carbocation/platemap/config"
	"github.com/carbocation/platemap/hitpick"
	"github.com/carbocation/platemap/hittable"
	"github.com/carbocation/platemap/rearrange"
	"github.com/carbocation/platemap/render"
)

func main() {
	var input, output, scatter, configPath string
	o := hitpick.DefaultOptions()

	flag.StringVar(&input, "input", "", "Screen results (CSV, TSV, XLS or XLSX; may be gzipped; may be a gs:// URL).")
	flag.Float64Var(&o.MinFold, "fold", 10, "Keep rows whose positive/negative ratio is strictly greater than this.")
	flag.StringVar(&o.PositiveColumn, "pos", o.PositiveColumn, "Name of the positive channel column.")
	flag.StringVar(&o.NegativeColumn, "neg", o.NegativeColumn, "Name of the negative channel column.")
	flag.StringVar(&output, "output", "", "Hit list path. Defaults to <input base name>_hit_list.csv in the config's output_dir.")
	flag.StringVar(&scatter, "scatter", "", "(Optional) PNG path for a scatter plot of both channels with hits highlighted.")
	flag.StringVar(&configPath, "config", "", "JSON config file. Defaults to platemap.json beside this binary, if present.")
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalln(err)
	}
	if output == "" {
		output = filepath.Join(cfg.OutputDir, rearrange.OutputPrefix(input)+rearrange.HitListSuffix+".csv")
	}

	ctx := context.Background()

	var client *storage.Client
	if platemap.NeedsStorageClient(input) {
		if client, err = storage.NewClient(ctx); err != nil {
			log.Fatalln(err)
		}
		defer client.Close()
	}

	tbl, err := hittable.ReadFile(ctx, input, client)
	if err != nil {
		log.Fatalln(err)
	}

	res, err := hitpick.Pick(tbl, o)
	if err != nil {
		log.Fatalln(err)
	}
	for _, d := range res.Diagnostics {
		log.Printf("Skipping %v\n", d)
	}

	summary, err := res.Summary()
	if err != nil {
		log.Fatalln(err)
	}
	log.Println(summary)

	if summary.Measured > 0 {
		if err := render.Histogram(os.Stderr, res.Folds(), 20); err != nil {
			log.Fatalln(err)
		}
	}

	f, err := os.Create(platemap.ExpandHome(output))
	if err != nil {
		log.Fatalln(err)
	}
	if err := hittable.Write(f, res.Hits, ','); err != nil {
		log.Fatalln(err)
	}
	if err := f.Close(); err != nil {
		log.Fatalln(err)
	}
	log.Println("Wrote", output)

	if scatter == "" || summary.Measured == 0 {
		return
	}

	hitColor, err := render.ParseColor(cfg.HitColor)
	if err != nil {
		log.Fatalln(err)
	}

	sf, err := os.Create(platemap.ExpandHome(scatter))
	if err != nil {
		log.Fatalln(err)
	}
	defer sf.Close()

	if err := render.Scatter(sf, o.PositiveColumn, o.NegativeColumn, render.Points(res), hitColor); err != nil {
		log.Fatalln(err)
	}
}
