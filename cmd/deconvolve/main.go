// deconvolve expands a list of hits found on pooled plates into the four
// candidate source wells each hit could have come from, and writes a robot
// worklist that moves every candidate onto fresh destination plates.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"cloud.google.com/go/storage"

	"github.com/carbocation/platemap"
	_ "github.com/carbocation/platemap/compileinfoprint"
	"github.com/carbocation/platemap/config"
	"github.com/carbocation/platemap/hittable"
	"github.com/carbocation/platemap/pool"
	"github.com/carbocation/platemap/rearrange"
	"github.com/carbocation/platemap/render"
)

func main() {
	var input, schemeName, prefix, configPath, plotDir string
	var sortBySource bool
	var group int

	flag.StringVar(&input, "input", "", "Hit list (CSV, TSV, XLS or XLSX; may be gzipped; may be a gs:// URL) with a plate and a well column.")
	flag.StringVar(&schemeName, "scheme", "", "How the source plates were pooled. One of: "+pool.SchemeNames()+". Defaults to the config file's scheme.")
	flag.BoolVar(&sortBySource, "sort", false, "Sort the worklist by source plate and well after assigning destinations.")
	flag.IntVar(&group, "group", -1, "Write one worklist per this many destination plates. 0 writes a single file. Defaults to the config file's group_plates.")
	flag.StringVar(&prefix, "output", "", "Prefix for output files. Defaults to the input's base name.")
	flag.StringVar(&configPath, "config", "", "JSON config file. Defaults to platemap.json beside this binary, if present.")
	flag.StringVar(&plotDir, "plot-dir", "", "(Optional) Folder for one PNG map per destination plate.")
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalln(err)
	}

	scheme := cfg.Scheme
	if schemeName != "" {
		if scheme, err = pool.ParseScheme(schemeName); err != nil {
			log.Fatalln(err)
		}
	}
	if group < 0 {
		group = cfg.GroupPlates
	}
	if prefix == "" {
		prefix = rearrange.OutputPrefix(input)
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
	log.Printf("Read %d hits from %s\n", tbl.Len(), input)

	opts := []rearrange.Option{
		rearrange.WithFormat(cfg.Format()),
		rearrange.WithVolume(cfg.DeconvolutionVolume),
		rearrange.WithLogger(log.Default()),
	}
	if sortBySource {
		opts = append(opts, rearrange.SortBySource())
	}

	res, err := rearrange.Deconvolve(tbl, scheme, opts...)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Pooling by %s: %v\n", scheme, res)

	written, err := res.WriteFiles(cfg.OutputDir, prefix, group)
	if err != nil {
		log.Fatalln(err)
	}
	for _, name := range written {
		log.Println("Wrote", name)
	}

	if err := res.WriteSummary(os.Stdout); err != nil {
		log.Fatalln(err)
	}

	if plotDir != "" {
		hitColor, err := render.ParseColor(cfg.HitColor)
		if err != nil {
			log.Fatalln(err)
		}

		maps, err := render.WorklistMaps(platemap.ExpandHome(plotDir), prefix, res, hitColor)
		if err != nil {
			log.Fatalln(err)
		}
		log.Printf("Wrote %d plate maps to %s\n", len(maps), plotDir)
	}
}
