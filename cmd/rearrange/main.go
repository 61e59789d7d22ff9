// rearrange lays a list of already-resolved hits onto fresh destination
// plates, in input order, and writes the robot worklist.
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
	"github.com/carbocation/platemap/rearrange"
	"github.com/carbocation/platemap/render"
)

func main() {
	var input, prefix, configPath, plotDir string
	var group int

	flag.StringVar(&input, "input", "", "Hit list (CSV, TSV, XLS or XLSX; may be gzipped; may be a gs:// URL) with a plate and a well column.")
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

	res, err := rearrange.Rearrange(tbl,
		rearrange.WithFormat(cfg.Format()),
		rearrange.WithVolume(cfg.RearrangementVolume),
		rearrange.WithLogger(log.Default()),
	)
	if err != nil {
		log.Fatalln(err)
	}
	log.Println(res)

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

	if plotDir == "" {
		return
	}

	hitColor, err := render.ParseColor(cfg.HitColor)
	if err != nil {
		log.Fatalln(err)
	}
	if _, err := render.WorklistMaps(platemap.ExpandHome(plotDir), prefix, res, hitColor); err != nil {
		log.Fatalln(err)
	}
}
