package main

import (
	"image/color"

	"github.com/carbocation/platemap/config"
)

type Global struct {
	log logger

	Site string

	config   config.Config
	hitColor color.RGBA

	// maxUpload caps request bodies, in bytes.
	maxUpload int64
}

type logger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}
