// Package config loads the JSON settings shared by the platemap commands.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/carbocation/pfx"
	"github.com/kardianos/osext"

	"github.com/carbocation/platemap"
	"github.com/carbocation/platemap/plate"
	"github.com/carbocation/platemap/pool"
	"github.com/carbocation/platemap/rearrange"
	"github.com/carbocation/platemap/render"
)

// DefaultFilename is looked up beside the executable when no path is given.
const DefaultFilename = "platemap.json"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	ConfigPath string `json:"-"`

	Rows                int         `json:"rows"`
	Cols                int         `json:"cols"`
	Scheme              pool.Scheme `json:"scheme"`
	DeconvolutionVolume int         `json:"deconvolution_volume"`
	RearrangementVolume int         `json:"rearrangement_volume"`

	// GroupPlates splits worklists into batches of this many destination
	// plates. 0 disables batching.
	GroupPlates int `json:"group_plates"`

	Port      int    `json:"port"`
	HitColor  string `json:"hit_color"`
	OutputDir string `json:"output_dir"`
}

func Default() Config {
	return Config{
		Rows:                plate.Format384.Rows,
		Cols:                plate.Format384.Cols,
		Scheme:              pool.Quadrant,
		DeconvolutionVolume: rearrange.DeconvolutionVolume,
		RearrangementVolume: rearrange.HitRearrangementVolume,
		Port:                9019,
		HitColor:            render.DefaultHitColor,
		OutputDir:           ".",
	}
}

// DefaultPath is platemap.json in the folder holding the running executable.
func DefaultPath() (string, error) {
	folder, err := osext.ExecutableFolder()
	if err != nil {
		return "", pfx.Err(err)
	}

	return filepath.Join(folder, DefaultFilename), nil
}

// Load reads the config at path over the defaults. With an empty path, the
// default path is tried and the defaults are returned if nothing is there.
func Load(path string) (Config, error) {
	if path == "" {
		def, err := DefaultPath()
		if err != nil {
			return Default(), err
		}
		if _, err := os.Stat(def); errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		path = def
	}

	path = platemap.ExpandHome(path)

	f, err := os.Open(path)
	if err != nil {
		return Default(), pfx.Err(err)
	}
	defer f.Close()

	out, err := Parse(f)
	if err != nil {
		return out, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	out.ConfigPath = path

	return out, nil
}

// Parse decodes a config over the defaults and validates it.
func Parse(r io.Reader) (Config, error) {
	out := Default()

	if err := json.NewDecoder(r).Decode(&out); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return out, fmt.Errorf("syntax error at byte offset %d: %w", syntaxErr.Offset, err)
		}
		return out, err
	}

	// Interpret ~ if present
	out.OutputDir = platemap.ExpandHome(out.OutputDir)

	return out, out.Validate()
}

func (c Config) Format() plate.Format {
	return plate.Format{Rows: c.Rows, Cols: c.Cols}
}

func (c Config) Validate() error {
	if err := c.Format().Validate(); err != nil {
		return err
	}
	if !c.Scheme.Valid() {
		return fmt.Errorf("%w: %v", pool.ErrInvalidPoolingScheme, c.Scheme)
	}
	if c.DeconvolutionVolume < 1 || c.RearrangementVolume < 1 {
		return fmt.Errorf("%w: volumes must be positive (got %d and %d)", ErrInvalidConfig, c.DeconvolutionVolume, c.RearrangementVolume)
	}
	if c.GroupPlates < 0 {
		return fmt.Errorf("%w: group_plates must not be negative (got %d)", ErrInvalidConfig, c.GroupPlates)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port)
	}
	if _, err := render.ParseColor(c.HitColor); err != nil {
		return fmt.Errorf("%w: hit_color: %v", ErrInvalidConfig, err)
	}

	return nil
}
