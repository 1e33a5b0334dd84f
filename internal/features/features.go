// Package features loads the capability flags that switch unfinished parts
// of the reader on or off.
package features

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultTopicChips     = 6
	defaultSidebarRegions = 6
)

// Features is the resolved capability set.
type Features struct {
	// RegionSelect lets sidebar and regional rows apply a region filter.
	RegionSelect bool
	// ComingSoon shows "Kommer snart" badges on unfinished views.
	ComingSoon bool
	Newsletter bool
	// Video shows post video links instead of a placeholder.
	Video          bool
	TopicChips     int
	SidebarRegions int
}

// Defaults mirrors the shipped web client: region selection and video off.
func Defaults() Features {
	return Features{
		ComingSoon:     true,
		Newsletter:     true,
		TopicChips:     defaultTopicChips,
		SidebarRegions: defaultSidebarRegions,
	}
}

type flags struct {
	RegionSelect   *bool `json:"region_select" yaml:"region_select"`
	ComingSoon     *bool `json:"coming_soon" yaml:"coming_soon"`
	Newsletter     *bool `json:"newsletter" yaml:"newsletter"`
	Video          *bool `json:"video" yaml:"video"`
	TopicChips     *int  `json:"topic_chips" yaml:"topic_chips"`
	SidebarRegions *int  `json:"sidebar_regions" yaml:"sidebar_regions"`
}

type file struct {
	Features flags `json:"features" yaml:"features"`
}

// Load reads the capabilities file at path. A missing file or empty path
// yields Defaults.
func Load(path string) (Features, error) {
	if strings.TrimSpace(path) == "" {
		return Defaults(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Features{}, fmt.Errorf("open features file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return Features{}, fmt.Errorf("read features file: %w", err)
	}

	parsed, err := parse(raw, filepath.Ext(path))
	if err != nil {
		return Features{}, err
	}
	out, err := resolve(parsed.Features)
	if err != nil {
		return Features{}, fmt.Errorf("features file %s: %w", path, err)
	}
	return out, nil
}

func parse(data []byte, ext string) (file, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out file
		if err := d.fn(data, &out); err != nil {
			errs = append(errs, fmt.Errorf("decode %s features: %w", d.name, err))
			continue
		}
		return out, nil
	}
	if len(errs) > 0 {
		return file{}, errors.Join(errs...)
	}
	return file{}, errors.New("features file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func resolve(fl flags) (Features, error) {
	out := Defaults()
	setBool(&out.RegionSelect, fl.RegionSelect)
	setBool(&out.ComingSoon, fl.ComingSoon)
	setBool(&out.Newsletter, fl.Newsletter)
	setBool(&out.Video, fl.Video)

	if fl.TopicChips != nil {
		if *fl.TopicChips < 0 {
			return Features{}, errors.New("topic_chips must be >= 0")
		}
		out.TopicChips = *fl.TopicChips
	}
	if fl.SidebarRegions != nil {
		if *fl.SidebarRegions < 0 {
			return Features{}, errors.New("sidebar_regions must be >= 0")
		}
		out.SidebarRegions = *fl.SidebarRegions
	}
	return out, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
