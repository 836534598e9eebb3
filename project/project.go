/*
Package project holds the DancingStar project metadata consumed by the
exporter: the image resources drawn in the editor and the animation
sequences built from them.
*/
package project

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
)

// Extension is the project file suffix written by the editor.
const Extension = ".zdp"

// Project is the top level of a .zdp file.
type Project struct {
	Name      string     `json:"name"`
	CanvasW   int        `json:"canvasWidth"`
	CanvasH   int        `json:"canvasHeight"`
	Images    []Image    `json:"images"`
	Sequences []Sequence `json:"sequences"`

	dir string
}

// Image is one drawable resource. Pixels, when present, is the raw row
// major RGBA buffer of the image; otherwise Filename points at an image
// file relative to the project.
type Image struct {
	ID       int    `json:"id"`
	Filename string `json:"filename,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Pixels   []byte `json:"pixels,omitempty"`
}

// Sequence is an ordered animation over image resources.
type Sequence struct {
	Name   string  `json:"name"`
	Loop   bool    `json:"loop"`
	Frames []Frame `json:"frames"`
}

// Frame places one image at a position for a number of wait units.
type Frame struct {
	ImageID int `json:"imageId"`
	X       int `json:"x"`
	Y       int `json:"y"`
	Wait    int `json:"wait"`
}

// Load reads and decodes a project file. Relative image filenames resolve
// against the directory of path.
func Load(path string) (*Project, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("project: %s: %w", path, err)
	}
	p.dir = filepath.Dir(path)

	return &p, nil
}

// ImagePath resolves an image resource filename to a path on disk.
func (p *Project) ImagePath(img Image) string {
	if filepath.IsAbs(img.Filename) {
		return img.Filename
	}
	return filepath.Join(p.dir, img.Filename)
}

// FindImage returns the resource with the given id.
func (p *Project) FindImage(id int) (Image, bool) {
	for _, img := range p.Images {
		if img.ID == id {
			return img, true
		}
	}
	return Image{}, false
}
