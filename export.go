package dancingstar

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	"github.com/ueno1969/DancingStar/project"
	"github.com/ueno1969/DancingStar/semigfx"
	"github.com/ueno1969/DancingStar/z80"
)

// Result reports a completed export back to the caller.
type Result struct {
	Path  string
	Lines int
	Bytes int
}

// loadGrid decodes the image at path and converts it, honouring the
// Posterize setting.
func (m *DancingStar) loadGrid(path string) (*semigfx.Grid, error) {
	if !m.Posterize {
		return semigfx.LoadFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return semigfx.FromImage(semigfx.Posterize(img))
}

// convertResource converts one project image, preferring its embedded
// pixel buffer over its file on disk.
func (m *DancingStar) convertResource(p *project.Project, img project.Image) (*semigfx.Grid, error) {
	if len(img.Pixels) > 0 {
		return semigfx.Convert(img.Width, img.Height, img.Pixels)
	}
	if img.Filename == "" {
		return nil, fmt.Errorf("image %03d has no pixel data", img.ID)
	}
	return m.loadGrid(p.ImagePath(img))
}

// resourceTables renders the data tables for one project image, going
// through the listing cache when the resource carries its own pixels.
func (m *DancingStar) resourceTables(p *project.Project, img project.Image) (string, error) {
	label := imageLabel(img.ID)

	var crc string
	if m.db != nil && len(img.Pixels) > 0 {
		crc = crcPixels(label, img.Pixels)
		cached, err := m.db.FindByCRC(crc)
		if err != nil {
			return "", err
		}
		if cached != nil {
			return string(cached), nil
		}
	}

	g, err := m.convertResource(p, img)
	if err != nil {
		return "", err
	}

	tables, err := imageTables(g, label)
	if err != nil {
		return "", err
	}

	if crc != "" {
		if err := m.db.Store(crc, []byte(tables)); err != nil {
			return "", err
		}
	}

	return tables, nil
}

// imageTables renders both data tables for g under base derived labels.
func imageTables(g *semigfx.Grid, base string) (string, error) {
	b := new(bytes.Buffer)

	if err := z80.EncodePatternTable(b, g, base+"_PTN"); err != nil {
		return "", err
	}
	if err := z80.EncodeColorTable(b, g, base+"_COL"); err != nil {
		return "", err
	}

	pat, col := z80.TableSizes(g)
	fmt.Fprintf(b, "\t; pattern %d bytes, color %d bytes\n", pat, col)

	return b.String(), nil
}

// asmLabel squashes a free form name into something an assembler accepts.
func asmLabel(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func imageLabel(id int) string {
	return fmt.Sprintf("IMG%03d", id)
}

// Listing renders the complete assembler listing for p. Images that fail
// to convert degrade to a comment; the listing as a whole still succeeds.
func (m *DancingStar) Listing(p *project.Project) (string, error) {
	b := new(bytes.Buffer)

	fmt.Fprintf(b, ";\n; %s\n", p.Name)
	fmt.Fprintf(b, "; canvas %d x %d dots\n", p.CanvasW, p.CanvasH)
	fmt.Fprintf(b, "; %d images, %d sequences\n", len(p.Images), len(p.Sequences))
	fmt.Fprintf(b, "; generated %s\n;\n", time.Now().Format("2006-01-02 15:04:05"))

	if len(p.Images) == 0 {
		fmt.Fprintf(b, "\n\t; no images\n")
	}
	for _, img := range p.Images {
		tables, err := m.resourceTables(p, img)
		if err != nil {
			m.logger.Printf("image %03d (%s): %v\n", img.ID, img.Filename, err)
			fmt.Fprintf(b, "\n\t; image %03d (%s) unavailable\n", img.ID, img.Filename)
			continue
		}
		fmt.Fprintf(b, "\n%s", tables)
	}

	if len(p.Sequences) == 0 {
		fmt.Fprintf(b, "\n\t; no sequences\n")
	}
	for _, seq := range p.Sequences {
		label := "SEQ_" + asmLabel(seq.Name)
		fmt.Fprintf(b, "\n%s:\n", label)
		for _, f := range seq.Frames {
			fmt.Fprintf(b, "\tDW\t%s_PTN\n", imageLabel(f.ImageID))
			fmt.Fprintf(b, "\tDB\t%d, %d, %d\n", f.X, f.Y, f.Wait)
		}
		if seq.Loop {
			fmt.Fprintf(b, "\tDW\t%s\t; loop\n", label)
		} else {
			fmt.Fprintf(b, "\tDW\t0\n")
		}
	}

	return b.String(), nil
}

// Export writes the listing for p to path.
func (m *DancingStar) Export(p *project.Project, path string) (*Result, error) {
	text, err := m.Listing(p)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return nil, err
	}

	return &Result{
		Path:  path,
		Lines: strings.Count(text, "\n"),
		Bytes: len(text),
	}, nil
}
