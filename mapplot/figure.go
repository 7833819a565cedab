/*
Copyright © 2026 the climatology authors.
This file is part of climatology.

climatology is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

climatology is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with climatology.  If not, see <http://www.gnu.org/licenses/>.
*/

package mapplot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/skratchdot/open-golang/open"
	"github.com/spatialmodel/climatology/cloud"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg" // png, jpg, and tiff output
	_ "gonum.org/v1/plot/vg/vgpdf" // pdf output
	_ "gonum.org/v1/plot/vg/vgsvg" // svg output
)

// Figure is a rendered plot of a Field.
type Figure struct {
	Title         string
	Width, Height vg.Length

	draw func(c draw.Canvas)
}

// Draw draws the figure on c.
func (f *Figure) Draw(c draw.Canvas) { f.draw(c) }

// WriterTo returns an io.WriterTo that writes the figure in the given
// format, one of "png", "jpg", "tif", "svg", or "pdf".
func (f *Figure) WriterTo(format string) (io.WriterTo, error) {
	c, err := draw.NewFormattedCanvas(f.Width, f.Height, format)
	if err != nil {
		return nil, fmt.Errorf("mapplot: %v", err)
	}
	f.Draw(draw.New(c))
	return c, nil
}

// Save writes the figure to a local file, with the format determined by
// the file extension.
func (f *Figure) Save(path string) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	w, err := f.WriterTo(format)
	if err != nil {
		return err
	}
	o, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mapplot: creating %s: %v", path, err)
	}
	if _, err := w.WriteTo(o); err != nil {
		o.Close()
		return fmt.Errorf("mapplot: writing %s: %v", path, err)
	}
	return o.Close()
}

// FigureSaver saves figures.
type FigureSaver interface {
	Save(fig *Figure, title string) error
}

// Displayer shows figures to the user.
type Displayer interface {
	Display(fig *Figure) error
}

// FileSaver saves figures in directory Dir, which may be a local
// directory or a blob storage address, under the file name
// "<title>.<Format>". The default format is "png".
type FileSaver struct {
	Dir    string
	Format string
}

// Save implements FigureSaver.
func (s FileSaver) Save(fig *Figure, title string) error {
	format := s.Format
	if format == "" {
		format = "png"
	}
	path := cloud.Join(s.Dir, fileName(title)+"."+format)
	var u cloud.Uploader
	local, err := u.Local(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(local), os.ModePerm); err != nil {
		u.Discard()
		return fmt.Errorf("mapplot: creating output directory: %v", err)
	}
	if err := fig.Save(local); err != nil {
		u.Discard()
		return err
	}
	return u.Upload(context.Background())
}

// fileName replaces characters in title that are not safe in file
// names.
func fileName(title string) string {
	if title == "" {
		return "figure"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, title)
}

// OpenDisplayer displays figures by writing them to a PNG file in Dir
// and opening it with the default system viewer. The default Dir is a
// "climatology" directory within the system temporary directory.
//
// The viewer may read the file after Display returns, so the file is
// not removed. Figures are named after their titles, so displaying a
// figure again replaces the earlier file instead of adding a new one.
type OpenDisplayer struct {
	Dir string

	// run opens a file in a viewer. It defaults to open.Run.
	run func(path string) error
}

// Display implements Displayer.
func (d OpenDisplayer) Display(fig *Figure) error {
	dir := d.Dir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "climatology")
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("mapplot: creating display directory: %v", err)
	}
	path := filepath.Join(dir, fileName(fig.Title)+".png")
	if err := fig.Save(path); err != nil {
		os.Remove(path)
		return err
	}
	run := d.run
	if run == nil {
		run = open.Run
	}
	return run(path)
}

// NopDisplayer does not display figures.
type NopDisplayer struct{}

// Display implements Displayer.
func (NopDisplayer) Display(*Figure) error { return nil }
