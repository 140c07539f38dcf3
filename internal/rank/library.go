package rank

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/cardmatch/internal/card"
	cmimaging "github.com/ironsheep/cardmatch/internal/imaging"
)

var (
	// ErrTemplateMissing means a rank has no readable template file.
	ErrTemplateMissing = errors.New("rank template missing")
	// ErrTemplateSize means a template does not decode to the glyph size.
	ErrTemplateSize = errors.New("rank template has wrong size")
	// ErrTemplateName means a template is not named after one of the ranks.
	ErrTemplateName = errors.New("unknown rank name")
	// ErrTemplateShadowed means a new template would be hidden by an
	// existing file that TemplatePath prefers.
	ErrTemplateShadowed = errors.New("rank template shadowed by existing file")
)

// templateExts are tried in order when looking up a template file.
var templateExts = []string{".jpg", ".png"}

// savedExt is the format SaveTemplate writes.
const savedExt = ".png"

// Template is the reference glyph of one rank.
type Template struct {
	Name  string
	Image *image.Gray
}

// Library is the immutable set of rank templates. It is safe for concurrent
// use once built.
type Library struct {
	templates []Template
}

// LoadLibrary loads the 13 rank templates from dir. Any missing, unreadable
// or mis-sized template fails the whole load.
func LoadLibrary(dir string) (*Library, error) {
	templates := make([]Template, 0, len(card.Ranks))
	for _, name := range card.Ranks {
		t, err := LoadTemplate(dir, name)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return &Library{templates: templates}, nil
}

// NewLibrary builds a library from in-memory templates, keeping their order.
// Names must be rank names without duplicates and every image must have the
// glyph size.
func NewLibrary(templates ...Template) (*Library, error) {
	seen := make(map[string]bool, len(templates))
	out := make([]Template, 0, len(templates))
	for _, t := range templates {
		if !card.IsRank(t.Name) {
			return nil, fmt.Errorf("%w: %q", ErrTemplateName, t.Name)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("duplicate template %q", t.Name)
		}
		if err := checkSize(t.Name, t.Image); err != nil {
			return nil, err
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	return &Library{templates: out}, nil
}

// TemplatePath returns the file holding the template for name in dir,
// preferring JPEG over PNG.
func TemplatePath(dir, name string) (string, error) {
	files := TemplateFiles(dir, name)
	if len(files) == 0 {
		return "", fmt.Errorf("%w: %s in %s", ErrTemplateMissing, name, dir)
	}
	return files[0], nil
}

// TemplateFiles lists every file in dir that could hold the template for
// name, in lookup order. Only the first one is ever loaded.
func TemplateFiles(dir, name string) []string {
	var files []string
	for _, ext := range templateExts {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}
	}
	return files
}

// RemoveTemplate deletes every file that could hold the template for name
// and returns the paths it removed. A rank without files is not an error.
func RemoveTemplate(dir, name string) ([]string, error) {
	if !card.IsRank(name) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateName, name)
	}
	var removed []string
	for _, path := range TemplateFiles(dir, name) {
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove template: %w", err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// LoadTemplate reads and validates the template for one rank.
func LoadTemplate(dir, name string) (Template, error) {
	path, err := TemplatePath(dir, name)
	if err != nil {
		return Template{}, err
	}
	img, err := cmimaging.Open(path)
	if err != nil {
		return Template{}, fmt.Errorf("%w: %s: %v", ErrTemplateMissing, name, err)
	}
	gray := cmimaging.Grayscale(img)
	if err := checkSize(name, gray); err != nil {
		return Template{}, fmt.Errorf("%s: %w", path, err)
	}
	return Template{Name: name, Image: gray}, nil
}

// SaveTemplate writes glyph to dir as <name>.png and returns the path. An
// existing <name>.png is overwritten, but a file TemplatePath would pick
// first, such as <name>.jpg, makes it fail with ErrTemplateShadowed; remove
// it with RemoveTemplate first.
func SaveTemplate(dir, name string, glyph *image.Gray) (string, error) {
	if !card.IsRank(name) {
		return "", fmt.Errorf("%w: %q", ErrTemplateName, name)
	}
	if err := checkSize(name, glyph); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create template directory: %w", err)
	}
	path := filepath.Join(dir, name+savedExt)
	if files := TemplateFiles(dir, name); len(files) > 0 && files[0] != path {
		return "", fmt.Errorf("%w: %s would be loaded instead of %s", ErrTemplateShadowed, files[0], path)
	}
	if err := imaging.Save(glyph, path); err != nil {
		return "", fmt.Errorf("failed to save template: %w", err)
	}
	return path, nil
}

func checkSize(name string, img *image.Gray) error {
	if img == nil {
		return fmt.Errorf("%w: %s has no image", ErrTemplateSize, name)
	}
	b := img.Bounds()
	if b.Dx() != card.GlyphWidth || b.Dy() != card.GlyphHeight {
		return fmt.Errorf("%w: %s is %dx%d, want %dx%d",
			ErrTemplateSize, name, b.Dx(), b.Dy(), card.GlyphWidth, card.GlyphHeight)
	}
	return nil
}

// Templates returns the templates in library order.
func (l *Library) Templates() []Template {
	out := make([]Template, len(l.templates))
	copy(out, l.templates)
	return out
}

// Names returns the rank names in library order.
func (l *Library) Names() []string {
	names := make([]string, len(l.templates))
	for i, t := range l.templates {
		names[i] = t.Name
	}
	return names
}

// Len returns the number of templates.
func (l *Library) Len() int {
	return len(l.templates)
}

// Lookup returns the template for name.
func (l *Library) Lookup(name string) (Template, bool) {
	for _, t := range l.templates {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}
