package server

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/blob-tools-mcp/internal/blob"
	"github.com/ironsheep/blob-tools-mcp/internal/imaging"
)

// ErrNotLabeled is returned by component tools called on an image that
// blob_label has not processed yet.
var ErrNotLabeled = errors.New("image not labeled")

// labelParams are the inputs of one labeling run.
type labelParams struct {
	Threshold float64
	MinSize   int
	Blur      bool
	Invert    bool
	Strategy  blob.Strategy
}

// session is the labeling state kept for one image path between tool
// calls.
type session struct {
	path   string
	img    image.Image
	raster *imaging.LumaRaster
	params labelParams

	forest *blob.Forest
	labels []int
	stats  blob.Stats

	colorMode string
	seed      int64
}

// label runs the full pipeline on the image at path and stores the result
// as that path's session, replacing any previous one.
func (s *Server) label(path string, p labelParams) (*session, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}

	raster := imaging.Preprocess(img, p.Blur, p.Invert)
	forest, err := blob.New(raster.Width()*raster.Height(), blob.WithStrategy(p.Strategy))
	if err != nil {
		return nil, err
	}
	if err := forest.Populate(raster, p.Threshold); err != nil {
		return nil, fmt.Errorf("labeling %s: %w", path, err)
	}
	if err := forest.Flatten(); err != nil {
		return nil, fmt.Errorf("labeling %s: %w", path, err)
	}
	labels, err := forest.Labels()
	if err != nil {
		return nil, err
	}

	sess := &session{
		path:   path,
		img:    img,
		raster: raster,
		params: p,
		forest: forest,
		labels: labels,
	}
	sess.filter(p.MinSize)
	if err := sess.colorize(s.cfg.Render.ColorMode, s.cfg.Render.Seed); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[path] = sess
	s.mu.Unlock()

	return sess, nil
}

// session returns the labeling state of path.
func (s *Server) session(path string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w (call blob_label first)", path, ErrNotLabeled)
	}
	return sess, nil
}

// filter re-runs the size filter. Colours only cover the components
// enabled when they were assigned, so the last colouring is redone with
// the same mode and seed.
func (sess *session) filter(minSize int) blob.Stats {
	sess.params.MinSize = minSize
	sess.stats = sess.forest.Filter(minSize)
	sess.forest.ClearColors()
	if sess.colorMode != "" {
		// The mode was validated when it was first applied.
		_ = sess.colorize(sess.colorMode, sess.seed)
	}
	return sess.stats
}

// colorize assigns colours to the enabled components. An unknown mode
// leaves the session untouched.
func (sess *session) colorize(mode string, seed int64) error {
	m, err := blob.ParseColorMode(mode)
	if err != nil {
		return err
	}
	used, err := sess.forest.Colorize(m, sess.stats, seed)
	if err != nil {
		return err
	}
	sess.colorMode = mode
	sess.seed = used
	return nil
}

// component returns the component rooted at root.
func (sess *session) component(root int) (blob.Component, error) {
	r, ok := sess.forest.Region(root)
	if !ok {
		return blob.Component{}, fmt.Errorf("no component rooted at %d in %s", root, sess.path)
	}
	return blob.Component{Root: root, Region: r}, nil
}

// componentAt returns the component covering pixel (x, y). The boolean is
// false for background pixels.
func (sess *session) componentAt(x, y int) (blob.Component, bool, error) {
	w, h := sess.forest.Width(), sess.forest.Height()
	if x < 0 || x >= w || y < 0 || y >= h {
		return blob.Component{}, false, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, w, h)
	}
	root, err := sess.forest.FindFlat(y*w + x)
	if err != nil {
		return blob.Component{}, false, err
	}
	if root < 0 {
		return blob.Component{}, false, nil
	}
	c, err := sess.component(root)
	return c, err == nil, err
}
