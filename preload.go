package coge

import (
	"errors"
	"fmt"
	"image"
	"os"
	"runtime"
	"strings"

	"github.com/remeh/sizedwaitgroup"
)

type decoded struct {
	name string
	path string
	img  image.Image
	err  error
}

// PreloadImages decodes the named images from their "image.<name>" sections
// in parallel and registers them. With no names every image section is
// loaded. Decoding runs on up to GOMAXPROCS goroutines; registration happens
// on the calling goroutine after all decodes finish. Already registered
// images are skipped.
func (e *Engine) PreloadImages(names ...string) error {
	if e.cfg == nil {
		return fmt.Errorf("%w: no configuration", ErrNotFound)
	}
	if len(names) == 0 {
		for _, sec := range e.cfg.Sections() {
			if n, ok := strings.CutPrefix(sec, "image."); ok {
				names = append(names, n)
			}
		}
	}

	jobs := make([]decoded, 0, len(names))
	for _, n := range names {
		if _, ok := e.images[n]; ok {
			continue
		}
		sec, err := e.section("image", n)
		if err != nil {
			return err
		}
		jobs = append(jobs, decoded{name: n, path: e.cfg.ReadFilePath(sec, "file", "")})
	}

	swg := sizedwaitgroup.New(runtime.GOMAXPROCS(0))
	for i := range jobs {
		swg.Add()
		go func(j *decoded) {
			defer swg.Done()
			j.img, j.err = decodeFile(j.path)
		}(&jobs[i])
	}
	swg.Wait()

	var errs []error
	for _, j := range jobs {
		if j.err != nil {
			logger.Error("preload image", "name", j.name, "path", j.path, "err", j.err)
			errs = append(errs, fmt.Errorf("%w: image %q: %w", ErrResource, j.name, j.err))
			continue
		}
		if _, err := e.AddImage(j.name, e.video.NewImageFromImage(j.img)); err != nil {
			errs = append(errs, err)
		}
	}
	logger.Debug("preloaded images", "count", len(jobs)-len(errs), "failed", len(errs))
	return errors.Join(errs...)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
