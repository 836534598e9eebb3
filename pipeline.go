package dancingstar

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var imageExtensions = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
}

func (m *DancingStar) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() {
				return nil
			}

			if _, ok := imageExtensions[strings.ToLower(filepath.Ext(file))]; !ok {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (m *DancingStar) imageWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			tables, err := m.fileTables(file)
			if err != nil {
				// A broken image is not worth aborting the
				// whole scan for.
				m.logger.Printf("skipping \"%s\": %v\n", file, err)
				continue
			}

			out := strings.TrimSuffix(file, filepath.Ext(file)) + ".asm"
			f, err := os.Create(out)
			if err != nil {
				errc <- err
				return
			}

			if _, err = f.Write(tables); err != nil {
				f.Close()
				errc <- err
				return
			}
			if err = f.Close(); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

// fileTables renders the data tables for one image file, going through
// the listing cache when one is attached.
func (m *DancingStar) fileTables(file string) ([]byte, error) {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	label := "IMG_" + asmLabel(base)

	var crc string
	if m.db != nil {
		var err error
		if crc, err = crcFile(label, file); err != nil {
			return nil, err
		}
		cached, err := m.db.FindByCRC(crc)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return cached, nil
		}
	}

	g, err := m.loadGrid(file)
	if err != nil {
		return nil, err
	}

	tables, err := imageTables(g, label)
	if err != nil {
		return nil, err
	}

	if m.db != nil {
		if err := m.db.Store(crc, []byte(tables)); err != nil {
			return nil, err
		}
	}

	return []byte(tables), nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path for image files and writes a .asm data table file next
// to each one.
func (m *DancingStar) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := m.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < 10; i++ {
		errc, err := m.imageWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
