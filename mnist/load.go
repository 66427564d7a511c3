package mnist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hupe1980/knnlab/blobstore"
	"github.com/hupe1980/knnlab/core"
	"github.com/hupe1980/knnlab/resource"
)

const (
	imagesSuffix = "-images-idx3-ubyte"
	labelsSuffix = "-labels-idx1-ubyte"
)

type loadOptions struct {
	controller *resource.Controller
	logger     *slog.Logger
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithController throttles dataset reads and charges decoded pixels against the controller's memory budget.
// Callers release the charge with ReleaseMemory(Footprint(items)) when done.
func WithController(rc *resource.Controller) LoadOption {
	return func(o *loadOptions) {
		o.controller = rc
	}
}

// WithLogger sets the logger used while loading.
func WithLogger(l *slog.Logger) LoadOption {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Load reads the image and label files of the dataset with the given prefix
// and pairs them up in file order.
func Load(ctx context.Context, store blobstore.Store, prefix string, opts ...LoadOption) ([]core.Labeled[Image], error) {
	o := loadOptions{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	var labels []core.Label
	err := readVariant(ctx, store, prefix+labelsSuffix, &o, func(r io.Reader) (err error) {
		labels, err = ReadLabels(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	var (
		images   []Image
		reserved int64
	)
	err = readVariant(ctx, store, prefix+imagesSuffix, &o, func(r io.Reader) (err error) {
		images, err = readImages(r, func(n int64) error {
			if err := o.controller.AcquireMemory(ctx, n); err != nil {
				return fmt.Errorf("reserving %d bytes for pixels: %w", n, err)
			}
			reserved = n
			return nil
		})
		return err
	})
	if err != nil {
		o.controller.ReleaseMemory(reserved)
		return nil, err
	}

	if len(images) != len(labels) {
		o.controller.ReleaseMemory(reserved)
		return nil, fmt.Errorf("%w: %s has %d images, %d labels", ErrCountMismatch, prefix, len(images), len(labels))
	}

	items := make([]core.Labeled[Image], len(images))
	for i := range images {
		items[i] = core.Labeled[Image]{Label: labels[i], Value: images[i]}
	}
	return items, nil
}

// readVariant opens the first existing compression variant of base and hands the decoded stream to decode.
func readVariant(ctx context.Context, store blobstore.Store, base string, o *loadOptions, decode func(io.Reader) error) error {
	for _, ext := range Extensions {
		name := base + ext

		blob, err := store.Open(ctx, name)
		if errors.Is(err, blobstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("opening %s: %w", name, err)
		}

		start := time.Now()
		err = decodeBlob(ctx, blob, name, o.controller, decode)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", name, err)
		}

		o.logger.DebugContext(ctx, "dataset file loaded",
			"name", name,
			"bytes", blob.Size(),
			"elapsed", time.Since(start),
		)
		return nil
	}
	return fmt.Errorf("%s: %w", base, blobstore.ErrNotFound)
}

func decodeBlob(ctx context.Context, blob blobstore.Blob, name string, rc *resource.Controller, decode func(io.Reader) error) error {
	defer blob.Close()

	raw, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return err
	}
	defer raw.Close()

	dec, err := Decompress(name, resource.NewReader(ctx, raw, rc))
	if err != nil {
		return err
	}
	defer dec.Close()

	return decode(dec)
}

// Footprint returns the pixel bytes held by the images of items.
func Footprint(items []core.Labeled[Image]) int64 {
	var n int64
	for _, it := range items {
		n += int64(it.Value.Len())
	}
	return n
}
