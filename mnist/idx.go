package mnist

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/knnlab/core"
)

const (
	// LabelMagic identifies IDX label files.
	LabelMagic uint32 = 0x00000801
	// ImageMagic identifies IDX image files.
	ImageMagic uint32 = 0x00000803
)

var (
	// ErrBadMagic is returned when a file does not start with the expected magic number.
	ErrBadMagic = errors.New("mnist: bad magic number")
	// ErrBadHeader is returned for headers that describe an unsupported layout.
	ErrBadHeader = errors.New("mnist: bad header")
	// ErrCountMismatch is returned when an image file and a label file disagree on their counts.
	ErrCountMismatch = errors.New("mnist: image and label counts differ")
)

// ReadLabels decodes an IDX label file.
func ReadLabels(r io.Reader) ([]core.Label, error) {
	br := bufio.NewReader(r)

	var hdr [2]uint32
	if err := binary.Read(br, binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("reading label header: %w", err)
	}
	if hdr[0] != LabelMagic {
		return nil, fmt.Errorf("%w: got %#08x, want %#08x", ErrBadMagic, hdr[0], LabelMagic)
	}

	raw, err := readPayload(br, uint64(hdr[1]))
	if err != nil {
		return nil, fmt.Errorf("reading %d labels: %w", hdr[1], err)
	}

	labels := make([]core.Label, len(raw))
	for i, b := range raw {
		labels[i] = core.Label(b)
	}
	return labels, nil
}

// ReadImages decodes an IDX image file.
func ReadImages(r io.Reader) ([]Image, error) {
	return readImages(r, nil)
}

// readImages decodes an image file, calling reserve with the pixel byte count before allocating.
func readImages(r io.Reader, reserve func(bytes int64) error) ([]Image, error) {
	br := bufio.NewReader(r)

	var hdr [4]uint32
	if err := binary.Read(br, binary.BigEndian, &hdr); err != nil {
		return nil, fmt.Errorf("reading image header: %w", err)
	}
	if hdr[0] != ImageMagic {
		return nil, fmt.Errorf("%w: got %#08x, want %#08x", ErrBadMagic, hdr[0], ImageMagic)
	}

	count, rows, cols := uint64(hdr[1]), uint64(hdr[2]), uint64(hdr[3])
	if rows != cols {
		return nil, fmt.Errorf("%w: images are %dx%d, want square", ErrBadHeader, rows, cols)
	}

	size := rows * cols
	if size == 0 && count > 0 {
		return nil, fmt.Errorf("%w: %d images of zero pixels", ErrBadHeader, count)
	}
	total := count * size
	if size != 0 && total/size != count || total > math.MaxInt32*16 {
		return nil, fmt.Errorf("%w: %d images of %d pixels is too large", ErrBadHeader, count, size)
	}

	if reserve != nil {
		if err := reserve(int64(total)); err != nil {
			return nil, err
		}
	}

	buf, err := readPayload(br, total)
	if err != nil {
		return nil, fmt.Errorf("reading %d images: %w", count, err)
	}

	n := int(size)
	images := make([]Image, count)
	for i := range images {
		// Cap each image at its own pixels so Add reallocates instead of overwriting a neighbor.
		images[i] = Image{pixels: buf[i*n : (i+1)*n : (i+1)*n], side: int(rows)}
	}
	return images, nil
}

// readPayload reads exactly n bytes. The buffer only grows with the data
// read, so a header announcing more than the stream holds fails early.
func readPayload(r io.Reader, n uint64) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, err
	}
	if uint64(len(buf)) < n {
		return nil, io.ErrUnexpectedEOF
	}
	return buf, nil
}

// WriteLabels encodes labels as an IDX label file.
func WriteLabels(w io.Writer, labels []core.Label) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.BigEndian, [2]uint32{LabelMagic, uint32(len(labels))}); err != nil {
		return err
	}
	for _, l := range labels {
		if err := bw.WriteByte(byte(l)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteImages encodes images as an IDX image file.
// All images must be completely filled and share the same side.
func WriteImages(w io.Writer, images []Image) error {
	side := 0
	if len(images) > 0 {
		side = images[0].Side()
	}
	for i, img := range images {
		if img.Side() != side || img.Len() != side*side {
			return fmt.Errorf("%w: image %d is %d pixels with side %d, want side %d", ErrBadHeader, i, img.Len(), img.Side(), side)
		}
	}

	bw := bufio.NewWriter(w)
	hdr := [4]uint32{ImageMagic, uint32(len(images)), uint32(side), uint32(side)}
	if err := binary.Write(bw, binary.BigEndian, hdr); err != nil {
		return err
	}
	for _, img := range images {
		if _, err := bw.Write(img.Pixels()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
