// Package archive reads and writes NumPy .npz archives: a zip file holding
// one .npy member per named array.
package archive

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DType is a NumPy type descriptor
type DType string

const (
	Uint8 DType = "|u1"
	Int64 DType = "<i8"
)

// Array is an N-dimensional array in C order.
// Exactly one of Uint8s or Int64s is set, matching DType.
type Array struct {
	DType  DType
	Shape  []int
	Uint8s []uint8
	Int64s []int64
}

// NewUint8Array wraps data with the given shape
func NewUint8Array(shape []int, data []uint8) (*Array, error) {
	a := &Array{DType: Uint8, Shape: append([]int(nil), shape...), Uint8s: data}
	return a, a.check()
}

// NewInt64Array wraps data with the given shape
func NewInt64Array(shape []int, data []int64) (*Array, error) {
	a := &Array{DType: Int64, Shape: append([]int(nil), shape...), Int64s: data}
	return a, a.check()
}

// Len returns the number of elements implied by the shape
func (a *Array) Len() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

func (a *Array) check() error {
	var have int
	switch a.DType {
	case Uint8:
		have = len(a.Uint8s)
	case Int64:
		have = len(a.Int64s)
	default:
		return errors.Errorf("unsupported dtype %q", a.DType)
	}
	for _, d := range a.Shape {
		if d < 0 {
			return errors.Errorf("negative dimension in shape %v", a.Shape)
		}
	}
	if have != a.Len() {
		return errors.Errorf("shape %v needs %d elements, have %d", a.Shape, a.Len(), have)
	}
	return nil
}

var npyMagic = []byte("\x93NUMPY")

// headerAlign is the alignment numpy uses for the start of array data
const headerAlign = 64

func shapeString(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// WriteNPY writes a in .npy format version 1.0
func WriteNPY(w io.Writer, a *Array) error {
	if err := a.check(); err != nil {
		return err
	}

	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': %s, }", a.DType, shapeString(a.Shape))
	// magic(6) + version(2) + header length(2) + header + '\n'
	total := len(npyMagic) + 4 + len(header) + 1
	if pad := total % headerAlign; pad != 0 {
		header += strings.Repeat(" ", headerAlign-pad)
	}
	header += "\n"
	if len(header) > 0xffff {
		return errors.Errorf("npy header too long (%d bytes)", len(header))
	}

	bw := bufio.NewWriter(w)
	bw.Write(npyMagic)
	bw.Write([]byte{1, 0})
	binary.Write(bw, binary.LittleEndian, uint16(len(header)))
	bw.WriteString(header)

	switch a.DType {
	case Uint8:
		bw.Write(a.Uint8s)
	case Int64:
		if err := binary.Write(bw, binary.LittleEndian, a.Int64s); err != nil {
			return errors.Wrap(err, "cannot write int64 data")
		}
	}
	return errors.Wrap(bw.Flush(), "cannot write npy data")
}

var (
	descrRe   = regexp.MustCompile(`'descr':\s*'([^']+)'`)
	fortranRe = regexp.MustCompile(`'fortran_order':\s*(True|False)`)
	shapeRe   = regexp.MustCompile(`'shape':\s*\(([^)]*)\)`)
)

// ReadNPY reads a .npy stream written by WriteNPY or by numpy for the
// supported dtypes
func ReadNPY(r io.Reader) (*Array, error) {
	br := bufio.NewReader(r)

	prefix := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(br, prefix); err != nil {
		return nil, errors.Wrap(err, "cannot read npy magic")
	}
	if !bytes.Equal(prefix[:len(npyMagic)], npyMagic) {
		return nil, errors.New("not an npy stream")
	}

	var headerLen int
	switch major := prefix[len(npyMagic)]; major {
	case 1:
		var n uint16
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, errors.Wrap(err, "cannot read npy header length")
		}
		headerLen = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, errors.Wrap(err, "cannot read npy header length")
		}
		headerLen = int(n)
	default:
		return nil, errors.Errorf("unsupported npy version %d", major)
	}

	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(br, headerBytes); err != nil {
		return nil, errors.Wrap(err, "cannot read npy header")
	}
	header := string(headerBytes)

	m := descrRe.FindStringSubmatch(header)
	if m == nil {
		return nil, errors.Errorf("npy header without descr: %q", header)
	}
	dtype := DType(m[1])
	if dtype == "<u1" {
		dtype = Uint8
	}

	if m := fortranRe.FindStringSubmatch(header); m != nil && m[1] == "True" {
		return nil, errors.New("fortran-ordered arrays are not supported")
	}

	m = shapeRe.FindStringSubmatch(header)
	if m == nil {
		return nil, errors.Errorf("npy header without shape: %q", header)
	}
	shape := []int{}
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(strings.TrimSuffix(part, "L"))
		if err != nil {
			return nil, errors.Wrapf(err, "bad dimension %q", part)
		}
		shape = append(shape, d)
	}

	a := &Array{DType: dtype, Shape: shape}
	switch dtype {
	case Uint8:
		a.Uint8s = make([]uint8, a.Len())
		if _, err := io.ReadFull(br, a.Uint8s); err != nil {
			return nil, errors.Wrap(err, "cannot read uint8 data")
		}
	case Int64:
		a.Int64s = make([]int64, a.Len())
		if err := binary.Read(br, binary.LittleEndian, a.Int64s); err != nil {
			return nil, errors.Wrap(err, "cannot read int64 data")
		}
	default:
		return nil, errors.Errorf("unsupported dtype %q", dtype)
	}
	return a, nil
}
