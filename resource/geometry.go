// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resource

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Section markers of the geometry format
const (
	PointsMarker  = "[points]"
	IndicesMarker = "[indices]"
)

// ColorComponents is the number of color scalars that follow
// the position scalars of every point record.
const ColorComponents = 3

// IndexComponents is the number of indices in one triangle record.
const IndexComponents = 3

const maxLineLength = 1 << 20

var errNotDecimal = errors.New("not a finite decimal number")

// Section identifies the block the following data lines belong to
type Section int

// Sections of a geometry file
const (
	SectionNone Section = iota
	SectionPoints
	SectionIndices
)

func (s Section) String() string {
	switch s {
	case SectionPoints:
		return "points"
	case SectionIndices:
		return "indices"
	default:
		return "none"
	}
}

// RecordError is returned in strict mode when a data line
// does not hold exactly the number of tokens its section needs,
// or one of them is not a number of the right kind.
type RecordError struct {
	Line    int
	Section Section
	Want    int
	Got     int
	Err     error
}

func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s record: %s", e.Line, e.Section, e.Err)
	}
	return fmt.Sprintf("line %d: %s record: want %d values, got %d", e.Line, e.Section, e.Want, e.Got)
}

// Unwrap lets errors.Is match ErrMalformedRecord and the parse error.
func (e *RecordError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedRecord, e.Err}
	}
	return []error{ErrMalformedRecord}
}

// GeometryDecoder reads the sectioned point/index text format.
// Dimensions is the count of position scalars per point.
// When Lenient is set, malformed records are zero-filled
// to full width instead of failing the decode.
type GeometryDecoder struct {
	Dimensions int
	Lenient    bool
	Log        log.FieldLogger
}

// LoadGeometry reads the geometry file at path into points and indices.
// Both buffers are emptied once the file is open; they are left
// untouched when it can't be opened. Records that don't match
// their section's width fail the load.
func LoadGeometry(path string, points *[]float32, indices *[]uint16, dimensions int) error {
	dec := GeometryDecoder{Dimensions: dimensions}
	return dec.Load(path, points, indices)
}

// LoadGeometryLenient is LoadGeometry that zero-fills malformed records
// and only ever fails when the file can't be opened.
func LoadGeometryLenient(path string, points *[]float32, indices *[]uint16, dimensions int) error {
	dec := GeometryDecoder{Dimensions: dimensions, Lenient: true}
	return dec.Load(path, points, indices)
}

// Load opens path and decodes it.
func (d *GeometryDecoder) Load(path string, points *[]float32, indices *[]uint16) error {
	if d.Dimensions < 1 {
		return fmt.Errorf("%w: %d", ErrDimensions, d.Dimensions)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()
	return d.Decode(f, points, indices)
}

// Decode reads the whole of r into points and indices, which are
// truncated first.
func (d *GeometryDecoder) Decode(r io.Reader, points *[]float32, indices *[]uint16) error {
	if d.Dimensions < 1 {
		return fmt.Errorf("%w: %d", ErrDimensions, d.Dimensions)
	}
	logger := d.logger()

	*points = (*points)[:0]
	*indices = (*indices)[:0]

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)
	scanner.Split(scanLines)

	section := SectionNone
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		switch {
		case line == PointsMarker:
			section = SectionPoints
			logger.WithField("line", lineNumber).Debug("entering points section")
		case line == IndicesMarker:
			section = SectionIndices
			logger.WithField("line", lineNumber).Debug("entering indices section")
		case line == "" || line[0] == '#':
		case section == SectionPoints:
			if err := d.decodePoint(line, lineNumber, points); err != nil {
				return err
			}
		case section == SectionIndices:
			if err := d.decodeTriangle(line, lineNumber, indices); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	logger.WithFields(log.Fields{
		"points":    len(*points) / (d.Dimensions + ColorComponents),
		"triangles": len(*indices) / IndexComponents,
	}).Debug("geometry decoded")
	return nil
}

func (d *GeometryDecoder) decodePoint(line string, lineNumber int, points *[]float32) error {
	width := d.Dimensions + ColorComponents
	fields := strings.Fields(line)
	if !d.Lenient && len(fields) != width {
		return &RecordError{Line: lineNumber, Section: SectionPoints, Want: width, Got: len(fields)}
	}

	record := make([]float32, width)
	for i := 0; i < width && i < len(fields); i++ {
		v, err := parseScalar(fields[i])
		if err != nil {
			if !d.Lenient {
				return &RecordError{Line: lineNumber, Section: SectionPoints, Want: width, Got: len(fields), Err: err}
			}
			break
		}
		record[i] = v
	}
	*points = append(*points, record...)
	return nil
}

func (d *GeometryDecoder) decodeTriangle(line string, lineNumber int, indices *[]uint16) error {
	fields := strings.Fields(line)
	if !d.Lenient && len(fields) != IndexComponents {
		return &RecordError{Line: lineNumber, Section: SectionIndices, Want: IndexComponents, Got: len(fields)}
	}

	var record [IndexComponents]uint16
	for i := 0; i < IndexComponents && i < len(fields); i++ {
		v, err := strconv.ParseUint(fields[i], 10, 16)
		if err != nil {
			if !d.Lenient {
				return &RecordError{Line: lineNumber, Section: SectionIndices, Want: IndexComponents, Got: len(fields), Err: err}
			}
			break
		}
		record[i] = uint16(v)
	}
	*indices = append(*indices, record[:]...)
	return nil
}

// parseScalar reads a finite decimal float. Hex floats, infinities
// and NaN are rejected.
func parseScalar(token string) (float32, error) {
	if strings.ContainsAny(token, "xXnN") {
		return 0, fmt.Errorf("%w: %q", errNotDecimal, token)
	}
	v, err := strconv.ParseFloat(token, 32)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q", errNotDecimal, token)
	}
	return float32(v), nil
}

// scanLines splits on '\n' only. Unlike bufio.ScanLines it keeps
// carriage returns, the decoder strips exactly one itself.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func (d *GeometryDecoder) logger() log.FieldLogger {
	if d.Log != nil {
		return d.Log
	}
	return log.StandardLogger()
}
