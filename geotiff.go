package hoydedata

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/google/tiff"
	_ "github.com/google/tiff/bigtiff"
	_ "github.com/google/tiff/geotiff"
	"golang.org/x/image/tiff/lzw"
)

const (
	compressionNone       = 1
	compressionLZW        = 5
	compressionDeflate    = 8
	compressionDeflateOld = 32946

	predictorNone          = 1
	predictorHorizontal    = 2
	predictorFloatingPoint = 3

	sampleFormatUInt   = 1
	sampleFormatInt    = 2
	sampleFormatIEEEFP = 3

	planarConfigurationSeparate = 2
)

var errShortRead = errors.New("short read")

// A geoTIFFIFD is a struct into which github.com/google/tiff can unmarshal an
// IFD.
type geoTIFFIFD struct {
	ImageWidth          uint32    `tiff:"field,tag=256"`
	ImageLength         uint32    `tiff:"field,tag=257"`
	BitsPerSample       []uint16  `tiff:"field,tag=258"`
	Compression         uint16    `tiff:"field,tag=259"`
	StripOffsets        []uint64  `tiff:"field,tag=273"`
	SamplesPerPixel     uint16    `tiff:"field,tag=277"`
	RowsPerStrip        uint32    `tiff:"field,tag=278"`
	StripByteCounts     []uint64  `tiff:"field,tag=279"`
	PlanarConfiguration uint16    `tiff:"field,tag=284"`
	Predictor           uint16    `tiff:"field,tag=317"`
	TileWidth           uint32    `tiff:"field,tag=322"`
	TileLength          uint32    `tiff:"field,tag=323"`
	TileOffsets         []uint64  `tiff:"field,tag=324"`
	TileByteCounts      []uint64  `tiff:"field,tag=325"`
	SampleFormat        []uint16  `tiff:"field,tag=339"`
	ModelPixelScaleTag  []float64 `tiff:"field,tag=33550"`
	ModelTiepointTag    []float64 `tiff:"field,tag=33922"`
	GeoKeyDirectoryTag  []uint16  `tiff:"field,tag=34735"`
}

// A geoTIFFHeader is the georeferencing and layout metadata of a GeoTIFF.
type geoTIFFHeader struct {
	ifd       geoTIFFIFD
	byteOrder binary.ByteOrder
	width     int
	height    int
	delta     Coord
	nw        Coord
}

// A chunkLayout describes how the first sample plane of an image is split
// into strips or tiles.
type chunkLayout struct {
	tiled      bool
	width      int
	height     int
	across     int
	down       int
	offsets    []uint64
	byteCounts []uint64
}

// A GeoTIFFInfo summarizes the metadata of a GeoTIFF file.
type GeoTIFFInfo struct {
	Width           int
	Height          int
	Delta           Coord
	NW              Coord
	SE              Coord
	SamplesPerPixel int
	BitsPerSample   int
	SampleFormat    int
	Compression     int
	Predictor       int
	Tiled           bool
	ChunkWidth      int
	ChunkHeight     int
	CRS             int
}

// ReadGeoTIFFInfo returns the metadata of the GeoTIFF file name.
func ReadGeoTIFFInfo(name string) (*GeoTIFFInfo, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	h, err := readGeoTIFFHeader(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	l, err := h.layout()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	info := &GeoTIFFInfo{
		Width:           h.width,
		Height:          h.height,
		Delta:           h.delta,
		NW:              h.nw,
		SE:              southEast(h.nw, h.delta, h.width, h.height),
		SamplesPerPixel: h.samplesPerPixel(),
		BitsPerSample:   h.bitsPerSample(),
		SampleFormat:    h.sampleFormat(),
		Compression:     h.compression(),
		Predictor:       h.predictor(),
		Tiled:           l.tiled,
		ChunkWidth:      l.width,
		ChunkHeight:     l.height,
	}
	if len(h.ifd.GeoKeyDirectoryTag) != 0 {
		geoKeys, err := parseGeoKeys(h.ifd.GeoKeyDirectoryTag)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		info.CRS = geoKeys.crs()
	}
	return info, nil
}

// readGeoTIFFHeader reads the metadata of the first image in file.
func readGeoTIFFHeader(file *os.File) (*geoTIFFHeader, error) {
	var byteOrder binary.ByteOrder
	magic := make([]byte, 2)
	if _, err := file.ReadAt(magic, 0); err != nil {
		return nil, err
	}
	switch string(magic) {
	case "II":
		byteOrder = binary.LittleEndian
	case "MM":
		byteOrder = binary.BigEndian
	default:
		return nil, errors.New("not a TIFF file")
	}

	tiffTIFF, err := tiff.Parse(file, tiff.GetTagSpace("GeoTIFF"), nil)
	if err != nil {
		return nil, err
	}
	if len(tiffTIFF.IFDs()) == 0 {
		return nil, errors.New("no IFDs")
	}

	h := &geoTIFFHeader{
		byteOrder: byteOrder,
	}
	if err := tiff.UnmarshalIFD(tiffTIFF.IFDs()[0], &h.ifd); err != nil {
		return nil, err
	}

	switch {
	case h.ifd.ImageWidth == 0:
		return nil, errors.New("missing or invalid tag: ImageWidth")
	case h.ifd.ImageLength == 0:
		return nil, errors.New("missing or invalid tag: ImageLength")
	case len(h.ifd.ModelPixelScaleTag) < 2:
		return nil, errors.New("missing or invalid tag: ModelPixelScale")
	case len(h.ifd.ModelTiepointTag) < 6:
		return nil, errors.New("missing or invalid tag: ModelTiepoint")
	}

	scaleX, scaleY := h.ifd.ModelPixelScaleTag[0], h.ifd.ModelPixelScaleTag[1]
	if scaleX <= 0 || scaleY <= 0 {
		return nil, fmt.Errorf("invalid pixel scale %v", h.ifd.ModelPixelScaleTag)
	}
	i, j := h.ifd.ModelTiepointTag[0], h.ifd.ModelTiepointTag[1]
	x, y := h.ifd.ModelTiepointTag[3], h.ifd.ModelTiepointTag[4]

	h.width = int(h.ifd.ImageWidth)
	h.height = int(h.ifd.ImageLength)
	h.delta = Coord{
		E: float32(scaleX),
		N: float32(scaleY),
	}
	h.nw = Coord{
		E: float32(x - i*scaleX),
		N: float32(y + j*scaleY),
	}
	return h, nil
}

func (h *geoTIFFHeader) samplesPerPixel() int {
	return max(int(h.ifd.SamplesPerPixel), 1)
}

func (h *geoTIFFHeader) bitsPerSample() int {
	if len(h.ifd.BitsPerSample) == 0 {
		return 1
	}
	return int(h.ifd.BitsPerSample[0])
}

func (h *geoTIFFHeader) sampleFormat() int {
	if len(h.ifd.SampleFormat) == 0 {
		return sampleFormatUInt
	}
	return int(h.ifd.SampleFormat[0])
}

func (h *geoTIFFHeader) compression() int {
	if h.ifd.Compression == 0 {
		return compressionNone
	}
	return int(h.ifd.Compression)
}

func (h *geoTIFFHeader) predictor() int {
	if h.ifd.Predictor == 0 {
		return predictorNone
	}
	return int(h.ifd.Predictor)
}

// sampleStride returns the number of samples between consecutive pixels of
// the first plane.
func (h *geoTIFFHeader) sampleStride() int {
	if h.ifd.PlanarConfiguration == planarConfigurationSeparate {
		return 1
	}
	return h.samplesPerPixel()
}

// layout returns the chunk layout of the first sample plane.
func (h *geoTIFFHeader) layout() (chunkLayout, error) {
	var l chunkLayout
	if len(h.ifd.TileOffsets) != 0 {
		if h.ifd.TileWidth == 0 || h.ifd.TileLength == 0 {
			return chunkLayout{}, errors.New("missing or invalid tag: TileWidth or TileLength")
		}
		l = chunkLayout{
			tiled:      true,
			width:      int(h.ifd.TileWidth),
			height:     int(h.ifd.TileLength),
			offsets:    h.ifd.TileOffsets,
			byteCounts: h.ifd.TileByteCounts,
		}
	} else {
		rowsPerStrip := int(h.ifd.RowsPerStrip)
		if rowsPerStrip == 0 || rowsPerStrip > h.height {
			rowsPerStrip = h.height
		}
		l = chunkLayout{
			width:      h.width,
			height:     rowsPerStrip,
			offsets:    h.ifd.StripOffsets,
			byteCounts: h.ifd.StripByteCounts,
		}
	}
	l.across = (h.width + l.width - 1) / l.width
	l.down = (h.height + l.height - 1) / l.height
	if chunks := l.across * l.down; len(l.offsets) < chunks || len(l.byteCounts) < chunks {
		return chunkLayout{}, errors.New("incorrect number of chunk byte counts or offsets")
	}
	return l, nil
}

// sampleDecoder returns a function that decodes a single sample.
func (h *geoTIFFHeader) sampleDecoder(byteOrder binary.ByteOrder) (func([]byte) float32, error) {
	switch format, bits := h.sampleFormat(), h.bitsPerSample(); {
	case format == sampleFormatIEEEFP && bits == 32:
		return func(b []byte) float32 { return math.Float32frombits(byteOrder.Uint32(b)) }, nil
	case format == sampleFormatIEEEFP && bits == 64:
		return func(b []byte) float32 { return float32(math.Float64frombits(byteOrder.Uint64(b))) }, nil
	case format == sampleFormatInt && bits == 8:
		return func(b []byte) float32 { return float32(int8(b[0])) }, nil
	case format == sampleFormatInt && bits == 16:
		return func(b []byte) float32 { return float32(int16(byteOrder.Uint16(b))) }, nil
	case format == sampleFormatInt && bits == 32:
		return func(b []byte) float32 { return float32(int32(byteOrder.Uint32(b))) }, nil
	case format == sampleFormatUInt && bits == 8:
		return func(b []byte) float32 { return float32(b[0]) }, nil
	case format == sampleFormatUInt && bits == 16:
		return func(b []byte) float32 { return float32(byteOrder.Uint16(b)) }, nil
	case format == sampleFormatUInt && bits == 32:
		return func(b []byte) float32 { return float32(byteOrder.Uint32(b)) }, nil
	default:
		return nil, fmt.Errorf("unsupported sample format %d with %d bits per sample: %w", format, bits, errors.ErrUnsupported)
	}
}

// readSamples reads all samples of the first band of file into a row-major
// slice.
func readSamples(file *os.File, h *geoTIFFHeader) ([]float32, error) {
	l, err := h.layout()
	if err != nil {
		return nil, err
	}

	// The floating point predictor leaves samples in big endian order.
	byteOrder := h.byteOrder
	switch h.predictor() {
	case predictorNone:
	case predictorHorizontal:
		if h.sampleFormat() == sampleFormatIEEEFP {
			return nil, fmt.Errorf("horizontal predictor with floating point samples: %w", errors.ErrUnsupported)
		}
	case predictorFloatingPoint:
		byteOrder = binary.BigEndian
	default:
		return nil, fmt.Errorf("unsupported predictor %d: %w", h.predictor(), errors.ErrUnsupported)
	}
	decodeSample, err := h.sampleDecoder(byteOrder)
	if err != nil {
		return nil, err
	}

	bytesPerSample := h.bitsPerSample() / 8
	stride := h.sampleStride()
	rowBytes := l.width * stride * bytesPerSample

	samples := make([]float32, h.width*h.height)
	for r := range l.down {
		rows := min(l.height, h.height-r*l.height)
		chunkRows := l.height
		if !l.tiled {
			chunkRows = rows
		}
		for c := range l.across {
			data, err := h.readChunk(file, l, r*l.across+c, chunkRows*rowBytes)
			if err != nil {
				return nil, err
			}
			switch h.predictor() {
			case predictorHorizontal:
				undoHorizontalPredictor(data, rowBytes, stride, bytesPerSample, h.byteOrder)
			case predictorFloatingPoint:
				undoFloatingPointPredictor(data, rowBytes, stride, bytesPerSample)
			}
			cols := min(l.width, h.width-c*l.width)
			for y := range rows {
				rowOffset := (r*l.height+y)*h.width + c*l.width
				for x := range cols {
					offset := y*rowBytes + x*stride*bytesPerSample
					samples[rowOffset+x] = decodeSample(data[offset : offset+bytesPerSample])
				}
			}
		}
	}
	return samples, nil
}

// readChunk returns the uncompressed data of the chunk at index, which must
// be at least size bytes long.
func (h *geoTIFFHeader) readChunk(file *os.File, l chunkLayout, index, size int) ([]byte, error) {
	byteCount := l.byteCounts[index]
	compressedData := make([]byte, byteCount)
	if _, err := file.ReadAt(compressedData, int64(l.offsets[index])); err != nil {
		return nil, fmt.Errorf("chunk %d: %w", index, err)
	}

	var r io.Reader
	switch h.compression() {
	case compressionNone:
		if len(compressedData) < size {
			return nil, errShortRead
		}
		return compressedData[:size], nil
	case compressionLZW:
		r = lzw.NewReader(bytes.NewReader(compressedData), lzw.MSB, 8)
	case compressionDeflate, compressionDeflateOld:
		zr, err := zlib.NewReader(bytes.NewReader(compressedData))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	default:
		return nil, fmt.Errorf("unsupported compression %d: %w", h.compression(), errors.ErrUnsupported)
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("chunk %d: %w", index, err)
	}
	return data, nil
}

// undoHorizontalPredictor reverses horizontal differencing of integer samples
// in place.
func undoHorizontalPredictor(data []byte, rowBytes, stride, bytesPerSample int, byteOrder binary.ByteOrder) {
	step := stride * bytesPerSample
	for row := 0; row+rowBytes <= len(data); row += rowBytes {
		b := data[row : row+rowBytes]
		for i := step; i+bytesPerSample <= len(b); i += bytesPerSample {
			prev, cur := b[i-step:i-step+bytesPerSample], b[i:i+bytesPerSample]
			switch bytesPerSample {
			case 1:
				cur[0] += prev[0]
			case 2:
				byteOrder.PutUint16(cur, byteOrder.Uint16(cur)+byteOrder.Uint16(prev))
			case 4:
				byteOrder.PutUint32(cur, byteOrder.Uint32(cur)+byteOrder.Uint32(prev))
			}
		}
	}
}

// undoFloatingPointPredictor reverses the floating point predictor in place,
// leaving each sample in big endian byte order.
func undoFloatingPointPredictor(data []byte, rowBytes, stride, bytesPerSample int) {
	tmp := make([]byte, rowBytes)
	samplesPerRow := rowBytes / bytesPerSample
	for row := 0; row+rowBytes <= len(data); row += rowBytes {
		b := data[row : row+rowBytes]
		for i := stride; i < len(b); i++ {
			b[i] += b[i-stride]
		}
		copy(tmp, b)
		for i := range samplesPerRow {
			for k := range bytesPerSample {
				b[i*bytesPerSample+k] = tmp[k*samplesPerRow+i]
			}
		}
	}
}
