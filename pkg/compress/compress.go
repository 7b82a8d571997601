// Package compress implements a single-file archive container that
// picks between DEFLATE and two BPE-assisted methods depending on what
// detect.Detect says about the content, handing off token streams to
// pkg/ans (Unzlate) or compress/flate (Bpelate).
package compress

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"time"

	"github.com/vantacode/unz/pkg/ans"
	"github.com/vantacode/unz/pkg/bpe"
	"github.com/vantacode/unz/pkg/detect"
	vocabpkg "github.com/vantacode/unz/pkg/vocab"
)

// Method identifies how an archive's payload was compressed.
type Method uint8

const (
	MethodStore   Method = 0  // no compression
	MethodDEFLATE Method = 8  // compress/flate
	MethodUNZLATE Method = 85 // 'U' = BPE + rANS
	MethodBPELATE Method = 86 // 'V' = BPE + DEFLATE
)

func (m Method) String() string {
	switch m {
	case MethodStore:
		return "Stored"
	case MethodDEFLATE:
		return "Deflate"
	case MethodUNZLATE:
		return "Unzlate"
	case MethodBPELATE:
		return "Bpelate"
	default:
		return "Unknown"
	}
}

const magic = "BPEZ1"

var (
	ErrInvalidFormat = errors.New("compress: not a valid .unz archive")
	ErrCorrupted     = errors.New("compress: corrupted data")
	ErrTooShort      = errors.New("compress: data too short")
	ErrUnsupported   = errors.New("compress: unsupported compression method")
)

// FileInfo describes the single entry stored in an archive.
type FileInfo struct {
	Name     string
	Size     int64 // uncompressed size
	CompSize int64 // compressed size
	Method   Method
	CRC32    uint32
	ModTime  time.Time
	ProgLang detect.CodeLang // language the BPE vocabulary was trained for, if Bpelate/Unzlate
}

// Compressor compresses and decompresses single-file archives, caching
// one BPE encoder per language so repeated calls don't retrain.
type Compressor struct {
	textEncoder *bpe.Encoder

	goEncoder *bpe.Encoder
	pyEncoder *bpe.Encoder
	jsEncoder *bpe.Encoder
}

// New creates a Compressor whose default (text) vocabulary is vocab.
func New(vocab *bpe.Vocabulary) *Compressor {
	return &Compressor{textEncoder: bpe.NewEncoder(vocab)}
}

func (c *Compressor) encoderForLang(lang detect.CodeLang) *bpe.Encoder {
	switch lang {
	case detect.CodeLangGo:
		if c.goEncoder == nil {
			c.goEncoder = bpe.NewEncoder(vocabpkg.ForLanguage(vocabpkg.LangGo))
		}
		return c.goEncoder
	case detect.CodeLangPython:
		if c.pyEncoder == nil {
			c.pyEncoder = bpe.NewEncoder(vocabpkg.ForLanguage(vocabpkg.LangPython))
		}
		return c.pyEncoder
	case detect.CodeLangJavaScript:
		if c.jsEncoder == nil {
			c.jsEncoder = bpe.NewEncoder(vocabpkg.ForLanguage(vocabpkg.LangJavaScript))
		}
		return c.jsEncoder
	default:
		return c.textEncoder
	}
}

// CompressFile detects data's content type and picks whichever of
// DEFLATE/Bpelate (and, for detected source code, Unzlate) produces the
// smallest archive. Empty and random-looking data is stored as is.
func (c *Compressor) CompressFile(data []byte, name string, modTime time.Time) ([]byte, error) {
	if len(data) == 0 {
		return writeArchive(data, data, name, modTime, MethodStore, detect.CodeLangUnknown)
	}

	profile := detect.Detect(data)
	if profile.Type == detect.TypeRandom {
		return writeArchive(data, data, name, modTime, MethodStore, detect.CodeLangUnknown)
	}

	lang := detect.CodeLangUnknown
	if profile.Type == detect.TypeCode {
		lang = profile.Language
	}
	encoder := c.encoderForLang(lang)

	deflated, _ := compressDEFLATE(data)
	bpelated, bpelateErr := compressBPELATE(data, encoder)

	best, method := deflated, MethodDEFLATE
	if bpelateErr == nil && len(bpelated) < len(best) {
		best, method = bpelated, MethodBPELATE
	}

	if profile.Type == detect.TypeCode {
		if unzlated, err := compressUNZLATE(data, encoder); err == nil && len(unzlated) < len(best) {
			best, method = unzlated, MethodUNZLATE
		}
	}

	return writeArchive(data, best, name, modTime, method, lang)
}

// CompressFileAs builds an archive using a specific method, bypassing
// detection; useful for -0/store-only callers and tests.
func (c *Compressor) CompressFileAs(data []byte, name string, modTime time.Time, method Method) ([]byte, error) {
	var compressed []byte
	var err error

	switch method {
	case MethodStore:
		compressed = data
	case MethodDEFLATE:
		compressed, err = compressDEFLATE(data)
	case MethodUNZLATE:
		compressed, err = compressUNZLATE(data, c.textEncoder)
	case MethodBPELATE:
		compressed, err = compressBPELATE(data, c.textEncoder)
	default:
		return nil, ErrUnsupported
	}
	if err != nil {
		return nil, err
	}

	return writeArchive(data, compressed, name, modTime, method, detect.CodeLangUnknown)
}

// writeArchive serializes the fixed-size single-entry header (also
// listed in DESIGN.md) followed by name and compressed payload:
//
//	magic(5) method(1) lang(1) crc32(4) origSize(4) compSize(4)
//	mtime(8) nameLen(2) name compressed
func writeArchive(original, compressed []byte, name string, modTime time.Time, method Method, lang detect.CodeLang) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(magic)
	buf.WriteByte(byte(method))
	buf.WriteByte(byte(lang))

	var num [4]byte
	binary.LittleEndian.PutUint32(num[:], crc32.ChecksumIEEE(original))
	buf.Write(num[:])
	binary.LittleEndian.PutUint32(num[:], uint32(len(original)))
	buf.Write(num[:])
	binary.LittleEndian.PutUint32(num[:], uint32(len(compressed)))
	buf.Write(num[:])

	var mtime [8]byte
	binary.LittleEndian.PutUint64(mtime[:], uint64(modTime.Unix()))
	buf.Write(mtime[:])

	var nameLen [2]byte
	binary.LittleEndian.PutUint16(nameLen[:], uint16(len(name)))
	buf.Write(nameLen[:])
	buf.WriteString(name)
	buf.Write(compressed)

	return buf.Bytes(), nil
}

const headerFixedLen = len(magic) + 1 + 1 + 4 + 4 + 4 + 8 + 2

// GetFileInfo parses an archive's header without decompressing its
// payload.
func GetFileInfo(data []byte) (*FileInfo, error) {
	if len(data) >= len(magic) && string(data[:len(magic)]) != magic {
		return nil, ErrInvalidFormat
	}
	if len(data) < headerFixedLen {
		return nil, ErrTooShort
	}

	p := len(magic)
	method := Method(data[p])
	lang := detect.CodeLang(data[p+1])
	p += 2
	crc := binary.LittleEndian.Uint32(data[p:])
	p += 4
	origSize := binary.LittleEndian.Uint32(data[p:])
	p += 4
	compSize := binary.LittleEndian.Uint32(data[p:])
	p += 4
	mtime := binary.LittleEndian.Uint64(data[p:])
	p += 8
	nameLen := binary.LittleEndian.Uint16(data[p:])
	p += 2

	if len(data) < p+int(nameLen) {
		return nil, ErrCorrupted
	}
	name := string(data[p : p+int(nameLen)])

	return &FileInfo{
		Name:     name,
		Size:     int64(origSize),
		CompSize: int64(compSize),
		Method:   method,
		CRC32:    crc,
		ModTime:  time.Unix(int64(mtime), 0),
		ProgLang: lang,
	}, nil
}

// Decompress extracts the archive's single entry.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	info, err := GetFileInfo(data)
	if err != nil {
		return nil, err
	}

	payloadStart := headerFixedLen + len(info.Name)
	if len(data) < payloadStart+int(info.CompSize) {
		return nil, ErrCorrupted
	}
	payload := data[payloadStart : payloadStart+int(info.CompSize)]

	encoder := c.encoderForLang(info.ProgLang)

	switch info.Method {
	case MethodStore:
		return payload, nil
	case MethodDEFLATE:
		return decompressDEFLATE(payload)
	case MethodUNZLATE:
		return decompressUNZLATE(payload, encoder)
	case MethodBPELATE:
		return decompressBPELATE(payload, encoder)
	default:
		return nil, ErrUnsupported
	}
}

// IsValidFormat reports whether data begins with a recognized archive
// header.
func IsValidFormat(data []byte) bool {
	return len(data) >= len(magic) && string(data[:len(magic)]) == magic
}

func compressDEFLATE(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	w.Write(data)
	w.Close()
	return buf.Bytes(), nil
}

func decompressDEFLATE(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return io.ReadAll(r)
}

func compressUNZLATE(data []byte, encoder *bpe.Encoder) ([]byte, error) {
	tokens := encoder.Encode(data)
	if len(tokens) == 0 {
		return data, nil
	}
	return ans.Compress(encodeVarints(tokens))
}

func decompressUNZLATE(data []byte, encoder *bpe.Encoder) ([]byte, error) {
	tokenBytes, err := ans.Decompress(data)
	if err != nil {
		return nil, err
	}
	return encoder.Decode(decodeVarints(tokenBytes)), nil
}

func compressBPELATE(data []byte, encoder *bpe.Encoder) ([]byte, error) {
	tokens := encoder.Encode(data)
	if len(tokens) == 0 {
		return compressDEFLATE(data)
	}
	return compressDEFLATE(encodeVarints(tokens))
}

func decompressBPELATE(data []byte, encoder *bpe.Encoder) ([]byte, error) {
	tokenBytes, err := decompressDEFLATE(data)
	if err != nil {
		return nil, err
	}
	if len(tokenBytes) == 0 {
		return tokenBytes, nil
	}
	return encoder.Decode(decodeVarints(tokenBytes)), nil
}

// encodeVarints packs token ids as LEB128 varints so the BPE token
// stream — ids up to the trained vocabulary size, not just bytes —
// survives a pass through a byte-oriented compressor.
func encodeVarints(values []int) []byte {
	buf := make([]byte, len(values)*5)
	pos := 0
	for _, v := range values {
		for v >= 0x80 {
			buf[pos] = byte(v) | 0x80
			v >>= 7
			pos++
		}
		buf[pos] = byte(v)
		pos++
	}
	return buf[:pos]
}

func decodeVarints(data []byte) []int {
	values := make([]int, 0, len(data)/2)
	pos := 0
	for pos < len(data) {
		v, shift := 0, 0
		for pos < len(data) {
			b := data[pos]
			pos++
			v |= int(b&0x7F) << shift
			if b < 0x80 {
				break
			}
			shift += 7
		}
		values = append(values, v)
	}
	return values
}
