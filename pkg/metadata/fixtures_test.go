package metadata

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"
)

// EXIF / TIFF

type exifTag struct {
	tag   uint16
	value string
}

// buildTIFF lays out a TIFF header, IFD0, an optional Exif sub-IFD and the
// ASCII values after them. Values are expected to be longer than four bytes.
func buildTIFF(order binary.ByteOrder, ifd0, sub []exifTag) []byte {
	n0 := len(ifd0)
	if len(sub) > 0 {
		n0++
	}
	subOff := 8 + 2 + 12*n0 + 4
	dataOff := subOff
	if len(sub) > 0 {
		dataOff += 2 + 12*len(sub) + 4
	}

	b := make([]byte, dataOff)
	if order == binary.ByteOrder(binary.LittleEndian) {
		copy(b, "II")
	} else {
		copy(b, "MM")
	}
	order.PutUint16(b[2:], 42)
	order.PutUint32(b[4:], 8)

	var data []byte
	writeIFD := func(at int, tags []exifTag, pointer int) {
		n := len(tags)
		if pointer > 0 {
			n++
		}
		order.PutUint16(b[at:], uint16(n))
		p := at + 2
		for _, e := range tags {
			val := append([]byte(e.value), 0)
			order.PutUint16(b[p:], e.tag)
			order.PutUint16(b[p+2:], tiffTypeASCII)
			order.PutUint32(b[p+4:], uint32(len(val)))
			order.PutUint32(b[p+8:], uint32(dataOff+len(data)))
			data = append(data, val...)
			p += 12
		}
		if pointer > 0 {
			order.PutUint16(b[p:], tagExifIFDPointer)
			order.PutUint16(b[p+2:], tiffTypeLong)
			order.PutUint32(b[p+4:], 1)
			order.PutUint32(b[p+8:], uint32(pointer))
			p += 12
		}
		order.PutUint32(b[p:], 0)
	}

	pointer := 0
	if len(sub) > 0 {
		pointer = subOff
	}
	writeIFD(8, ifd0, pointer)
	if len(sub) > 0 {
		writeIFD(subOff, sub, 0)
	}
	return append(b, data...)
}

func jpegWithEXIF(tiff []byte) []byte {
	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xD8})

	app0 := []byte("JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	b.Write([]byte{0xFF, 0xE0})
	_ = binary.Write(&b, binary.BigEndian, uint16(len(app0)+2))
	b.Write(app0)

	payload := append([]byte("Exif\x00\x00"), tiff...)
	b.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(&b, binary.BigEndian, uint16(len(payload)+2))
	b.Write(payload)

	b.Write([]byte{0xFF, 0xDA, 0x00, 0x02, 0xFF, 0xD9})
	return b.Bytes()
}

// ID3v2

func syncsafeBytes(n int) []byte {
	return []byte{byte(n >> 21 & 0x7f), byte(n >> 14 & 0x7f), byte(n >> 7 & 0x7f), byte(n & 0x7f)}
}

func id3Tag(major byte, frames ...[]byte) []byte {
	body := bytes.Join(frames, nil)
	body = append(body, make([]byte, 16)...)
	h := []byte{'I', 'D', '3', major, 0, 0}
	h = append(h, syncsafeBytes(len(body))...)
	return append(h, body...)
}

func id3Frame(major byte, id string, payload []byte) []byte {
	var h []byte
	switch major {
	case 2:
		n := len(payload)
		h = append([]byte(id), byte(n>>16), byte(n>>8), byte(n))
	case 3:
		h = append([]byte(id), 0, 0, 0, 0, 0, 0)
		binary.BigEndian.PutUint32(h[4:], uint32(len(payload)))
	case 4:
		h = append([]byte(id), syncsafeBytes(len(payload))...)
		h = append(h, 0, 0)
	}
	return append(h, payload...)
}

func latin1Text(s string) []byte {
	return append([]byte{0}, s...)
}

func utf16Text(s string) []byte {
	out := []byte{1, 0xFF, 0xFE}
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u), byte(u>>8))
	}
	return append(out, 0, 0)
}

// MP4

func box(typ string, children ...[]byte) []byte {
	body := bytes.Join(children, nil)
	h := make([]byte, 8)
	binary.BigEndian.PutUint32(h, uint32(8+len(body)))
	copy(h[4:], typ)
	return append(h, body...)
}

func ilstDay(value string) []byte {
	return box("\xa9day", box("data", []byte{0, 0, 0, 1, 0, 0, 0, 0}, []byte(value)))
}

func mvhd(created uint32) []byte {
	body := make([]byte, 100)
	binary.BigEndian.PutUint32(body[4:], created)
	binary.BigEndian.PutUint32(body[8:], created)
	binary.BigEndian.PutUint32(body[12:], 1000)
	return box("mvhd", body)
}

// Ogg / FLAC

func vorbisCommentBlock(vendor string, comments ...string) []byte {
	var b bytes.Buffer
	_ = binary.Write(&b, binary.LittleEndian, uint32(len(vendor)))
	b.WriteString(vendor)
	_ = binary.Write(&b, binary.LittleEndian, uint32(len(comments)))
	for _, c := range comments {
		_ = binary.Write(&b, binary.LittleEndian, uint32(len(c)))
		b.WriteString(c)
	}
	return b.Bytes()
}

func oggPageRaw(headerType byte, seq uint32, table, body []byte) []byte {
	h := make([]byte, oggPageHeaderSize)
	copy(h, "OggS")
	h[5] = headerType
	binary.LittleEndian.PutUint32(h[14:], 1)
	binary.LittleEndian.PutUint32(h[18:], seq)
	h[26] = byte(len(table))
	h = append(h, table...)
	return append(h, body...)
}

func oggPage(headerType byte, seq uint32, packets ...[]byte) []byte {
	var table, body []byte
	for _, p := range packets {
		n := len(p)
		for n >= 255 {
			table = append(table, 255)
			n -= 255
		}
		table = append(table, byte(n))
		body = append(body, p...)
	}
	return oggPageRaw(headerType, seq, table, body)
}

func vorbisStream(comments ...string) []byte {
	ident := append([]byte("\x01vorbis"), make([]byte, 23)...)
	comment := append([]byte("\x03vorbis"), vorbisCommentBlock("test vendor", comments...)...)
	comment = append(comment, 1)
	setup := []byte("\x05vorbis")
	out := oggPage(0x02, 0, ident)
	return append(out, oggPage(0, 1, comment, setup)...)
}

func flacStream(comments ...string) []byte {
	out := []byte("fLaC")
	out = append(out, 0x00, 0, 0, 34)
	out = append(out, make([]byte, 34)...)
	block := vorbisCommentBlock("reference libFLAC", comments...)
	n := len(block)
	out = append(out, flacLastBlock|flacBlockVorbisComment, byte(n>>16), byte(n>>8), byte(n))
	return append(out, block...)
}

// RIFF / AIFF

func riffChunk(id string, body []byte) []byte {
	h := make([]byte, 8)
	copy(h, id)
	binary.LittleEndian.PutUint32(h[4:], uint32(len(body)))
	out := append(h, body...)
	if len(body)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

func riffFile(form string, chunks ...[]byte) []byte {
	body := append([]byte(form), bytes.Join(chunks, nil)...)
	h := make([]byte, 8)
	copy(h, "RIFF")
	binary.LittleEndian.PutUint32(h[4:], uint32(len(body)))
	return append(h, body...)
}

func bextChunk(date, clock string) []byte {
	body := make([]byte, 602)
	copy(body[bextDateOffset:], date)
	copy(body[bextTimeOffset:], clock)
	return riffChunk("bext", body)
}

func infoList(pairs ...string) []byte {
	body := []byte("INFO")
	for i := 0; i+1 < len(pairs); i += 2 {
		body = append(body, riffChunk(pairs[i], append([]byte(pairs[i+1]), 0))...)
	}
	return riffChunk("LIST", body)
}

func wavFmt() []byte {
	return riffChunk("fmt ", make([]byte, 16))
}

func aiffChunk(id string, body []byte) []byte {
	h := make([]byte, 8)
	copy(h, id)
	binary.BigEndian.PutUint32(h[4:], uint32(len(body)))
	out := append(h, body...)
	if len(body)%2 == 1 {
		out = append(out, 0)
	}
	return out
}

func aiffFile(form string, chunks ...[]byte) []byte {
	body := append([]byte(form), bytes.Join(chunks, nil)...)
	h := make([]byte, 8)
	copy(h, "FORM")
	binary.BigEndian.PutUint32(h[4:], uint32(len(body)))
	return append(h, body...)
}
