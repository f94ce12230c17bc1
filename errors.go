package madgo

// Error is a decoder error code. The high byte carries recoverability:
// a nonzero high byte means the driver may continue with the next
// frame instead of aborting the run.
type Error int

const (
	ErrBufLen  Error = 0x0001 // input buffer too small, or EOF
	ErrBufPtr  Error = 0x0002 // invalid (nil) buffer
	ErrNoMem   Error = 0x0031 // allocation failure

	ErrLostSync      Error = 0x0101 // lost synchronization
	ErrBadLayer      Error = 0x0102 // reserved header layer value
	ErrBadBitrate    Error = 0x0103 // forbidden bitrate value
	ErrBadSampleFreq Error = 0x0104 // reserved sample frequency value
	ErrBadEmphasis   Error = 0x0105 // reserved emphasis value

	ErrBadCRC          Error = 0x0201 // CRC check failed
	ErrBadBitAlloc     Error = 0x0211 // forbidden bit allocation value
	ErrBadScalefactor  Error = 0x0221 // bad scalefactor index
	ErrBadFrameLen     Error = 0x0231 // bad frame length
	ErrBadBigValues    Error = 0x0232 // bad big_values count
	ErrBadBlockType    Error = 0x0233 // reserved block_type
	ErrBadDataPtr      Error = 0x0234 // bad main_data_begin pointer
	ErrBadDataLen      Error = 0x0235 // bad main data length
	ErrBadPart3Len     Error = 0x0236 // bad audio data length
	ErrBadHuffTable    Error = 0x0237 // bad Huffman table select
	ErrBadHuffData     Error = 0x0238 // Huffman data overrun/underrun
	ErrBadStereo       Error = 0x0239 // incompatible block_type for M/S
)

func (e Error) Error() string {
	if s, ok := errorText[e]; ok {
		return s
	}
	return "madgo: unknown error"
}

// Recoverable reports whether the driver may continue decoding after
// this error instead of aborting the run.
func (e Error) Recoverable() bool {
	return e&0xff00 != 0
}

var errorText = map[Error]string{
	ErrBufLen:         "madgo: input buffer too small",
	ErrBufPtr:         "madgo: invalid buffer pointer",
	ErrNoMem:          "madgo: not enough memory",
	ErrLostSync:       "madgo: lost synchronization",
	ErrBadLayer:       "madgo: reserved header layer value",
	ErrBadBitrate:     "madgo: forbidden bitrate value",
	ErrBadSampleFreq:  "madgo: reserved sample frequency value",
	ErrBadEmphasis:    "madgo: reserved emphasis value",
	ErrBadCRC:         "madgo: CRC check failed",
	ErrBadBitAlloc:    "madgo: forbidden bit allocation value",
	ErrBadScalefactor: "madgo: bad scalefactor index",
	ErrBadFrameLen:    "madgo: bad frame length",
	ErrBadBigValues:   "madgo: bad big_values count",
	ErrBadBlockType:   "madgo: reserved block_type",
	ErrBadDataPtr:     "madgo: bad main_data_begin pointer",
	ErrBadDataLen:     "madgo: bad main data length",
	ErrBadPart3Len:    "madgo: bad audio data length",
	ErrBadHuffTable:   "madgo: bad Huffman table select",
	ErrBadHuffData:    "madgo: Huffman data overrun",
	ErrBadStereo:      "madgo: incompatible block_type for M/S stereo",
}
