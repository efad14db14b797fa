// Package number decodes fixed-size integers from binary input.
package number

import (
	"encoding/binary"

	"github.com/agentflare-ai/go-cheatsheet/pkg/parsec"
)

func need(in []byte, n int) error {
	if len(in) < n {
		return parsec.NewError(in, parsec.Eof)
	}
	return nil
}

// U8 decodes one byte.
func U8(in []byte) ([]byte, uint8, error) {
	if err := need(in, 1); err != nil {
		return in, 0, err
	}
	return in[1:], in[0], nil
}

// BeU16 decodes a big-endian uint16.
func BeU16(in []byte) ([]byte, uint16, error) {
	if err := need(in, 2); err != nil {
		return in, 0, err
	}
	return in[2:], binary.BigEndian.Uint16(in), nil
}

// BeU32 decodes a big-endian uint32.
func BeU32(in []byte) ([]byte, uint32, error) {
	if err := need(in, 4); err != nil {
		return in, 0, err
	}
	return in[4:], binary.BigEndian.Uint32(in), nil
}

// LeU16 decodes a little-endian uint16.
func LeU16(in []byte) ([]byte, uint16, error) {
	if err := need(in, 2); err != nil {
		return in, 0, err
	}
	return in[2:], binary.LittleEndian.Uint16(in), nil
}

// LeU32 decodes a little-endian uint32.
func LeU32(in []byte) ([]byte, uint32, error) {
	if err := need(in, 4); err != nil {
		return in, 0, err
	}
	return in[4:], binary.LittleEndian.Uint32(in), nil
}
