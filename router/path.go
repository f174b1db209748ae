// Package router hosts the exchange-router collaborator: the hop-path
// encoding shared with the external router and a simulated router for
// tests. The vault only sees the agreement.SwapRouter interface.
package router

import (
	"encoding/binary"
	"errors"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// A path is token(20) || fee(3) || token(20) [ || fee(3) || token(20) ]...
// matching the external router's multi-hop calldata encoding.
const (
	addrLength = 20
	feeLength  = 3
	hopLength  = addrLength + feeLength

	minPathLength = addrLength + hopLength
)

var ErrInvalidPath = errors.New("encoded swap path is malformed")

// EncodeSingleHop renders a one-pool route.
func EncodeSingleHop(tokenIn, tokenOut ethcommon.Address, feeTier uint32) []byte {
	return EncodePath([]ethcommon.Address{tokenIn, tokenOut}, []uint32{feeTier})
}

// EncodePath renders a route through len(fees) pools. Panics on mismatched
// slice lengths; callers build these statically.
func EncodePath(tokens []ethcommon.Address, fees []uint32) []byte {
	if len(tokens) < 2 || len(fees) != len(tokens)-1 {
		panic("router: tokens/fees length mismatch")
	}

	buf := make([]byte, 0, addrLength+len(fees)*hopLength)
	buf = append(buf, tokens[0].Bytes()...)
	for i, fee := range fees {
		var fee3 [4]byte
		binary.BigEndian.PutUint32(fee3[:], fee)
		buf = append(buf, fee3[1:]...)
		buf = append(buf, tokens[i+1].Bytes()...)
	}
	return buf
}

// PathEnds extracts the input and output tokens of an encoded path.
func PathEnds(path []byte) (tokenIn, tokenOut ethcommon.Address, err error) {
	if len(path) < minPathLength || (len(path)-addrLength)%hopLength != 0 {
		return ethcommon.Address{}, ethcommon.Address{}, ErrInvalidPath
	}
	tokenIn = ethcommon.BytesToAddress(path[:addrLength])
	tokenOut = ethcommon.BytesToAddress(path[len(path)-addrLength:])
	return tokenIn, tokenOut, nil
}

// HopCount returns the number of pools the path routes through.
func HopCount(path []byte) (int, error) {
	if len(path) < minPathLength || (len(path)-addrLength)%hopLength != 0 {
		return 0, ErrInvalidPath
	}
	return (len(path) - addrLength) / hopLength, nil
}
