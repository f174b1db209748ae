package common

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestHexRoundTrip(t *testing.T) {
	b := RandBytes(16)
	s := ByteSliceToPureHexStr(b)
	assert.Equal(t, b, HexStrToByteSlice(s))
	assert.Equal(t, b, HexStrToByteSlice(Prepend0xPrefix(s)))
}

func TestBigIntConversions(t *testing.T) {
	n := big.NewInt(500000)
	b32 := BigInt2Bytes32(n)
	assert.Equal(t, n, new(big.Int).SetBytes(b32[:]))

	assert.Equal(t, n, DecStrToBigInt("500000"))
	assert.Nil(t, DecStrToBigInt("not-a-number"))
	assert.Nil(t, HexStrToBigInt("zz"))
}

func TestAddressBytes32(t *testing.T) {
	addr := RandEthAddress()
	b := AddressToBytes32(addr)

	// top 12 bytes are zero padding
	assert.Equal(t, make([]byte, 12), b[:12])
	assert.Equal(t, addr, Bytes32ToAddress(b))
}

func TestMessageIdentity(t *testing.T) {
	emitter := RandBytes32()

	id1 := MessageIdentity(2, emitter, 7)
	id2 := MessageIdentity(2, emitter, 7)
	assert.Equal(t, id1, id2)

	// any field change gives a different identity
	assert.NotEqual(t, id1, MessageIdentity(3, emitter, 7))
	assert.NotEqual(t, id1, MessageIdentity(2, emitter, 8))
	assert.NotEqual(t, id1, MessageIdentity(2, RandBytes32(), 7))
	assert.NotEqual(t, ethcommon.Hash{}, id1)
}
