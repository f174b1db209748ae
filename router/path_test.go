package router

import (
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/crossyield-io/vault-go/common"
)

func TestEncodeSingleHop(t *testing.T) {
	a := common.RandEthAddress()
	b := common.RandEthAddress()

	path := EncodeSingleHop(a, b, 3000)
	assert.Len(t, path, minPathLength)

	// fee tier 3000 = 0x000bb8 sits between the tokens
	assert.Equal(t, []byte{0x00, 0x0b, 0xb8}, path[addrLength:addrLength+feeLength])

	in, out, err := PathEnds(path)
	assert.NoError(t, err)
	assert.Equal(t, a, in)
	assert.Equal(t, b, out)

	hops, err := HopCount(path)
	assert.NoError(t, err)
	assert.Equal(t, 1, hops)
}

func TestEncodeMultiHop(t *testing.T) {
	a := common.RandEthAddress()
	b := common.RandEthAddress()
	c := common.RandEthAddress()

	path := EncodePath([]ethcommon.Address{a, b, c}, []uint32{500, 10000})
	in, out, err := PathEnds(path)
	assert.NoError(t, err)
	assert.Equal(t, a, in)
	assert.Equal(t, c, out)

	hops, err := HopCount(path)
	assert.NoError(t, err)
	assert.Equal(t, 2, hops)

	// distinct routes hash to distinct identities
	other := EncodePath([]ethcommon.Address{a, c, b}, []uint32{500, 10000})
	assert.NotEqual(t, common.PathIdentity(path), common.PathIdentity(other))
}

func TestMalformedPath(t *testing.T) {
	a := common.RandEthAddress()
	b := common.RandEthAddress()
	path := EncodeSingleHop(a, b, 3000)

	_, _, err := PathEnds(path[:len(path)-1])
	assert.ErrorIs(t, err, ErrInvalidPath)
	_, _, err = PathEnds(nil)
	assert.ErrorIs(t, err, ErrInvalidPath)
	_, err = HopCount(path[1:])
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestSimulatedRouterQuotes(t *testing.T) {
	a := common.RandEthAddress()
	b := common.RandEthAddress()
	sr := NewSimulatedRouter()

	_, err := sr.ExactInputSingle(a, b, 3000, big.NewInt(100), big.NewInt(1))
	assert.ErrorIs(t, err, ErrNoLiquidity)

	sr.SetQuote(a, b, big.NewInt(999))
	out, err := sr.ExactInputSingle(a, b, 3000, big.NewInt(100), big.NewInt(1))
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(999), out)

	// multi-hop resolves the pair from the path ends
	path := EncodeSingleHop(a, b, 3000)
	out, err = sr.ExactInput(path, big.NewInt(100), big.NewInt(1))
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(999), out)
}
