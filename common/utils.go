package common

import (
	"crypto/rand"
	"math/big"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// The returned string has No 0x prefix
func ByteSliceToPureHexStr(b []byte) string {
	return Trim0xPrefix(ethcommon.Bytes2Hex(b))
}

func HexStrToByteSlice(hexStr string) []byte {
	return ethcommon.Hex2Bytes(Trim0xPrefix(hexStr))
}

// HexStrToBytes32 converts a hex string (with/without prefix 0x) to [32]byte
func HexStrToBytes32(hexStr string) [32]byte {
	var bytes32 [32]byte
	copy(bytes32[:], ethcommon.Hex2BytesFixed(Trim0xPrefix(hexStr), 32))
	return bytes32
}

// HexStrToBigInt converts a hex string (with/without prefix 0x) to *big.Int
func HexStrToBigInt(hexStr string) *big.Int {
	bigInt, ok := new(big.Int).SetString(Trim0xPrefix(hexStr), 16)
	if !ok {
		return nil
	}
	return bigInt
}

// BigInt2Bytes32 converts a big int to [32]byte
func BigInt2Bytes32(bigInt *big.Int) [32]byte {
	return [32]byte(ethcommon.LeftPadBytes(bigInt.Bytes(), 32))
}

// DecStrToBigInt converts a base-10 string (how the ledger stores amounts)
// to *big.Int. Returns nil on garbage input.
func DecStrToBigInt(decStr string) *big.Int {
	bigInt, ok := new(big.Int).SetString(decStr, 10)
	if !ok {
		return nil
	}
	return bigInt
}

// Trim 0x or 0X prefix off the string.
func Trim0xPrefix(str string) string {
	s := strings.TrimPrefix(str, "0x")
	return strings.TrimPrefix(s, "0X")
}

func Prepend0xPrefix(str string) string {
	if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
		return str
	}
	return "0x" + str
}

// AddressToBytes32 left-pads a 20-byte evm address into the 32-byte
// form used on the wire by the attestation protocol.
func AddressToBytes32(addr ethcommon.Address) [32]byte {
	var b [32]byte
	copy(b[12:], addr.Bytes())
	return b
}

// Bytes32ToAddress takes the low 20 bytes of a wire address.
func Bytes32ToAddress(b [32]byte) ethcommon.Address {
	return ethcommon.BytesToAddress(b[12:])
}

// RandBytes32 generates [32]byte with random values
func RandBytes32() [32]byte {
	var b [32]byte
	n, err := rand.Read(b[:])

	if err != nil {
		return [32]byte{}
	}
	if n != 32 {
		return [32]byte{}
	}

	return b
}

func RandBytes(n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil
	}
	return b
}

func RandBigInt(byteNum int) *big.Int {
	b := RandBytes(byteNum)
	return new(big.Int).SetBytes(b)
}

func RandEthAddress() ethcommon.Address {
	return ethcommon.BytesToAddress(RandBytes(20))
}
