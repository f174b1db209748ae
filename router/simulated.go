package router

import (
	"errors"
	"math/big"
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

var ErrNoLiquidity = errors.New("router has no quote for this pair")

type pair struct {
	in  ethcommon.Address
	out ethcommon.Address
}

// SimulatedRouter implements agreement.SwapRouter with programmable fixed
// quotes per pair. It deliberately does not enforce minOut: the vault owns
// that check, and tests need the router to return a disappointing amount.
type SimulatedRouter struct {
	mu     sync.Mutex
	quotes map[pair]*big.Int

	// Callback, when set, runs in the middle of every swap. The vault's
	// reentrancy test uses it to call back into the vault.
	Callback func() error
}

func NewSimulatedRouter() *SimulatedRouter {
	return &SimulatedRouter{quotes: make(map[pair]*big.Int)}
}

// SetQuote fixes the output amount the router returns for a pair,
// regardless of input size.
func (sr *SimulatedRouter) SetQuote(tokenIn, tokenOut ethcommon.Address, out *big.Int) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.quotes[pair{tokenIn, tokenOut}] = new(big.Int).Set(out)
}

func (sr *SimulatedRouter) quoteFor(tokenIn, tokenOut ethcommon.Address) (*big.Int, error) {
	sr.mu.Lock()
	out, ok := sr.quotes[pair{tokenIn, tokenOut}]
	sr.mu.Unlock()
	if !ok {
		return nil, ErrNoLiquidity
	}
	if sr.Callback != nil {
		if err := sr.Callback(); err != nil {
			return nil, err
		}
	}
	return new(big.Int).Set(out), nil
}

func (sr *SimulatedRouter) ExactInputSingle(tokenIn, tokenOut ethcommon.Address, feeTier uint32, amountIn, minOut *big.Int) (*big.Int, error) {
	return sr.quoteFor(tokenIn, tokenOut)
}

func (sr *SimulatedRouter) ExactInput(encodedPath []byte, amountIn, minOut *big.Int) (*big.Int, error) {
	tokenIn, tokenOut, err := PathEnds(encodedPath)
	if err != nil {
		return nil, err
	}
	return sr.quoteFor(tokenIn, tokenOut)
}
