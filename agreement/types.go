// Global agreement on types shared by the vault core and its collaborators.

package agreement

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Role is a capability label carried by an account.
// There is no implicit inheritance between roles; an account that needs
// two capabilities holds two rows in the role table.
type Role string

const (
	RoleOwner    Role = "owner"    // grants/revokes admin and operator
	RoleAdmin    Role = "admin"    // withdraw, pause, path whitelist
	RoleOperator Role = "operator" // bridge-out, swaps
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleOperator:
		return true
	}
	return false
}

// Event is anything the vault announces after a committed state change.
type Event interface {
	Name() string
}

// DepositedEvent fires when principal enters custody.
type DepositedEvent struct {
	Depositor common.Address
	Asset     common.Address
	Amount    *big.Int
}

func (ev *DepositedEvent) Name() string { return "Deposited" }

func (ev *DepositedEvent) String() string {
	return fmt.Sprintf("%+v", *ev)
}

// WithdrawnEvent fires when an admin pulls assets out of custody.
type WithdrawnEvent struct {
	Asset  common.Address
	Amount *big.Int
	Admin  common.Address
}

func (ev *WithdrawnEvent) Name() string { return "Withdrawn" }

func (ev *WithdrawnEvent) String() string {
	return fmt.Sprintf("%+v", *ev)
}

// BridgedOutEvent carries the bridge sequence number; off-chain tooling
// needs it to locate the resulting attestation on the other side.
type BridgedOutEvent struct {
	Asset     common.Address
	Amount    *big.Int
	DestChain uint16
	Recipient [32]byte
	Sequence  uint64
}

func (ev *BridgedOutEvent) Name() string { return "BridgedOut" }

func (ev *BridgedOutEvent) String() string {
	return fmt.Sprintf("%+v", *ev)
}

// BridgedInEvent fires when an inbound attestation settles.
type BridgedInEvent struct {
	Token       common.Address
	Amount      *big.Int
	SourceChain uint16
}

func (ev *BridgedInEvent) Name() string { return "BridgedIn" }

func (ev *BridgedInEvent) String() string {
	return fmt.Sprintf("%+v", *ev)
}

// SwappedEvent fires after a completed swap, buy or sell side.
type SwappedEvent struct {
	TokenIn   common.Address
	TokenOut  common.Address
	AmountIn  *big.Int
	AmountOut *big.Int
}

func (ev *SwappedEvent) Name() string { return "Swapped" }

func (ev *SwappedEvent) String() string {
	return fmt.Sprintf("%+v", *ev)
}

type PathAllowedEvent struct {
	PathHash common.Hash
}

func (ev *PathAllowedEvent) Name() string { return "PathAllowed" }

func (ev *PathAllowedEvent) String() string {
	return fmt.Sprintf("%+v", *ev)
}

type PathDisallowedEvent struct {
	PathHash common.Hash
}

func (ev *PathDisallowedEvent) Name() string { return "PathDisallowed" }

func (ev *PathDisallowedEvent) String() string {
	return fmt.Sprintf("%+v", *ev)
}

type PausedEvent struct {
	By common.Address
}

func (ev *PausedEvent) Name() string { return "Paused" }

func (ev *PausedEvent) String() string {
	return fmt.Sprintf("%+v", *ev)
}

type UnpausedEvent struct {
	By common.Address
}

func (ev *UnpausedEvent) Name() string { return "Unpaused" }

func (ev *UnpausedEvent) String() string {
	return fmt.Sprintf("%+v", *ev)
}

type RoleGrantedEvent struct {
	Role    Role
	Account common.Address
	By      common.Address
}

func (ev *RoleGrantedEvent) Name() string { return "RoleGranted" }

func (ev *RoleGrantedEvent) String() string {
	return fmt.Sprintf("%+v", *ev)
}

type RoleRevokedEvent struct {
	Role    Role
	Account common.Address
	By      common.Address
}

func (ev *RoleRevokedEvent) Name() string { return "RoleRevoked" }

func (ev *RoleRevokedEvent) String() string {
	return fmt.Sprintf("%+v", *ev)
}
