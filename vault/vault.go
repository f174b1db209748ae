// Package vault is the custody and accounting core. Every public method is
// one atomic unit of work: it either fully commits (ledger plus event) or
// leaves no trace. External collaborators (bridge, router) are called
// mid-operation only after the role, pause and balance guards have passed,
// and never get a chance to re-enter.
package vault

import (
	"math/big"
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
	logger "github.com/sirupsen/logrus"

	"github.com/crossyield-io/vault-go/agreement"
	"github.com/crossyield-io/vault-go/ledger"
)

// Config is the static identity and policy of one vault instance.
type Config struct {
	// ChainID is this vault's chain on the bridge network; inbound
	// attestations must name it as their destination chain.
	ChainID uint16

	// VaultAddress is this vault's 32-byte wire address; inbound
	// attestations must name it as their destination address.
	VaultAddress [32]byte

	// Owner receives the bootstrap owner role.
	Owner ethcommon.Address

	// PrincipalAssets are the custody assets the trading ledger accounts
	// against. Usually one stablecoin.
	PrincipalAssets []ethcommon.Address

	// WhitelistSingleHop extends the path whitelist to single-hop swaps.
	// Multi-hop swaps are always whitelisted-only; single-hop routes are
	// exempt by default, kept as an explicit policy switch.
	WhitelistSingleHop bool
}

type Vault struct {
	cfg    *Config
	ledger *ledger.LedgerDB
	bridge agreement.BridgeAdapter
	router agreement.SwapRouter
	events agreement.EventSink

	principal map[ethcommon.Address]bool

	// non-reentrant guard: TryLock instead of Lock so a collaborator
	// calling back in fails fast instead of deadlocking
	guard sync.Mutex
}

func New(cfg *Config, ldb *ledger.LedgerDB, bridge agreement.BridgeAdapter, router agreement.SwapRouter, events agreement.EventSink) (*Vault, error) {
	if bridge == nil {
		return nil, ErrInvalidBridgeAddress
	}
	if router == nil {
		return nil, ErrInvalidRouterAddress
	}
	if events == nil {
		events = &agreement.LogSink{}
	}

	v := &Vault{
		cfg:       cfg,
		ledger:    ldb,
		bridge:    bridge,
		router:    router,
		events:    events,
		principal: make(map[ethcommon.Address]bool),
	}
	for _, asset := range cfg.PrincipalAssets {
		v.principal[asset] = true
	}

	// bootstrap grant; every later grant goes through GrantRole
	if err := ldb.GrantRole(cfg.Owner, agreement.RoleOwner); err != nil {
		return nil, err
	}

	return v, nil
}

// enter takes the non-reentrant guard.
func (v *Vault) enter() error {
	if !v.guard.TryLock() {
		return ErrReentrantCall
	}
	return nil
}

func (v *Vault) exit() {
	v.guard.Unlock()
}

func (v *Vault) requireRole(caller ethcommon.Address, role agreement.Role) error {
	ok, err := v.ledger.HasRole(caller, role)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

func (v *Vault) requireRunning() error {
	paused, err := v.ledger.IsPaused()
	if err != nil {
		return err
	}
	if paused {
		return ErrPaused
	}
	return nil
}

func (v *Vault) isPrincipal(asset ethcommon.Address) bool {
	return v.principal[asset]
}

// -- pause gate --

func (v *Vault) Pause(caller ethcommon.Address) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.exit()

	if err := v.requireRole(caller, agreement.RoleAdmin); err != nil {
		return err
	}
	if err := v.ledger.SetPaused(true); err != nil {
		return err
	}
	v.events.Publish(&agreement.PausedEvent{By: caller})
	logger.WithFields(logger.Fields{"by": caller.Hex()}).Info("vault paused")
	return nil
}

// Unpause is the emergency-unlock path; it works while paused by design of
// the gate, not as an exception.
func (v *Vault) Unpause(caller ethcommon.Address) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.exit()

	if err := v.requireRole(caller, agreement.RoleAdmin); err != nil {
		return err
	}
	if err := v.ledger.SetPaused(false); err != nil {
		return err
	}
	v.events.Publish(&agreement.UnpausedEvent{By: caller})
	logger.WithFields(logger.Fields{"by": caller.Hex()}).Info("vault unpaused")
	return nil
}

// -- access gate --

// GrantRole hands out admin or operator. The owner role exists only through
// the bootstrap grant; it cannot be re-granted here.
func (v *Vault) GrantRole(caller ethcommon.Address, role agreement.Role, account ethcommon.Address) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.exit()

	if err := v.requireRole(caller, agreement.RoleOwner); err != nil {
		return err
	}
	if role == agreement.RoleOwner {
		return ledger.ErrInvalidRole
	}
	if err := v.ledger.GrantRole(account, role); err != nil {
		return err
	}
	v.events.Publish(&agreement.RoleGrantedEvent{Role: role, Account: account, By: caller})
	return nil
}

func (v *Vault) RevokeRole(caller ethcommon.Address, role agreement.Role, account ethcommon.Address) error {
	if err := v.enter(); err != nil {
		return err
	}
	defer v.exit()

	if err := v.requireRole(caller, agreement.RoleOwner); err != nil {
		return err
	}
	if role == agreement.RoleOwner {
		return ledger.ErrInvalidRole
	}
	if err := v.ledger.RevokeRole(account, role); err != nil {
		return err
	}
	v.events.Publish(&agreement.RoleRevokedEvent{Role: role, Account: account, By: caller})
	return nil
}

// -- read surface --

func (v *Vault) CustodyOf(asset ethcommon.Address) (*big.Int, error) {
	return v.ledger.CustodyOf(asset)
}

func (v *Vault) PrincipalAccountOf(asset ethcommon.Address) (*ledger.PrincipalAccount, error) {
	return v.ledger.PrincipalAccountOf(asset)
}

func (v *Vault) AssetLedgerOf(asset ethcommon.Address) (*ledger.AssetLedgerEntry, error) {
	return v.ledger.AssetLedgerOf(asset)
}

func (v *Vault) IsPaused() (bool, error) {
	return v.ledger.IsPaused()
}

func (v *Vault) HasRole(account ethcommon.Address, role agreement.Role) (bool, error) {
	return v.ledger.HasRole(account, role)
}

func (v *Vault) IsPathAllowed(pathHash ethcommon.Hash) (bool, error) {
	return v.ledger.IsPathAllowed(pathHash)
}
