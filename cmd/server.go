// Server = vault core + ledger db + collaborator adapters + http reporter.
// All components are configured via environment variables (strings!).

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/sirupsen/logrus"

	"github.com/crossyield-io/vault-go/bridgeman"
	"github.com/crossyield-io/vault-go/common"
	"github.com/crossyield-io/vault-go/ledger"
	"github.com/crossyield-io/vault-go/reporter"
	"github.com/crossyield-io/vault-go/router"
	"github.com/crossyield-io/vault-go/vault"
)

// Default params for server.
// More often we don't recommend users to tweak those.
// So we list them here.
const (
	// local guardian set for the simulated bridge adapter
	defaultGuardianCount = 7
	defaultSignerSetID   = 1
	defaultBridgeFee     = 0
)

// Keep the configuration's fields as "text" as possible.
// Its easier to load it from env vars or a config file.
type VaultServerConfig struct {
	// vault identity
	ChainID      string // this vault's chain on the bridge network
	VaultAddress string // this vault's 32-byte wire address, hex
	OwnerAddress string // receives the bootstrap owner role

	// accounting
	PrincipalAssets string // comma separated hex addresses

	// bridge side
	BridgeEmitterChain string // chain id the simulated bridge emits from
	BridgeFee          string // flat publish fee, decimal

	// ledger side
	DbFilePath string // db file path

	// Http side
	HttpIp   string // eg. 0.0.0.0
	HttpPort string // eg. 8080
}

// VaultServer holds the objects that consists of the vault server.
type VaultServer struct {
	MyLedgerDb *ledger.LedgerDB
	MyBridge   *bridgeman.SimulatedBridge
	MyRouter   *router.SimulatedRouter
	MyVault    *vault.Vault
	MyReporter *reporter.HttpReporter
}

// NewVaultServer creates a new vault server.
func NewVaultServer(vsc *VaultServerConfig) (*VaultServer, error) {
	// Create sql db, and the ledger over it.
	sqldb, err := sql.Open("sqlite3", vsc.DbFilePath)
	if err != nil {
		logger.Fatalf("failed to open db file: %v", err)
		return nil, err
	}

	myLedgerDb, err := ledger.NewLedgerDB(sqldb)
	if err != nil {
		logger.Fatalf("failed to create ledger db: %v", err)
		return nil, err
	}

	// *** prepare the vault's static identity ***
	chainID, err := strconv.ParseUint(vsc.ChainID, 10, 16)
	if err != nil {
		logger.Fatalf("bad chain id %q: %v", vsc.ChainID, err)
		return nil, err
	}
	if !ethcommon.IsHexAddress(vsc.OwnerAddress) {
		err := fmt.Errorf("bad owner address %q", vsc.OwnerAddress)
		logger.Fatalf("%v", err)
		return nil, err
	}

	emitterChain, err := strconv.ParseUint(vsc.BridgeEmitterChain, 10, 16)
	if err != nil {
		logger.Fatalf("bad bridge emitter chain %q: %v", vsc.BridgeEmitterChain, err)
		return nil, err
	}
	fee := common.DecStrToBigInt(vsc.BridgeFee)
	if fee == nil {
		fee = big.NewInt(defaultBridgeFee)
	}

	// *** collaborator adapters ***
	// The locally signed bridge adapter; swap it for a networked one when
	// the guardian service is deployed.
	myBridge := bridgeman.NewSimulatedBridge(defaultGuardianCount, defaultSignerSetID, uint16(emitterChain), fee)
	myRouter := router.NewSimulatedRouter()

	// *** the vault core ***
	cfg := &vault.Config{
		ChainID:         uint16(chainID),
		VaultAddress:    common.HexStrToBytes32(vsc.VaultAddress),
		Owner:           ethcommon.HexToAddress(vsc.OwnerAddress),
		PrincipalAssets: ParseAddressList(vsc.PrincipalAssets),
	}
	myVault, err := vault.New(cfg, myLedgerDb, myBridge, myRouter, nil)
	if err != nil {
		logger.Fatalf("failed to create vault: %v", err)
		return nil, err
	}
	logger.WithField("owner", cfg.Owner.Hex()).Info("vault owner")
	logger.WithField("chainId", cfg.ChainID).Info("vault chain")

	// *** Setup a http server to report status ***
	httpServer := reporter.NewHttpReporter(
		vsc.HttpIp,
		vsc.HttpPort,
		myLedgerDb,
	)
	// Turn on the http server
	go httpServer.Run()

	// Give it some time to start the http server
	time.Sleep(1 * time.Second)
	// *** End the setup of http server ***

	return &VaultServer{
		MyLedgerDb: myLedgerDb,
		MyBridge:   myBridge,
		MyRouter:   myRouter,
		MyVault:    myVault,
		MyReporter: httpServer,
	}, nil
}

// Create, then start the vault server and wait.
// Press Ctrl-C to kill the server.
func StartVaultServerAndWait(vsc *VaultServerConfig) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up a signal channel to listen for Ctrl-C (SIGINT) or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Launch a new goroutine to handle the signal
	go func() {
		sig := <-sigCh
		fmt.Printf("Received signal: %v, cancelling context...\n", sig)
		cancel()
	}()

	_, err := NewVaultServer(vsc)
	if err != nil {
		logger.Fatalf("failed to create vault server: %v", err)
		return
	}

	// block until the signal handler cancels
	<-ctx.Done()
}
