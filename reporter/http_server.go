// This is a http type of reporter.
// It fetches data from the vault's ledger
// and publishes it on the http routes.

package reporter

import (
	"net/http"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/crossyield-io/vault-go/ledger"
)

const (
	ROUTE_HELLO     = "/hello"
	ROUTE_CUSTODY   = "/custody"
	ROUTE_PRINCIPAL = "/principal"
	ROUTE_ASSET     = "/asset"
	ROUTE_PAUSED    = "/paused"
)

type HttpReporter struct {
	serverIP   string // listen ip
	serverPort string // listen port

	// upstream data source
	ledgerdb *ledger.LedgerDB
}

func NewHttpReporter(serverIP string, serverPort string, ledgerdb *ledger.LedgerDB) *HttpReporter {
	return &HttpReporter{
		serverIP:   serverIP,
		serverPort: serverPort,
		ledgerdb:   ledgerdb,
	}
}

// Hook up routes & handlers
func (h *HttpReporter) SetupRouter() *gin.Engine {
	router := gin.Default()

	// Define routes & handlers
	router.GET(ROUTE_HELLO, Hello)
	router.GET(ROUTE_CUSTODY, h.Custody)
	router.GET(ROUTE_PRINCIPAL, h.Principal)
	router.GET(ROUTE_ASSET, h.Asset)
	router.GET(ROUTE_PAUSED, h.Paused)

	return router
}

// Hook up router & ip:port
func (h *HttpReporter) Run() {
	router := h.SetupRouter()
	address := h.serverIP + ":" + h.serverPort
	if err := router.Run(address); err != nil {
		panic(err)
	}
}

// Example route.
func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "world",
	})
}

// parseAsset pulls the ?asset= query parameter and checks it is a
// well-formed 20-byte hex address.
func parseAsset(c *gin.Context) (ethcommon.Address, bool) {
	raw := c.Query("asset")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset must be provided"})
		return ethcommon.Address{}, false
	}
	if !ethcommon.IsHexAddress(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asset is not a valid address"})
		return ethcommon.Address{}, false
	}
	return ethcommon.HexToAddress(raw), true
}

// Fetch the live custody balance of one asset.
func (h *HttpReporter) Custody(c *gin.Context) {
	asset, ok := parseAsset(c)
	if !ok {
		return
	}

	amount, err := h.ledgerdb.CustodyOf(asset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"asset":  asset.Hex(),
		"amount": amount.String(),
	})
}

// Fetch the principal counters of one asset.
func (h *HttpReporter) Principal(c *gin.Context) {
	asset, ok := parseAsset(c)
	if !ok {
		return
	}

	acc, err := h.ledgerdb.PrincipalAccountOf(asset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"asset":             asset.Hex(),
		"total_deposited":   acc.TotalDeposited.String(),
		"total_withdrawn":   acc.TotalWithdrawn.String(),
		"total_bridged_in":  acc.TotalBridgedIn.String(),
		"total_bridged_out": acc.TotalBridgedOut.String(),
	})
}

// Fetch the trading counters of one asset.
func (h *HttpReporter) Asset(c *gin.Context) {
	asset, ok := parseAsset(c)
	if !ok {
		return
	}

	entry, err := h.ledgerdb.AssetLedgerOf(asset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"asset":              asset.Hex(),
		"total_bought":       entry.TotalBought.String(),
		"total_sold":         entry.TotalSold.String(),
		"principal_spent":    entry.PrincipalSpent.String(),
		"principal_received": entry.PrincipalReceived.String(),
	})
}

// Fetch the pause flag.
func (h *HttpReporter) Paused(c *gin.Context) {
	paused, err := h.ledgerdb.IsPaused()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"paused": paused})
}
