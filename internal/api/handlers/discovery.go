package handlers

import (
	"net/http"

	"github.com/scl-host/sclindexer/internal/config"
	"github.com/scl-host/sclindexer/internal/contract"
)

// coinDrop describes one contract's outstanding claimable emissions, the
// entry shape backing GET /coin_drops.
type coinDrop struct {
	ContractID string `json:"contract_id"`
	Ticker string `json:"ticker"`
	Kind string `json:"kind"`
	AvailableSupply uint64 `json:"available_supply"`
}

// CoinDrops handles GET /coin_drops: every contract with an open airdrop or
// DGE pool still carrying unclaimed tokens.
func (d *Deps) CoinDrops() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
 ids, err := d.Store.ListContractIDs()
 if err != nil {
 writeError(w, http.StatusInternalServerError, config.ErrorIO, err.Error())
 return
 }
 var drops []coinDrop
 for _, id := range ids {
 c, err := d.Store.LoadState(id)
 if err != nil || c == nil {
 continue
 }
 if avail, ok := availableDrop(c); ok {
 drops = append(drops, coinDrop{
 ContractID: c.ContractID,
 Ticker: c.Ticker,
 Kind: string(c.Kind),
 AvailableSupply: avail,
 })
 }
 }
 writeJSON(w, http.StatusOK, drops)
	}
}

// availableDrop reports whether c still has anything left to claim and, if
// so, how much: the number of SCL02 airdrop claims remaining plus the
// unclaimed tokens in its dim-airdrop and DGE pools.
func availableDrop(c *contract.Contract) (uint64, bool) {
	var avail uint64
	if c.TotalAirdrops > c.CurrentAirdrops {
 avail += c.TotalAirdrops - c.CurrentAirdrops
	}
	for _, da := range c.DimAirdrops {
 avail += da.PoolAmount - da.AmountAirdropped
	}
	for _, dge := range c.DGEs {
 avail += dge.PoolAmount - dge.CurrentAmountDropped
	}
	return avail, avail > 0
}

// liquidityPoolSummary is one SCL04 pool's current state, the entry shape
// backing GET /liquidity_pools.
type liquidityPoolSummary struct {
	ContractID string `json:"contract_id"`
	Ticker string `json:"ticker"`
	Pool *contract.LiquidityPool `json:"pool"`
}

// LiquidityPools handles GET /liquidity_pools: every SCL04 contract's AMM
// state.
func (d *Deps) LiquidityPools() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
 ids, err := d.Store.ListContractIDs()
 if err != nil {
 writeError(w, http.StatusInternalServerError, config.ErrorIO, err.Error())
 return
 }
 var pools []liquidityPoolSummary
 for _, id := range ids {
 c, err := d.Store.LoadState(id)
 if err != nil || c == nil || c.LiquidityPool == nil {
 continue
 }
 pools = append(pools, liquidityPoolSummary{
 ContractID: c.ContractID,
 Ticker: c.Ticker,
 Pool: c.LiquidityPool,
 })
 }
 writeJSON(w, http.StatusOK, pools)
	}
}
