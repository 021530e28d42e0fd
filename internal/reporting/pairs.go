package reporting

import (
	"fmt"
	"html"
	"strings"
	"time"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/metrics"
)

// RenderPairsReport renders the aggregated DexScreener pairs message. Name,
// symbol and creation time come from the first pair.
func RenderPairsReport(pairs []*domain.MarketPair, agg domain.PairAggregate, now time.Time) string {
	var name, symbol string
	var createdMs *int64
	if len(pairs) > 0 && pairs[0] != nil {
		name = pairs[0].BaseName
		symbol = pairs[0].BaseSymbol
		createdMs = pairs[0].PairCreatedAt
	}

	age := metrics.Sentinel
	if createdMs != nil {
		age = fmt.Sprintf("%d days", metrics.AgeInDays(*createdMs, now))
	}

	var sb strings.Builder
	sb.WriteString("🔍 <b>Aggregated Token Information</b>\n")
	sb.WriteString("📌 Token Details:\n")
	sb.WriteString(fmt.Sprintf("📄 Name: %s\n", text(name)))
	sb.WriteString(fmt.Sprintf("💲 Symbol: %s\n", text(symbol)))
	sb.WriteString(fmt.Sprintf("⚖ Age: %s\n", age))
	sb.WriteString(fmt.Sprintf("💰 Total FDV: $%.2f\n", agg.TotalFDV))
	sb.WriteString(fmt.Sprintf("💰 Total Liquidity: $%.2f\n", agg.TotalLiquidityUSD))
	sb.WriteString(fmt.Sprintf("📈 Average Price: $%.2f\n", agg.AveragePriceUSD))
	sb.WriteString(fmt.Sprintf("🔢 Pairs: %d valid of %d", agg.ValidPairs, agg.TotalPairs))
	return sb.String()
}

// AckMessage acknowledges a valid address before the report is built.
func AckMessage(address string) string {
	return fmt.Sprintf("🔍 Excellent choice! You've provided a valid token address: <code>%s</code>. "+
		"Let me start gathering information about this token for you. Please hang tight!", html.EscapeString(address))
}
