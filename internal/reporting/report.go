// Package reporting renders token reports and user-facing bot messages as
// Telegram HTML.
package reporting

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/metrics"
)

// DescriptionLimit is the number of description characters shown in a report.
const DescriptionLimit = 100

// ReportInput is everything a token report is rendered from.
type ReportInput struct {
	Address        string
	Security       *domain.SecurityProfile
	Overview       *domain.MarketOverview
	BurnPercentage *float64 // nil when enrichment failed
	Now            time.Time
}

// Link is an outbound link rendered at the bottom of a report.
type Link struct {
	Name string
	URL  string
}

// Links returns the explorer and trading links for a token address.
func Links(address string) []Link {
	a := html.EscapeString(address)
	return []Link{
		{"Solscan", "https://solscan.io/token/" + a},
		{"Birdeye", "https://birdeye.so/token/" + a + "?chain=solana"},
		{"DexScreener", "https://dexscreener.com/solana/" + a},
		{"Raydium", "https://raydium.io/swap/?inputMint=sol&amp;outputMint=" + a},
		{"Jupiter", "https://jup.ag/swap/SOL-" + a},
		{"RugCheck", "https://rugcheck.xyz/tokens/" + a},
	}
}

// RenderTokenReport renders the full token report. Every missing field is
// rendered as metrics.Sentinel. The output depends only on its input.
func RenderTokenReport(in ReportInput) string {
	security := in.Security
	if security == nil {
		security = &domain.SecurityProfile{}
	}
	overview := in.Overview
	if overview == nil {
		overview = &domain.MarketOverview{}
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("🪙 <b>%s</b> (%s)\n", text(overview.Name), text(overview.Symbol)))
	sb.WriteString(fmt.Sprintf("<code>%s</code>\n\n", html.EscapeString(in.Address)))

	// Market
	sb.WriteString("📊 <b>Market</b>\n")
	sb.WriteString(fmt.Sprintf("💲 Price: %s\n", price(overview.Price)))
	supply := overview.Supply
	if supply == nil {
		supply = security.TotalSupply
	}
	sb.WriteString(fmt.Sprintf("📦 Supply: %s\n", metrics.FormatOptionalNumber(supply)))
	sb.WriteString(fmt.Sprintf("🏦 Market Cap: %s\n", usd(overview.MarketCap)))
	sb.WriteString(fmt.Sprintf("💧 Liquidity: %s\n\n", usd(overview.Liquidity)))

	// Authorities
	sb.WriteString("🔐 <b>Authorities</b>\n")
	if security.Renounced() {
		sb.WriteString("✅ Ownership renounced\n\n")
	} else {
		owner := html.EscapeString(metrics.ShortenAddress(*security.OwnerAddress))
		sb.WriteString(fmt.Sprintf("👤 Deployer: <code>%s</code>\n", owner))
		sb.WriteString(fmt.Sprintf("🖨 Mint Authority: <code>%s</code>\n\n", owner))
	}

	// Holders
	sb.WriteString("👥 <b>Holders</b>\n")
	sb.WriteString(fmt.Sprintf("Top 10 Balance: %s\n", metrics.FormatOptionalNumber(security.Top10HolderBalance)))
	sb.WriteString(fmt.Sprintf("Top 10 Share: %s\n", percent(security.Top10HolderPercent)))
	sb.WriteString(fmt.Sprintf("Tax: %s%%\n\n", transferFee(security.TransferFee)))

	// Derived
	sb.WriteString(fmt.Sprintf("⏳ Age: %s\n", metrics.Age(security.CreationTime, in.Now)))
	if in.BurnPercentage != nil {
		sb.WriteString(fmt.Sprintf("🔥 LP Burned: %.2f%%\n\n", *in.BurnPercentage))
	} else {
		sb.WriteString(fmt.Sprintf("🔥 LP Burned: %s\n\n", metrics.Sentinel))
	}

	// Description
	sb.WriteString(fmt.Sprintf("📝 %s\n\n", description(overview.Description)))

	// Links
	links := Links(in.Address)
	parts := make([]string, 0, len(links))
	for _, l := range links {
		parts = append(parts, fmt.Sprintf(`<a href="%s">%s</a>`, l.URL, l.Name))
	}
	sb.WriteString("🔗 " + strings.Join(parts, " | "))

	return sb.String()
}

func text(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return metrics.Sentinel
	}
	return html.EscapeString(s)
}

func price(v *float64) string {
	if v == nil {
		return metrics.Sentinel
	}
	return fmt.Sprintf("$%.10f", *v)
}

func usd(v *float64) string {
	if v == nil {
		return metrics.Sentinel
	}
	return "$" + metrics.FormatLargeNumber(*v)
}

func percent(fraction *float64) string {
	if fraction == nil {
		return metrics.Sentinel
	}
	return fmt.Sprintf("%.2f%%", *fraction*100)
}

func transferFee(fee string) string {
	if strings.TrimSpace(fee) == "" {
		return "0"
	}
	return html.EscapeString(fee)
}

// description truncates to DescriptionLimit characters before escaping so
// entities are never cut.
func description(d *string) string {
	if d == nil || strings.TrimSpace(*d) == "" {
		return metrics.Sentinel
	}
	s := strings.TrimSpace(*d)
	if utf8.RuneCountInString(s) > DescriptionLimit {
		runes := []rune(s)
		s = string(runes[:DescriptionLimit]) + "..."
	}
	return html.EscapeString(s)
}
