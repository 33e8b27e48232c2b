package quote

import (
	"regexp"
	"strings"
)

// Entry maps a display name to a provider symbol.
type Entry struct {
	Name, Symbol string
}

// PopularStocks are the stocks and ETFs offered when adding a holding, display name to ticker.
var PopularStocks = []Entry{
	{"Apple Inc. (AAPL)", "AAPL"},
	{"Microsoft Corp. (MSFT)", "MSFT"},
	{"Alphabet Inc. (GOOGL)", "GOOGL"},
	{"Amazon.com Inc. (AMZN)", "AMZN"},
	{"Tesla Inc. (TSLA)", "TSLA"},
	{"Meta Platforms Inc. (META)", "META"},
	{"NVIDIA Corp. (NVDA)", "NVDA"},
	{"Netflix Inc. (NFLX)", "NFLX"},
	{"Berkshire Hathaway (BRK-B)", "BRK-B"},
	{"JPMorgan Chase & Co. (JPM)", "JPM"},
	{"Johnson & Johnson (JNJ)", "JNJ"},
	{"Visa Inc. (V)", "V"},
	{"Procter & Gamble Co. (PG)", "PG"},
	{"UnitedHealth Group Inc. (UNH)", "UNH"},
	{"Mastercard Inc. (MA)", "MA"},
	{"Home Depot Inc. (HD)", "HD"},
	{"Coca-Cola Co. (KO)", "KO"},
	{"Pfizer Inc. (PFE)", "PFE"},
	{"Walt Disney Co. (DIS)", "DIS"},
	{"Intel Corp. (INTC)", "INTC"},
	{"Salesforce Inc. (CRM)", "CRM"},
	{"Adobe Inc. (ADBE)", "ADBE"},
	{"Cisco Systems Inc. (CSCO)", "CSCO"},
	{"Verizon Communications (VZ)", "VZ"},
	{"Walmart Inc. (WMT)", "WMT"},
	{"S&P 500 ETF (SPY)", "SPY"},
	{"QQQ Nasdaq ETF (QQQ)", "QQQ"},
	{"SPDR S&P 500 ETF Trust (SPUS)", "SPUS"},
}

// PopularCrypto are the cryptocurrencies offered when adding a holding, display name to CoinGecko id.
var PopularCrypto = []Entry{
	{"Bitcoin (BTC)", "bitcoin"},
	{"Ethereum (ETH)", "ethereum"},
	{"Binance Coin (BNB)", "binancecoin"},
	{"XRP (XRP)", "ripple"},
	{"Solana (SOL)", "solana"},
	{"Cardano (ADA)", "cardano"},
	{"Dogecoin (DOGE)", "dogecoin"},
	{"Avalanche (AVAX)", "avalanche-2"},
	{"Polkadot (DOT)", "polkadot"},
	{"Polygon (MATIC)", "matic-network"},
	{"Chainlink (LINK)", "chainlink"},
	{"Litecoin (LTC)", "litecoin"},
	{"Bitcoin Cash (BCH)", "bitcoin-cash"},
	{"Uniswap (UNI)", "uniswap"},
	{"Stellar (XLM)", "stellar"},
	{"VeChain (VET)", "vechain"},
	{"Filecoin (FIL)", "filecoin"},
	{"TRON (TRX)", "tron"},
	{"Ethereum Classic (ETC)", "ethereum-classic"},
	{"Monero (XMR)", "monero"},
}

// binancePairs maps CoinGecko ids to Binance trading pairs.
var binancePairs = map[string]string{
	"bitcoin":          "BTCUSDT",
	"ethereum":         "ETHUSDT",
	"binancecoin":      "BNBUSDT",
	"ripple":           "XRPUSDT",
	"solana":           "SOLUSDT",
	"cardano":          "ADAUSDT",
	"dogecoin":         "DOGEUSDT",
	"avalanche-2":      "AVAXUSDT",
	"polkadot":         "DOTUSDT",
	"matic-network":    "MATICUSDT",
	"chainlink":        "LINKUSDT",
	"litecoin":         "LTCUSDT",
	"bitcoin-cash":     "BCHUSDT",
	"uniswap":          "UNIUSDT",
	"stellar":          "XLMUSDT",
	"vechain":          "VETUSDT",
	"filecoin":         "FILUSDT",
	"tron":             "TRXUSDT",
	"monero":           "XMRUSDT",
	"ethereum-classic": "ETCUSDT",
	"usd-coin":         "USDCUSDT",
	"cosmos":           "ATOMUSDT",
	"algorand":         "ALGOUSDT",
	"tezos":            "XTZUSDT",
}

// stockKeywords resolve common company names typed without a ticker.
var stockKeywords = []Entry{
	{"apple", "AAPL"},
	{"microsoft", "MSFT"},
	{"google", "GOOGL"},
	{"alphabet", "GOOGL"},
	{"amazon", "AMZN"},
	{"tesla", "TSLA"},
	{"nvidia", "NVDA"},
	{"facebook", "META"},
	{"meta", "META"},
	{"netflix", "NFLX"},
}

// tickerInName matches a ticker between parentheses, like "(AAPL)" or "(BRK-B)".
var tickerInName = regexp.MustCompile(`\(([A-Z]{1,5}(?:[-.][A-Z])?)\)`)

// symbolInName matches a crypto symbol between parentheses, like "(BTC)".
var symbolInName = regexp.MustCompile(`\(([A-Za-z0-9]{2,6})\)`)

// StockSymbol returns the ticker for a stock display name.
//
// It tries, in order: the popular stocks table, a ticker between
// parentheses, a company keyword, and finally guesses the ticker from the
// name itself. A guess may designate nothing or another security.
func StockSymbol(name string) string {
	name = strings.TrimSpace(name)
	for _, e := range PopularStocks {
		if e.Name == name {
			return e.Symbol
		}
	}
	if m := tickerInName.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	lower := strings.ToLower(name)
	for _, k := range stockKeywords {
		if strings.Contains(lower, k.Name) {
			return k.Symbol
		}
	}
	guess := strings.ToUpper(name)
	for _, suffix := range []string{" INC.", " CORP.", " CO.", " INC", " CORP"} {
		guess = strings.ReplaceAll(guess, suffix, "")
	}
	return strings.ReplaceAll(guess, " ", "")
}

// CryptoID returns the CoinGecko id for a cryptocurrency display name.
//
// It tries, in order: the popular crypto table, a symbol between
// parentheses, a table name contained in 'name' (or the reverse), and
// finally guesses the id from the name: lower case with dashes.
func CryptoID(name string) string {
	name = strings.TrimSpace(name)
	for _, e := range PopularCrypto {
		if e.Name == name {
			return e.Symbol
		}
	}
	if m := symbolInName.FindStringSubmatch(name); m != nil {
		sym := "(" + strings.ToUpper(m[1]) + ")"
		for _, e := range PopularCrypto {
			if strings.HasSuffix(e.Name, sym) {
				return e.Symbol
			}
		}
	}
	lower := strings.ToLower(name)
	if lower != "" {
		for _, e := range PopularCrypto {
			if lower == baseName(e.Name) || lower == e.Symbol {
				return e.Symbol
			}
		}
		for _, e := range PopularCrypto {
			base := baseName(e.Name)
			if strings.Contains(lower, base) || (len(lower) >= 3 && strings.Contains(base, lower)) {
				return e.Symbol
			}
		}
	}
	return strings.ReplaceAll(lower, " ", "-")
}

// baseName is the lower case display name without its "(SYMBOL)" part.
func baseName(name string) string {
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// BinancePair returns the Binance USDT trading pair of a CoinGecko id.
func BinancePair(id string) string {
	if pair, ok := binancePairs[id]; ok {
		return pair
	}
	return strings.ToUpper(id) + "USDT"
}
