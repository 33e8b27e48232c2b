package quote

import "testing"

func TestStockSymbol(t *testing.T) {
	tests := []struct{ name, want string }{
		{"Apple Inc. (AAPL)", "AAPL"},
		{"Berkshire Hathaway (BRK-B)", "BRK-B"},
		{"My Broker Pick (XYZ)", "XYZ"},
		{"apple shares", "AAPL"},
		{"Alphabet class A", "GOOGL"},
		{"Acme Corp.", "ACME"},
		{"  Tesla  ", "TSLA"},
	}
	for _, tt := range tests {
		if got := StockSymbol(tt.name); got != tt.want {
			t.Errorf("StockSymbol(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCryptoID(t *testing.T) {
	tests := []struct{ name, want string }{
		{"Bitcoin (BTC)", "bitcoin"},
		{"Avalanche (AVAX)", "avalanche-2"},
		{"my eth (eth)", "ethereum"},
		{"Polygon", "matic-network"},
		{"Cardano staking", "cardano"},
		{"solana", "solana"},
		{"Shiba Inu", "shiba-inu"},
	}
	for _, tt := range tests {
		if got := CryptoID(tt.name); got != tt.want {
			t.Errorf("CryptoID(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestBinancePair(t *testing.T) {
	tests := []struct{ id, want string }{
		{"bitcoin", "BTCUSDT"},
		{"avalanche-2", "AVAXUSDT"},
		{"pepe", "PEPEUSDT"},
	}
	for _, tt := range tests {
		if got := BinancePair(tt.id); got != tt.want {
			t.Errorf("BinancePair(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestPopularTables(t *testing.T) {
	for _, e := range PopularStocks {
		if got := StockSymbol(e.Name); got != e.Symbol {
			t.Errorf("StockSymbol(%q) = %q, want %q", e.Name, got, e.Symbol)
		}
	}
	for _, e := range PopularCrypto {
		if got := CryptoID(e.Name); got != e.Symbol {
			t.Errorf("CryptoID(%q) = %q, want %q", e.Name, got, e.Symbol)
		}
		if _, ok := binancePairs[e.Symbol]; !ok {
			t.Errorf("no binance pair for %q", e.Symbol)
		}
	}
}
