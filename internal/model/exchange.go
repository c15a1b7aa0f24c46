package model

import "strings"

// exchanges lists the exchange codes accepted by the provider.
var exchanges = map[string]string{
	// United States
	"US":      "USA Stocks",
	"NYSE":    "New York Stock Exchange",
	"NASDAQ":  "NASDAQ",
	"BATS":    "BATS Global Markets",
	"AMEX":    "NYSE American",
	"NMFQS":   "Nasdaq Mutual Funds",
	"OTCQB":   "OTC Venture Market",
	"OTCQX":   "OTC Best Market",
	"OTCMKTS": "OTC Markets",
	"OTCBB":   "OTC Bulletin Board",
	"OTCGREY": "OTC Grey Market",
	"OTCCE":   "OTC Caveat Emptor",
	"PINK":    "Pink Sheets",

	// Americas
	"TO":  "Toronto Exchange",
	"V":   "TSX Venture Exchange",
	"CN":  "Canadian Securities Exchange",
	"NEO": "NEO Exchange",
	"MX":  "Mexican Exchange",
	"SA":  "Sao Paulo Exchange",
	"BA":  "Buenos Aires Exchange",
	"SN":  "Santiago Exchange",
	"LIM": "Bolsa de Valores de Lima",

	// Europe
	"LSE":   "London Exchange",
	"IL":    "London IL",
	"BE":    "Berlin Exchange",
	"HM":    "Hamburg Exchange",
	"XETRA": "XETRA Exchange",
	"DU":    "Dusseldorf Exchange",
	"MU":    "Munich Exchange",
	"STU":   "Stuttgart Exchange",
	"F":     "Frankfurt Exchange",
	"HA":    "Hanover Exchange",
	"LU":    "Luxembourg Stock Exchange",
	"VI":    "Vienna Exchange",
	"MI":    "Borsa Italiana",
	"PA":    "Euronext Paris",
	"BR":    "Euronext Brussels",
	"MC":    "Madrid Exchange",
	"AS":    "Euronext Amsterdam",
	"LS":    "Euronext Lisbon",
	"IR":    "Irish Exchange",
	"VX":    "Swiss Exchange",
	"SW":    "SIX Swiss Exchange",
	"ST":    "Stockholm Exchange",
	"OL":    "Oslo Stock Exchange",
	"CO":    "Copenhagen Exchange",
	"HE":    "Helsinki Exchange",
	"IC":    "Iceland Exchange",
	"RG":    "Riga Exchange",
	"TL":    "Tallinn Exchange",
	"VS":    "Vilnius Exchange",
	"WAR":   "Warsaw Stock Exchange",
	"BUD":   "Budapest Stock Exchange",
	"PR":    "Prague Stock Exchange",
	"AT":    "Athens Exchange",
	"IS":    "Istanbul Stock Exchange",
	"MCX":   "Moscow Exchange",

	// Middle East and Africa
	"TA":   "Tel Aviv Exchange",
	"JSE":  "Johannesburg Exchange",
	"EGX":  "Egyptian Exchange",
	"SR":   "Saudi Arabia Exchange",
	"XNAI": "Nairobi Securities Exchange",
	"XNSA": "Nigerian Stock Exchange",
	"BRVM": "Regional Securities Exchange",
	"GSE":  "Ghana Stock Exchange",
	"XBOT": "Botswana Stock Exchange",
	"LUSE": "Lusaka Stock Exchange",
	"MSE":  "Malawi Stock Exchange",
	"USE":  "Uganda Securities Exchange",
	"XZIM": "Zimbabwe Stock Exchange",
	"RSE":  "Rwanda Stock Exchange",
	"DSE":  "Dar es Salaam Stock Exchange",

	// Asia Pacific
	"KO":   "Korea Stock Exchange",
	"KQ":   "KOSDAQ",
	"TW":   "Taiwan Exchange",
	"TWO":  "Taiwan OTC Exchange",
	"SHG":  "Shanghai Exchange",
	"SHE":  "Shenzhen Exchange",
	"HK":   "Hong Kong Exchange",
	"AU":   "Australian Securities Exchange",
	"NZ":   "New Zealand Exchange",
	"NSE":  "National Stock Exchange of India",
	"BSE":  "Bombay Exchange",
	"KAR":  "Karachi Stock Exchange",
	"JK":   "Jakarta Exchange",
	"KLSE": "Kuala Lumpur Exchange",
	"BK":   "Thailand Exchange",
	"VN":   "Vietnam Stocks",
	"PSE":  "Philippine Stock Exchange",
	"CM":   "Colombo Stock Exchange",

	// Virtual exchanges
	"FOREX":  "Forex",
	"CC":     "Cryptocurrencies",
	"INDX":   "Indices",
	"COMM":   "Commodities",
	"GBOND":  "Government Bonds",
	"EUFUND": "Europe Fund Virtual Exchange",
	"MONEY":  "Money Market Virtual Exchange",
}

// ValidateExchange checks code against the supported exchange table.
// Codes are case-sensitive, as the provider treats them.
func ValidateExchange(code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrExchangeCodeRequired
	}
	if _, ok := exchanges[code]; !ok {
		return &InvalidExchangeError{Code: code}
	}
	return nil
}

// ExchangeName returns the display name for a supported exchange code.
func ExchangeName(code string) (string, bool) {
	name, ok := exchanges[code]
	return name, ok
}
