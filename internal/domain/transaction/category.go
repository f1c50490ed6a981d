package transaction

import "strings"

// FallbackCategory is returned for any classification code not in the table.
const FallbackCategory = "Uncategorized"

// categoryTable maps the aggregator's personal-finance classification codes
// to application categories. The table is closed and versioned with the
// aggregator's taxonomy; a new provider code only needs a row here.
var categoryTable = map[string]string{
	"INCOME":                    "Income",
	"TRANSFER_IN":               "Transfer",
	"TRANSFER_OUT":              "Transfer",
	"LOAN_PAYMENTS":             "Payment",
	"BANK_FEES":                 "Bank Fees",
	"ENTERTAINMENT":             "Entertainment",
	"FOOD_AND_DRINK":            "Food and Drink",
	"GENERAL_MERCHANDISE":       "Shopping",
	"HOME_IMPROVEMENT":          "Home Improvement",
	"MEDICAL":                   "Medical",
	"PERSONAL_CARE":             "Personal Care",
	"GENERAL_SERVICES":          "Services",
	"GOVERNMENT_AND_NON_PROFIT": "Government and Non-Profit",
	"TRANSPORTATION":            "Transportation",
	"TRAVEL":                    "Travel",
	"RENT_AND_UTILITIES":        "Rent and Utilities",
}

// MapCategory maps an aggregator classification code to an application
// category. Total over all inputs: unknown or absent codes return
// FallbackCategory, never an error.
func MapCategory(code string) string {
	if name, ok := categoryTable[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return name
	}
	return FallbackCategory
}
