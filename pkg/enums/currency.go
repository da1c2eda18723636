package enums

type Currency string

const (
	CurrencyUSD Currency = "USD"
)

func (c Currency) IsValid() bool {
	return c == CurrencyUSD
}
