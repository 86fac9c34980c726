package domain

// Account identifies the money pool a transaction affects. The set is a
// closed enumeration mirroring the account pickers in the app, with Other as
// the extensibility escape hatch.
type Account string

const (
	Cash         Account = "Cash"
	Bank         Account = "Bank"
	CreditCard   Account = "Credit Card"
	DebitCard    Account = "Debit Card"
	MobileMoney  Account = "Mobile Money"
	Savings      Account = "Savings"
	OtherAccount Account = "Other"
)

// Accounts lists every known account label, in presentation order.
func Accounts() []Account {
	return []Account{Cash, Bank, CreditCard, DebitCard, MobileMoney, Savings, OtherAccount}
}

// Valid reports whether a is a known account label. The empty account is
// valid: the field is optional on plain transactions.
func (a Account) Valid() bool {
	if a == "" {
		return true
	}
	for _, known := range Accounts() {
		if a == known {
			return true
		}
	}
	return false
}
