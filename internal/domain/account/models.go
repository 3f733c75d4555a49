// Package account defines the stored account snapshot model.
package account

// Account is one bank account as cached from upstream.
type Account struct {
	ID              string
	Name            string
	Type            string
	Currency        string
	CreatedAt       string
	DefaultCategory string
}

// Snapshot is the full account set for one identity at last sync time.
// At most one snapshot per identity exists in storage (replace-on-sync).
type Snapshot struct {
	Identity string
	Accounts []Account
}

// AccountByName returns the account with an exact name match.
func (s *Snapshot) AccountByName(name string) (Account, bool) {
	for _, a := range s.Accounts {
		if a.Name == name {
			return a, true
		}
	}
	return Account{}, false
}
