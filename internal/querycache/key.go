package querycache

import "strings"

// Key identifies a cached query. The first element names the resource, the
// second is always the owning uid, the rest narrow the query.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "/")
}

func (k Key) id() string {
	return strings.Join(k, "\x00")
}

// HasPrefix reports whether k equals prefix or extends it.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

const (
	ResourceAccounts     = "accounts"
	ResourceTransactions = "transactions"
	ResourcePreferences  = "preferences"
)

func AccountsKey(uid string) Key {
	return Key{ResourceAccounts, uid}
}

// TransactionsKey with no parts is the prefix covering every transaction list
// of the user.
func TransactionsKey(uid string, parts ...string) Key {
	return append(Key{ResourceTransactions, uid}, parts...)
}

func PreferencesKey(uid string) Key {
	return Key{ResourcePreferences, uid}
}

// OwnedBy matches every key belonging to uid.
func OwnedBy(uid string) func(Key) bool {
	return func(k Key) bool {
		return len(k) > 1 && k[1] == uid
	}
}
