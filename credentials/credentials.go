package credentials

// Credential is the access/refresh token pair for an authenticated
// session. Both values are opaque strings; the client stores, attaches
// and replaces them as a pair and never inspects their contents.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Store persists the current credential pair across process restarts.
// Implementations are synchronous and never touch the network. The pair
// is saved and cleared together so a partial clear can never leave a
// mismatched access/refresh combination behind.
type Store interface {
	// Save persists the pair, replacing any previous one.
	Save(cred Credential) error

	// Load returns the stored pair. ok is false when nothing is stored
	// or the store is unreadable; storage trouble reads as absent.
	Load() (cred Credential, ok bool)

	// Clear removes both values. Clearing an empty store is a no-op.
	Clear() error
}
