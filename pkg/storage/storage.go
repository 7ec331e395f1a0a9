package storage

// QueryStore is everything the view layer may read. It has no write path.
type QueryStore interface {
	RequestReader
	WalletReader
	AuditReader
}

// Storage defines the root interface for the entire data layer.
// Components should depend on the narrower Transactor or QueryStore instead.
type Storage interface {
	Transactor
	QueryStore
}
