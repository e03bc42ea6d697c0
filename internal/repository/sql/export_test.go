package sql

import "database/sql"

// GetTxFromProductRepo exposes the transaction a ProductRepository is bound to.
func GetTxFromProductRepo(repo *ProductRepository) *sql.Tx {
	return repo.txn
}

// GetTxFromEventRepo exposes the transaction an EventRepository is bound to.
func GetTxFromEventRepo(repo *EventRepository) *sql.Tx {
	return repo.txn
}
