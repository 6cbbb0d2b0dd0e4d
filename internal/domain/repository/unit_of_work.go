package repository

// TxRepos repositorios atados a una misma transacción. Lo que se escriba con ellos se
// confirma o se descarta en bloque.
type TxRepos struct {
	Movements  MovementRepository
	Balances   BalanceRepository
	Products   ProductRepository
	Reasons    ReasonRepository
	Clients    ClientRepository
	Suppliers  SupplierRepository
	Categories CategoryRepository
}
