package domain

type Customer struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	DNI       string `db:"dni" json:"dni"`
	Address   string `db:"address" json:"address"`
}
