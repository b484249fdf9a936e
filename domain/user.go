package domain

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

type User struct {
	ID        int64  `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	Password  string `json:"-" db:"password"`
	Role      string `json:"role" db:"role"`
	CreatedAt string `json:"created_at,omitempty" db:"created_at"`
}
