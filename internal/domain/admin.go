package domain

import "time"

// MainAdminUsername is the reserved username of the main admin account.
const MainAdminUsername = "mainadmin"

// AdminAccount represents an admins row.
type AdminAccount struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsMainAdmin reports whether the account holds the reserved main admin username.
func (a *AdminAccount) IsMainAdmin() bool {
	return a != nil && a.Username == MainAdminUsername
}
