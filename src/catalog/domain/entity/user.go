package entity

// User representa un usuario del sistema (cajero, administrador)
type User struct {
	ID    int    `json:"id_usuario"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Role  string `json:"rol"`
}

// IsAdmin reporta si el usuario tiene rol de administrador
func (u *User) IsAdmin() bool {
	return u.Role == "Administrador"
}
