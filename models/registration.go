package models

// PlayerRegistration is the body of POST /jugadores/registrar.
type PlayerRegistration struct {
	Name      string `json:"nombre"`
	Surname   string `json:"apellido"`
	Phone     string `json:"telefono"`
	Email     string `json:"email"`
	Password  string `json:"contraseña"`
	AddressID int    `json:"fk_direccion_id"`
}

// OrganizerRegistration is the body of POST /auth/register-organizador.
type OrganizerRegistration struct {
	OrgName   string `json:"nombre_organizador"`
	Email     string `json:"email"`
	Password  string `json:"contraseña"`
	AddressID int    `json:"fk_direccion_id"`
}

type PlayerUpdate struct {
	Name      *string `json:"nombre,omitempty"`
	Surname   *string `json:"apellido,omitempty"`
	Phone     *string `json:"telefono,omitempty"`
	AddressID *int    `json:"fk_direccion_id,omitempty"`
	Address   *string `json:"direccion,omitempty"`
}

type OrganizerUpdate struct {
	OrgName   *string `json:"nombre_organizador,omitempty"`
	AddressID *int    `json:"fk_direccion_id,omitempty"`
	Address   *string `json:"direccion,omitempty"`
}

// PhotoResult is the answer of POST /fotos/upload-profile-picture.
type PhotoResult struct {
	URL     string `json:"foto_url"`
	Message string `json:"mensaje"`
}
