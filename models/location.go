package models

type Country struct {
	ID   int    `json:"id_pais"`
	Name string `json:"nombre_pais"`
}

type City struct {
	ID        int    `json:"id_ciudad"`
	Name      string `json:"nombre_ciudad"`
	CountryID int    `json:"fk_pais_id"`
}

type Address struct {
	ID     int    `json:"id_direccion"`
	Line   string `json:"direccion"`
	CityID int    `json:"fk_ciudad_id"`
	City   *struct {
		Name    string   `json:"nombre_ciudad"`
		Country *Country `json:"pais,omitempty"`
	} `json:"ciudad,omitempty"`
}

type AddressInput struct {
	Line   string `json:"direccion"`
	CityID int    `json:"fk_ciudad_id"`
}
