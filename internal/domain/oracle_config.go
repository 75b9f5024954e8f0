package domain

// OracleConfig is written once at instantiation and never mutated.
type OracleConfig struct {
	AdminAddress Identity `json:"admin_address"`
}
