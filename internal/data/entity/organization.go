package entity

type Organization struct {
	Base
	Name     string  `db:"name"`
	Slug     string  `db:"slug"`
	Address  *string `db:"address"`
	Phone    *string `db:"phone"`
	Email    *string `db:"email"`
	TaxID    *string `db:"tax_id"`
	LogoURL  *string `db:"logo_url"`
	IsActive bool    `db:"is_active"`
}
